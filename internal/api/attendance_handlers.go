package api

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/badsession/badsession/internal/apperr"
	"github.com/badsession/badsession/internal/service"
)

type checkInRequest struct {
	SessionID     int64  `json:"session_id" validate:"required,gt=0"`
	IsSelfCheckIn bool   `json:"is_self_checkin"`
	GuestName     string `json:"guest_name" validate:"required_if=IsSelfCheckIn false"`
}

type updateAttendanceRequest struct {
	GuestName string `json:"guest_name" validate:"required"`
}

func (s *Server) listAttendance(c *fiber.Ctx) error {
	records, err := s.services.Attendance.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (s *Server) checkIn(c *fiber.Ctx) error {
	var req checkInRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	attendance, err := s.services.Attendance.CheckIn(c.UserContext(), actor(c), service.CheckInRequest{
		SessionID:   req.SessionID,
		SelfCheckIn: req.IsSelfCheckIn,
		GuestName:   req.GuestName,
	})
	if err != nil {
		return err
	}

	msg := "Guest check-in successful"
	if req.IsSelfCheckIn {
		msg = "Self check-in successful"
	}
	return created(c, fiber.Map{
		"message":       msg,
		"attendance_id": attendance.ID,
	})
}

func (s *Server) playerHistory(c *fiber.Ctx) error {
	id, err := paramID(c, "player_id")
	if err != nil {
		return err
	}
	history, err := s.services.Attendance.PlayerHistory(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(history)
}

func (s *Server) guestHistory(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("guest_name"))
	if err != nil || name == "" {
		return apperr.Validation("guest name is required")
	}
	history, err := s.services.Attendance.GuestHistory(c.UserContext(), name)
	if err != nil {
		return err
	}
	return c.JSON(history)
}

func (s *Server) updateAttendance(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req updateAttendanceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := s.services.Attendance.UpdateGuestName(c.UserContext(), actor(c), id, req.GuestName); err != nil {
		return err
	}
	return message(c, "Attendance record updated successfully", nil)
}

func (s *Server) deleteAttendance(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := s.services.Attendance.Delete(c.UserContext(), actor(c), id); err != nil {
		return err
	}
	return message(c, "Attendance record deleted successfully", nil)
}
