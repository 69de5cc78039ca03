package api

import (
	"github.com/gofiber/fiber/v2"
)

type createSessionRequest struct {
	SessionDate string `json:"session_date" validate:"required"`
	SessionTime string `json:"session_time" validate:"required"`
	Location    string `json:"location" validate:"required"`
}

func (s *Server) listSessions(c *fiber.Ctx) error {
	sessions, err := s.services.Sessions.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(sessions)
}

func (s *Server) getSession(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	detail, err := s.services.Sessions.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

func (s *Server) createSession(c *fiber.Ctx) error {
	var req createSessionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := s.services.Sessions.Create(c.UserContext(), actor(c), req.SessionDate, req.SessionTime, req.Location)
	if err != nil {
		return err
	}
	return created(c, fiber.Map{
		"message":    "Session created successfully",
		"session_id": session.ID,
		"session":    session,
	})
}

func (s *Server) deleteSession(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := s.services.Sessions.Delete(c.UserContext(), actor(c), id); err != nil {
		return err
	}
	return message(c, "Session deleted successfully", nil)
}
