package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/badsession/badsession/internal/apperr"
	"github.com/badsession/badsession/internal/metrics"
	"github.com/badsession/badsession/internal/models"
	"github.com/badsession/badsession/internal/storage"
)

// AttendanceService records who showed up to which session.
type AttendanceService struct {
	store   storage.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewAttendanceService creates an attendance service. metrics may be nil.
func NewAttendanceService(store storage.Store, m *metrics.Metrics, logger *slog.Logger) *AttendanceService {
	return &AttendanceService{store: store, metrics: m, logger: logger}
}

// CheckInRequest is either a self check-in or a guest vouched for by the caller.
type CheckInRequest struct {
	SessionID   int64
	SelfCheckIn bool
	GuestName   string
}

// CheckIn records attendance. A guest check-in also records the guest's
// daily fee when one is configured.
func (s *AttendanceService) CheckIn(ctx context.Context, actor Actor, req CheckInRequest) (*models.Attendance, error) {
	guestName := strings.TrimSpace(req.GuestName)

	if req.SessionID <= 0 {
		return nil, apperr.Validation("session ID is required")
	}
	if req.SelfCheckIn && guestName != "" {
		return nil, apperr.Validation("cannot use guest name for self check-in")
	}
	if !req.SelfCheckIn && guestName == "" {
		return nil, apperr.Validation("guest name is required for guest check-in")
	}

	attendance := &models.Attendance{SessionID: req.SessionID}
	kind := metrics.CheckInSelf
	if req.SelfCheckIn {
		attendance.UserID = &actor.UserID
	} else {
		kind = metrics.CheckInGuest
		attendance.GuestName = &guestName
		attendance.IsGuest = true
		attendance.CheckedInBy = &actor.UserID
	}

	fee, err := s.store.CheckIn(ctx, attendance)
	switch {
	case errors.Is(err, storage.ErrConflict):
		return nil, apperr.Conflict("already checked in to this session")
	case errors.Is(err, storage.ErrUnknownUser):
		return nil, apperr.Authentication("account no longer exists")
	case errors.Is(err, storage.ErrNotFound):
		return nil, apperr.NotFound("session")
	case err != nil:
		s.logger.Error("CheckIn failed", "session_id", req.SessionID, "user_id", actor.UserID, "error", err)
		return nil, apperr.Internal("check-in failed", err)
	}

	s.metrics.CheckIn(kind)
	if fee != nil {
		s.metrics.IncomeCreated(metrics.SourceGuestFee, 1)
	}
	s.logger.Info("Checked in",
		"session_id", req.SessionID,
		"attendance_id", attendance.ID,
		"kind", kind,
		"by", actor.UserID,
		"guest_fee", fee != nil,
	)
	return attendance, nil
}

// List returns every check-in, newest first.
func (s *AttendanceService) List(ctx context.Context) ([]models.AttendanceRecord, error) {
	records, err := s.store.ListAttendance(ctx)
	if err != nil {
		s.logger.Error("ListAttendance failed", "error", err)
		return nil, apperr.Internal("failed to fetch attendance", err)
	}
	return records, nil
}

// owned loads a check-in and checks that the caller may change it.
func (s *AttendanceService) owned(ctx context.Context, actor Actor, id int64, verb string) (*models.Attendance, error) {
	attendance, err := s.store.GetAttendance(ctx, id)
	if err != nil {
		return nil, storeError(err, "attendance record", "load attendance")
	}
	if !attendance.OwnedBy(actor.UserID) {
		if attendance.IsGuest {
			return nil, apperr.Authorization("you can only " + verb + " guest check-ins you created")
		}
		return nil, apperr.Authorization("you can only " + verb + " your own check-in")
	}
	return attendance, nil
}

// UpdateGuestName renames the guest on a check-in the caller vouched for.
func (s *AttendanceService) UpdateGuestName(ctx context.Context, actor Actor, id int64, guestName string) error {
	guestName = strings.TrimSpace(guestName)
	if guestName == "" {
		return apperr.Validation("guest name is required")
	}

	attendance, err := s.owned(ctx, actor, id, "edit")
	if err != nil {
		return err
	}
	if !attendance.IsGuest {
		return apperr.Validation("only guest check-ins can be renamed")
	}

	if err := s.store.UpdateGuestName(ctx, id, guestName); err != nil {
		return storeError(err, "attendance record", "update attendance")
	}
	s.logger.Info("Attendance updated", "attendance_id", id, "by", actor.UserID)
	return nil
}

// Delete removes a check-in owned by the caller.
func (s *AttendanceService) Delete(ctx context.Context, actor Actor, id int64) error {
	if _, err := s.owned(ctx, actor, id, "delete"); err != nil {
		return err
	}
	if err := s.store.DeleteAttendance(ctx, id); err != nil {
		return storeError(err, "attendance record", "delete attendance")
	}
	s.logger.Info("Attendance deleted", "attendance_id", id, "by", actor.UserID)
	return nil
}

// PlayerHistory lists a player's check-ins, newest session first.
func (s *AttendanceService) PlayerHistory(ctx context.Context, playerID int64) ([]models.AttendanceHistory, error) {
	history, err := s.store.PlayerHistory(ctx, playerID)
	if err != nil {
		return nil, apperr.Internal("failed to retrieve attendance history", err)
	}
	return history, nil
}

// GuestHistory lists a guest's check-ins, newest session first.
func (s *AttendanceService) GuestHistory(ctx context.Context, guestName string) ([]models.AttendanceHistory, error) {
	guestName = strings.TrimSpace(guestName)
	if guestName == "" {
		return nil, apperr.Validation("guest name is required")
	}
	history, err := s.store.GuestHistory(ctx, guestName)
	if err != nil {
		return nil, apperr.Internal("failed to retrieve guest attendance history", err)
	}
	return history, nil
}
