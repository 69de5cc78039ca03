package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/badsession/badsession/internal/apperr"
	"github.com/badsession/badsession/internal/models"
	"github.com/badsession/badsession/internal/storage"
)

const (
	sessionDateLayout = "2006-01-02"
	sessionTimeLayout = "15:04"
)

// SessionService schedules sessions and reports on them.
type SessionService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewSessionService creates a session service.
func NewSessionService(store storage.Store, logger *slog.Logger) *SessionService {
	return &SessionService{store: store, logger: logger}
}

// Create schedules a session. Date must be YYYY-MM-DD and time HH:MM
// (seconds are accepted and dropped).
func (s *SessionService) Create(ctx context.Context, actor Actor, date, clock, location string) (*models.Session, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	location = strings.TrimSpace(location)

	if date == "" || clock == "" || location == "" {
		return nil, apperr.Validation("session date, time and location are required")
	}
	if _, err := time.Parse(sessionDateLayout, date); err != nil {
		return nil, apperr.Validation("session date must be in YYYY-MM-DD format")
	}
	clock, ok := normalizeClock(clock)
	if !ok {
		return nil, apperr.Validation("session time must be in HH:MM format")
	}

	session := &models.Session{
		SessionDate: date,
		SessionTime: clock,
		Location:    location,
		CreatedBy:   actor.UserID,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		s.logger.Error("CreateSession failed", "error", err)
		return nil, apperr.Internal("failed to create session", err)
	}

	s.logger.Info("Session created", "session_id", session.ID, "date", date, "by", actor.UserID)

	created, err := s.store.GetSession(ctx, session.ID)
	if err != nil {
		return nil, storeError(err, "session", "load session")
	}
	return created, nil
}

func normalizeClock(clock string) (string, bool) {
	for _, layout := range []string{sessionTimeLayout, "15:04:05"} {
		if t, err := time.Parse(layout, clock); err == nil {
			return t.Format(sessionTimeLayout), true
		}
	}
	return "", false
}

// List returns every session, newest first.
func (s *SessionService) List(ctx context.Context) ([]models.Session, error) {
	sessions, err := s.store.ListSessions(ctx, 0)
	if err != nil {
		s.logger.Error("ListSessions failed", "error", err)
		return nil, apperr.Internal("failed to list sessions", err)
	}
	return sessions, nil
}

// Get returns a session with its attendance.
func (s *SessionService) Get(ctx context.Context, id int64) (*models.SessionDetail, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, storeError(err, "session", "get session")
	}

	attendance, err := s.store.ListSessionAttendance(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to get session", err)
	}

	return &models.SessionDetail{Session: *session, Attendance: attendance}, nil
}

// Delete removes a session together with its attendance and matches.
func (s *SessionService) Delete(ctx context.Context, actor Actor, id int64) error {
	if err := s.store.DeleteSession(ctx, id); err != nil {
		return storeError(err, "session", "delete session")
	}
	s.logger.Info("Session deleted", "session_id", id, "by", actor.UserID)
	return nil
}
