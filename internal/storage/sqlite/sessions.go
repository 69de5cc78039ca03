package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/badsession/badsession/internal/models"
	"github.com/badsession/badsession/internal/storage"
)

// sessionSelect joins the creator name and counts attendance in one pass.
const sessionSelect = `
	SELECT s.id, s.session_date, s.session_time, s.location,
	       COALESCE(s.created_by, 0) AS created_by, u.full_name AS created_by_name,
	       s.created_at, COUNT(a.id) AS attendance_count
	FROM sessions s
	LEFT JOIN users u ON u.id = s.created_by
	LEFT JOIN attendance a ON a.session_id = s.id`

// CreateSession persists a new session and sets its ID.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *models.Session) error {
	if session.CreatedAt == 0 {
		session.CreatedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_date, session_time, location, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		session.SessionDate, session.SessionTime, session.Location, session.CreatedBy, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read session id: %w", err)
	}
	session.ID = id
	return nil
}

// GetSession retrieves a session with its creator name and attendance count.
func (s *SQLiteStore) GetSession(ctx context.Context, id int64) (*models.Session, error) {
	session := &models.Session{}
	err := s.db.GetContext(ctx, session, sessionSelect+`
	WHERE s.id = ?
	GROUP BY s.id`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// ListSessions returns sessions newest first. A limit of zero returns all.
func (s *SQLiteStore) ListSessions(ctx context.Context, limit int) ([]models.Session, error) {
	if limit <= 0 {
		limit = -1
	}

	sessions := []models.Session{}
	err := s.db.SelectContext(ctx, &sessions, sessionSelect+`
	GROUP BY s.id
	ORDER BY s.session_date DESC, s.session_time DESC, s.id DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession removes a session; its attendance and matches cascade.
func (s *SQLiteStore) DeleteSession(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return checkAffected(res, "session")
}
