package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/badsession/badsession/internal/models"
	"github.com/badsession/badsession/internal/storage"
)

// GuestFeeNote is written on donations created by guest check-ins.
const GuestFeeNote = "Auto-recorded from guest check-in"

const attendanceSelect = `
	SELECT a.id, a.session_id, a.user_id, a.guest_name, a.is_guest, a.checked_in_by, a.check_in_time,
	       COALESCE(u.full_name, a.guest_name) AS name,
	       voucher.full_name AS checked_in_by_name
	FROM attendance a
	LEFT JOIN users u ON u.id = a.user_id
	LEFT JOIN users voucher ON voucher.id = a.checked_in_by`

const historySelect = `
	SELECT a.id, s.id AS session_id, s.session_date, s.session_time, s.location, a.check_in_time
	FROM attendance a
	JOIN sessions s ON s.id = a.session_id`

// CheckIn records the attendance and, for guests, the daily fee in one
// transaction.
func (s *SQLiteStore) CheckIn(ctx context.Context, attendance *models.Attendance) (*models.Donation, error) {
	if attendance.CheckInTime == 0 {
		attendance.CheckInTime = time.Now().Unix()
	}

	var fee *models.Donation
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.GetContext(ctx, &exists, `SELECT 1 FROM sessions WHERE id = ?`, attendance.SessionID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("session %d: %w", attendance.SessionID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to look up session: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO attendance (session_id, user_id, guest_name, is_guest, checked_in_by, check_in_time)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			attendance.SessionID, attendance.UserID, attendance.GuestName,
			attendance.IsGuest, attendance.CheckedInBy, attendance.CheckInTime,
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("already checked in: %w", storage.ErrConflict)
		}
		// The session was checked above, so only a user reference can fail.
		if isForeignKeyViolation(err) {
			return storage.ErrUnknownUser
		}
		if err != nil {
			return fmt.Errorf("failed to insert attendance: %w", err)
		}
		if attendance.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read attendance id: %w", err)
		}

		if !attendance.IsGuest {
			return nil
		}

		var rate float64
		if err := tx.GetContext(ctx, &rate,
			`SELECT guest_daily_rate FROM finance_settings WHERE id = ?`, models.FinanceSettingsID); err != nil {
			return fmt.Errorf("failed to read guest daily rate: %w", err)
		}
		if rate <= 0 {
			return nil
		}

		note := GuestFeeNote
		fee = &models.Donation{
			ContributorName: attendance.GuestName,
			IsGuest:         true,
			Amount:          rate,
			Notes:           &note,
			DonatedAt:       attendance.CheckInTime,
		}
		return insertDonation(ctx, tx, fee)
	})
	if err != nil {
		return nil, err
	}
	return fee, nil
}

// GetAttendance retrieves a single check-in.
func (s *SQLiteStore) GetAttendance(ctx context.Context, id int64) (*models.Attendance, error) {
	attendance := &models.Attendance{}
	err := s.db.GetContext(ctx, attendance,
		`SELECT id, session_id, user_id, guest_name, is_guest, checked_in_by, check_in_time
		 FROM attendance WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("attendance %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return attendance, nil
}

// ListAttendance returns every check-in, newest first.
func (s *SQLiteStore) ListAttendance(ctx context.Context) ([]models.AttendanceRecord, error) {
	return s.selectAttendance(ctx, attendanceSelect+`
	ORDER BY a.check_in_time DESC, a.id DESC`)
}

// ListSessionAttendance returns the check-ins of one session in arrival order.
func (s *SQLiteStore) ListSessionAttendance(ctx context.Context, sessionID int64) ([]models.AttendanceRecord, error) {
	return s.selectAttendance(ctx, attendanceSelect+`
	WHERE a.session_id = ?
	ORDER BY a.check_in_time, a.id`, sessionID)
}

func (s *SQLiteStore) selectAttendance(ctx context.Context, query string, args ...any) ([]models.AttendanceRecord, error) {
	records := []models.AttendanceRecord{}
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	for i := range records {
		records[i].FormatCheckInTime()
	}
	return records, nil
}

// UpdateGuestName renames the guest on a guest check-in.
func (s *SQLiteStore) UpdateGuestName(ctx context.Context, id int64, guestName string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE attendance SET guest_name = ? WHERE id = ? AND is_guest = 1`, guestName, id)
	if err != nil {
		return fmt.Errorf("failed to update guest name: %w", err)
	}
	return checkAffected(res, "guest attendance")
}

// DeleteAttendance removes a check-in.
func (s *SQLiteStore) DeleteAttendance(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM attendance WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	return checkAffected(res, "attendance")
}

// PlayerHistory lists a player's own check-ins, newest session first.
func (s *SQLiteStore) PlayerHistory(ctx context.Context, userID int64) ([]models.AttendanceHistory, error) {
	return s.selectHistory(ctx, historySelect+`
	WHERE a.user_id = ? AND a.is_guest = 0
	ORDER BY s.session_date DESC, s.session_time DESC, a.id DESC`, userID)
}

// GuestHistory lists the check-ins recorded under a guest name, newest session first.
func (s *SQLiteStore) GuestHistory(ctx context.Context, guestName string) ([]models.AttendanceHistory, error) {
	return s.selectHistory(ctx, historySelect+`
	WHERE a.guest_name = ? AND a.is_guest = 1
	ORDER BY s.session_date DESC, s.session_time DESC, a.id DESC`, guestName)
}

func (s *SQLiteStore) selectHistory(ctx context.Context, query string, args ...any) ([]models.AttendanceHistory, error) {
	history := []models.AttendanceHistory{}
	if err := s.db.SelectContext(ctx, &history, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get attendance history: %w", err)
	}
	return history, nil
}

// CountDistinctGuests returns how many different guest names have attended.
func (s *SQLiteStore) CountDistinctGuests(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(DISTINCT guest_name) FROM attendance WHERE is_guest = 1`)
	if err != nil {
		return 0, fmt.Errorf("failed to count guests: %w", err)
	}
	return n, nil
}

// SearchGuests returns distinct guest names containing query.
func (s *SQLiteStore) SearchGuests(ctx context.Context, query string, limit int) ([]string, error) {
	names := []string{}
	err := s.db.SelectContext(ctx, &names,
		`SELECT DISTINCT guest_name FROM attendance
		 WHERE is_guest = 1 AND guest_name LIKE ? ESCAPE '\'
		 ORDER BY guest_name
		 LIMIT ?`,
		"%"+escapeLike(query)+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search guests: %w", err)
	}
	return names, nil
}
