package models

import "time"

// CheckInTimeLayout is the display format for check-in timestamps.
const CheckInTimeLayout = "2006-01-02 15:04:05"

// Attendance is a single check-in at a session.
// Exactly one of UserID (player) or GuestName (guest) is set, matching IsGuest.
type Attendance struct {
	ID        int64   `json:"id" db:"id"`
	SessionID int64   `json:"session_id" db:"session_id"`
	UserID    *int64  `json:"user_id" db:"user_id"`
	GuestName *string `json:"guest_name" db:"guest_name"`
	IsGuest   bool    `json:"is_guest" db:"is_guest"`

	// CheckedInBy is the player who vouched for a guest. Nil on self check-ins.
	CheckedInBy *int64 `json:"checked_in_by" db:"checked_in_by"`

	CheckInTime int64 `json:"check_in_time" db:"check_in_time"`
}

// OwnedBy reports whether userID may edit or delete this check-in:
// the player on their own row, or the voucher on a guest row.
func (a *Attendance) OwnedBy(userID int64) bool {
	if a.IsGuest {
		return a.CheckedInBy != nil && *a.CheckedInBy == userID
	}
	return a.UserID != nil && *a.UserID == userID
}

// AttendanceRecord is an attendance row joined with display names.
type AttendanceRecord struct {
	Attendance

	// Name is the player's full name or the guest name.
	Name            *string `json:"name" db:"name"`
	CheckedInByName *string `json:"checked_in_by_name" db:"checked_in_by_name"`

	FormattedCheckInTime string `json:"formatted_check_in_time" db:"-"`
}

// FormatCheckInTime fills FormattedCheckInTime from CheckInTime.
func (r *AttendanceRecord) FormatCheckInTime() {
	r.FormattedCheckInTime = time.Unix(r.CheckInTime, 0).UTC().Format(CheckInTimeLayout)
}

// AttendanceHistory is one past attendance joined to its session.
type AttendanceHistory struct {
	ID          int64  `json:"id" db:"id"`
	SessionID   int64  `json:"session_id" db:"session_id"`
	SessionDate string `json:"session_date" db:"session_date"`
	SessionTime string `json:"session_time" db:"session_time"`
	Location    string `json:"location" db:"location"`
	CheckInTime int64  `json:"check_in_time" db:"check_in_time"`
}
