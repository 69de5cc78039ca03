package models

// Session represents one scheduled badminton session.
type Session struct {
	ID int64 `json:"id" db:"id"`

	// SessionDate is the calendar date in YYYY-MM-DD form.
	SessionDate string `json:"session_date" db:"session_date"`

	// SessionTime is the start time in HH:MM form.
	SessionTime string `json:"session_time" db:"session_time"`

	Location string `json:"location" db:"location"`

	// CreatedBy is the admin who scheduled the session.
	CreatedBy     int64   `json:"created_by" db:"created_by"`
	CreatedByName *string `json:"created_by_name" db:"created_by_name"`

	CreatedAt int64 `json:"created_at" db:"created_at"`

	// AttendanceCount is derived from the attendance table.
	AttendanceCount int64 `json:"attendance_count" db:"attendance_count"`
}

// SessionDetail is a session together with its full attendance list.
type SessionDetail struct {
	Session
	Attendance []AttendanceRecord `json:"attendance"`
}
