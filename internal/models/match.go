package models

// MatchType determines how many players each team fields.
type MatchType string

const (
	MatchSingles      MatchType = "Singles"
	MatchDoubles      MatchType = "Doubles"
	MatchMixedDoubles MatchType = "Mixed Doubles"
)

// Valid reports whether t is a known match type.
func (t MatchType) Valid() bool {
	switch t {
	case MatchSingles, MatchDoubles, MatchMixedDoubles:
		return true
	}
	return false
}

// MatchStatus tracks a match through play.
type MatchStatus string

const (
	StatusPending    MatchStatus = "Pending"
	StatusInProgress MatchStatus = "In Progress"
	StatusCompleted  MatchStatus = "Completed"
)

// Valid reports whether s is a known status.
func (s MatchStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Team is one side of a match.
type Team string

const (
	TeamA Team = "Team A"
	TeamB Team = "Team B"
)

// Valid reports whether t is one of the two sides.
func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

// Match is a numbered game within a session, joined with its result.
type Match struct {
	ID          int64       `json:"id" db:"id"`
	SessionID   int64       `json:"session_id" db:"session_id"`
	MatchNumber int         `json:"match_number" db:"match_number"`
	MatchType   MatchType   `json:"match_type" db:"match_type"`
	Status      MatchStatus `json:"status" db:"status"`
	CreatedAt   int64       `json:"created_at" db:"created_at"`

	TeamAScore int   `json:"team_a_score" db:"team_a_score"`
	TeamBScore int   `json:"team_b_score" db:"team_b_score"`
	Winner     *Team `json:"winner" db:"winner"`

	Players []MatchPlayer `json:"players" db:"-"`
}

// MatchPlayer tags a player or guest with a team in a match.
type MatchPlayer struct {
	ID        int64   `json:"id" db:"id"`
	MatchID   int64   `json:"match_id" db:"match_id"`
	UserID    *int64  `json:"user_id" db:"user_id"`
	GuestName *string `json:"guest_name" db:"guest_name"`
	IsGuest   bool    `json:"is_guest" db:"is_guest"`
	Team      Team    `json:"team" db:"team"`

	// Name resolves the user's full name or the guest name.
	Name *string `json:"name" db:"name"`
}

// MatchResult is the score update applied to a match.
type MatchResult struct {
	TeamAScore int
	TeamBScore int
	Winner     *Team

	// Status, when non-nil, is applied together with the scores.
	Status *MatchStatus
}

// MatchPatch is a partial update of a match. Nil fields are left unchanged.
type MatchPatch struct {
	MatchType *MatchType
	Status    *MatchStatus
}

// Empty reports whether the patch changes nothing.
func (p MatchPatch) Empty() bool {
	return p.MatchType == nil && p.Status == nil
}
