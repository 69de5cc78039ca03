package models

// Dashboard is the read-only rollup shown on the home page.
type Dashboard struct {
	PlayerCount int64 `json:"player_count"`
	GuestCount  int64 `json:"guest_count"`

	FinanceSummary

	RecentDonations []Donation `json:"recent_donations"`
	RecentExpenses  []Expense  `json:"recent_expenses"`
	RecentSessions  []Session  `json:"recent_sessions"`
}
