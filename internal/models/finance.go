package models

// Donation represents money received by the club. The API also calls it income.
type Donation struct {
	ID int64 `json:"id" db:"id"`

	// ContributorID references the paying user; nil for guests.
	ContributorID *int64 `json:"contributor_id" db:"contributor_id"`

	// ContributorName is the free-text payer name; set for guests.
	ContributorName *string `json:"contributor_name" db:"contributor_name"`

	IsGuest bool    `json:"is_guest" db:"is_guest"`
	Amount  float64 `json:"amount" db:"amount"`
	Notes   *string `json:"notes" db:"notes"`
	IsPaid  bool    `json:"is_paid" db:"is_paid"`

	// DonatedAt is the Unix timestamp of the payment. Monthly dues are
	// backdated to the first of their month.
	DonatedAt int64 `json:"donated_at" db:"donated_at"`

	// ContributorFullName resolves the guest name or the user's full name.
	ContributorFullName *string `json:"contributor_full_name" db:"contributor_full_name"`
}

// ExpenseCategory classifies an expense.
type ExpenseCategory string

const (
	CategoryEquipment   ExpenseCategory = "equipment"
	CategoryVenue       ExpenseCategory = "venue"
	CategoryMaintenance ExpenseCategory = "maintenance"
	CategoryOther       ExpenseCategory = "other"
)

// Valid reports whether c is a known category.
func (c ExpenseCategory) Valid() bool {
	switch c {
	case CategoryEquipment, CategoryVenue, CategoryMaintenance, CategoryOther:
		return true
	}
	return false
}

// Expense represents money spent by the club.
type Expense struct {
	ID             int64            `json:"id" db:"id"`
	Description    string           `json:"description" db:"description"`
	Amount         float64          `json:"amount" db:"amount"`
	Category       *ExpenseCategory `json:"category" db:"category"`
	Notes          *string          `json:"notes" db:"notes"`
	RecordedBy     int64            `json:"recorded_by" db:"recorded_by"`
	RecordedByName *string          `json:"recorded_by_name" db:"recorded_by_name"`
	IsPaid         bool             `json:"is_paid" db:"is_paid"`
	RecordedAt     int64            `json:"recorded_at" db:"recorded_at"`
}

// FinanceSettingsID is the key of the singleton settings row.
const FinanceSettingsID int64 = 1

// FinanceSettings holds the club's rates.
type FinanceSettings struct {
	ID                 int64   `json:"id" db:"id"`
	PlayerMonthlyRate  float64 `json:"player_monthly_rate" db:"player_monthly_rate"`
	PlayerMonthlyYear  *int    `json:"player_monthly_year" db:"player_monthly_year"`
	PlayerMonthlyMonth *int    `json:"player_monthly_month" db:"player_monthly_month"`
	GuestDailyRate     float64 `json:"guest_daily_rate" db:"guest_daily_rate"`
}

// MonthlyTarget reports whether the settings name a full year+month+rate
// for which player dues should be applied.
func (s *FinanceSettings) MonthlyTarget() bool {
	return s.PlayerMonthlyRate > 0 && s.PlayerMonthlyYear != nil && s.PlayerMonthlyMonth != nil
}

// FinanceSummary aggregates paid donations and expenses.
// RemainingFund is always TotalDonations - TotalExpenses.
type FinanceSummary struct {
	TotalDonations  float64 `json:"total_donations"`
	TotalExpenses   float64 `json:"total_expenses"`
	RemainingFund   float64 `json:"remaining_fund"`
	Donations30Days float64 `json:"donations_30_days"`
	Expenses30Days  float64 `json:"expenses_30_days"`
}

// Contributor is one row of the top contributors ranking.
type Contributor struct {
	Name          *string `json:"name" db:"name"`
	TotalDonated  float64 `json:"total_donated" db:"total_donated"`
	DonationCount int64   `json:"donation_count" db:"donation_count"`
}

// SearchResult is a player or guest matched by name.
// Guests have no ID; their Name doubles as identity.
type SearchResult struct {
	ID       int64  `json:"id,omitempty" db:"id"`
	FullName string `json:"full_name" db:"full_name"`
	Username string `json:"username,omitempty" db:"username"`
	Role     Role   `json:"role,omitempty" db:"role"`
	Name     string `json:"name,omitempty" db:"-"`
	IsGuest  bool   `json:"is_guest" db:"-"`
}

// MonthlyIncome describes one application of monthly player dues.
type MonthlyIncome struct {
	PlayerIDs []int64
	Amount    float64
	Year      int
	Month     int
}
