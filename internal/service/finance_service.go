package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/badsession/badsession/internal/apperr"
	"github.com/badsession/badsession/internal/calculator"
	"github.com/badsession/badsession/internal/metrics"
	"github.com/badsession/badsession/internal/models"
	"github.com/badsession/badsession/internal/storage"
)

const (
	topContributorsLimit = 10
	searchLimit          = 10
)

// Search kinds.
const (
	SearchPlayer = "player"
	SearchGuest  = "guest"
)

// FinanceService keeps the club ledger.
type FinanceService struct {
	store   storage.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewFinanceService creates a finance service. metrics may be nil.
func NewFinanceService(store storage.Store, m *metrics.Metrics, logger *slog.Logger) *FinanceService {
	return &FinanceService{store: store, metrics: m, logger: logger, now: time.Now}
}

// DonationInput carries the editable fields of an income record.
// Guests are identified by ContributorName, players by ContributorID.
type DonationInput struct {
	ContributorID   *int64
	ContributorName string
	IsGuest         bool
	Amount          float64
	Notes           *string
	IsPaid          bool
}

// ExpenseInput carries the editable fields of an expense.
type ExpenseInput struct {
	Description string
	Amount      float64
	Category    string
	Notes       *string
	IsPaid      bool
}

// SettingsInput replaces the finance settings.
type SettingsInput struct {
	PlayerMonthlyRate  float64
	PlayerMonthlyYear  *int
	PlayerMonthlyMonth *int
	GuestDailyRate     float64
}

// donation validates in and builds the stored record.
func (s *FinanceService) donation(ctx context.Context, in DonationInput) (*models.Donation, error) {
	if in.Amount <= 0 {
		return nil, apperr.Validation("amount must be greater than 0")
	}

	d := &models.Donation{
		IsGuest: in.IsGuest,
		Amount:  in.Amount,
		Notes:   optionalText(in.Notes),
		IsPaid:  in.IsPaid,
	}

	if in.IsGuest {
		name := strings.TrimSpace(in.ContributorName)
		if name == "" {
			return nil, apperr.Validation("contributor name is required for guests")
		}
		d.ContributorName = &name
		return d, nil
	}

	if in.ContributorID == nil || *in.ContributorID <= 0 {
		return nil, apperr.Validation("contributor ID is required for players")
	}
	user, err := s.store.GetUserByID(ctx, *in.ContributorID)
	if err != nil {
		return nil, apperr.Internal("failed to look up contributor", err)
	}
	if user == nil {
		return nil, apperr.NotFound("contributor")
	}
	d.ContributorID = in.ContributorID
	return d, nil
}

// RecordDonation records income. Also exposed as "income".
func (s *FinanceService) RecordDonation(ctx context.Context, actor Actor, in DonationInput) (*models.Donation, error) {
	d, err := s.donation(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateDonation(ctx, d); err != nil {
		s.logger.Error("CreateDonation failed", "error", err)
		return nil, storeError(err, "contributor", "record income")
	}

	s.metrics.IncomeCreated(metrics.SourceManual, 1)
	s.logger.Info("Income recorded", "donation_id", d.ID, "amount", d.Amount, "guest", d.IsGuest, "by", actor.UserID)
	return d, nil
}

// UpdateDonation overwrites an income record.
func (s *FinanceService) UpdateDonation(ctx context.Context, id int64, in DonationInput) (*models.Donation, error) {
	d, err := s.donation(ctx, in)
	if err != nil {
		return nil, err
	}
	d.ID = id

	if err := s.store.UpdateDonation(ctx, d); err != nil {
		return nil, storeError(err, "income record", "update income record")
	}
	s.logger.Info("Income updated", "donation_id", id)
	return d, nil
}

// DeleteDonation removes an income record.
func (s *FinanceService) DeleteDonation(ctx context.Context, id int64) error {
	if err := s.store.DeleteDonation(ctx, id); err != nil {
		return storeError(err, "income record", "delete income record")
	}
	s.logger.Info("Income deleted", "donation_id", id)
	return nil
}

// ListDonations returns every income record, newest first.
func (s *FinanceService) ListDonations(ctx context.Context) ([]models.Donation, error) {
	donations, err := s.store.ListDonations(ctx, 0)
	if err != nil {
		return nil, apperr.Internal("failed to fetch income", err)
	}
	return donations, nil
}

// MarkDonationPaid sets is_paid on an income record.
func (s *FinanceService) MarkDonationPaid(ctx context.Context, id int64) error {
	if err := s.store.SetDonationPaid(ctx, id); err != nil {
		return storeError(err, "income record", "mark income as paid")
	}
	return nil
}

// ToggleDonationPaid flips is_paid and returns the new value.
func (s *FinanceService) ToggleDonationPaid(ctx context.Context, id int64) (bool, error) {
	paid, err := s.store.ToggleDonationPaid(ctx, id)
	if err != nil {
		return false, storeError(err, "income record", "toggle income status")
	}
	return paid, nil
}

func parseCategory(raw string, required bool) (*models.ExpenseCategory, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			return nil, apperr.Validation("category is required")
		}
		return nil, nil
	}
	category := models.ExpenseCategory(strings.ToLower(raw))
	if !category.Valid() {
		return nil, apperr.Validation("category must be one of equipment, venue, maintenance, other")
	}
	return &category, nil
}

func (s *FinanceService) expense(in ExpenseInput, categoryRequired bool) (*models.Expense, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, apperr.Validation("description is required")
	}
	if in.Amount <= 0 {
		return nil, apperr.Validation("amount must be greater than 0")
	}
	category, err := parseCategory(in.Category, categoryRequired)
	if err != nil {
		return nil, err
	}
	return &models.Expense{
		Description: description,
		Amount:      in.Amount,
		Category:    category,
		Notes:       optionalText(in.Notes),
		IsPaid:      in.IsPaid,
	}, nil
}

// RecordExpense records money spent by the caller.
func (s *FinanceService) RecordExpense(ctx context.Context, actor Actor, in ExpenseInput) (*models.Expense, error) {
	e, err := s.expense(in, false)
	if err != nil {
		return nil, err
	}
	e.RecordedBy = actor.UserID

	if err := s.store.CreateExpense(ctx, e); err != nil {
		s.logger.Error("CreateExpense failed", "error", err)
		return nil, apperr.Internal("failed to record expense", err)
	}
	s.logger.Info("Expense recorded", "expense_id", e.ID, "amount", e.Amount, "by", actor.UserID)
	return e, nil
}

// UpdateExpense overwrites an expense. Category is required here.
func (s *FinanceService) UpdateExpense(ctx context.Context, id int64, in ExpenseInput) (*models.Expense, error) {
	e, err := s.expense(in, true)
	if err != nil {
		return nil, err
	}
	e.ID = id

	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return nil, storeError(err, "expense record", "update expense record")
	}
	s.logger.Info("Expense updated", "expense_id", id)
	return e, nil
}

// DeleteExpense removes an expense.
func (s *FinanceService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return storeError(err, "expense record", "delete expense record")
	}
	s.logger.Info("Expense deleted", "expense_id", id)
	return nil
}

// ListExpenses returns every expense, newest first.
func (s *FinanceService) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	expenses, err := s.store.ListExpenses(ctx, 0)
	if err != nil {
		return nil, apperr.Internal("failed to fetch expenses", err)
	}
	return expenses, nil
}

// ToggleExpensePaid flips is_paid and returns the new value.
func (s *FinanceService) ToggleExpensePaid(ctx context.Context, id int64) (bool, error) {
	paid, err := s.store.ToggleExpensePaid(ctx, id)
	if err != nil {
		return false, storeError(err, "expense record", "toggle expense status")
	}
	return paid, nil
}

// Summary totals paid income and expenses, overall and for the last 30 days.
func (s *FinanceService) Summary(ctx context.Context) (*models.FinanceSummary, error) {
	summary, err := s.store.Summary(ctx, calculator.WindowStart(s.now()))
	if err != nil {
		return nil, apperr.Internal("failed to get financial summary", err)
	}
	return summary, nil
}

// TopContributors ranks the ten largest contributors.
func (s *FinanceService) TopContributors(ctx context.Context) ([]models.Contributor, error) {
	contributors, err := s.store.TopContributors(ctx, topContributorsLimit)
	if err != nil {
		return nil, apperr.Internal("failed to get top contributors", err)
	}
	return contributors, nil
}

// Search finds players or guests by name.
func (s *FinanceService) Search(ctx context.Context, kind, query string) ([]models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if kind == "" || query == "" {
		return nil, apperr.Validation("search type and query are required")
	}

	switch kind {
	case SearchPlayer:
		results, err := s.store.SearchUsers(ctx, query, searchLimit)
		if err != nil {
			return nil, apperr.Internal("search failed", err)
		}
		return results, nil

	case SearchGuest:
		names, err := s.store.SearchGuests(ctx, query, searchLimit)
		if err != nil {
			return nil, apperr.Internal("search failed", err)
		}
		results := make([]models.SearchResult, len(names))
		for i, name := range names {
			results[i] = models.SearchResult{Name: name, FullName: name, IsGuest: true}
		}
		return results, nil

	default:
		return nil, apperr.Validation("search type must be player or guest")
	}
}

// GetSettings returns the finance settings.
func (s *FinanceService) GetSettings(ctx context.Context) (*models.FinanceSettings, error) {
	settings, err := s.store.GetFinanceSettings(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to get finance settings", err)
	}
	return settings, nil
}

// UpdateSettings saves the rates. When the monthly rate, year and month are
// all set, dues are applied to every Player in the same transaction.
// Returns the saved settings and the number of dues created.
func (s *FinanceService) UpdateSettings(ctx context.Context, in SettingsInput) (*models.FinanceSettings, int, error) {
	if in.PlayerMonthlyRate < 0 || in.GuestDailyRate < 0 {
		return nil, 0, apperr.Validation("rates cannot be negative")
	}
	if (in.PlayerMonthlyYear == nil) != (in.PlayerMonthlyMonth == nil) {
		return nil, 0, apperr.Validation("player monthly year and month must be given together")
	}
	if in.PlayerMonthlyYear != nil {
		if err := calculator.ValidatePeriod(*in.PlayerMonthlyYear, *in.PlayerMonthlyMonth); err != nil {
			return nil, 0, apperr.Validation("%s", err.Error())
		}
	}

	settings := &models.FinanceSettings{
		PlayerMonthlyRate:  in.PlayerMonthlyRate,
		PlayerMonthlyYear:  in.PlayerMonthlyYear,
		PlayerMonthlyMonth: in.PlayerMonthlyMonth,
		GuestDailyRate:     in.GuestDailyRate,
	}
	created, err := s.store.UpdateFinanceSettings(ctx, settings)
	if err != nil {
		s.logger.Error("UpdateFinanceSettings failed", "error", err)
		return nil, 0, apperr.Internal("failed to update settings", err)
	}

	s.metrics.IncomeCreated(metrics.SourceMonthlyDue, created)
	s.logger.Info("Finance settings updated",
		"player_monthly_rate", settings.PlayerMonthlyRate,
		"guest_daily_rate", settings.GuestDailyRate,
		"dues_created", created,
	)
	return settings, created, nil
}

// ApplyPlayerIncome creates monthly dues for the given players unless any of
// them already has dues for that month and amount. Returns the created count.
func (s *FinanceService) ApplyPlayerIncome(ctx context.Context, income models.MonthlyIncome) (int, error) {
	if len(income.PlayerIDs) == 0 || income.Amount <= 0 {
		return 0, apperr.Validation("missing required fields: player_ids, amount, year, month")
	}
	if err := calculator.ValidatePeriod(income.Year, income.Month); err != nil {
		return 0, apperr.Validation("%s", err.Error())
	}

	created, err := s.store.ApplyMonthlyIncome(ctx, income)
	if err != nil {
		s.logger.Error("ApplyMonthlyIncome failed", "error", err)
		return 0, apperr.Internal("failed to apply player income rate", err)
	}

	s.metrics.IncomeCreated(metrics.SourceMonthlyDue, created)
	s.logger.Info("Player income applied",
		"players", len(income.PlayerIDs),
		"year", income.Year,
		"month", income.Month,
		"created", created,
	)
	return created, nil
}
