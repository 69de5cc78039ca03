package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/badsession/badsession/internal/calculator"
	"github.com/badsession/badsession/internal/models"
	"github.com/badsession/badsession/internal/storage"
)

const donationSelect = `
	SELECT d.id, d.contributor_id, d.contributor_name, d.is_guest, d.amount, d.notes, d.is_paid, d.donated_at,
	       CASE WHEN d.is_guest THEN d.contributor_name ELSE u.full_name END AS contributor_full_name
	FROM donations d
	LEFT JOIN users u ON u.id = d.contributor_id`

const expenseSelect = `
	SELECT e.id, e.description, e.amount, e.category, e.notes,
	       COALESCE(e.recorded_by, 0) AS recorded_by, u.full_name AS recorded_by_name,
	       e.is_paid, e.recorded_at
	FROM expenses e
	LEFT JOIN users u ON u.id = e.recorded_by`

func insertDonation(ctx context.Context, db sqlx.ExecerContext, donation *models.Donation) error {
	if donation.DonatedAt == 0 {
		donation.DonatedAt = time.Now().Unix()
	}

	res, err := db.ExecContext(ctx,
		`INSERT INTO donations (contributor_id, contributor_name, is_guest, amount, notes, is_paid, donated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		donation.ContributorID, donation.ContributorName, donation.IsGuest,
		donation.Amount, donation.Notes, donation.IsPaid, donation.DonatedAt,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("contributor: %w", storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to insert donation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read donation id: %w", err)
	}
	donation.ID = id
	return nil
}

// CreateDonation records income and sets its ID.
func (s *SQLiteStore) CreateDonation(ctx context.Context, donation *models.Donation) error {
	return insertDonation(ctx, s.db, donation)
}

// UpdateDonation overwrites the editable fields of a donation.
func (s *SQLiteStore) UpdateDonation(ctx context.Context, donation *models.Donation) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE donations
		 SET amount = ?, notes = ?, contributor_id = ?, contributor_name = ?, is_guest = ?
		 WHERE id = ?`,
		donation.Amount, donation.Notes, donation.ContributorID, donation.ContributorName,
		donation.IsGuest, donation.ID,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("contributor: %w", storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update donation: %w", err)
	}
	return checkAffected(res, "donation")
}

// DeleteDonation removes a donation.
func (s *SQLiteStore) DeleteDonation(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM donations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete donation: %w", err)
	}
	return checkAffected(res, "donation")
}

// ListDonations returns donations newest first. A limit of zero returns all.
func (s *SQLiteStore) ListDonations(ctx context.Context, limit int) ([]models.Donation, error) {
	if limit <= 0 {
		limit = -1
	}

	donations := []models.Donation{}
	err := s.db.SelectContext(ctx, &donations, donationSelect+`
	ORDER BY d.donated_at DESC, d.id DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return donations, nil
}

// SetDonationPaid marks a donation as paid.
func (s *SQLiteStore) SetDonationPaid(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE donations SET is_paid = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark donation paid: %w", err)
	}
	return checkAffected(res, "donation")
}

// ToggleDonationPaid flips is_paid and returns the new value.
func (s *SQLiteStore) ToggleDonationPaid(ctx context.Context, id int64) (bool, error) {
	return s.togglePaid(ctx, "donations", "donation", id)
}

// ToggleExpensePaid flips is_paid and returns the new value.
func (s *SQLiteStore) ToggleExpensePaid(ctx context.Context, id int64) (bool, error) {
	return s.togglePaid(ctx, "expenses", "expense", id)
}

// togglePaid flips the flag in a single statement so concurrent toggles
// never read a stale value. table is always a package constant.
func (s *SQLiteStore) togglePaid(ctx context.Context, table, what string, id int64) (bool, error) {
	var paid bool
	err := s.db.GetContext(ctx, &paid,
		`UPDATE `+table+` SET is_paid = 1 - is_paid WHERE id = ? RETURNING is_paid`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("%s %d: %w", what, id, storage.ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("failed to toggle %s paid: %w", what, err)
	}
	return paid, nil
}

// CreateExpense records an expense and sets its ID.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.RecordedAt == 0 {
		expense.RecordedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (description, amount, category, notes, recorded_by, is_paid, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.Description, expense.Amount, expense.Category, expense.Notes,
		expense.RecordedBy, expense.IsPaid, expense.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read expense id: %w", err)
	}
	expense.ID = id
	return nil
}

// UpdateExpense overwrites the editable fields of an expense.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET amount = ?, description = ?, category = ?, notes = ? WHERE id = ?`,
		expense.Amount, expense.Description, expense.Category, expense.Notes, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return checkAffected(res, "expense")
}

// DeleteExpense removes an expense.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return checkAffected(res, "expense")
}

// ListExpenses returns expenses newest first. A limit of zero returns all.
func (s *SQLiteStore) ListExpenses(ctx context.Context, limit int) ([]models.Expense, error) {
	if limit <= 0 {
		limit = -1
	}

	expenses := []models.Expense{}
	err := s.db.SelectContext(ctx, &expenses, expenseSelect+`
	ORDER BY e.recorded_at DESC, e.id DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// Summary sums paid donations and expenses overall and since the given time.
// All four sums are read in one statement so they describe the same snapshot.
func (s *SQLiteStore) Summary(ctx context.Context, since int64) (*models.FinanceSummary, error) {
	summary := &models.FinanceSummary{}
	err := s.db.QueryRowxContext(ctx,
		`SELECT
		   (SELECT TOTAL(amount) FROM donations WHERE is_paid = 1),
		   (SELECT TOTAL(amount) FROM expenses WHERE is_paid = 1),
		   (SELECT TOTAL(amount) FROM donations WHERE is_paid = 1 AND donated_at >= ?),
		   (SELECT TOTAL(amount) FROM expenses WHERE is_paid = 1 AND recorded_at >= ?)`,
		since, since,
	).Scan(&summary.TotalDonations, &summary.TotalExpenses, &summary.Donations30Days, &summary.Expenses30Days)
	if err != nil {
		return nil, fmt.Errorf("failed to compute finance summary: %w", err)
	}

	summary.RemainingFund = calculator.RemainingFund(summary.TotalDonations, summary.TotalExpenses)
	return summary, nil
}

// TopContributors ranks contributors by total donated.
func (s *SQLiteStore) TopContributors(ctx context.Context, limit int) ([]models.Contributor, error) {
	contributors := []models.Contributor{}
	err := s.db.SelectContext(ctx, &contributors,
		`SELECT CASE WHEN d.is_guest THEN d.contributor_name ELSE u.full_name END AS name,
		        TOTAL(d.amount) AS total_donated,
		        COUNT(*) AS donation_count
		 FROM donations d
		 LEFT JOIN users u ON u.id = d.contributor_id
		 GROUP BY d.contributor_id, d.contributor_name, d.is_guest
		 ORDER BY total_donated DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top contributors: %w", err)
	}
	return contributors, nil
}

// GetFinanceSettings reads the singleton settings row.
func (s *SQLiteStore) GetFinanceSettings(ctx context.Context) (*models.FinanceSettings, error) {
	settings := &models.FinanceSettings{}
	err := s.db.GetContext(ctx, settings,
		`SELECT id, player_monthly_rate, player_monthly_year, player_monthly_month, guest_daily_rate
		 FROM finance_settings WHERE id = ?`, models.FinanceSettingsID)
	if err != nil {
		return nil, fmt.Errorf("failed to get finance settings: %w", err)
	}
	return settings, nil
}

// UpdateFinanceSettings saves the settings and applies monthly dues to
// every Player when the settings name a target month.
func (s *SQLiteStore) UpdateFinanceSettings(ctx context.Context, settings *models.FinanceSettings) (int, error) {
	settings.ID = models.FinanceSettingsID

	created := 0
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE finance_settings
			 SET player_monthly_rate = ?, player_monthly_year = ?, player_monthly_month = ?, guest_daily_rate = ?
			 WHERE id = ?`,
			settings.PlayerMonthlyRate, settings.PlayerMonthlyYear, settings.PlayerMonthlyMonth,
			settings.GuestDailyRate, settings.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update finance settings: %w", err)
		}

		if !settings.MonthlyTarget() {
			return nil
		}

		year, month := *settings.PlayerMonthlyYear, *settings.PlayerMonthlyMonth
		start, end := calculator.MonthRange(year, month)

		// Any existing non-guest dues for the period and amount block the run.
		var existing int
		err = tx.GetContext(ctx, &existing,
			`SELECT COUNT(*) FROM donations
			 WHERE is_guest = 0 AND donated_at >= ? AND donated_at < ? AND amount = ?`,
			start, end, settings.PlayerMonthlyRate)
		if err != nil {
			return fmt.Errorf("failed to count existing dues: %w", err)
		}
		if existing > 0 {
			return nil
		}

		var playerIDs []int64
		err = tx.SelectContext(ctx, &playerIDs,
			`SELECT id FROM users WHERE role = ? ORDER BY full_name`, models.RolePlayer)
		if err != nil {
			return fmt.Errorf("failed to list players: %w", err)
		}

		created, err = insertMonthlyDues(ctx, tx, playerIDs, settings.PlayerMonthlyRate, year, month)
		return err
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// ApplyMonthlyIncome inserts dues for the listed players unless any of them
// already has dues for the same month and amount.
func (s *SQLiteStore) ApplyMonthlyIncome(ctx context.Context, income models.MonthlyIncome) (int, error) {
	if len(income.PlayerIDs) == 0 {
		return 0, nil
	}
	start, end := calculator.MonthRange(income.Year, income.Month)

	created := 0
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := sqlx.In(
			`SELECT COUNT(*) FROM donations
			 WHERE is_guest = 0 AND contributor_id IN (?)
			   AND donated_at >= ? AND donated_at < ? AND amount = ?`,
			income.PlayerIDs, start, end, income.Amount)
		if err != nil {
			return fmt.Errorf("failed to build dues query: %w", err)
		}

		var existing int
		if err := tx.GetContext(ctx, &existing, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("failed to count existing dues: %w", err)
		}
		if existing > 0 {
			return nil
		}

		query, args, err = sqlx.In(`SELECT id FROM users WHERE id IN (?) ORDER BY full_name`, income.PlayerIDs)
		if err != nil {
			return fmt.Errorf("failed to build player query: %w", err)
		}

		var playerIDs []int64
		if err := tx.SelectContext(ctx, &playerIDs, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("failed to list players: %w", err)
		}

		created, err = insertMonthlyDues(ctx, tx, playerIDs, income.Amount, income.Year, income.Month)
		return err
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func insertMonthlyDues(ctx context.Context, tx *sqlx.Tx, playerIDs []int64, amount float64, year, month int) (int, error) {
	start, _ := calculator.MonthRange(year, month)
	note := calculator.MonthlyNote(year, month)

	for _, id := range playerIDs {
		donation := &models.Donation{
			ContributorID: &id,
			Amount:        amount,
			Notes:         &note,
			DonatedAt:     start,
		}
		if err := insertDonation(ctx, tx, donation); err != nil {
			return 0, err
		}
	}
	return len(playerIDs), nil
}
