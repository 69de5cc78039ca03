package service

import (
	"context"
	"testing"

	"github.com/badsession/badsession/internal/apperr"
	"github.com/badsession/badsession/internal/models"
)

func intPtr(v int) *int {
	return &v
}

func TestRecordDonationValidation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.player(t, "alice", "Alice")
	missing := int64(999)

	tests := []struct {
		name     string
		in       DonationInput
		wantKind apperr.Kind
	}{
		{"zero amount", DonationInput{ContributorID: &alice.UserID}, apperr.KindValidation},
		{"guest without name", DonationInput{IsGuest: true, Amount: 10}, apperr.KindValidation},
		{"player without id", DonationInput{Amount: 10}, apperr.KindValidation},
		{"unknown player", DonationInput{ContributorID: &missing, Amount: 10}, apperr.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.finance.RecordDonation(ctx, env.admin, tt.in)
			wantKind(t, err, tt.wantKind)
		})
	}

	t.Run("player donation", func(t *testing.T) {
		d, err := env.finance.RecordDonation(ctx, env.admin, DonationInput{ContributorID: &alice.UserID, Amount: 20000})
		if err != nil {
			t.Fatalf("RecordDonation failed: %v", err)
		}
		if d.ID == 0 || d.IsPaid {
			t.Errorf("unexpected donation: %+v", d)
		}
	})
}

func TestExpenseValidation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		in       ExpenseInput
		wantKind apperr.Kind
	}{
		{"missing description", ExpenseInput{Amount: 10}, apperr.KindValidation},
		{"zero amount", ExpenseInput{Description: "Net"}, apperr.KindValidation},
		{"unknown category", ExpenseInput{Description: "Net", Amount: 10, Category: "food"}, apperr.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.finance.RecordExpense(ctx, env.admin, tt.in)
			wantKind(t, err, tt.wantKind)
		})
	}

	expense, err := env.finance.RecordExpense(ctx, env.admin, ExpenseInput{Description: "Net", Amount: 10})
	if err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}
	if expense.Category != nil {
		t.Errorf("category should be optional on create, got %v", *expense.Category)
	}

	_, err = env.finance.UpdateExpense(ctx, expense.ID, ExpenseInput{Description: "Net", Amount: 15})
	wantKind(t, err, apperr.KindValidation)

	_, err = env.finance.UpdateExpense(ctx, 999, ExpenseInput{Description: "Net", Amount: 15, Category: "equipment"})
	wantKind(t, err, apperr.KindNotFound)
}

func TestTogglePaidTwice(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	d, _ := env.finance.RecordDonation(ctx, env.admin, DonationInput{IsGuest: true, ContributorName: "Bob", Amount: 100})

	first, err := env.finance.ToggleDonationPaid(ctx, d.ID)
	if err != nil || !first {
		t.Fatalf("first toggle = %v, %v", first, err)
	}
	second, err := env.finance.ToggleDonationPaid(ctx, d.ID)
	if err != nil || second {
		t.Fatalf("second toggle = %v, %v", second, err)
	}

	_, err = env.finance.ToggleDonationPaid(ctx, 999)
	wantKind(t, err, apperr.KindNotFound)
}

func TestSummaryRemainingFund(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	d1, _ := env.finance.RecordDonation(ctx, env.admin, DonationInput{IsGuest: true, ContributorName: "Bob", Amount: 150000})
	env.finance.RecordDonation(ctx, env.admin, DonationInput{IsGuest: true, ContributorName: "Eve", Amount: 99999})
	e1, _ := env.finance.RecordExpense(ctx, env.admin, ExpenseInput{Description: "Court rent", Amount: 40000, Category: "venue"})

	env.finance.MarkDonationPaid(ctx, d1.ID)
	env.finance.ToggleExpensePaid(ctx, e1.ID)

	summary, err := env.finance.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.TotalDonations != 150000 || summary.TotalExpenses != 40000 {
		t.Errorf("totals = %v / %v, unpaid rows must not count", summary.TotalDonations, summary.TotalExpenses)
	}
	if summary.RemainingFund != summary.TotalDonations-summary.TotalExpenses {
		t.Errorf("RemainingFund = %v, want %v", summary.RemainingFund, summary.TotalDonations-summary.TotalExpenses)
	}

	dashboard, err := env.dashboard.Get(ctx)
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if dashboard.FinanceSummary != *summary {
		t.Errorf("dashboard summary %+v differs from finance summary %+v", dashboard.FinanceSummary, *summary)
	}
}

func TestApplyPlayerIncome(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.player(t, "alice", "Alice")
	bob := env.player(t, "bob", "Bob")

	income := models.MonthlyIncome{PlayerIDs: []int64{alice.UserID, bob.UserID}, Amount: 75000, Year: 2025, Month: 2}

	created, err := env.finance.ApplyPlayerIncome(ctx, income)
	if err != nil {
		t.Fatalf("ApplyPlayerIncome failed: %v", err)
	}
	if created != 2 {
		t.Errorf("created = %d, want 2", created)
	}

	created, err = env.finance.ApplyPlayerIncome(ctx, income)
	if err != nil {
		t.Fatalf("second ApplyPlayerIncome failed: %v", err)
	}
	if created != 0 {
		t.Errorf("second run created %d, want 0", created)
	}

	donations, _ := env.finance.ListDonations(ctx)
	if len(donations) != 2 {
		t.Errorf("got %d donations, want 2", len(donations))
	}
	for _, d := range donations {
		if d.Notes == nil || *d.Notes != "Monthly income for 2025-02" {
			t.Errorf("notes = %v", d.Notes)
		}
	}

	t.Run("invalid period", func(t *testing.T) {
		bad := income
		bad.Month = 13
		_, err := env.finance.ApplyPlayerIncome(ctx, bad)
		wantKind(t, err, apperr.KindValidation)
	})

	t.Run("no players", func(t *testing.T) {
		_, err := env.finance.ApplyPlayerIncome(ctx, models.MonthlyIncome{Amount: 1, Year: 2025, Month: 1})
		wantKind(t, err, apperr.KindValidation)
	})
}

func TestUpdateSettingsAppliesDues(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	env.player(t, "alice", "Alice")
	env.player(t, "bob", "Bob")

	in := SettingsInput{PlayerMonthlyRate: 50000, PlayerMonthlyYear: intPtr(2025), PlayerMonthlyMonth: intPtr(3), GuestDailyRate: 20000}

	settings, created, err := env.finance.UpdateSettings(ctx, in)
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if created != 2 {
		t.Errorf("created = %d, want 2 (admin is not a player)", created)
	}
	if settings.GuestDailyRate != 20000 {
		t.Errorf("settings = %+v", settings)
	}

	_, created, _ = env.finance.UpdateSettings(ctx, in)
	if created != 0 {
		t.Errorf("second save created %d dues, want 0", created)
	}

	_, _, err = env.finance.UpdateSettings(ctx, SettingsInput{PlayerMonthlyRate: 1, PlayerMonthlyYear: intPtr(2025)})
	wantKind(t, err, apperr.KindValidation)
}

func TestSearch(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.player(t, "alice", "Alice Tan")
	session := env.session(t, "2025-01-17")
	env.attendance.CheckIn(ctx, alice, CheckInRequest{SessionID: session.ID, GuestName: "Tanya"})

	players, err := env.finance.Search(ctx, SearchPlayer, "tan")
	if err != nil {
		t.Fatalf("Search(player) failed: %v", err)
	}
	if len(players) != 1 || players[0].ID != alice.UserID {
		t.Errorf("players = %+v", players)
	}

	guests, err := env.finance.Search(ctx, SearchGuest, "tan")
	if err != nil {
		t.Fatalf("Search(guest) failed: %v", err)
	}
	if len(guests) != 1 || guests[0].Name != "Tanya" || !guests[0].IsGuest {
		t.Errorf("guests = %+v", guests)
	}

	_, err = env.finance.Search(ctx, "coach", "tan")
	wantKind(t, err, apperr.KindValidation)
	_, err = env.finance.Search(ctx, SearchPlayer, "")
	wantKind(t, err, apperr.KindValidation)
}
