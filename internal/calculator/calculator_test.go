package calculator

import (
	"testing"
	"time"

	"github.com/badsession/badsession/internal/models"
)

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int
		wantStart string
		wantEnd   string
	}{
		{"february", 2025, 2, "2025-02-01", "2025-03-01"},
		{"december rolls year", 2024, 12, "2024-12-01", "2025-01-01"},
		{"leap february", 2024, 2, "2024-02-01", "2024-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := MonthRange(tt.year, tt.month)
			gotStart := time.Unix(start, 0).UTC().Format("2006-01-02")
			gotEnd := time.Unix(end, 0).UTC().Format("2006-01-02")
			if gotStart != tt.wantStart || gotEnd != tt.wantEnd {
				t.Errorf("MonthRange(%d, %d) = [%s, %s), want [%s, %s)",
					tt.year, tt.month, gotStart, gotEnd, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestValidatePeriod(t *testing.T) {
	tests := []struct {
		year, month int
		wantErr     bool
	}{
		{2025, 1, false},
		{2025, 12, false},
		{2025, 0, true},
		{2025, 13, true},
		{1999, 6, true},
		{2101, 6, true},
	}

	for _, tt := range tests {
		err := ValidatePeriod(tt.year, tt.month)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePeriod(%d, %d) error = %v, wantErr %v", tt.year, tt.month, err, tt.wantErr)
		}
	}
}

func TestMonthlyNote(t *testing.T) {
	if got := MonthlyNote(2025, 2); got != "Monthly income for 2025-02" {
		t.Errorf("MonthlyNote = %q", got)
	}
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)
	want := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC).Unix()
	if got := WindowStart(now); got != want {
		t.Errorf("WindowStart = %d, want %d", got, want)
	}
}

func TestTeamCapacity(t *testing.T) {
	tests := map[models.MatchType]int{
		models.MatchSingles:      1,
		models.MatchDoubles:      2,
		models.MatchMixedDoubles: 2,
	}
	for matchType, want := range tests {
		if got := TeamCapacity(matchType); got != want {
			t.Errorf("TeamCapacity(%s) = %d, want %d", matchType, got, want)
		}
	}
}

func TestWinner(t *testing.T) {
	tests := []struct {
		name string
		a, b int
		want *models.Team
	}{
		{"team a wins", 21, 15, teamPtr(models.TeamA)},
		{"team b wins", 19, 21, teamPtr(models.TeamB)},
		{"tie has no winner", 20, 20, nil},
		{"unplayed has no winner", 0, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Winner(tt.a, tt.b)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("Winner(%d, %d) = %s, want nil", tt.a, tt.b, *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("Winner(%d, %d) = %v, want %s", tt.a, tt.b, got, *tt.want)
			}
		})
	}
}

func TestRemainingFund(t *testing.T) {
	if got := RemainingFund(150000, 40000); got != 110000 {
		t.Errorf("RemainingFund = %v, want 110000", got)
	}
}

func teamPtr(t models.Team) *models.Team {
	return &t
}
