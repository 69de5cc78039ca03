// Package calculator holds the pure computations behind finance and match
// scoring: monthly dues periods, reporting windows and match winners.
package calculator

import (
	"fmt"
	"time"
)

const (
	MinYear = 2000
	MaxYear = 2100

	// RecentWindow is the look-back used by the "last 30 days" aggregates.
	RecentWindow = 30 * 24 * time.Hour
)

// ValidatePeriod checks that year and month name a real calendar month
// within the supported range.
func ValidatePeriod(year, month int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("year must be between %d and %d", MinYear, MaxYear)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("month must be between 1 and 12")
	}
	return nil
}

// MonthRange returns the Unix timestamps of the first second of the month
// and of the following month, in UTC. Dues are dated at start.
func MonthRange(year, month int) (start, end int64) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return first.Unix(), first.AddDate(0, 1, 0).Unix()
}

// MonthlyNote is the note written on auto-created monthly dues.
func MonthlyNote(year, month int) string {
	return fmt.Sprintf("Monthly income for %d-%02d", year, month)
}

// WindowStart returns the Unix timestamp RecentWindow before now.
func WindowStart(now time.Time) int64 {
	return now.Add(-RecentWindow).Unix()
}

// RemainingFund is paid income minus paid expenses.
func RemainingFund(totalDonations, totalExpenses float64) float64 {
	return totalDonations - totalExpenses
}
