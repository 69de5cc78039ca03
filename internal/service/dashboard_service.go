package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/badsession/badsession/internal/apperr"
	"github.com/badsession/badsession/internal/calculator"
	"github.com/badsession/badsession/internal/models"
	"github.com/badsession/badsession/internal/storage"
)

const dashboardRecentLimit = 5

// DashboardService builds the read-only home page rollup.
type DashboardService struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(store storage.Store, logger *slog.Logger) *DashboardService {
	return &DashboardService{store: store, logger: logger, now: time.Now}
}

// Get returns member counts, paid ledger totals and recent activity.
func (s *DashboardService) Get(ctx context.Context) (*models.Dashboard, error) {
	fail := func(err error) (*models.Dashboard, error) {
		s.logger.Error("Dashboard failed", "error", err)
		return nil, apperr.Internal("failed to fetch dashboard", err)
	}

	dashboard := &models.Dashboard{}
	var err error

	if dashboard.PlayerCount, err = s.store.CountUsersByRole(ctx, models.RolePlayer); err != nil {
		return fail(err)
	}
	if dashboard.GuestCount, err = s.store.CountDistinctGuests(ctx); err != nil {
		return fail(err)
	}

	summary, err := s.store.Summary(ctx, calculator.WindowStart(s.now()))
	if err != nil {
		return fail(err)
	}
	dashboard.FinanceSummary = *summary

	if dashboard.RecentSessions, err = s.store.ListSessions(ctx, dashboardRecentLimit); err != nil {
		return fail(err)
	}
	if dashboard.RecentDonations, err = s.store.ListDonations(ctx, dashboardRecentLimit); err != nil {
		return fail(err)
	}
	if dashboard.RecentExpenses, err = s.store.ListExpenses(ctx, dashboardRecentLimit); err != nil {
		return fail(err)
	}

	return dashboard, nil
}
