package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/period"
	"golang.org/x/sync/errgroup"
)

// LedgerStatus is the part of the ledger service the dashboard reads.
type LedgerStatus interface {
	GetStatus(ctx context.Context) (ledger.StatusResponse, error)
}

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	ledger LedgerStatus
	loc    *time.Location
	now    func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository, ledgerStatus LedgerStatus, loc *time.Location) dashboard.DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		ledger:              ledgerStatus,
		loc:                 loc,
		now:                 time.Now,
	}
}

// GetDashboard returns the counters and the ledger status, fetched in parallel.
// A failing ledger status is reported as not ready instead of failing the page.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (dashboard.DashboardResponse, error) {
	now := s.now().In(s.loc)
	today := period.Date(now)
	month := period.Month(now)

	var (
		counters dashboard.Counters
		status   ledger.StatusResponse
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		counters, err = s.GetCounters(gctx, today, month)
		return err
	})

	g.Go(func() error {
		st, err := s.ledger.GetStatus(gctx)
		if err != nil {
			slog.Warn("Ledger status unavailable for dashboard", "error", err)
			return nil
		}
		status = st
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.DashboardResponse{}, err
	}

	return dashboard.DashboardResponse{
		Date:            today.Format("2006-01-02"),
		Month:           month,
		ActiveEmployees: counters.ActiveEmployees,
		PresentToday:    counters.PresentToday,
		PendingRequests: counters.PendingRequests,
		UnpaidSalaries:  counters.UnpaidSnapshots,
		LedgerEnabled:   status.Enabled,
		LedgerReady:     status.Ready,
		GeneratedAt:     now,
	}, nil
}
