package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

func (r *dashboardRepositoryImpl) GetCounters(ctx context.Context, today time.Time, month string) (dashboard.Counters, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			(SELECT COUNT(*) FROM employees WHERE status = 'active'),
			(SELECT COUNT(*) FROM attendances WHERE date = $1 AND status IN ('present', 'late')),
			(SELECT COUNT(*) FROM salary_requests WHERE status = 'pending'),
			(SELECT COUNT(*) FROM salary_snapshots WHERE month = $2 AND status <> 'paid')`

	var c dashboard.Counters
	err := q.QueryRow(ctx, query, today, month).Scan(
		&c.ActiveEmployees, &c.PresentToday, &c.PendingRequests, &c.UnpaidSnapshots,
	)
	if err != nil {
		return dashboard.Counters{}, fmt.Errorf("failed to get dashboard counters: %w", err)
	}
	return c, nil
}
