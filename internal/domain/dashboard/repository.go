package dashboard

import (
	"context"
	"time"
)

type DashboardRepository interface {
	// GetCounters counts everything in a single round trip.
	GetCounters(ctx context.Context, today time.Time, month string) (Counters, error)
}
