package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	GetDashboard(ctx context.Context) (DashboardResponse, error)
}
