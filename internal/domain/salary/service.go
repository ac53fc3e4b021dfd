package salary

import "context"

// Recalculator recomputes one (employee, month) snapshot.
type Recalculator interface {
	Recalculate(ctx context.Context, employeeID string, month string) (SnapshotResponse, error)
}

type SalaryService interface {
	Recalculator

	// RecalculateMonth recalculates every active employee, skipping paid snapshots.
	RecalculateMonth(ctx context.Context, month string) (BulkRecalculateResponse, error)

	// GetOrCreate returns the snapshot, computing it on first read.
	GetOrCreate(ctx context.Context, employeeID string, month string) (SnapshotResponse, error)

	// ListByMonth initializes missing snapshots for active employees, then lists the month.
	ListByMonth(ctx context.Context, month string) ([]SnapshotResponse, error)
	ListUnpaid(ctx context.Context, month string) ([]SnapshotResponse, error)

	Adjust(ctx context.Context, req AdjustSalaryRequest) (SnapshotResponse, error)
	MarkPaid(ctx context.Context, req MarkPaidRequest) (SnapshotResponse, error)

	GetReport(ctx context.Context, employeeID string, month string) (SalaryReportResponse, error)
	GetLogs(ctx context.Context, snapshotID string) ([]LogResponse, error)
}
