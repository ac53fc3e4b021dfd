package salary

import (
	"context"
	"time"
)

type SnapshotRepository interface {
	// LockEmployeeMonth serializes writers of one (employee, month) until the
	// surrounding transaction ends.
	LockEmployeeMonth(ctx context.Context, employeeID string, month string) error

	GetByEmployeeMonth(ctx context.Context, employeeID string, month string) (Snapshot, error)
	GetByID(ctx context.Context, id string) (Snapshot, error)

	// GetByIDForUpdate row-locks the snapshot inside the current transaction.
	GetByIDForUpdate(ctx context.Context, id string) (Snapshot, error)

	// Upsert writes the computed columns. On conflict it keeps the stored
	// manual adjustment, reason and status, and never touches a paid row.
	Upsert(ctx context.Context, s Snapshot) (Snapshot, error)

	UpdateAdjustment(ctx context.Context, s Snapshot) (Snapshot, error)
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (Snapshot, error)
	ListByMonth(ctx context.Context, month string, status *Status) ([]Snapshot, error)

	AppendLog(ctx context.Context, entry LogEntry) error
	ListLogs(ctx context.Context, snapshotID string) ([]LogEntry, error)
}
