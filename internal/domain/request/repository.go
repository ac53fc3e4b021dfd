package request

import (
	"context"
	"time"
)

type RequestRepository interface {
	Create(ctx context.Context, r Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)

	// GetByIDForUpdate row-locks the request inside the current transaction.
	GetByIDForUpdate(ctx context.Context, id string) (Request, error)

	// SetDecision moves a pending request to status; it is a no-op returning
	// ErrRequestAlreadyProcessed when the row is no longer pending.
	SetDecision(ctx context.Context, id string, status Status, decidedBy string, decidedAt time.Time, vaultID *string) (Request, error)

	List(ctx context.Context, filter RequestFilter) ([]Request, error)

	// ListApplicable returns approved requests with month = month or no month.
	ListApplicable(ctx context.Context, employeeID string, month string) ([]Request, error)

	// SumApproved totals ListApplicable by type.
	SumApproved(ctx context.Context, employeeID string, month string) (ApprovedTotals, error)
}
