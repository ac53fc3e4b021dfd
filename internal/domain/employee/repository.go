package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByPhone(ctx context.Context, phone string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	Delete(ctx context.Context, id string) error
}

// ListCache is a read-through cache of employee lists keyed by status.
// An empty status key holds the unfiltered list.
type ListCache interface {
	Get(ctx context.Context, status Status) ([]Employee, bool, error)
	Set(ctx context.Context, status Status, employees []Employee) error
	Invalidate(ctx context.Context) error
}
