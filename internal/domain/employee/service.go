package employee

import (
	"context"
)

// Directory is the read side other modules use to look employees up.
type Directory interface {
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListByStatus(ctx context.Context, status Status) ([]Employee, error)
}

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	Directory

	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetEmployeeByPhone(ctx context.Context, phone string) (Employee, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee hard deletes; prefer moving status to inactive.
	DeleteEmployee(ctx context.Context, id string) error
}
