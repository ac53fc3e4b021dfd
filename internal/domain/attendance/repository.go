package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// LockEmployeeDate serializes writers of one (employee, date) until the
	// surrounding transaction ends.
	LockEmployeeDate(ctx context.Context, employeeID string, date time.Time) error

	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)

	// Upsert writes the record keyed by (employee_id, date).
	Upsert(ctx context.Context, a Attendance) (Attendance, error)

	List(ctx context.Context, filter RecordFilter) ([]Attendance, error)

	// ListCompleted returns records with both check-in and check-out in [from, to).
	ListCompleted(ctx context.Context, from, to *time.Time) ([]Attendance, error)
	UpdateWorkHours(ctx context.Context, id string, hours float64) error
}

// RecordFilter is the resolved form of AttendanceFilter.
type RecordFilter struct {
	EmployeeID *string
	From       *time.Time
	To         *time.Time
	Status     *Status
	Limit      int
}
