package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID                string
	Name              string
	Phone             string
	Email             *string
	PasswordHash      *string
	BaseSalary        decimal.Decimal
	Role              Role
	Status            Status
	HireDate          *time.Time
	ExternalAccountID *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Role string

const (
	RoleEmployee   Role = "employee"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// IsAdmin reports whether the role may manage payroll.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}
