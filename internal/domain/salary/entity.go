package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is the computed salary of one employee for one month.
type Snapshot struct {
	ID                  string
	EmployeeID          string
	EmployeeName        string
	Month               string
	BaseSalary          decimal.Decimal
	Bonuses             decimal.Decimal
	Deductions          decimal.Decimal
	Advances            decimal.Decimal
	AttendanceDeduction decimal.Decimal
	ManualAdjustment    decimal.Decimal
	AdjustmentReason    *string
	FinalSalary         decimal.Decimal
	Status              Status
	CalculatedAt        *time.Time
	PaidAt              *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Status string

const (
	StatusUnpaid  Status = "unpaid"
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

func (s Snapshot) IsPaid() bool {
	return s.Status == StatusPaid
}

// FinalSalary is max(0, base + bonuses - deductions - advances - attendance + manual).
func FinalSalary(base, bonuses, deductions, advances, attendance, manual decimal.Decimal) decimal.Decimal {
	total := base.Add(bonuses).Sub(deductions).Sub(advances).Sub(attendance).Add(manual)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total.Round(2)
}

// AdjustedFinalSalary is the final salary as recomputed by a manual
// adjustment, which does not subtract the attendance deduction.
func (s Snapshot) AdjustedFinalSalary() decimal.Decimal {
	return FinalSalary(s.BaseSalary, s.Bonuses, s.Deductions, s.Advances, decimal.Zero, s.ManualAdjustment)
}

// LogEntry is an append-only audit record of a snapshot action.
type LogEntry struct {
	ID         string
	SnapshotID string
	EmployeeID string
	Action     Action
	OldAmount  *decimal.Decimal
	NewAmount  *decimal.Decimal
	Notes      *string
	CreatedBy  *string
	CreatedAt  time.Time
}

type Action string

const (
	ActionCalculated Action = "calculated"
	ActionAdjusted   Action = "adjusted"
	ActionPaid       Action = "paid"
)
