package salary

import "github.com/shopspring/decimal"

// RecalculatedEvent follows every recalculation that wrote a snapshot.
type RecalculatedEvent struct {
	Snapshot Snapshot
}

func (RecalculatedEvent) EventName() string { return "salary.recalculated" }

// PaidEvent follows a committed mark-paid. VaultID is the caller's vault
// selection, nil for automatic resolution.
type PaidEvent struct {
	EmployeeID  string
	FinalSalary decimal.Decimal
	Month       string
	Snapshot    Snapshot
	VaultID     *string
	PaidBy      *string
}

func (PaidEvent) EventName() string { return "salary.paid" }
