package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type Request struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	Type         Type
	Amount       decimal.Decimal
	VaultID      *string
	Reason       *string
	Month        *string
	Status       Status
	ApprovedBy   *string
	ApprovedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (r Request) IsPending() bool {
	return r.Status == StatusPending
}

// ApprovedTotals are the approved request amounts that apply to one month.
type ApprovedTotals struct {
	Bonuses    decimal.Decimal
	Deductions decimal.Decimal
	Advances   decimal.Decimal
}

// Add folds amount into the bucket for t.
func (a *ApprovedTotals) Add(t Type, amount decimal.Decimal) {
	if v, ok := variants[t]; ok {
		v.accumulate(a, amount)
	}
}
