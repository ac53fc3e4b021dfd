package request

import "github.com/shopspring/decimal"

// Approved is the payload shared by the per-type approval events.
type Approved struct {
	RequestID  string
	EmployeeID string
	Type       Type
	Amount     decimal.Decimal
	Month      string
	VaultID    *string
	ApproverID string
}

type AdvanceApproved struct{ Approved }

func (AdvanceApproved) EventName() string { return "request.advance_approved" }

type BonusApproved struct{ Approved }

func (BonusApproved) EventName() string { return "request.bonus_approved" }

type DeductionApproved struct{ Approved }

func (DeductionApproved) EventName() string { return "request.deduction_approved" }
