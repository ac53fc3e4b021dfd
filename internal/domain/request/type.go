package request

import (
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/eventbus"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeAdvance   Type = "advance"
	TypeBonus     Type = "bonus"
	TypeDeduction Type = "deduction"
)

// variant holds everything that differs between request types.
type variant struct {
	accumulate    func(totals *ApprovedTotals, amount decimal.Decimal)
	approvedEvent func(a Approved) eventbus.Event
}

var variants = map[Type]variant{
	TypeAdvance: {
		accumulate:    func(t *ApprovedTotals, amount decimal.Decimal) { t.Advances = t.Advances.Add(amount) },
		approvedEvent: func(a Approved) eventbus.Event { return AdvanceApproved{Approved: a} },
	},
	TypeBonus: {
		accumulate:    func(t *ApprovedTotals, amount decimal.Decimal) { t.Bonuses = t.Bonuses.Add(amount) },
		approvedEvent: func(a Approved) eventbus.Event { return BonusApproved{Approved: a} },
	},
	TypeDeduction: {
		accumulate:    func(t *ApprovedTotals, amount decimal.Decimal) { t.Deductions = t.Deductions.Add(amount) },
		approvedEvent: func(a Approved) eventbus.Event { return DeductionApproved{Approved: a} },
	},
}

func (t Type) IsValid() bool {
	_, ok := variants[t]
	return ok
}

// ApprovedEvent returns the type-specific approval event for a.
func (t Type) ApprovedEvent(a Approved) (eventbus.Event, bool) {
	v, ok := variants[t]
	if !ok {
		return nil, false
	}
	return v.approvedEvent(a), true
}
