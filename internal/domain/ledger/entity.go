package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vault is an account in the external ledger that funds payouts.
type Vault struct {
	ID             string
	Name           string
	PaymentMethod  string
	IsDefault      bool
	Balance        decimal.Decimal
	CommissionRate decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const PaymentMethodCash = "cash"

type Cashflow struct {
	ID            string
	Type          string
	CategoryID    *string
	Amount        decimal.Decimal
	Description   string
	RelatedID     *string
	RelatedType   RelatedType
	PaymentMethod string
	VaultID       string
	EmployeeID    *string
	CreatedBy     *string
	CreatedAt     time.Time
}

const CashflowExpense = "expense"

type RelatedType string

const (
	RelatedSalary           RelatedType = "shrms_salary"
	RelatedSalaryCommission RelatedType = "salary_commission"
	RelatedAdvance          RelatedType = "shrms_advance"
)

type Expense struct {
	ID          string
	Type        ExpenseType
	CategoryID  *string
	Amount      decimal.Decimal
	Description string
	VaultID     string
	EmployeeID  *string
	CreatedBy   *string
	CreatedAt   time.Time
}

type ExpenseType string

const (
	ExpenseFixed    ExpenseType = "fixed"
	ExpenseVariable ExpenseType = "variable"
)

// CommissionCategory is the expense category commission entries are filed under.
const CommissionCategory = "Commission"

// Quote is the cost of paying amount out of a vault.
type Quote struct {
	Amount     decimal.Decimal
	Rate       decimal.Decimal
	Commission decimal.Decimal
	Total      decimal.Decimal
	Sufficient bool
}

// QuoteFor computes commission = amount * rate / 100 and total = amount + commission.
func QuoteFor(v Vault, amount decimal.Decimal) Quote {
	commission := amount.Mul(v.CommissionRate).Div(decimal.NewFromInt(100)).Round(2)
	total := amount.Add(commission)
	return Quote{
		Amount:     amount,
		Rate:       v.CommissionRate,
		Commission: commission,
		Total:      total,
		Sufficient: v.Balance.GreaterThanOrEqual(total),
	}
}
