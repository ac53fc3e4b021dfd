package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

type LedgerRepository interface {
	GetVault(ctx context.Context, id string) (Vault, error)

	// GetVaultForUpdate row-locks the vault inside the current transaction.
	GetVaultForUpdate(ctx context.Context, id string) (Vault, error)

	// FindCashVault returns the cash vault with the highest balance,
	// restricted to default vaults when defaultOnly is set.
	FindCashVault(ctx context.Context, defaultOnly bool) (Vault, error)

	ListVaults(ctx context.Context) ([]Vault, error)
	CountFundedVaults(ctx context.Context) (int, error)

	// DebitVault subtracts amount and returns the updated vault. The balance
	// may go negative.
	DebitVault(ctx context.Context, id string, amount decimal.Decimal) (Vault, error)

	GetCategoryID(ctx context.Context, name string) (*string, error)
	CreateCashflow(ctx context.Context, c Cashflow) (Cashflow, error)
	CreateExpense(ctx context.Context, e Expense) (Expense, error)
	ListCashflows(ctx context.Context, relatedTypes []RelatedType, limit int) ([]Cashflow, error)
}
