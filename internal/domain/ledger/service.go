package ledger

import (
	"context"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/salary"
)

type LedgerService interface {
	// PayoutSalary records a paid snapshot in the ledger: cashflows, expenses
	// and one vault debit, all in a single transaction. A short balance is
	// logged and does not stop the payout.
	PayoutSalary(ctx context.Context, snapshot salary.Snapshot, vaultID *string, actorID *string) (PayoutResult, error)

	// PayoutAdvance debits an approved advance. The vault must cover it.
	PayoutAdvance(ctx context.Context, payout AdvancePayout) (PayoutResult, error)

	PreviewPayout(ctx context.Context, req PreviewPayoutRequest) (PreviewPayoutResponse, error)
	GetStatus(ctx context.Context) (StatusResponse, error)
	ListVaults(ctx context.Context) ([]VaultResponse, error)
	SalaryHistory(ctx context.Context, limit int) ([]CashflowResponse, error)
}
