package ledger

import "github.com/cmlabs-hris/shrms-backend-go/internal/pkg/apperror"

var (
	ErrVaultNotFound          = apperror.New(apperror.KindNotFound, "vault not found")
	ErrNoVaultAvailable       = apperror.New(apperror.KindNotFound, "no cash vault available for payout")
	ErrInsufficientFunds      = apperror.New(apperror.KindInsufficientFunds, "vault balance is insufficient")
	ErrIntegrationUnavailable = apperror.New(apperror.KindIntegrationUnavailable, "ledger integration is disabled")
)
