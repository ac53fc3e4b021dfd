package ledger

import (
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// AdvancePayout describes an approved advance to pay out.
type AdvancePayout struct {
	EmployeeID string
	Amount     decimal.Decimal
	RequestID  string
	VaultID    *string
	ActorID    *string
}

type PayoutResult struct {
	VaultID      string          `json:"vault_id"`
	VaultName    string          `json:"vault_name"`
	Amount       decimal.Decimal `json:"amount"`
	Commission   decimal.Decimal `json:"commission"`
	Total        decimal.Decimal `json:"total"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Overdrawn    bool            `json:"overdrawn"`
}

type PreviewPayoutRequest struct {
	VaultID *string         `json:"vault_id"`
	Amount  decimal.Decimal `json:"amount" validate:"gte=0"`
}

func (r *PreviewPayoutRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.VaultID != nil && !validator.IsValidUUID(*r.VaultID) {
		errs = append(errs, validator.ValidationError{Field: "vault_id", Message: "invalid vault id"})
	}
	if err := validator.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, verrs...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PreviewPayoutResponse struct {
	VaultID        string          `json:"vault_id"`
	VaultName      string          `json:"vault_name"`
	VaultBalance   decimal.Decimal `json:"vault_balance"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Commission     decimal.Decimal `json:"commission"`
	Total          decimal.Decimal `json:"total"`
	Sufficient     bool            `json:"sufficient"`
}

type StatusResponse struct {
	Enabled      bool `json:"enabled"`
	FundedVaults int  `json:"funded_vaults"`
	Ready        bool `json:"ready"`
}

type VaultResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	PaymentMethod  string          `json:"payment_method"`
	IsDefault      bool            `json:"is_default"`
	Balance        decimal.Decimal `json:"balance"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
}

func NewVaultResponse(v Vault) VaultResponse {
	return VaultResponse{
		ID:             v.ID,
		Name:           v.Name,
		PaymentMethod:  v.PaymentMethod,
		IsDefault:      v.IsDefault,
		Balance:        v.Balance,
		CommissionRate: v.CommissionRate,
	}
}

type CashflowResponse struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	RelatedID   *string         `json:"related_id,omitempty"`
	RelatedType RelatedType     `json:"related_type"`
	VaultID     string          `json:"vault_id"`
	EmployeeID  *string         `json:"employee_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func NewCashflowResponse(c Cashflow) CashflowResponse {
	return CashflowResponse{
		ID:          c.ID,
		Amount:      c.Amount,
		Description: c.Description,
		RelatedID:   c.RelatedID,
		RelatedType: c.RelatedType,
		VaultID:     c.VaultID,
		EmployeeID:  c.EmployeeID,
		CreatedAt:   c.CreatedAt,
	}
}
