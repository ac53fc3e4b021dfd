package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/telemetry"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type LedgerServiceImpl struct {
	tx         database.Transactor
	ledgerRepo ledger.LedgerRepository
	settings   settings.Provider
}

func NewLedgerService(tx database.Transactor, ledgerRepo ledger.LedgerRepository, settingsProvider settings.Provider) ledger.LedgerService {
	return &LedgerServiceImpl{
		tx:         tx,
		ledgerRepo: ledgerRepo,
		settings:   settingsProvider,
	}
}

func (s *LedgerServiceImpl) enabled(ctx context.Context) (bool, error) {
	cfg, err := s.settings.GetSettings(ctx)
	if err != nil {
		return false, err
	}
	return cfg.LedgerIntegrationEnabled, nil
}

func (s *LedgerServiceImpl) requireEnabled(ctx context.Context) error {
	on, err := s.enabled(ctx)
	if err != nil {
		return err
	}
	if !on {
		return ledger.ErrIntegrationUnavailable
	}
	return nil
}

// resolveVault picks the requested vault, else the richest default cash
// vault, else the richest cash vault. With lock set the vault row is locked.
func (s *LedgerServiceImpl) resolveVault(ctx context.Context, vaultID *string, lock bool) (ledger.Vault, error) {
	get := s.ledgerRepo.GetVault
	if lock {
		get = s.ledgerRepo.GetVaultForUpdate
	}

	if vaultID != nil && validator.IsValidUUID(*vaultID) {
		v, err := get(ctx, *vaultID)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ledger.ErrVaultNotFound) {
			return ledger.Vault{}, err
		}
		slog.Warn("Requested vault not found, falling back to a cash vault", "vault_id", *vaultID)
	}

	v, err := s.ledgerRepo.FindCashVault(ctx, true)
	if errors.Is(err, ledger.ErrNoVaultAvailable) {
		v, err = s.ledgerRepo.FindCashVault(ctx, false)
	}
	if err != nil {
		return ledger.Vault{}, err
	}
	if !lock {
		return v, nil
	}
	return get(ctx, v.ID)
}

func newResult(v ledger.Vault, q ledger.Quote, after ledger.Vault) ledger.PayoutResult {
	return ledger.PayoutResult{
		VaultID:      v.ID,
		VaultName:    v.Name,
		Amount:       q.Amount,
		Commission:   q.Commission,
		Total:        q.Total,
		BalanceAfter: after.Balance,
		Overdrawn:    after.Balance.IsNegative(),
	}
}

// PayoutSalary implements ledger.LedgerService.
func (s *LedgerServiceImpl) PayoutSalary(ctx context.Context, snapshot salary.Snapshot, vaultID *string, actorID *string) (ledger.PayoutResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "ledger.payout_salary", trace.WithAttributes(
		attribute.String("salary.snapshot_id", snapshot.ID),
		attribute.String("salary.month", snapshot.Month),
	))
	defer span.End()

	log := slog.With("snapshot_id", snapshot.ID, "employee_id", snapshot.EmployeeID, "month", snapshot.Month)

	if err := s.requireEnabled(ctx); err != nil {
		log.Info("Salary payout not recorded in ledger", "reason", err)
		return ledger.PayoutResult{}, err
	}
	if !snapshot.FinalSalary.IsPositive() {
		log.Info("Nothing to pay out, final salary is zero")
		return ledger.PayoutResult{Amount: decimal.Zero}, nil
	}

	var result ledger.PayoutResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		vault, err := s.resolveVault(ctx, vaultID, true)
		if err != nil {
			return err
		}

		quote := ledger.QuoteFor(vault, snapshot.FinalSalary)
		if !quote.Sufficient {
			log.Warn("Vault balance below salary payout, proceeding",
				"vault_id", vault.ID, "balance", vault.Balance.String(), "total", quote.Total.String())
		}

		employeeID := snapshot.EmployeeID
		snapshotID := snapshot.ID
		description := fmt.Sprintf("Salary %s %s", snapshot.EmployeeName, snapshot.Month)

		if _, err := s.ledgerRepo.CreateCashflow(ctx, ledger.Cashflow{
			Type:          ledger.CashflowExpense,
			Amount:        quote.Amount,
			Description:   description,
			RelatedID:     &snapshotID,
			RelatedType:   ledger.RelatedSalary,
			PaymentMethod: vault.PaymentMethod,
			VaultID:       vault.ID,
			EmployeeID:    &employeeID,
			CreatedBy:     actorID,
		}); err != nil {
			return err
		}

		if quote.Commission.IsPositive() {
			categoryID, err := s.ledgerRepo.GetCategoryID(ctx, ledger.CommissionCategory)
			if err != nil {
				return err
			}
			commissionDescription := fmt.Sprintf("Commission %s%% on %s", quote.Rate.String(), description)
			if _, err := s.ledgerRepo.CreateCashflow(ctx, ledger.Cashflow{
				Type:          ledger.CashflowExpense,
				CategoryID:    categoryID,
				Amount:        quote.Commission,
				Description:   commissionDescription,
				RelatedID:     &snapshotID,
				RelatedType:   ledger.RelatedSalaryCommission,
				PaymentMethod: vault.PaymentMethod,
				VaultID:       vault.ID,
				EmployeeID:    &employeeID,
				CreatedBy:     actorID,
			}); err != nil {
				return err
			}
			if _, err := s.ledgerRepo.CreateExpense(ctx, ledger.Expense{
				Type:        ledger.ExpenseVariable,
				CategoryID:  categoryID,
				Amount:      quote.Commission,
				Description: commissionDescription,
				VaultID:     vault.ID,
				EmployeeID:  &employeeID,
				CreatedBy:   actorID,
			}); err != nil {
				return err
			}
		}

		after, err := s.ledgerRepo.DebitVault(ctx, vault.ID, quote.Total)
		if err != nil {
			return err
		}

		if _, err := s.ledgerRepo.CreateExpense(ctx, ledger.Expense{
			Type:        ledger.ExpenseFixed,
			Amount:      quote.Amount,
			Description: description,
			VaultID:     vault.ID,
			EmployeeID:  &employeeID,
			CreatedBy:   actorID,
		}); err != nil {
			return err
		}

		result = newResult(vault, quote, after)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		log.Error("Salary payout failed, ledger unchanged", "error", err)
		return ledger.PayoutResult{}, err
	}

	log.Info("Salary payout recorded",
		"vault_id", result.VaultID, "total", result.Total.String(), "balance_after", result.BalanceAfter.String())
	return result, nil
}

// PayoutAdvance implements ledger.LedgerService.
func (s *LedgerServiceImpl) PayoutAdvance(ctx context.Context, payout ledger.AdvancePayout) (ledger.PayoutResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "ledger.payout_advance", trace.WithAttributes(
		attribute.String("request.id", payout.RequestID),
	))
	defer span.End()

	log := slog.With("request_id", payout.RequestID, "employee_id", payout.EmployeeID)

	if err := s.requireEnabled(ctx); err != nil {
		log.Info("Advance payout not recorded in ledger", "reason", err)
		return ledger.PayoutResult{}, err
	}

	var result ledger.PayoutResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		vault, err := s.resolveVault(ctx, payout.VaultID, true)
		if err != nil {
			return err
		}
		if vault.Balance.LessThan(payout.Amount) {
			return ledger.ErrInsufficientFunds
		}

		employeeID := payout.EmployeeID
		requestID := payout.RequestID
		if _, err := s.ledgerRepo.CreateCashflow(ctx, ledger.Cashflow{
			Type:          ledger.CashflowExpense,
			Amount:        payout.Amount,
			Description:   "Salary advance",
			RelatedID:     &requestID,
			RelatedType:   ledger.RelatedAdvance,
			PaymentMethod: vault.PaymentMethod,
			VaultID:       vault.ID,
			EmployeeID:    &employeeID,
			CreatedBy:     payout.ActorID,
		}); err != nil {
			return err
		}

		after, err := s.ledgerRepo.DebitVault(ctx, vault.ID, payout.Amount)
		if err != nil {
			return err
		}

		quote := ledger.Quote{Amount: payout.Amount, Commission: decimal.Zero, Total: payout.Amount}
		result = newResult(vault, quote, after)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		log.Error("Advance payout failed, ledger unchanged", "amount", payout.Amount.String(), "error", err)
		return ledger.PayoutResult{}, err
	}

	log.Info("Advance payout recorded", "vault_id", result.VaultID, "amount", result.Amount.String())
	return result, nil
}

// PreviewPayout implements ledger.LedgerService.
func (s *LedgerServiceImpl) PreviewPayout(ctx context.Context, req ledger.PreviewPayoutRequest) (ledger.PreviewPayoutResponse, error) {
	if err := req.Validate(); err != nil {
		return ledger.PreviewPayoutResponse{}, err
	}

	vault, err := s.resolveVault(ctx, req.VaultID, false)
	if err != nil {
		return ledger.PreviewPayoutResponse{}, err
	}

	quote := ledger.QuoteFor(vault, req.Amount)
	return ledger.PreviewPayoutResponse{
		VaultID:        vault.ID,
		VaultName:      vault.Name,
		VaultBalance:   vault.Balance,
		CommissionRate: quote.Rate,
		Commission:     quote.Commission,
		Total:          quote.Total,
		Sufficient:     quote.Sufficient,
	}, nil
}

// GetStatus implements ledger.LedgerService.
func (s *LedgerServiceImpl) GetStatus(ctx context.Context) (ledger.StatusResponse, error) {
	on, err := s.enabled(ctx)
	if err != nil {
		return ledger.StatusResponse{}, err
	}

	funded, err := s.ledgerRepo.CountFundedVaults(ctx)
	if err != nil {
		return ledger.StatusResponse{}, err
	}

	return ledger.StatusResponse{
		Enabled:      on,
		FundedVaults: funded,
		Ready:        on && funded > 0,
	}, nil
}

// ListVaults implements ledger.LedgerService.
func (s *LedgerServiceImpl) ListVaults(ctx context.Context) ([]ledger.VaultResponse, error) {
	vaults, err := s.ledgerRepo.ListVaults(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ledger.VaultResponse, 0, len(vaults))
	for _, v := range vaults {
		out = append(out, ledger.NewVaultResponse(v))
	}
	return out, nil
}

// SalaryHistory implements ledger.LedgerService.
func (s *LedgerServiceImpl) SalaryHistory(ctx context.Context, limit int) ([]ledger.CashflowResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	flows, err := s.ledgerRepo.ListCashflows(ctx,
		[]ledger.RelatedType{ledger.RelatedSalary, ledger.RelatedSalaryCommission, ledger.RelatedAdvance}, limit)
	if err != nil {
		return nil, err
	}

	out := make([]ledger.CashflowResponse, 0, len(flows))
	for _, c := range flows {
		out = append(out, ledger.NewCashflowResponse(c))
	}
	return out, nil
}
