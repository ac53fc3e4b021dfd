package ledger

import (
	"context"
	"sort"
	"testing"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/eventbus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mainVaultID    = "01900000-0000-7000-8000-0000000000a1"
	reserveVaultID = "01900000-0000-7000-8000-0000000000a2"
	commissionCat  = "01900000-0000-7000-8000-000000000001"
)

// snapshotTx copies the fake's state and restores it when fn fails.
type snapshotTx struct{ repo *fakeLedgerRepo }

func (t snapshotTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	saved := t.repo.clone()
	if err := fn(ctx); err != nil {
		t.repo.restore(saved)
		return err
	}
	return nil
}

type fakeLedgerRepo struct {
	vaults    map[string]ledger.Vault
	cashflows []ledger.Cashflow
	expenses  []ledger.Expense
	locked    []string

	debitErr        error
	fixedExpenseErr error
}

func (r *fakeLedgerRepo) clone() fakeLedgerRepo {
	c := fakeLedgerRepo{vaults: map[string]ledger.Vault{}}
	for k, v := range r.vaults {
		c.vaults[k] = v
	}
	c.cashflows = append(c.cashflows, r.cashflows...)
	c.expenses = append(c.expenses, r.expenses...)
	return c
}

func (r *fakeLedgerRepo) restore(c fakeLedgerRepo) {
	r.vaults, r.cashflows, r.expenses = c.vaults, c.cashflows, c.expenses
}

func (r *fakeLedgerRepo) GetVault(_ context.Context, id string) (ledger.Vault, error) {
	v, ok := r.vaults[id]
	if !ok {
		return ledger.Vault{}, ledger.ErrVaultNotFound
	}
	return v, nil
}

func (r *fakeLedgerRepo) GetVaultForUpdate(ctx context.Context, id string) (ledger.Vault, error) {
	r.locked = append(r.locked, id)
	return r.GetVault(ctx, id)
}

func (r *fakeLedgerRepo) FindCashVault(_ context.Context, defaultOnly bool) (ledger.Vault, error) {
	candidates := make([]ledger.Vault, 0)
	for _, v := range r.vaults {
		if v.PaymentMethod == ledger.PaymentMethodCash && (!defaultOnly || v.IsDefault) {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return ledger.Vault{}, ledger.ErrNoVaultAvailable
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Balance.GreaterThan(candidates[j].Balance) })
	return candidates[0], nil
}

func (r *fakeLedgerRepo) ListVaults(context.Context) ([]ledger.Vault, error) {
	out := make([]ledger.Vault, 0, len(r.vaults))
	for _, v := range r.vaults {
		out = append(out, v)
	}
	return out, nil
}

func (r *fakeLedgerRepo) CountFundedVaults(context.Context) (int, error) {
	n := 0
	for _, v := range r.vaults {
		if v.Balance.IsPositive() {
			n++
		}
	}
	return n, nil
}

func (r *fakeLedgerRepo) DebitVault(_ context.Context, id string, amount decimal.Decimal) (ledger.Vault, error) {
	if r.debitErr != nil {
		return ledger.Vault{}, r.debitErr
	}
	v, ok := r.vaults[id]
	if !ok {
		return ledger.Vault{}, ledger.ErrVaultNotFound
	}
	v.Balance = v.Balance.Sub(amount)
	r.vaults[id] = v
	return v, nil
}

func (r *fakeLedgerRepo) GetCategoryID(_ context.Context, name string) (*string, error) {
	if name != ledger.CommissionCategory {
		return nil, nil
	}
	id := commissionCat
	return &id, nil
}

func (r *fakeLedgerRepo) CreateCashflow(_ context.Context, c ledger.Cashflow) (ledger.Cashflow, error) {
	r.cashflows = append(r.cashflows, c)
	return c, nil
}

func (r *fakeLedgerRepo) CreateExpense(_ context.Context, e ledger.Expense) (ledger.Expense, error) {
	if e.Type == ledger.ExpenseFixed && r.fixedExpenseErr != nil {
		return ledger.Expense{}, r.fixedExpenseErr
	}
	r.expenses = append(r.expenses, e)
	return e, nil
}

func (r *fakeLedgerRepo) ListCashflows(_ context.Context, types []ledger.RelatedType, limit int) ([]ledger.Cashflow, error) {
	out := make([]ledger.Cashflow, 0)
	for i := len(r.cashflows) - 1; i >= 0 && len(out) < limit; i-- {
		for _, t := range types {
			if r.cashflows[i].RelatedType == t {
				out = append(out, r.cashflows[i])
				break
			}
		}
	}
	return out, nil
}

type staticSettings settings.Settings

func (s staticSettings) GetSettings(context.Context) (settings.Settings, error) {
	return settings.Settings(s), nil
}

func newTestService(t *testing.T, enabled bool) (*LedgerServiceImpl, *fakeLedgerRepo) {
	t.Helper()
	repo := &fakeLedgerRepo{vaults: map[string]ledger.Vault{
		mainVaultID: {
			ID: mainVaultID, Name: "Main cash", PaymentMethod: ledger.PaymentMethodCash, IsDefault: true,
			Balance: decimal.NewFromInt(1000), CommissionRate: decimal.NewFromInt(5),
		},
		reserveVaultID: {
			ID: reserveVaultID, Name: "Reserve", PaymentMethod: ledger.PaymentMethodCash,
			Balance: decimal.NewFromInt(20000), CommissionRate: decimal.Zero,
		},
	}}
	cfg := staticSettings(settings.Settings{LedgerIntegrationEnabled: enabled})
	svc := NewLedgerService(snapshotTx{repo: repo}, repo, cfg).(*LedgerServiceImpl)
	return svc, repo
}

func paidSnapshot(amount int64) salary.Snapshot {
	return salary.Snapshot{
		ID:           "01900000-0000-7000-8000-0000000000c1",
		EmployeeID:   "01900000-0000-7000-8000-0000000000e1",
		EmployeeName: "Amira",
		Month:        "2025-01",
		FinalSalary:  decimal.NewFromInt(amount),
		Status:       salary.StatusPaid,
	}
}

func TestPayoutSalary_DefaultVaultWithCommissionMayOverdraw(t *testing.T) {
	svc, repo := newTestService(t, true)

	result, err := svc.PayoutSalary(context.Background(), paidSnapshot(6500), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, mainVaultID, result.VaultID)
	assert.Equal(t, "325", result.Commission.String())
	assert.Equal(t, "6825", result.Total.String())
	assert.Equal(t, "-5825", result.BalanceAfter.String())
	assert.True(t, result.Overdrawn)

	require.Len(t, repo.cashflows, 2)
	assert.Equal(t, ledger.RelatedSalary, repo.cashflows[0].RelatedType)
	assert.Equal(t, "6500", repo.cashflows[0].Amount.String())
	assert.Equal(t, ledger.RelatedSalaryCommission, repo.cashflows[1].RelatedType)
	require.NotNil(t, repo.cashflows[1].CategoryID)

	require.Len(t, repo.expenses, 2)
	assert.Equal(t, ledger.ExpenseVariable, repo.expenses[0].Type)
	assert.Equal(t, ledger.ExpenseFixed, repo.expenses[1].Type)
	assert.Contains(t, repo.locked, mainVaultID)
}

func TestPayoutSalary_ExplicitVaultWithoutCommission(t *testing.T) {
	svc, repo := newTestService(t, true)
	vault := reserveVaultID

	result, err := svc.PayoutSalary(context.Background(), paidSnapshot(6000), &vault, nil)
	require.NoError(t, err)
	assert.Equal(t, reserveVaultID, result.VaultID)
	assert.True(t, result.Commission.IsZero())
	assert.Equal(t, "14000", result.BalanceAfter.String())
	assert.Len(t, repo.cashflows, 1)
	assert.Len(t, repo.expenses, 1)
}

func TestPayoutSalary_UnknownVaultFallsBackToDefault(t *testing.T) {
	svc, _ := newTestService(t, true)
	missing := "01900000-0000-7000-8000-0000000000ff"

	result, err := svc.PayoutSalary(context.Background(), paidSnapshot(100), &missing, nil)
	require.NoError(t, err)
	assert.Equal(t, mainVaultID, result.VaultID)
}

func TestPayoutSalary_NoVault(t *testing.T) {
	svc, repo := newTestService(t, true)
	repo.vaults = map[string]ledger.Vault{}

	_, err := svc.PayoutSalary(context.Background(), paidSnapshot(100), nil, nil)
	assert.ErrorIs(t, err, ledger.ErrNoVaultAvailable)
	assert.Empty(t, repo.cashflows)
}

func TestPayoutSalary_Disabled(t *testing.T) {
	svc, repo := newTestService(t, false)

	_, err := svc.PayoutSalary(context.Background(), paidSnapshot(100), nil, nil)
	assert.ErrorIs(t, err, ledger.ErrIntegrationUnavailable)
	assert.Empty(t, repo.cashflows)
	assert.Equal(t, "1000", repo.vaults[mainVaultID].Balance.String())
}

func TestPayoutAdvance_InsufficientIsNoOp(t *testing.T) {
	svc, repo := newTestService(t, true)

	_, err := svc.PayoutAdvance(context.Background(), ledger.AdvancePayout{
		EmployeeID: "emp-1", Amount: decimal.NewFromInt(1500), RequestID: "req-1",
	})
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
	assert.Empty(t, repo.cashflows)
	assert.Equal(t, "1000", repo.vaults[mainVaultID].Balance.String())
}

func TestPayoutAdvance_Debits(t *testing.T) {
	svc, repo := newTestService(t, true)

	result, err := svc.PayoutAdvance(context.Background(), ledger.AdvancePayout{
		EmployeeID: "emp-1", Amount: decimal.NewFromInt(400), RequestID: "req-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "600", result.BalanceAfter.String())
	require.Len(t, repo.cashflows, 1)
	assert.Equal(t, ledger.RelatedAdvance, repo.cashflows[0].RelatedType)
}

func TestPreviewAndStatus(t *testing.T) {
	svc, _ := newTestService(t, true)
	ctx := context.Background()

	preview, err := svc.PreviewPayout(ctx, ledger.PreviewPayoutRequest{Amount: decimal.NewFromInt(6500)})
	require.NoError(t, err)
	assert.Equal(t, "6825", preview.Total.String())
	assert.False(t, preview.Sufficient)

	status, err := svc.GetStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.Ready)
	assert.Equal(t, 2, status.FundedVaults)
}

func TestSubscribe_PaysOnEvents(t *testing.T) {
	svc, repo := newTestService(t, true)
	bus := eventbus.New(nil)
	Subscribe(bus, svc)
	ctx := context.Background()

	snap := paidSnapshot(500)
	require.NoError(t, bus.Publish(ctx, salary.PaidEvent{
		EmployeeID: snap.EmployeeID, FinalSalary: snap.FinalSalary, Month: snap.Month, Snapshot: snap,
	}))
	require.NoError(t, bus.Publish(ctx, request.AdvanceApproved{Approved: request.Approved{
		RequestID: "req-9", EmployeeID: "emp-1", Type: request.TypeAdvance, Amount: decimal.NewFromInt(10),
	}}))
	require.NoError(t, bus.Publish(ctx, request.BonusApproved{Approved: request.Approved{
		RequestID: "req-10", EmployeeID: "emp-1", Type: request.TypeBonus, Amount: decimal.NewFromInt(10),
	}}))

	history, err := svc.SalaryHistory(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	err = bus.Publish(ctx, request.AdvanceApproved{Approved: request.Approved{
		RequestID: "req-11", EmployeeID: "emp-1", Type: request.TypeAdvance, Amount: decimal.NewFromInt(1000000),
	}})
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
	assert.Len(t, repo.cashflows, 3)
}

func TestSubscribe_DisabledIsSilent(t *testing.T) {
	svc, _ := newTestService(t, false)
	bus := eventbus.New(nil)
	Subscribe(bus, svc)

	snap := paidSnapshot(500)
	assert.NoError(t, bus.Publish(context.Background(), salary.PaidEvent{Snapshot: snap}))
}

func TestPayoutSalary_FailureLeavesLedgerUntouched(t *testing.T) {
	tests := []struct {
		name   string
		inject func(r *fakeLedgerRepo)
	}{
		{"vault debit fails", func(r *fakeLedgerRepo) { r.debitErr = assert.AnError }},
		{"salary expense fails after debit", func(r *fakeLedgerRepo) { r.fixedExpenseErr = assert.AnError }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(t, true)
			tt.inject(repo)

			_, err := svc.PayoutSalary(context.Background(), paidSnapshot(6500), nil, nil)
			require.ErrorIs(t, err, assert.AnError)

			assert.Empty(t, repo.cashflows)
			assert.Empty(t, repo.expenses)
			assert.Equal(t, "1000", repo.vaults[mainVaultID].Balance.String())
			assert.Equal(t, "20000", repo.vaults[reserveVaultID].Balance.String())
		})
	}
}

func TestPayoutAdvance_DebitFailureDropsCashflow(t *testing.T) {
	svc, repo := newTestService(t, true)
	repo.debitErr = assert.AnError

	_, err := svc.PayoutAdvance(context.Background(), ledger.AdvancePayout{
		EmployeeID: "01900000-0000-7000-8000-0000000000e1",
		Amount:     decimal.NewFromInt(400),
		RequestID:  "01900000-0000-7000-8000-0000000000d1",
	})
	require.ErrorIs(t, err, assert.AnError)

	assert.Empty(t, repo.cashflows)
	assert.Equal(t, "1000", repo.vaults[mainVaultID].Balance.String())
}
