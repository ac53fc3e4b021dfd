package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type ledgerRepositoryImpl struct {
	db *database.DB
}

func NewLedgerRepository(db *database.DB) ledger.LedgerRepository {
	return &ledgerRepositoryImpl{db: db}
}

const vaultColumns = `id, name, payment_method, is_default, balance, commission_rate, created_at, updated_at`

func scanVault(row pgx.Row) (ledger.Vault, error) {
	var v ledger.Vault
	err := row.Scan(&v.ID, &v.Name, &v.PaymentMethod, &v.IsDefault, &v.Balance, &v.CommissionRate, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (r *ledgerRepositoryImpl) getVault(ctx context.Context, query string, args ...interface{}) (ledger.Vault, error) {
	q := GetQuerier(ctx, r.db)

	v, err := scanVault(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Vault{}, ledger.ErrVaultNotFound
		}
		return ledger.Vault{}, fmt.Errorf("failed to get vault: %w", err)
	}
	return v, nil
}

func (r *ledgerRepositoryImpl) GetVault(ctx context.Context, id string) (ledger.Vault, error) {
	return r.getVault(ctx, `SELECT `+vaultColumns+` FROM ledger_vaults WHERE id = $1`, id)
}

func (r *ledgerRepositoryImpl) GetVaultForUpdate(ctx context.Context, id string) (ledger.Vault, error) {
	return r.getVault(ctx, `SELECT `+vaultColumns+` FROM ledger_vaults WHERE id = $1 FOR UPDATE`, id)
}

func (r *ledgerRepositoryImpl) FindCashVault(ctx context.Context, defaultOnly bool) (ledger.Vault, error) {
	query := `SELECT ` + vaultColumns + ` FROM ledger_vaults
		WHERE payment_method = $1 AND ($2 = FALSE OR is_default)
		ORDER BY balance DESC, created_at ASC
		LIMIT 1`

	v, err := r.getVault(ctx, query, ledger.PaymentMethodCash, defaultOnly)
	if errors.Is(err, ledger.ErrVaultNotFound) {
		return ledger.Vault{}, ledger.ErrNoVaultAvailable
	}
	return v, err
}

func (r *ledgerRepositoryImpl) ListVaults(ctx context.Context) ([]ledger.Vault, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+vaultColumns+` FROM ledger_vaults ORDER BY is_default DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list vaults: %w", err)
	}
	defer rows.Close()

	vaults := make([]ledger.Vault, 0)
	for rows.Next() {
		v, err := scanVault(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vault: %w", err)
		}
		vaults = append(vaults, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vaults: %w", err)
	}
	return vaults, nil
}

func (r *ledgerRepositoryImpl) CountFundedVaults(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_vaults WHERE balance > 0`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count funded vaults: %w", err)
	}
	return count, nil
}

func (r *ledgerRepositoryImpl) DebitVault(ctx context.Context, id string, amount decimal.Decimal) (ledger.Vault, error) {
	query := `UPDATE ledger_vaults SET balance = balance - $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + vaultColumns
	return r.getVault(ctx, query, id, amount)
}

func (r *ledgerRepositoryImpl) GetCategoryID(ctx context.Context, name string) (*string, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `SELECT id FROM ledger_expense_categories WHERE name = $1`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense category %q: %w", name, err)
	}
	return &id, nil
}

func (r *ledgerRepositoryImpl) CreateCashflow(ctx context.Context, c ledger.Cashflow) (ledger.Cashflow, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return ledger.Cashflow{}, err
	}

	query := `
		INSERT INTO ledger_cashflows (
			id, type, category_id, amount, description, related_id, related_type,
			payment_method, vault_id, employee_id, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`

	c.ID = id
	err = q.QueryRow(ctx, query,
		c.ID, c.Type, c.CategoryID, c.Amount, c.Description, c.RelatedID, c.RelatedType,
		c.PaymentMethod, c.VaultID, c.EmployeeID, c.CreatedBy,
	).Scan(&c.CreatedAt)
	if err != nil {
		return ledger.Cashflow{}, fmt.Errorf("failed to create cashflow: %w", err)
	}
	return c, nil
}

func (r *ledgerRepositoryImpl) CreateExpense(ctx context.Context, e ledger.Expense) (ledger.Expense, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return ledger.Expense{}, err
	}

	query := `
		INSERT INTO ledger_expenses (id, type, category_id, amount, description, vault_id, employee_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	e.ID = id
	err = q.QueryRow(ctx, query,
		e.ID, e.Type, e.CategoryID, e.Amount, e.Description, e.VaultID, e.EmployeeID, e.CreatedBy,
	).Scan(&e.CreatedAt)
	if err != nil {
		return ledger.Expense{}, fmt.Errorf("failed to create expense: %w", err)
	}
	return e, nil
}

func (r *ledgerRepositoryImpl) ListCashflows(ctx context.Context, relatedTypes []ledger.RelatedType, limit int) ([]ledger.Cashflow, error) {
	q := GetQuerier(ctx, r.db)

	types := make([]string, len(relatedTypes))
	for i, t := range relatedTypes {
		types[i] = string(t)
	}

	query := `
		SELECT id, type, category_id, amount, COALESCE(description, ''), related_id, COALESCE(related_type, ''),
			COALESCE(payment_method, ''), vault_id, employee_id, created_by, created_at
		FROM ledger_cashflows
		WHERE related_type = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := q.Query(ctx, query, types, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list cashflows: %w", err)
	}
	defer rows.Close()

	flows := make([]ledger.Cashflow, 0)
	for rows.Next() {
		var c ledger.Cashflow
		if err := rows.Scan(
			&c.ID, &c.Type, &c.CategoryID, &c.Amount, &c.Description, &c.RelatedID, &c.RelatedType,
			&c.PaymentMethod, &c.VaultID, &c.EmployeeID, &c.CreatedBy, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cashflow: %w", err)
		}
		flows = append(flows, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cashflows: %w", err)
	}
	return flows, nil
}
