package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type requestRepositoryImpl struct {
	db *database.DB
}

func NewRequestRepository(db *database.DB) request.RequestRepository {
	return &requestRepositoryImpl{db: db}
}

const requestColumns = `
	r.id, r.employee_id, COALESCE(e.name, ''), r.type, r.amount, r.vault_id, r.reason, r.month,
	r.status, r.approved_by, r.approved_at, r.created_at, r.updated_at`

func scanRequest(row pgx.Row) (request.Request, error) {
	var req request.Request
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.EmployeeName, &req.Type, &req.Amount, &req.VaultID, &req.Reason, &req.Month,
		&req.Status, &req.ApprovedBy, &req.ApprovedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

func (r *requestRepositoryImpl) getOne(ctx context.Context, query string, args ...interface{}) (request.Request, error) {
	q := GetQuerier(ctx, r.db)

	req, err := scanRequest(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return request.Request{}, request.ErrRequestNotFound
		}
		return request.Request{}, fmt.Errorf("failed to get salary request: %w", err)
	}
	return req, nil
}

func (r *requestRepositoryImpl) Create(ctx context.Context, req request.Request) (request.Request, error) {
	id, err := newID()
	if err != nil {
		return request.Request{}, err
	}

	query := `WITH saved AS (
			INSERT INTO salary_requests (id, employee_id, type, amount, vault_id, reason, month, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
			RETURNING *
		)
		SELECT ` + requestColumns + ` FROM saved r LEFT JOIN employees e ON e.id = r.employee_id`

	return r.getOne(ctx, query, id, req.EmployeeID, req.Type, req.Amount, req.VaultID, req.Reason, req.Month)
}

func (r *requestRepositoryImpl) GetByID(ctx context.Context, id string) (request.Request, error) {
	query := `SELECT ` + requestColumns + `
		FROM salary_requests r LEFT JOIN employees e ON e.id = r.employee_id
		WHERE r.id = $1`
	return r.getOne(ctx, query, id)
}

func (r *requestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (request.Request, error) {
	query := `SELECT ` + requestColumns + `
		FROM salary_requests r LEFT JOIN employees e ON e.id = r.employee_id
		WHERE r.id = $1
		FOR UPDATE OF r`
	return r.getOne(ctx, query, id)
}

func (r *requestRepositoryImpl) SetDecision(ctx context.Context, id string, status request.Status, decidedBy string, decidedAt time.Time, vaultID *string) (request.Request, error) {
	query := `WITH saved AS (
			UPDATE salary_requests SET
				status = $2,
				approved_by = $3,
				approved_at = $4,
				vault_id = COALESCE($5, vault_id),
				updated_at = NOW()
			WHERE id = $1 AND status = 'pending'
			RETURNING *
		)
		SELECT ` + requestColumns + ` FROM saved r LEFT JOIN employees e ON e.id = r.employee_id`

	req, err := r.getOne(ctx, query, id, status, decidedBy, decidedAt, vaultID)
	if errors.Is(err, request.ErrRequestNotFound) {
		return request.Request{}, request.ErrRequestAlreadyProcessed
	}
	return req, err
}

func (r *requestRepositoryImpl) List(ctx context.Context, filter request.RequestFilter) ([]request.Request, error) {
	var (
		conditions []string
		args       []interface{}
	)
	addCond := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.EmployeeID != nil {
		addCond("r.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Status != nil {
		addCond("r.status = $%d", *filter.Status)
	}
	if filter.Type != nil {
		addCond("r.type = $%d", *filter.Type)
	}

	query := `SELECT ` + requestColumns + ` FROM salary_requests r LEFT JOIN employees e ON e.id = r.employee_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY r.created_at DESC"

	return r.queryList(ctx, query, args...)
}

func (r *requestRepositoryImpl) ListApplicable(ctx context.Context, employeeID string, month string) ([]request.Request, error) {
	query := `SELECT ` + requestColumns + `
		FROM salary_requests r LEFT JOIN employees e ON e.id = r.employee_id
		WHERE r.employee_id = $1 AND r.status = 'approved' AND (r.month = $2 OR r.month IS NULL)
		ORDER BY r.created_at ASC`
	return r.queryList(ctx, query, employeeID, month)
}

func (r *requestRepositoryImpl) SumApproved(ctx context.Context, employeeID string, month string) (request.ApprovedTotals, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT type, COALESCE(SUM(amount), 0)
		FROM salary_requests
		WHERE employee_id = $1 AND status = 'approved' AND (month = $2 OR month IS NULL)
		GROUP BY type`

	totals := request.ApprovedTotals{}
	rows, err := q.Query(ctx, query, employeeID, month)
	if err != nil {
		return totals, fmt.Errorf("failed to sum approved requests: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t   request.Type
			sum decimal.Decimal
		)
		if err := rows.Scan(&t, &sum); err != nil {
			return totals, fmt.Errorf("failed to scan request totals: %w", err)
		}
		totals.Add(t, sum)
	}
	if err := rows.Err(); err != nil {
		return totals, fmt.Errorf("failed to iterate request totals: %w", err)
	}
	return totals, nil
}

func (r *requestRepositoryImpl) queryList(ctx context.Context, query string, args ...interface{}) ([]request.Request, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary requests: %w", err)
	}
	defer rows.Close()

	requests := make([]request.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary requests: %w", err)
	}
	return requests, nil
}
