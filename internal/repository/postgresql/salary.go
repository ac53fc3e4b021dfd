package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type salaryRepositoryImpl struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) salary.SnapshotRepository {
	return &salaryRepositoryImpl{db: db}
}

const snapshotColumns = `
	s.id, s.employee_id, COALESCE(e.name, ''), s.month, s.base_salary, s.bonuses, s.deductions,
	s.advances, s.attendance_deduction, s.manual_adjustment, s.adjustment_reason, s.final_salary,
	s.status, s.calculated_at, s.paid_at, s.created_at, s.updated_at`

// snapshotFrom wraps a statement returning salary_snapshots rows so the
// employee name can be joined onto its result.
func snapshotFrom(cte string) string {
	return `WITH saved AS (` + cte + ` RETURNING *)
		SELECT ` + snapshotColumns + ` FROM saved s LEFT JOIN employees e ON e.id = s.employee_id`
}

func scanSnapshot(row pgx.Row) (salary.Snapshot, error) {
	var s salary.Snapshot
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.EmployeeName, &s.Month, &s.BaseSalary, &s.Bonuses, &s.Deductions,
		&s.Advances, &s.AttendanceDeduction, &s.ManualAdjustment, &s.AdjustmentReason, &s.FinalSalary,
		&s.Status, &s.CalculatedAt, &s.PaidAt, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *salaryRepositoryImpl) LockEmployeeMonth(ctx context.Context, employeeID string, month string) error {
	return lockKey(ctx, r.db, "salary:"+employeeID+":"+month)
}

func (r *salaryRepositoryImpl) getOne(ctx context.Context, query string, args ...interface{}) (salary.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSnapshot(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Snapshot{}, salary.ErrSnapshotNotFound
		}
		return salary.Snapshot{}, fmt.Errorf("failed to get salary snapshot: %w", err)
	}
	return s, nil
}

func (r *salaryRepositoryImpl) GetByEmployeeMonth(ctx context.Context, employeeID string, month string) (salary.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + `
		FROM salary_snapshots s LEFT JOIN employees e ON e.id = s.employee_id
		WHERE s.employee_id = $1 AND s.month = $2`
	return r.getOne(ctx, query, employeeID, month)
}

func (r *salaryRepositoryImpl) GetByID(ctx context.Context, id string) (salary.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + `
		FROM salary_snapshots s LEFT JOIN employees e ON e.id = s.employee_id
		WHERE s.id = $1`
	return r.getOne(ctx, query, id)
}

func (r *salaryRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (salary.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + `
		FROM salary_snapshots s LEFT JOIN employees e ON e.id = s.employee_id
		WHERE s.id = $1
		FOR UPDATE OF s`
	return r.getOne(ctx, query, id)
}

func (r *salaryRepositoryImpl) Upsert(ctx context.Context, s salary.Snapshot) (salary.Snapshot, error) {
	id := s.ID
	if id == "" {
		var err error
		if id, err = newID(); err != nil {
			return salary.Snapshot{}, err
		}
	}
	status := s.Status
	if status == "" {
		status = salary.StatusUnpaid
	}

	query := snapshotFrom(`
		INSERT INTO salary_snapshots (
			id, employee_id, month, base_salary, bonuses, deductions, advances,
			attendance_deduction, manual_adjustment, adjustment_reason, final_salary, status, calculated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (employee_id, month) DO UPDATE SET
			base_salary = EXCLUDED.base_salary,
			bonuses = EXCLUDED.bonuses,
			deductions = EXCLUDED.deductions,
			advances = EXCLUDED.advances,
			attendance_deduction = EXCLUDED.attendance_deduction,
			final_salary = EXCLUDED.final_salary,
			calculated_at = EXCLUDED.calculated_at,
			updated_at = NOW()
		WHERE salary_snapshots.status <> 'paid'`)

	saved, err := r.getOne(ctx, query,
		id, s.EmployeeID, s.Month, s.BaseSalary, s.Bonuses, s.Deductions, s.Advances,
		s.AttendanceDeduction, s.ManualAdjustment, s.AdjustmentReason, s.FinalSalary, status, s.CalculatedAt,
	)
	if errors.Is(err, salary.ErrSnapshotNotFound) {
		// the conflicting row is paid
		return salary.Snapshot{}, salary.ErrAlreadyPaid
	}
	return saved, err
}

func (r *salaryRepositoryImpl) UpdateAdjustment(ctx context.Context, s salary.Snapshot) (salary.Snapshot, error) {
	query := snapshotFrom(`
		UPDATE salary_snapshots SET
			manual_adjustment = $2,
			adjustment_reason = $3,
			final_salary = $4,
			updated_at = NOW()
		WHERE id = $1 AND status <> 'paid'`)

	saved, err := r.getOne(ctx, query, s.ID, s.ManualAdjustment, s.AdjustmentReason, s.FinalSalary)
	if errors.Is(err, salary.ErrSnapshotNotFound) {
		return salary.Snapshot{}, salary.ErrAlreadyPaid
	}
	return saved, err
}

func (r *salaryRepositoryImpl) MarkPaid(ctx context.Context, id string, paidAt time.Time) (salary.Snapshot, error) {
	query := snapshotFrom(`
		UPDATE salary_snapshots SET status = 'paid', paid_at = $2, updated_at = NOW()
		WHERE id = $1 AND status <> 'paid'`)

	saved, err := r.getOne(ctx, query, id, paidAt)
	if errors.Is(err, salary.ErrSnapshotNotFound) {
		return salary.Snapshot{}, salary.ErrAlreadyPaid
	}
	return saved, err
}

func (r *salaryRepositoryImpl) ListByMonth(ctx context.Context, month string, status *salary.Status) ([]salary.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + snapshotColumns + `
		FROM salary_snapshots s LEFT JOIN employees e ON e.id = s.employee_id
		WHERE s.month = $1 AND ($2::text IS NULL OR s.status = $2::text)
		ORDER BY e.name ASC, s.created_at ASC`

	var statusArg *string
	if status != nil {
		v := string(*status)
		statusArg = &v
	}

	rows, err := q.Query(ctx, query, month, statusArg)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]salary.Snapshot, 0)
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary snapshots: %w", err)
	}
	return snapshots, nil
}

func (r *salaryRepositoryImpl) AppendLog(ctx context.Context, entry salary.LogEntry) error {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO salary_logs (id, snapshot_id, employee_id, action, old_amount, new_amount, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = q.Exec(ctx, query,
		id, entry.SnapshotID, entry.EmployeeID, entry.Action, entry.OldAmount, entry.NewAmount, entry.Notes, entry.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to append salary log: %w", err)
	}
	return nil
}

func (r *salaryRepositoryImpl) ListLogs(ctx context.Context, snapshotID string) ([]salary.LogEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, snapshot_id, employee_id, action, old_amount, new_amount, notes, created_by, created_at
		FROM salary_logs
		WHERE snapshot_id = $1
		ORDER BY created_at ASC`

	rows, err := q.Query(ctx, query, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary logs: %w", err)
	}
	defer rows.Close()

	logs := make([]salary.LogEntry, 0)
	for rows.Next() {
		var l salary.LogEntry
		if err := rows.Scan(
			&l.ID, &l.SnapshotID, &l.EmployeeID, &l.Action, &l.OldAmount, &l.NewAmount, &l.Notes, &l.CreatedBy, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan salary log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary logs: %w", err)
	}
	return logs, nil
}
