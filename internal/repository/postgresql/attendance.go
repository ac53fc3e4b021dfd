package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `
	id, employee_id, date, check_in_time, check_out_time, status, work_hours,
	meta, notes, created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		a    attendance.Attendance
		meta []byte
	)
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Date, &a.CheckInTime, &a.CheckOutTime, &a.Status, &a.WorkHours,
		&meta, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &a.Meta); err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to decode attendance meta: %w", err)
		}
	}
	return a, nil
}

func (r *attendanceRepositoryImpl) LockEmployeeDate(ctx context.Context, employeeID string, date time.Time) error {
	return lockKey(ctx, r.db, "attendance:"+employeeID+":"+date.Format("2006-01-02"))
}

func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE employee_id = $1 AND date = $2`

	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	id := a.ID
	if id == "" {
		var err error
		if id, err = newID(); err != nil {
			return attendance.Attendance{}, err
		}
	}

	meta, err := json.Marshal(a.Meta)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to encode attendance meta: %w", err)
	}

	query := `
		INSERT INTO attendances (id, employee_id, date, check_in_time, check_out_time, status, work_hours, meta, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			check_in_time = EXCLUDED.check_in_time,
			check_out_time = EXCLUDED.check_out_time,
			status = EXCLUDED.status,
			work_hours = EXCLUDED.work_hours,
			meta = EXCLUDED.meta,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING ` + attendanceColumns

	saved, err := scanAttendance(q.QueryRow(ctx, query,
		id, a.EmployeeID, a.Date, a.CheckInTime, a.CheckOutTime, a.Status, a.WorkHours, string(meta), a.Notes,
	))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}
	return saved, nil
}

func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	var (
		conditions []string
		args       []interface{}
	)
	addCond := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.EmployeeID != nil {
		addCond("employee_id = $%d", *filter.EmployeeID)
	}
	if filter.From != nil {
		addCond("date >= $%d", *filter.From)
	}
	if filter.To != nil {
		addCond("date < $%d", *filter.To)
	}
	if filter.Status != nil {
		addCond("status = $%d", *filter.Status)
	}

	query := `SELECT ` + attendanceColumns + ` FROM attendances`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	return r.queryList(ctx, q, query, args...)
}

func (r *attendanceRepositoryImpl) ListCompleted(ctx context.Context, from, to *time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances
		WHERE check_in_time IS NOT NULL AND check_out_time IS NOT NULL
			AND ($1::date IS NULL OR date >= $1::date)
			AND ($2::date IS NULL OR date < $2::date)
		ORDER BY date ASC`

	return r.queryList(ctx, q, query, from, to)
}

func (r *attendanceRepositoryImpl) UpdateWorkHours(ctx context.Context, id string, hours float64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE attendances SET work_hours = $2, updated_at = NOW() WHERE id = $1`, id, hours)
	if err != nil {
		return fmt.Errorf("failed to update work hours for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

func (r *attendanceRepositoryImpl) queryList(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]attendance.Attendance, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}
