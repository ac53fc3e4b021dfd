package salary

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/settings"
	"github.com/shopspring/decimal"
)

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSnapshotRepo struct {
	mu        sync.Mutex
	snapshots map[string]salary.Snapshot
	logs      []salary.LogEntry
	seq       int
	locks     []string

	// beforeUpsert runs once, ahead of the next Upsert.
	beforeUpsert func()
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{snapshots: map[string]salary.Snapshot{}}
}

func (r *fakeSnapshotRepo) LockEmployeeMonth(_ context.Context, employeeID, month string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locks = append(r.locks, employeeID+":"+month)
	return nil
}

func (r *fakeSnapshotRepo) takenLocks() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.locks...)
}

func (r *fakeSnapshotRepo) GetByEmployeeMonth(_ context.Context, employeeID, month string) (salary.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.snapshots {
		if s.EmployeeID == employeeID && s.Month == month {
			return s, nil
		}
	}
	return salary.Snapshot{}, salary.ErrSnapshotNotFound
}

func (r *fakeSnapshotRepo) GetByID(_ context.Context, id string) (salary.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.snapshots[id]
	if !ok {
		return salary.Snapshot{}, salary.ErrSnapshotNotFound
	}
	return s, nil
}

func (r *fakeSnapshotRepo) GetByIDForUpdate(ctx context.Context, id string) (salary.Snapshot, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeSnapshotRepo) Upsert(_ context.Context, s salary.Snapshot) (salary.Snapshot, error) {
	if hook := r.beforeUpsert; hook != nil {
		r.beforeUpsert = nil
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.snapshots {
		if existing.EmployeeID != s.EmployeeID || existing.Month != s.Month {
			continue
		}
		if existing.IsPaid() {
			return salary.Snapshot{}, salary.ErrAlreadyPaid
		}
		existing.BaseSalary = s.BaseSalary
		existing.Bonuses = s.Bonuses
		existing.Deductions = s.Deductions
		existing.Advances = s.Advances
		existing.AttendanceDeduction = s.AttendanceDeduction
		existing.FinalSalary = s.FinalSalary
		existing.CalculatedAt = s.CalculatedAt
		r.snapshots[id] = existing
		return existing, nil
	}
	r.seq++
	s.ID = fmt.Sprintf("01900000-0000-7000-8000-%012d", r.seq)
	if s.Status == "" {
		s.Status = salary.StatusUnpaid
	}
	r.snapshots[s.ID] = s
	return s, nil
}

func (r *fakeSnapshotRepo) UpdateAdjustment(_ context.Context, s salary.Snapshot) (salary.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.snapshots[s.ID]
	existing.ManualAdjustment = s.ManualAdjustment
	existing.AdjustmentReason = s.AdjustmentReason
	existing.FinalSalary = s.FinalSalary
	r.snapshots[s.ID] = existing
	return existing, nil
}

func (r *fakeSnapshotRepo) MarkPaid(_ context.Context, id string, paidAt time.Time) (salary.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.snapshots[id]
	if s.IsPaid() {
		return salary.Snapshot{}, salary.ErrAlreadyPaid
	}
	s.Status = salary.StatusPaid
	s.PaidAt = &paidAt
	r.snapshots[id] = s
	return s, nil
}

func (r *fakeSnapshotRepo) ListByMonth(_ context.Context, month string, status *salary.Status) ([]salary.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]salary.Snapshot, 0)
	for _, s := range r.snapshots {
		if s.Month == month && (status == nil || s.Status == *status) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *fakeSnapshotRepo) AppendLog(_ context.Context, entry salary.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, entry)
	return nil
}

func (r *fakeSnapshotRepo) ListLogs(_ context.Context, snapshotID string) ([]salary.LogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]salary.LogEntry, 0)
	for _, l := range r.logs {
		if l.SnapshotID == snapshotID {
			out = append(out, l)
		}
	}
	return out, nil
}

// fakeRequestRepo only answers the read side the salary engine uses.
type fakeRequestRepo struct {
	request.RequestRepository
	approved []request.Request
}

func (r *fakeRequestRepo) applicable(employeeID, month string) []request.Request {
	out := make([]request.Request, 0)
	for _, req := range r.approved {
		if req.EmployeeID == employeeID && (req.Month == nil || *req.Month == month) {
			out = append(out, req)
		}
	}
	return out
}

func (r *fakeRequestRepo) ListApplicable(_ context.Context, employeeID, month string) ([]request.Request, error) {
	return r.applicable(employeeID, month), nil
}

func (r *fakeRequestRepo) SumApproved(_ context.Context, employeeID, month string) (request.ApprovedTotals, error) {
	var totals request.ApprovedTotals
	for _, req := range r.applicable(employeeID, month) {
		totals.Add(req.Type, req.Amount)
	}
	return totals, nil
}

type fakeDirectory map[string]employee.Employee

func (d fakeDirectory) GetEmployee(_ context.Context, id string) (employee.Employee, error) {
	e, ok := d[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (d fakeDirectory) ListByStatus(_ context.Context, status employee.Status) ([]employee.Employee, error) {
	out := make([]employee.Employee, 0)
	for _, e := range d {
		if status == "" || e.Status == status {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeSummaries map[string]decimal.Decimal

func (f fakeSummaries) GetSummary(_ context.Context, employeeID, month string) (attendance.Summary, error) {
	return attendance.Summary{EmployeeID: employeeID, Month: month, Deduction: f[employeeID]}, nil
}

type staticSettings settings.Settings

func (s staticSettings) GetSettings(context.Context) (settings.Settings, error) {
	return settings.Settings(s), nil
}
