package salary

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/eventbus"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/telemetry"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type SalaryServiceImpl struct {
	tx           database.Transactor
	snapshotRepo salary.SnapshotRepository
	requestRepo  request.RequestRepository
	employees    employee.Directory
	attendance   attendance.SummaryProvider
	settings     settings.Provider
	bus          *eventbus.Bus
	now          func() time.Time
}

func NewSalaryService(
	tx database.Transactor,
	snapshotRepo salary.SnapshotRepository,
	requestRepo request.RequestRepository,
	employees employee.Directory,
	attendanceSummary attendance.SummaryProvider,
	settingsProvider settings.Provider,
	bus *eventbus.Bus,
) salary.SalaryService {
	return &SalaryServiceImpl{
		tx:           tx,
		snapshotRepo: snapshotRepo,
		requestRepo:  requestRepo,
		employees:    employees,
		attendance:   attendanceSummary,
		settings:     settingsProvider,
		bus:          bus,
		now:          time.Now,
	}
}

func validateMonth(month string) error {
	if !period.IsValidMonth(month) {
		return validator.ValidationErrors{{Field: "month", Message: "month must be in YYYY-MM format"}}
	}
	return nil
}

func (s *SalaryServiceImpl) publish(ctx context.Context, event eventbus.Event) {
	if err := s.bus.Publish(ctx, event); err != nil {
		slog.Warn("Event subscriber failed", "event", event.EventName(), "error", err)
	}
}

// Recalculate implements salary.Recalculator.
func (s *SalaryServiceImpl) Recalculate(ctx context.Context, employeeID string, month string) (salary.SnapshotResponse, error) {
	snap, _, err := s.recalculate(ctx, employeeID, month)
	if err != nil {
		return salary.SnapshotResponse{}, err
	}
	return salary.NewSnapshotResponse(snap), nil
}

// recalculate reports written=false when the snapshot was already paid and
// returned untouched.
func (s *SalaryServiceImpl) recalculate(ctx context.Context, employeeID string, month string) (salary.Snapshot, bool, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "salary.recalculate", trace.WithAttributes(
		attribute.String("employee.id", employeeID),
		attribute.String("salary.month", month),
	))
	defer span.End()

	if err := validateMonth(month); err != nil {
		return salary.Snapshot{}, false, err
	}
	emp, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return salary.Snapshot{}, false, err
	}
	cfg, err := s.settings.GetSettings(ctx)
	if err != nil {
		return salary.Snapshot{}, false, err
	}

	var (
		saved   salary.Snapshot
		written bool
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.snapshotRepo.LockEmployeeMonth(ctx, employeeID, month); err != nil {
			return err
		}

		existing, err := s.snapshotRepo.GetByEmployeeMonth(ctx, employeeID, month)
		found := err == nil
		if err != nil && !errors.Is(err, salary.ErrSnapshotNotFound) {
			return err
		}
		if found && existing.IsPaid() {
			saved = existing
			return nil
		}

		totals, err := s.requestRepo.SumApproved(ctx, employeeID, month)
		if err != nil {
			return err
		}

		attendanceDeduction := decimal.Zero
		if cfg.AttendanceSalaryLinkEnabled {
			summary, err := s.attendance.GetSummary(ctx, employeeID, month)
			if err != nil {
				return err
			}
			attendanceDeduction = summary.Deduction
		}

		now := s.now()
		next := salary.Snapshot{
			ID:                  existing.ID,
			EmployeeID:          employeeID,
			Month:               month,
			BaseSalary:          emp.BaseSalary,
			Bonuses:             totals.Bonuses,
			Deductions:          totals.Deductions,
			Advances:            totals.Advances,
			AttendanceDeduction: attendanceDeduction,
			ManualAdjustment:    existing.ManualAdjustment,
			AdjustmentReason:    existing.AdjustmentReason,
			Status:              existing.Status,
			CalculatedAt:        &now,
		}
		next.FinalSalary = salary.FinalSalary(
			next.BaseSalary, next.Bonuses, next.Deductions, next.Advances,
			next.AttendanceDeduction, next.ManualAdjustment,
		)

		saved, err = s.snapshotRepo.Upsert(ctx, next)
		if errors.Is(err, salary.ErrAlreadyPaid) {
			// paid by a writer that did not hold the lock; leave it alone
			saved, err = s.snapshotRepo.GetByEmployeeMonth(ctx, employeeID, month)
			return err
		}
		if err != nil {
			return err
		}

		entry := salary.LogEntry{
			SnapshotID: saved.ID,
			EmployeeID: employeeID,
			Action:     salary.ActionCalculated,
			NewAmount:  &saved.FinalSalary,
		}
		if found {
			entry.OldAmount = &existing.FinalSalary
		}
		if err := s.snapshotRepo.AppendLog(ctx, entry); err != nil {
			return err
		}

		written = true
		return nil
	})
	if err != nil {
		return salary.Snapshot{}, false, err
	}

	if written {
		s.publish(ctx, salary.RecalculatedEvent{Snapshot: saved})
	}
	return saved, written, nil
}

// RecalculateMonth implements salary.SalaryService.
func (s *SalaryServiceImpl) RecalculateMonth(ctx context.Context, month string) (salary.BulkRecalculateResponse, error) {
	if err := validateMonth(month); err != nil {
		return salary.BulkRecalculateResponse{}, err
	}

	active, err := s.employees.ListByStatus(ctx, employee.StatusActive)
	if err != nil {
		return salary.BulkRecalculateResponse{}, err
	}

	resp := salary.BulkRecalculateResponse{Month: month}
	for _, emp := range active {
		_, written, err := s.recalculate(ctx, emp.ID, month)
		switch {
		case err != nil:
			slog.Warn("Failed to recalculate salary", "employee_id", emp.ID, "month", month, "error", err)
			resp.Failed = append(resp.Failed, salary.BulkFailure{EmployeeID: emp.ID, Error: err.Error()})
		case written:
			resp.Processed++
		default:
			resp.Skipped++
		}
	}

	slog.Info("Bulk salary recalculation finished",
		"month", month, "processed", resp.Processed, "skipped_paid", resp.Skipped, "failed", len(resp.Failed))
	return resp, nil
}

func (s *SalaryServiceImpl) getOrCreate(ctx context.Context, employeeID string, month string) (salary.Snapshot, error) {
	if err := validateMonth(month); err != nil {
		return salary.Snapshot{}, err
	}
	snap, err := s.snapshotRepo.GetByEmployeeMonth(ctx, employeeID, month)
	if errors.Is(err, salary.ErrSnapshotNotFound) {
		snap, _, err = s.recalculate(ctx, employeeID, month)
	}
	return snap, err
}

// GetOrCreate implements salary.SalaryService.
func (s *SalaryServiceImpl) GetOrCreate(ctx context.Context, employeeID string, month string) (salary.SnapshotResponse, error) {
	snap, err := s.getOrCreate(ctx, employeeID, month)
	if err != nil {
		return salary.SnapshotResponse{}, err
	}
	return salary.NewSnapshotResponse(snap), nil
}

func (s *SalaryServiceImpl) listMonth(ctx context.Context, month string) ([]salary.Snapshot, error) {
	if err := validateMonth(month); err != nil {
		return nil, err
	}

	snapshots, err := s.snapshotRepo.ListByMonth(ctx, month, nil)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(snapshots))
	for _, snap := range snapshots {
		have[snap.EmployeeID] = true
	}

	active, err := s.employees.ListByStatus(ctx, employee.StatusActive)
	if err != nil {
		return nil, err
	}
	created := 0
	for _, emp := range active {
		if have[emp.ID] {
			continue
		}
		if _, _, err := s.recalculate(ctx, emp.ID, month); err != nil {
			slog.Warn("Failed to initialize salary snapshot", "employee_id", emp.ID, "month", month, "error", err)
			continue
		}
		created++
	}
	if created == 0 {
		return snapshots, nil
	}
	return s.snapshotRepo.ListByMonth(ctx, month, nil)
}

func toResponses(snapshots []salary.Snapshot, keep func(salary.Snapshot) bool) []salary.SnapshotResponse {
	out := make([]salary.SnapshotResponse, 0, len(snapshots))
	for _, snap := range snapshots {
		if keep == nil || keep(snap) {
			out = append(out, salary.NewSnapshotResponse(snap))
		}
	}
	return out
}

// ListByMonth implements salary.SalaryService.
func (s *SalaryServiceImpl) ListByMonth(ctx context.Context, month string) ([]salary.SnapshotResponse, error) {
	snapshots, err := s.listMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	return toResponses(snapshots, nil), nil
}

// ListUnpaid implements salary.SalaryService.
func (s *SalaryServiceImpl) ListUnpaid(ctx context.Context, month string) ([]salary.SnapshotResponse, error) {
	snapshots, err := s.listMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	return toResponses(snapshots, func(snap salary.Snapshot) bool { return !snap.IsPaid() }), nil
}

// Adjust implements salary.SalaryService.
func (s *SalaryServiceImpl) Adjust(ctx context.Context, req salary.AdjustSalaryRequest) (salary.SnapshotResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.SnapshotResponse{}, err
	}

	var saved salary.Snapshot
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		snap, err := s.lockSnapshot(ctx, req.SnapshotID)
		if err != nil {
			return err
		}
		if snap.IsPaid() {
			return salary.ErrAlreadyPaid
		}

		oldFinal := snap.FinalSalary
		reason := req.Reason
		snap.ManualAdjustment = snap.ManualAdjustment.Add(req.Delta)
		snap.AdjustmentReason = &reason
		snap.FinalSalary = snap.AdjustedFinalSalary()

		saved, err = s.snapshotRepo.UpdateAdjustment(ctx, snap)
		if err != nil {
			return err
		}

		return s.snapshotRepo.AppendLog(ctx, salary.LogEntry{
			SnapshotID: saved.ID,
			EmployeeID: saved.EmployeeID,
			Action:     salary.ActionAdjusted,
			OldAmount:  &oldFinal,
			NewAmount:  &saved.FinalSalary,
			Notes:      &reason,
			CreatedBy:  req.ActorID,
		})
	})
	if err != nil {
		return salary.SnapshotResponse{}, err
	}

	slog.Info("Adjusted salary", "snapshot_id", saved.ID, "delta", req.Delta.String(), "final_salary", saved.FinalSalary.String())
	return salary.NewSnapshotResponse(saved), nil
}

// MarkPaid implements salary.SalaryService. The ledger payout runs after
// commit; its failure is logged and does not undo the payment.
func (s *SalaryServiceImpl) MarkPaid(ctx context.Context, req salary.MarkPaidRequest) (salary.SnapshotResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.SnapshotResponse{}, err
	}

	var paid salary.Snapshot
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		snap, err := s.lockSnapshot(ctx, req.SnapshotID)
		if err != nil {
			return err
		}
		if snap.IsPaid() {
			return salary.ErrAlreadyPaid
		}

		paid, err = s.snapshotRepo.MarkPaid(ctx, snap.ID, s.now())
		if err != nil {
			return err
		}

		return s.snapshotRepo.AppendLog(ctx, salary.LogEntry{
			SnapshotID: paid.ID,
			EmployeeID: paid.EmployeeID,
			Action:     salary.ActionPaid,
			OldAmount:  &snap.FinalSalary,
			NewAmount:  &paid.FinalSalary,
			CreatedBy:  req.ActorID,
		})
	})
	if err != nil {
		return salary.SnapshotResponse{}, err
	}

	slog.Info("Salary marked paid", "snapshot_id", paid.ID, "employee_id", paid.EmployeeID, "month", paid.Month)
	s.publish(ctx, salary.PaidEvent{
		EmployeeID:  paid.EmployeeID,
		FinalSalary: paid.FinalSalary,
		Month:       paid.Month,
		Snapshot:    paid,
		VaultID:     req.VaultID,
		PaidBy:      req.ActorID,
	})
	return salary.NewSnapshotResponse(paid), nil
}

// lockSnapshot takes the same (employee, month) lock as recalculation, then
// re-reads the row under FOR UPDATE.
func (s *SalaryServiceImpl) lockSnapshot(ctx context.Context, snapshotID string) (salary.Snapshot, error) {
	snap, err := s.snapshotRepo.GetByID(ctx, snapshotID)
	if err != nil {
		return salary.Snapshot{}, err
	}
	if err := s.snapshotRepo.LockEmployeeMonth(ctx, snap.EmployeeID, snap.Month); err != nil {
		return salary.Snapshot{}, err
	}
	return s.snapshotRepo.GetByIDForUpdate(ctx, snapshotID)
}

// GetReport implements salary.SalaryService.
func (s *SalaryServiceImpl) GetReport(ctx context.Context, employeeID string, month string) (salary.SalaryReportResponse, error) {
	snap, err := s.getOrCreate(ctx, employeeID, month)
	if err != nil {
		return salary.SalaryReportResponse{}, err
	}

	requests, err := s.requestRepo.ListApplicable(ctx, employeeID, month)
	if err != nil {
		return salary.SalaryReportResponse{}, err
	}

	report := salary.SalaryReportResponse{
		Snapshot: salary.NewSnapshotResponse(snap),
		Requests: make([]request.RequestResponse, 0, len(requests)),
	}
	for _, r := range requests {
		report.Requests = append(report.Requests, request.NewRequestResponse(r))
	}
	return report, nil
}

// GetLogs implements salary.SalaryService.
func (s *SalaryServiceImpl) GetLogs(ctx context.Context, snapshotID string) ([]salary.LogResponse, error) {
	if _, err := s.snapshotRepo.GetByID(ctx, snapshotID); err != nil {
		return nil, err
	}

	logs, err := s.snapshotRepo.ListLogs(ctx, snapshotID)
	if err != nil {
		return nil, err
	}

	out := make([]salary.LogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, salary.LogResponse{
			ID:        l.ID,
			Action:    l.Action,
			OldAmount: l.OldAmount,
			NewAmount: l.NewAmount,
			Notes:     l.Notes,
			CreatedBy: l.CreatedBy,
			CreatedAt: l.CreatedAt,
		})
	}
	return out, nil
}
