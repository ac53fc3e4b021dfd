package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/validator"
)

const defaultRecordLimit = 100

type AttendanceServiceImpl struct {
	tx             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	employees      employee.Directory
	settings       settings.Provider
	loc            *time.Location
	now            func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employees employee.Directory,
	settingsProvider settings.Provider,
	loc *time.Location,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		employees:      employees,
		settings:       settingsProvider,
		loc:            loc,
		now:            time.Now,
	}
}

func (s *AttendanceServiceImpl) activeEmployee(ctx context.Context, employeeID string) (employee.Employee, error) {
	emp, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return employee.Employee{}, err
	}
	if !emp.IsActive() {
		return employee.Employee{}, employee.ErrEmployeeInactive
	}
	return emp, nil
}

// findForDate returns the record for (employee, date), or found=false.
func (s *AttendanceServiceImpl) findForDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, bool, error) {
	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, date)
	if errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.Attendance{}, false, nil
	}
	if err != nil {
		return attendance.Attendance{}, false, err
	}
	return record, true, nil
}

// lateness returns the minutes past work start, rounded to the nearest
// minute, and whether the check-in clock (HH:MM) is past the grace window.
func lateness(checkIn time.Time, cfg settings.Settings) (int, bool, error) {
	workStart, err := period.ClockOn(checkIn, cfg.WorkStartTime)
	if err != nil {
		return 0, false, err
	}
	elapsed := checkIn.Sub(workStart)
	if elapsed <= 0 {
		return 0, false, nil
	}
	late := int(elapsed/time.Minute) > cfg.LateGraceMinutes
	return int(math.Round(elapsed.Minutes())), late, nil
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if _, err := s.activeEmployee(ctx, req.EmployeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	cfg, err := s.settings.GetSettings(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now().In(s.loc)
	today := period.Date(now)

	lateMinutes, late, err := lateness(now, cfg)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("work start time: %w", err)
	}

	var saved attendance.Attendance
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.attendanceRepo.LockEmployeeDate(ctx, req.EmployeeID, today); err != nil {
			return err
		}
		record, found, err := s.findForDate(ctx, req.EmployeeID, today)
		if err != nil {
			return err
		}
		if found && record.CheckInTime != nil {
			return attendance.ErrAlreadyCheckedIn
		}

		record.EmployeeID = req.EmployeeID
		record.Date = today
		record.CheckInTime = &now
		record.Status = attendance.StatusPresent
		if late {
			record.Status = attendance.StatusLate
		}
		record.WorkHours = attendance.CalculateWorkHours(record.CheckInTime, record.CheckOutTime)
		record.Meta.LateMinutes = lateMinutes
		record.Meta.Source = "check_in"
		record.Meta.IPAddress = req.IPAddress
		record.Meta.Device = req.Device
		record.Meta.Latitude = req.Latitude
		record.Meta.Longitude = req.Longitude

		saved, err = s.attendanceRepo.Upsert(ctx, record)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Employee checked in", "employee_id", req.EmployeeID, "status", saved.Status, "late_minutes", lateMinutes)
	return attendance.NewAttendanceResponse(saved), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if validator.IsEmpty(req.EmployeeID) {
		return attendance.AttendanceResponse{}, validator.ValidationErrors{
			{Field: "employee_id", Message: "employee_id is required"},
		}
	}

	now := s.now().In(s.loc)
	today := period.Date(now)

	var saved attendance.Attendance
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.attendanceRepo.LockEmployeeDate(ctx, req.EmployeeID, today); err != nil {
			return err
		}
		record, found, err := s.findForDate(ctx, req.EmployeeID, today)
		if err != nil {
			return err
		}
		if !found || record.CheckInTime == nil {
			return attendance.ErrNoCheckIn
		}
		if record.CheckOutTime != nil {
			return attendance.ErrAlreadyCheckedOut
		}

		record.CheckOutTime = &now
		record.WorkHours = attendance.CalculateWorkHours(record.CheckInTime, record.CheckOutTime)

		saved, err = s.attendanceRepo.Upsert(ctx, record)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Employee checked out", "employee_id", req.EmployeeID, "work_hours", saved.WorkHours)
	return attendance.NewAttendanceResponse(saved), nil
}

// MarkAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAttendance(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if _, err := s.employees.GetEmployee(ctx, req.EmployeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, s.loc)
	if err != nil {
		return attendance.AttendanceResponse{}, validator.ValidationErrors{{Field: "date", Message: "date must match 2006-01-02"}}
	}

	var errs validator.ValidationErrors
	var checkIn, checkOut *time.Time
	if req.CheckInTime != nil {
		if t, ok := attendance.ResolveTime(*req.CheckInTime, date, s.loc); ok {
			checkIn = &t
		} else {
			errs = append(errs, validator.ValidationError{Field: "check_in_time", Message: "check_in_time must be RFC3339 or HH:MM"})
		}
	}
	if req.CheckOutTime != nil {
		if t, ok := attendance.ResolveTime(*req.CheckOutTime, date, s.loc); ok {
			checkOut = &t
		} else {
			errs = append(errs, validator.ValidationError{Field: "check_out_time", Message: "check_out_time must be RFC3339 or HH:MM"})
		}
	}
	if len(errs) > 0 {
		return attendance.AttendanceResponse{}, errs
	}

	var saved attendance.Attendance
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.attendanceRepo.LockEmployeeDate(ctx, req.EmployeeID, date); err != nil {
			return err
		}
		record, found, err := s.findForDate(ctx, req.EmployeeID, date)
		if err != nil {
			return err
		}
		if !found {
			record = attendance.Attendance{
				EmployeeID: req.EmployeeID,
				Date:       date,
				Status:     attendance.StatusPresent,
				Meta:       attendance.Meta{Source: "manual"},
			}
		}

		if req.Status != nil {
			record.Status = *req.Status
		}
		if checkIn != nil {
			record.CheckInTime = checkIn
		}
		if checkOut != nil {
			record.CheckOutTime = checkOut
		}
		if req.Notes != nil {
			record.Notes = req.Notes
		}
		record.WorkHours = attendance.CalculateWorkHours(record.CheckInTime, record.CheckOutTime)

		saved, err = s.attendanceRepo.Upsert(ctx, record)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.NewAttendanceResponse(saved), nil
}

// GetSummary implements attendance.SummaryProvider.
func (s *AttendanceServiceImpl) GetSummary(ctx context.Context, employeeID string, month string) (attendance.Summary, error) {
	emp, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return attendance.Summary{}, err
	}
	from, to, err := period.Bounds(month, s.loc)
	if err != nil {
		return attendance.Summary{}, validator.ValidationErrors{{Field: "month", Message: err.Error()}}
	}
	cfg, err := s.settings.GetSettings(ctx)
	if err != nil {
		return attendance.Summary{}, err
	}

	records, err := s.attendanceRepo.List(ctx, attendance.RecordFilter{
		EmployeeID: &employeeID,
		From:       &from,
		To:         &to,
	})
	if err != nil {
		return attendance.Summary{}, err
	}

	summary := attendance.Summarize(employeeID, month, records)
	if cfg.AttendanceSalaryLinkEnabled {
		summary.LinkEnabled = true
		summary.Deduction = attendance.Deduction(
			emp.BaseSalary,
			cfg.AbsenceDeductionPercentage,
			cfg.LateDeductionPercentage,
			summary.Absent,
			summary.Late,
		)
	}
	return summary, nil
}

// GetTodayStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, employeeID string) (attendance.TodayStatusResponse, error) {
	today := period.Date(s.now().In(s.loc))
	resp := attendance.TodayStatusResponse{Date: today.Format("2006-01-02")}

	record, found, err := s.findForDate(ctx, employeeID, today)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}
	if !found {
		resp.CanCheckIn = true
		return resp, nil
	}

	resp.CheckedIn = record.CheckInTime != nil
	resp.CheckedOut = record.CheckOutTime != nil
	resp.CanCheckIn = !resp.CheckedIn
	resp.CanCheckOut = resp.CheckedIn && !resp.CheckedOut
	resp.CheckInTime = record.CheckInTime
	resp.CheckOutTime = record.CheckOutTime
	resp.Status = &record.Status
	resp.WorkHours = record.WorkHours
	return resp, nil
}

// GetRecords implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetRecords(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	rf := attendance.RecordFilter{
		EmployeeID: filter.EmployeeID,
		Status:     filter.Status,
		Limit:      filter.Limit,
	}
	if rf.Limit == 0 {
		rf.Limit = defaultRecordLimit
	}
	if filter.Month != nil {
		from, to, err := period.Bounds(*filter.Month, s.loc)
		if err != nil {
			return nil, err
		}
		rf.From, rf.To = &from, &to
	}
	if filter.StartDate != nil {
		from, _ := time.ParseInLocation("2006-01-02", *filter.StartDate, s.loc)
		rf.From = &from
	}
	if filter.EndDate != nil {
		end, _ := time.ParseInLocation("2006-01-02", *filter.EndDate, s.loc)
		to := end.AddDate(0, 0, 1)
		rf.To = &to
	}

	records, err := s.attendanceRepo.List(ctx, rf)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.NewAttendanceResponse(r))
	}
	return responses, nil
}

// RecalculateWorkHours implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecalculateWorkHours(ctx context.Context, month *string) (attendance.RecalculateWorkHoursResponse, error) {
	var from, to *time.Time
	if month != nil {
		start, end, err := period.Bounds(*month, s.loc)
		if err != nil {
			return attendance.RecalculateWorkHoursResponse{}, validator.ValidationErrors{{Field: "month", Message: err.Error()}}
		}
		from, to = &start, &end
	}

	records, err := s.attendanceRepo.ListCompleted(ctx, from, to)
	if err != nil {
		return attendance.RecalculateWorkHoursResponse{}, err
	}

	updated := 0
	for _, r := range records {
		hours := attendance.CalculateWorkHours(r.CheckInTime, r.CheckOutTime)
		if hours == r.WorkHours {
			continue
		}
		if err := s.attendanceRepo.UpdateWorkHours(ctx, r.ID, hours); err != nil {
			return attendance.RecalculateWorkHoursResponse{Updated: updated}, err
		}
		updated++
	}

	slog.Info("Recalculated work hours", "records", len(records), "updated", updated)
	return attendance.RecalculateWorkHoursResponse{Updated: updated}, nil
}
