package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAttendanceRepo struct {
	records map[string]attendance.Attendance
	locks   int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: map[string]attendance.Attendance{}}
}

func recordKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (r *fakeAttendanceRepo) LockEmployeeDate(context.Context, string, time.Time) error {
	r.locks++
	return nil
}

func (r *fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	a, ok := r.records[recordKey(employeeID, date)]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *fakeAttendanceRepo) Upsert(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	if a.ID == "" {
		a.ID = "att-" + recordKey(a.EmployeeID, a.Date)
	}
	r.records[recordKey(a.EmployeeID, a.Date)] = a
	return a, nil
}

func (r *fakeAttendanceRepo) List(_ context.Context, f attendance.RecordFilter) ([]attendance.Attendance, error) {
	out := make([]attendance.Attendance, 0)
	for _, a := range r.records {
		if f.EmployeeID != nil && a.EmployeeID != *f.EmployeeID {
			continue
		}
		if f.From != nil && a.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && !a.Date.Before(*f.To) {
			continue
		}
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAttendanceRepo) ListCompleted(context.Context, *time.Time, *time.Time) ([]attendance.Attendance, error) {
	out := make([]attendance.Attendance, 0)
	for _, a := range r.records {
		if a.CheckInTime != nil && a.CheckOutTime != nil {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) UpdateWorkHours(_ context.Context, id string, hours float64) error {
	for k, a := range r.records {
		if a.ID == id {
			a.WorkHours = hours
			r.records[k] = a
			return nil
		}
	}
	return attendance.ErrAttendanceNotFound
}

type fakeDirectory map[string]employee.Employee

func (d fakeDirectory) GetEmployee(_ context.Context, id string) (employee.Employee, error) {
	e, ok := d[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (d fakeDirectory) ListByStatus(context.Context, employee.Status) ([]employee.Employee, error) {
	return nil, nil
}

type staticSettings settings.Settings

func (s staticSettings) GetSettings(context.Context) (settings.Settings, error) {
	return settings.Settings(s), nil
}

var cairo = time.FixedZone("EET", 2*60*60)

func newTestService(t *testing.T, now time.Time, cfg settings.Settings) (*AttendanceServiceImpl, *fakeAttendanceRepo) {
	t.Helper()
	repo := newFakeAttendanceRepo()
	dir := fakeDirectory{
		"emp-1": {ID: "emp-1", Name: "Amira", BaseSalary: decimal.NewFromInt(6000), Status: employee.StatusActive},
		"emp-2": {ID: "emp-2", Name: "Omar", BaseSalary: decimal.NewFromInt(4000), Status: employee.StatusInactive},
	}
	svc := NewAttendanceService(passthroughTx{}, repo, dir, staticSettings(cfg), cairo).(*AttendanceServiceImpl)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func defaultSettings() settings.Settings {
	return settings.Settings{
		WorkStartTime:              "09:00",
		WorkEndTime:                "17:00",
		LateGraceMinutes:           15,
		AbsenceDeductionPercentage: decimal.RequireFromString("3.33"),
		LateDeductionPercentage:    decimal.Zero,
	}
}

func TestCheckIn_LateAfterGrace(t *testing.T) {
	svc, _ := newTestService(t, time.Date(2025, 1, 6, 9, 20, 0, 0, cairo), defaultSettings())

	resp, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, resp.Status)
	assert.Equal(t, 20, resp.LateMinutes)
	assert.Equal(t, "2025-01-06", resp.Date)
}

func TestCheckIn_InsideGraceIsPresent(t *testing.T) {
	svc, _ := newTestService(t, time.Date(2025, 1, 6, 9, 10, 0, 0, cairo), defaultSettings())

	resp, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.Equal(t, 10, resp.LateMinutes)
}

func TestCheckIn_LateMinutesRoundToNearest(t *testing.T) {
	tests := []struct {
		name    string
		at      time.Time
		status  attendance.Status
		minutes int
	}{
		{"rounds up past grace", time.Date(2025, 1, 6, 9, 20, 40, 0, cairo), attendance.StatusLate, 21},
		{"rounds down past grace", time.Date(2025, 1, 6, 9, 20, 29, 0, cairo), attendance.StatusLate, 20},
		{"last second of grace minute", time.Date(2025, 1, 6, 9, 15, 40, 0, cairo), attendance.StatusPresent, 16},
		{"first minute after grace", time.Date(2025, 1, 6, 9, 16, 0, 0, cairo), attendance.StatusLate, 16},
		{"early", time.Date(2025, 1, 6, 8, 59, 59, 0, cairo), attendance.StatusPresent, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, tt.at, defaultSettings())

			resp, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, tt.minutes, resp.LateMinutes)
		})
	}
}

func TestCheckIn_Errors(t *testing.T) {
	svc, _ := newTestService(t, time.Date(2025, 1, 6, 8, 50, 0, 0, cairo), defaultSettings())
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "missing"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-2"})
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)

	resp, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.LateMinutes)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckOut_StoresWorkHours(t *testing.T) {
	svc, repo := newTestService(t, time.Date(2025, 1, 6, 9, 0, 0, 0, cairo), defaultSettings())
	ctx := context.Background()

	_, err := svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrNoCheckIn)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2025, 1, 6, 17, 30, 0, 0, cairo) }
	resp, err := svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, 8.5, resp.WorkHours)

	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
	assert.Equal(t, 4, repo.locks)

	status, err := svc.GetTodayStatus(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, status.CheckedIn)
	assert.True(t, status.CheckedOut)
	assert.False(t, status.CanCheckIn)
	assert.False(t, status.CanCheckOut)
}

func TestMarkAttendance_UpsertsOneRowPerDate(t *testing.T) {
	svc, repo := newTestService(t, time.Date(2025, 1, 10, 12, 0, 0, 0, cairo), defaultSettings())
	ctx := context.Background()

	in, out := "09:00", "13:30"
	resp, err := svc.MarkAttendance(ctx, attendance.MarkAttendanceRequest{
		EmployeeID: "emp-1", Date: "2025-01-08", CheckInTime: &in, CheckOutTime: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.Equal(t, 4.5, resp.WorkHours)

	halfDay := attendance.StatusHalfDay
	resp, err = svc.MarkAttendance(ctx, attendance.MarkAttendanceRequest{
		EmployeeID: "emp-1", Date: "2025-01-08", Status: &halfDay,
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusHalfDay, resp.Status)
	assert.Equal(t, 4.5, resp.WorkHours)
	assert.Len(t, repo.records, 1)
}

func TestMarkAttendance_NothingToWrite(t *testing.T) {
	svc, _ := newTestService(t, time.Now(), defaultSettings())

	_, err := svc.MarkAttendance(context.Background(), attendance.MarkAttendanceRequest{EmployeeID: "emp-1", Date: "2025-01-08"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestGetSummary_DeductionOnlyWhenLinked(t *testing.T) {
	cfg := defaultSettings()
	svc, _ := newTestService(t, time.Date(2025, 1, 20, 12, 0, 0, 0, cairo), cfg)
	ctx := context.Background()

	absent := attendance.StatusAbsent
	for _, d := range []string{"2025-01-02", "2025-01-03"} {
		_, err := svc.MarkAttendance(ctx, attendance.MarkAttendanceRequest{EmployeeID: "emp-1", Date: d, Status: &absent})
		require.NoError(t, err)
	}
	_, err := svc.MarkAttendance(ctx, attendance.MarkAttendanceRequest{EmployeeID: "emp-1", Date: "2024-12-31", Status: &absent})
	require.NoError(t, err)

	summary, err := svc.GetSummary(ctx, "emp-1", "2025-01")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Absent)
	assert.Equal(t, 2, summary.TotalDays)
	assert.True(t, summary.Deduction.IsZero())

	cfg.AttendanceSalaryLinkEnabled = true
	svc.settings = staticSettings(cfg)
	summary, err = svc.GetSummary(ctx, "emp-1", "2025-01")
	require.NoError(t, err)
	assert.True(t, summary.LinkEnabled)
	assert.Equal(t, "399.6", summary.Deduction.String())
}

func TestRecalculateWorkHours_FixesStaleValues(t *testing.T) {
	svc, repo := newTestService(t, time.Now(), defaultSettings())
	in := time.Date(2025, 1, 6, 9, 0, 0, 0, cairo)
	out := time.Date(2025, 1, 6, 12, 0, 0, 0, cairo)
	repo.records["x"] = attendance.Attendance{ID: "a1", EmployeeID: "emp-1", Date: in, CheckInTime: &in, CheckOutTime: &out, WorkHours: 1}
	repo.records["y"] = attendance.Attendance{ID: "a2", EmployeeID: "emp-1", Date: in.AddDate(0, 0, 1), CheckInTime: &in, CheckOutTime: &out, WorkHours: 3}

	resp, err := svc.RecalculateWorkHours(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Updated)
	assert.Equal(t, 3.0, repo.records["x"].WorkHours)
}
