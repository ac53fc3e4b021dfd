package attendance

import (
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/validator"
)

type CheckInRequest struct {
	EmployeeID string   `json:"-"`
	Latitude   *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Device     string   `json:"device" validate:"max=255"`
	IPAddress  string   `json:"-"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if err := validator.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, verrs...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	EmployeeID string `json:"-"`
}

// MarkAttendanceRequest sets a record for a specific date. Times are either
// RFC3339 timestamps or HH:MM clock times on Date.
type MarkAttendanceRequest struct {
	EmployeeID   string  `json:"employee_id" validate:"required"`
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	Status       *Status `json:"status" validate:"omitempty,oneof=present absent late half_day holiday"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	Notes        *string `json:"notes" validate:"omitempty,max=2000"`
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := validator.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, verrs...)
	}
	if r.Status == nil && r.CheckInTime == nil && r.CheckOutTime == nil && r.Notes == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "at least one of status, check_in_time, check_out_time or notes is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ResolveTime parses value as RFC3339, or as HH:MM on day in loc.
func ResolveTime(value string, day time.Time, loc *time.Location) (time.Time, bool) {
	if t, ok := validator.IsValidDateTime(value); ok {
		return t.In(loc), true
	}
	clock, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, loc), true
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id"`
	Month      *string `json:"month" validate:"omitempty,month"`
	StartDate  *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Status     *Status `json:"status" validate:"omitempty,oneof=present absent late half_day holiday"`
	Limit      int     `json:"limit" validate:"gte=0,lte=1000"`
}

func (f *AttendanceFilter) Validate() error {
	return validator.Struct(f)
}

type AttendanceResponse struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	Date         string     `json:"date"`
	CheckInTime  *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	Status       Status     `json:"status"`
	WorkHours    float64    `json:"work_hours"`
	LateMinutes  int        `json:"late_minutes"`
	Meta         Meta       `json:"meta"`
	Notes        *string    `json:"notes,omitempty"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		Date:         a.Date.Format("2006-01-02"),
		CheckInTime:  a.CheckInTime,
		CheckOutTime: a.CheckOutTime,
		Status:       a.Status,
		WorkHours:    a.WorkHours,
		LateMinutes:  a.Meta.LateMinutes,
		Meta:         a.Meta,
		Notes:        a.Notes,
	}
}

type TodayStatusResponse struct {
	Date         string     `json:"date"`
	CheckedIn    bool       `json:"checked_in"`
	CheckedOut   bool       `json:"checked_out"`
	CanCheckIn   bool       `json:"can_check_in"`
	CanCheckOut  bool       `json:"can_check_out"`
	CheckInTime  *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	Status       *Status    `json:"status,omitempty"`
	WorkHours    float64    `json:"work_hours"`
}

type RecalculateWorkHoursResponse struct {
	Updated int `json:"updated"`
}
