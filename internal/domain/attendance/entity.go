package attendance

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type Attendance struct {
	ID           string
	EmployeeID   string
	Date         time.Time
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Status       Status
	WorkHours    float64
	Meta         Meta
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusHoliday Status = "holiday"
)

// Meta is the structured part of a record, persisted as JSON.
type Meta struct {
	LateMinutes int      `json:"late_minutes"`
	Source      string   `json:"source,omitempty"`
	IPAddress   string   `json:"ip_address,omitempty"`
	Device      string   `json:"device,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

const maxWorkHours = 24

// CalculateWorkHours returns the hours between checkIn and checkOut, capped
// at 24 and rounded to two decimals. Missing or inverted times give 0.
func CalculateWorkHours(checkIn, checkOut *time.Time) float64 {
	if checkIn == nil || checkOut == nil || !checkOut.After(*checkIn) {
		return 0
	}
	hours := checkOut.Sub(*checkIn).Hours()
	if hours > maxWorkHours {
		hours = maxWorkHours
	}
	return math.Round(hours*100) / 100
}

// Summary aggregates one employee's records for a month.
type Summary struct {
	EmployeeID       string          `json:"employee_id"`
	Month            string          `json:"month"`
	Present          int             `json:"present"`
	Absent           int             `json:"absent"`
	Late             int             `json:"late"`
	HalfDay          int             `json:"half_day"`
	Holiday          int             `json:"holiday"`
	TotalDays        int             `json:"total_days"`
	TotalWorkHours   float64         `json:"total_work_hours"`
	TotalLateMinutes int             `json:"total_late_minutes"`
	LinkEnabled      bool            `json:"attendance_salary_link_enabled"`
	Deduction        decimal.Decimal `json:"deduction"`
}

// Summarize counts records per status and sums hours and late minutes.
// Deduction is left at zero.
func Summarize(employeeID, month string, records []Attendance) Summary {
	s := Summary{EmployeeID: employeeID, Month: month, Deduction: decimal.Zero}
	hours := 0.0
	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			s.Present++
		case StatusAbsent:
			s.Absent++
		case StatusLate:
			s.Late++
		case StatusHalfDay:
			s.HalfDay++
		case StatusHoliday:
			s.Holiday++
		}
		hours += r.WorkHours
		s.TotalLateMinutes += r.Meta.LateMinutes
	}
	s.TotalDays = len(records)
	s.TotalWorkHours = math.Round(hours*100) / 100
	return s
}

// Deduction is base * absencePct/100 * absent + base * latePct/100 * late.
func Deduction(base, absencePct, latePct decimal.Decimal, absentDays, lateDays int) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	absence := base.Mul(absencePct).Div(hundred).Mul(decimal.NewFromInt(int64(absentDays)))
	late := base.Mul(latePct).Div(hundred).Mul(decimal.NewFromInt(int64(lateDays)))
	return absence.Add(late).Round(2)
}
