package attendance

import (
	"context"
)

// SummaryProvider is what payroll needs from attendance.
type SummaryProvider interface {
	GetSummary(ctx context.Context, employeeID string, month string) (Summary, error)
}

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	SummaryProvider

	// CheckIn opens today's record and classifies it as present or late
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes today's record and stores work hours
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// MarkAttendance upserts a record for a given date (admin)
	MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error)

	GetTodayStatus(ctx context.Context, employeeID string) (TodayStatusResponse, error)
	GetRecords(ctx context.Context, filter AttendanceFilter) ([]AttendanceResponse, error)

	// RecalculateWorkHours rewrites cached work hours, optionally for one month
	RecalculateWorkHours(ctx context.Context, month *string) (RecalculateWorkHoursResponse, error)
}
