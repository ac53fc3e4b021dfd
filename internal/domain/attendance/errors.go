package attendance

import "github.com/cmlabs-hris/shrms-backend-go/internal/pkg/apperror"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn  = apperror.New(apperror.KindInvalidState, "you have already checked in today")
	ErrNoCheckIn         = apperror.New(apperror.KindInvalidState, "you have not checked in today")
	ErrAlreadyCheckedOut = apperror.New(apperror.KindInvalidState, "you have already checked out today")

	ErrAttendanceNotFound = apperror.New(apperror.KindNotFound, "attendance record not found")
)
