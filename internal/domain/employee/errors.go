package employee

import "github.com/cmlabs-hris/shrms-backend-go/internal/pkg/apperror"

var (
	ErrEmployeeNotFound = apperror.New(apperror.KindNotFound, "employee not found")
	ErrPhoneExists      = apperror.New(apperror.KindConflict, "phone number already registered")
	ErrEmployeeInactive = apperror.New(apperror.KindInactive, "employee is not active")
)
