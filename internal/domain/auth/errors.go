package auth

import "github.com/cmlabs-hris/shrms-backend-go/internal/pkg/apperror"

var (
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthorized, "invalid phone or password")
	ErrInvalidToken       = apperror.New(apperror.KindUnauthorized, "invalid or expired token")
	ErrAdminRequired      = apperror.New(apperror.KindUnauthorized, "admin privilege required")
)
