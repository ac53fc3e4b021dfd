package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	if errors.Is(err, auth.ErrAdminRequired) {
		Forbidden(w, err.Error())
		return
	}

	var appErr *apperror.Error
	message := "An unexpected error occurred"
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		NotFound(w, message)
	case apperror.KindInvalidState:
		fail(w, http.StatusConflict, string(apperror.KindInvalidState), message, nil)
	case apperror.KindConflict:
		Conflict(w, message)
	case apperror.KindInsufficientFunds:
		fail(w, http.StatusUnprocessableEntity, string(apperror.KindInsufficientFunds), message, nil)
	case apperror.KindValidation:
		fail(w, http.StatusUnprocessableEntity, string(apperror.KindValidation), message, nil)
	case apperror.KindIntegrationUnavailable:
		fail(w, http.StatusServiceUnavailable, string(apperror.KindIntegrationUnavailable), message, nil)
	case apperror.KindInactive:
		Forbidden(w, message)
	case apperror.KindUnauthorized:
		Unauthorized(w, message)
	default:
		slog.Error("Unhandled error", "error", err)
		fail(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred", nil)
	}
}
