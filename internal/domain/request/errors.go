package request

import "github.com/cmlabs-hris/shrms-backend-go/internal/pkg/apperror"

var (
	ErrRequestNotFound         = apperror.New(apperror.KindNotFound, "request not found")
	ErrRequestAlreadyProcessed = apperror.New(apperror.KindInvalidState, "request already processed")
)
