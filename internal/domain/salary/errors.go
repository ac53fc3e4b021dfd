package salary

import "github.com/cmlabs-hris/shrms-backend-go/internal/pkg/apperror"

var (
	ErrSnapshotNotFound = apperror.New(apperror.KindNotFound, "salary snapshot not found")
	ErrAlreadyPaid      = apperror.New(apperror.KindInvalidState, "salary already paid, cannot modify")
)
