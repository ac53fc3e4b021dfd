package apperror

import "errors"

// Kind classifies a failure so the HTTP layer and callers can branch on it
// without knowing every domain sentinel.
type Kind string

const (
	KindNotFound               Kind = "NOT_FOUND"
	KindInvalidState           Kind = "INVALID_STATE"
	KindInsufficientFunds      Kind = "INSUFFICIENT_FUNDS"
	KindValidation             Kind = "VALIDATION_ERROR"
	KindIntegrationUnavailable Kind = "INTEGRATION_UNAVAILABLE"
	KindInactive               Kind = "INACTIVE"
	KindUnauthorized           Kind = "UNAUTHORIZED"
	KindConflict               Kind = "CONFLICT"
	KindInternal               Kind = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Message string
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) ErrorKind() Kind {
	return e.Kind
}

// Kinded is implemented by errors that know their own kind.
type Kinded interface {
	error
	ErrorKind() Kind
}

// KindOf returns the kind of the first Kinded error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var k Kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
