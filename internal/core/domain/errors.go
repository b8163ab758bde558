package domain

import "errors"

var (
	ErrValidation             = errors.New("validation failed")
	ErrUserNotFound           = errors.New("user not found")
	ErrProviderNotFound       = errors.New("provider not found")
	ErrNotProvider            = errors.New("user is not a provider")
	ErrEmailTaken             = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrForbidden              = errors.New("access forbidden")
	ErrContactRequestNotFound = errors.New("contact request not found")
	ErrMessageNotFound        = errors.New("message not found")
)

// ValidationError carries a human-readable reason and matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid returns a ValidationError with the given reason.
func Invalid(reason string) error {
	return &ValidationError{Reason: reason}
}
