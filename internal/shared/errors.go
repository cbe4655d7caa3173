package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates caller input failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrTimeout indicates an external call exceeded its deadline.
	ErrTimeout = errors.New("operation timed out")
	// ErrUpstream indicates the store or render engine failed.
	ErrUpstream = errors.New("upstream failure")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// ValidationError carries field level messages for a rejected input.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError from field messages.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + joinFieldNames(e.Fields)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// FieldErrors extracts field messages from err when it is a ValidationError.
func FieldErrors(err error) map[string]string {
	var verr *ValidationError
	if errors.As(err, &verr) && verr != nil {
		return verr.Fields
	}
	return nil
}

// NotFound is a not-found error carrying the message shown to callers.
type NotFound struct {
	Message string
}

// NewNotFound returns a NotFound error with msg as its public message.
func NewNotFound(msg string) *NotFound {
	return &NotFound{Message: msg}
}

func (e *NotFound) Error() string { return e.Message }

// NotFoundMessage returns the public message.
func (e *NotFound) NotFoundMessage() string { return e.Message }

// Is matches ErrNotFound.
func (e *NotFound) Is(target error) bool { return target == ErrNotFound }
