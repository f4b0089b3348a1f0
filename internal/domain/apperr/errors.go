package apperr

import "errors"

var (
	ErrNotFound     = errors.New("entity not found")
	ErrConflict     = errors.New("entity already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ValidationError reports one or more invalid request fields. The Fields map
// keys are field names, values the reasons they were rejected.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, fields map[string][]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
