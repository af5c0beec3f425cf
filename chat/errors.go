package chat

import "errors"

// ValidationError marks a request the caller built wrong: a missing field
// or an unknown provider. Validation failures are the only condition the
// generation entry points surface as Go errors; every backend failure is
// folded into the result or event payload instead.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(message string) error {
	return &ValidationError{Message: message}
}

// IsValidationError reports whether err is a request validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
