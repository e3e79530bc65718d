package leads

import "errors"

// ErrLeadNotFound is returned when a lead is not found
var ErrLeadNotFound = errors.New("lead not found")

// ValidationError reports a malformed or missing input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// IsValidation reports whether err carries field-level validation detail.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
