package errs

import (
	"errors"
	"net/http"
)

// NewValidationError reports every failing field at once. The handler layer
// builds the violations; nothing past it ever sees invalid input.
func NewValidationError(violations []FieldViolation) *ApiErr {
	e := &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		Violations: violations,
	}
	if len(violations) == 1 {
		e.Field = violations[0].Field
	}
	return e
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// Violations extracts field violations from err, if it carries any.
func Violations(err error) []FieldViolation {
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.Violations
	}
	return nil
}
