// Package validation carries field-level detail for input errors.
package validation

import "errors"

// FieldError points at the request field that failed validation
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NewFieldError creates a FieldError
func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

// Field extracts the field name from an error chain, or "" if there is none
func Field(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}

// Message extracts the field message from an error chain
func Message(err error) (string, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Message, true
	}
	return "", false
}
