package gst

import (
	"errors"
	"fmt"
)

// InvalidInputError reports out-of-domain input to the engine. It is returned
// before any computation happens.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid input: %s=%s: %s", e.Field, e.Value, e.Reason)
}

func invalidInput(field, value, reason string) *InvalidInputError {
	return &InvalidInputError{Field: field, Value: value, Reason: reason}
}

// withLineIndex prefixes the field of an InvalidInputError with the line position.
func withLineIndex(err error, idx int) error {
	var ie *InvalidInputError
	if errors.As(err, &ie) {
		return &InvalidInputError{
			Field:  fmt.Sprintf("lines[%d].%s", idx, ie.Field),
			Value:  ie.Value,
			Reason: ie.Reason,
		}
	}
	return err
}

func withInvoiceIndex(err error, idx int) error {
	var ie *InvalidInputError
	if errors.As(err, &ie) {
		return &InvalidInputError{
			Field:  fmt.Sprintf("invoices[%d].%s", idx, ie.Field),
			Value:  ie.Value,
			Reason: ie.Reason,
		}
	}
	return err
}
