package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ValidationError describes a rejected form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every rejected field of a form.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Field returns the message for the named field, or "".
func (e ValidationErrors) Field(name string) string {
	for _, err := range e {
		if err.Field == name {
			return err.Message
		}
	}
	return ""
}

// Validate applies the create-form rules. The create operation itself trusts
// its input; forms call this before submitting.
func (d CreateTransactionData) Validate(now time.Time) error {
	var errs ValidationErrors

	if math.IsNaN(d.Amount) || math.IsInf(d.Amount, 0) || d.Amount <= 0 {
		errs = append(errs, &ValidationError{Field: "amount", Message: "Amount must be a positive number"})
	}
	if !d.Status.Valid() {
		errs = append(errs, &ValidationError{Field: "status", Message: "Invalid status"})
	}
	switch {
	case d.Date.IsZero():
		errs = append(errs, &ValidationError{Field: "date", Message: "A date is required"})
	case d.Date.After(now):
		errs = append(errs, &ValidationError{Field: "date", Message: "Date cannot be in the future"})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// AsValidationErrors extracts form errors from err.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var errs ValidationErrors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}
