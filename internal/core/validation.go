package core

// validation.go provides field-level checks for submitted records.
//
// Rules cover required text, enum membership and date ordering. A Validator
// collects every problem in a form before returning.

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Row     int    // 1-based child row, 0 for parent fields
	Field   string // Field name
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	switch {
	case e.Row > 0 && e.Field != "":
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	default:
		return e.Message
	}
}

// Validator accumulates validation errors.
type Validator struct {
	errs []ValidationError
}

// Required records an error when value is blank.
func (v *Validator) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.errs = append(v.errs, ValidationError{Field: field, Message: "required field is empty"})
	}
}

// OneOf records an error when value is not in allowed.
func (v *Validator) OneOf(field, value string, allowed []string) {
	if !slices.Contains(allowed, value) {
		v.errs = append(v.errs, ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("invalid enum value, must be one of %s", strings.Join(allowed, ", ")),
		})
	}
}

// Positive records an error when id is not a positive reference.
func (v *Validator) Positive(field string, id int64) {
	if id <= 0 {
		v.errs = append(v.errs, ValidationError{Field: field, Message: "required field is empty"})
	}
}

// NonNegative records an error when n is below zero.
func (v *Validator) NonNegative(field string, n float64) {
	if n < 0 {
		v.errs = append(v.errs, ValidationError{Field: field, Value: fmt.Sprint(n), Message: "must not be negative"})
	}
}

// DateOrder records an error when both dates are set and end precedes start.
func (v *Validator) DateOrder(startField string, start Date, endField string, end Date) {
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		v.errs = append(v.errs, ValidationError{
			Field:   endField,
			Value:   end.String(),
			Message: "must not be before " + startField,
		})
	}
}

// Add records an arbitrary error.
func (v *Validator) Add(e ValidationError) {
	v.errs = append(v.errs, e)
}

// Errors returns the collected errors.
func (v *Validator) Errors() []ValidationError {
	return v.errs
}

// Err returns nil when nothing was recorded, otherwise the first error.
// Row validators hand it to the reconciler, which stops at the first bad row.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs[0]
}

// Result wraps the collected errors as a validation Error for op, or nil.
func (v *Validator) Result(op string) error {
	if len(v.errs) == 0 {
		return nil
	}
	return invalid(op, v.errs...)
}
