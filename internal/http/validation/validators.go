// Package validation checks submitted form values and produces the inline
// messages shown next to each field.
package validation

import "strings"

// Validator checks a string value and returns an error message, or "" when valid.
type Validator func(v string) string

// Required rejects blank or whitespace-only values. Length is left to the
// records API. The message names the field by its label, e.g. "Name is required.".
func Required(label string) Validator {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return label + " is required."
		}
		return ""
	}
}

// FieldValidator provides a fluent API for validating multiple fields.
type FieldValidator struct {
	errors map[string]string
}

// New creates a new FieldValidator instance.
func New() *FieldValidator {
	return &FieldValidator{errors: make(map[string]string)}
}

// Validate validates a field with one or more validators.
// It stops at the first error for each field.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	for _, v := range validators {
		if msg := v(value); msg != "" {
			fv.errors[field] = msg
			break
		}
	}
	return fv
}

// Errors returns the accumulated validation errors, or nil when every field passed.
func (fv *FieldValidator) Errors() map[string]string {
	if len(fv.errors) == 0 {
		return nil
	}
	return fv.errors
}
