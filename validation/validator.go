package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/unitrack/unitrack/errors"
)

// FieldError is one failed check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator collects field errors from chained checks.
type Validator struct {
	errors []FieldError
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{}
}

// AddError records a failed check.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns the failed checks in the order they ran.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Err returns nil, or an INVALID_INPUT AppError listing every failure.
// The return type is error so a nil result compares equal to nil.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	parts := make([]string, len(v.errors))
	for i, e := range v.errors {
		parts[i] = e.Field + " " + e.Message
	}
	return errors.Validation(capitalize(strings.Join(parts, "; ")) + ".").
		WithDetail("fields", v.errors)
}

// Required fails for empty or whitespace-only values.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// OneOf fails unless value is one of allowed. Empty values pass; pair with
// Required when the field is mandatory.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.AddError(field, "must be one of: "+strings.Join(allowed, ", "))
	return v
}

// Positive fails for values that are zero or negative.
func (v *Validator) Positive(field string, value float64) *Validator {
	if value <= 0 {
		v.AddError(field, "must be greater than 0")
	}
	return v
}

// Date fails unless value parses as YYYY-MM-DD. Empty values pass.
func (v *Validator) Date(field, value string) *Validator {
	if value == "" {
		return v
	}
	if _, err := time.Parse(DateLayout, value); err != nil {
		v.AddError(field, "must be a date in YYYY-MM-DD form")
	}
	return v
}

// Range fails when from is after to. Zero times are ignored.
func (v *Validator) Range(field string, from, to time.Time) *Validator {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		v.AddError(field, fmt.Sprintf("start %s is after end %s", from.Format(DateLayout), to.Format(DateLayout)))
	}
	return v
}

// Custom records message unless ok holds.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
