// Package validation implements field-level payload validation.
//
// Rules accumulate errors across all fields in a single pass so a client can
// fix every problem in one round-trip. A missing required field produces
// exactly one error for that field; secondary rules on the same field are
// skipped. Numeric fields arrive as untyped JSON values so that a non-numeric
// value and an out-of-range value yield the same single error per field.
package validation

import (
	"math"
	"regexp"
	"strings"
)

// FieldError describes one failed rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// intFromJSON extracts an integral value from a decoded JSON field.
// Returns ok=false for anything that is not a whole number.
func intFromJSON(v interface{}) (int, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	if math.Trunc(f) != f {
		return 0, false
	}
	return int(f), true
}

// checkIntRange validates an optional numeric field against [min, max].
// A non-numeric value and an out-of-range value produce the same error.
func checkIntRange(errs []FieldError, field string, v interface{}, min, max int, message string) []FieldError {
	if v == nil {
		return errs
	}
	n, ok := intFromJSON(v)
	if !ok || n < min || n > max {
		return append(errs, FieldError{Field: field, Message: message})
	}
	return errs
}

// stringList extracts a list of non-empty strings from a decoded JSON field.
func stringList(v interface{}) ([]string, bool) {
	raw, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, false
		}
		out = append(out, strings.TrimSpace(s))
	}
	return out, true
}

// ValidateCredentials checks a register/login payload.
func ValidateCredentials(email, password string) []FieldError {
	var errs []FieldError

	switch {
	case strings.TrimSpace(email) == "":
		errs = append(errs, FieldError{Field: "email", Message: "Email is required"})
	case !emailPattern.MatchString(strings.TrimSpace(email)):
		errs = append(errs, FieldError{Field: "email", Message: "Email is not a valid address"})
	}

	if password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "Password is required"})
	}

	return errs
}
