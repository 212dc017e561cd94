// Package validation holds the pieces shared by the per-transaction form
// validators: a distinguishable error type so handlers can tell local
// validation failures from transport or business errors, and input
// sanitizers for digit-only fields.
package validation

import (
	"fmt"
	"strings"
)

// Error is a validation failure detected before any balance mutation or
// network call. Its message is surfaced to the user verbatim.
type Error string

func (e Error) Error() string { return string(e) }

// Errorf builds a validation Error from a format string.
func Errorf(format string, args ...any) Error {
	return Error(fmt.Sprintf(format, args...))
}

// Digits strips every non-digit rune from s. Meter numbers and phone numbers
// are sanitized this way before validation.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsDigits reports whether s is non-empty and contains only digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
