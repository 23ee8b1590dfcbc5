// Package validation holds the field rules and form validators shared by the
// auth, clients and orders contexts. Rules are binding tags checked by
// go-playground/validator; failures come back as FieldErrors carrying the
// user-facing messages.
package validation

import (
	"sort"
	"strings"
)

const MinPasswordLength = 8

// FieldErrors maps a form field to its message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	if len(f) == 0 {
		return "no validation errors"
	}
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+f[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (f FieldErrors) Valid() bool { return len(f) == 0 }

// Err returns nil when there are no field errors.
func (f FieldErrors) Err() error {
	if f.Valid() {
		return nil
	}
	return f
}

// Add records msg for field unless the field already has a message.
func (f FieldErrors) Add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

func Required(value string) bool {
	return engine.Var(value, TagNotBlank) == nil
}

func IsEmail(value string) bool {
	return engine.Var(value, "email") == nil
}

// IsPhone accepts digits, spaces, dashes and parentheses with an optional
// leading plus, and requires at least seven digits.
func IsPhone(value string) bool {
	return engine.Var(value, TagPhone) == nil
}

func IsIdentification(value string) bool {
	return engine.Var(value, TagIdentification) == nil
}

func IsPassword(value string) bool {
	return engine.Var(value, passwordRule) == nil
}
