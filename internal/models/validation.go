// Package models defines the core data types for templage.
package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrValidation is matched by every ValidationErrors value.
var ErrValidation = errors.New("validation failed")

// ValidationErrors collects field-level validation messages.
type ValidationErrors struct {
	Fields map[string][]string
}

// AddMessage records a message against a field.
func (v *ValidationErrors) AddMessage(field, message string) {
	if v.Fields == nil {
		v.Fields = make(map[string][]string)
	}
	v.Fields[field] = append(v.Fields[field], message)
}

// HasErrors reports whether any message was recorded.
func (v *ValidationErrors) HasErrors() bool {
	return v != nil && len(v.Fields) > 0
}

// Err returns nil when no message was recorded.
func (v *ValidationErrors) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

func (v *ValidationErrors) Error() string {
	fields := make([]string, 0, len(v.Fields))
	for field := range v.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(v.Fields[field], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets callers match with errors.Is(err, ErrValidation).
func (v *ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}
