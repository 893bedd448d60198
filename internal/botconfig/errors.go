package botconfig

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyName indicates a blank or whitespace-only config name
var ErrEmptyName = errors.New("config name is empty")

// ParseError reports import text that is not valid JSON.
type ParseError struct {
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("invalid config JSON at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("invalid config JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FieldError is a single schema problem found during import.
type FieldError struct {
	Field  string
	Reason string
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Reason
}

// ValidationError lists every schema problem found in an imported document.
type ValidationError struct {
	Problems []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return "invalid config: " + strings.Join(parts, "; ")
}

// Has reports whether a problem was recorded for field.
func (e *ValidationError) Has(field string) bool {
	for _, p := range e.Problems {
		if p.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Problems = append(e.Problems, FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}
