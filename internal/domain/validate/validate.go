// Package validate carries field-level validation failures through the stack.
package validate

import (
	"fmt"
	"strings"
)

// FieldError is a single invalid field with its message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error collects one message per invalid field. A nil or empty Error means the
// input passed validation.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return strings.Join(parts, "; ")
}

// Add appends a failure for the given field.
func (e *Error) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Err returns e when any field failed, nil otherwise. Returning the concrete
// type directly would make a nil *Error compare unequal to nil.
func (e *Error) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
