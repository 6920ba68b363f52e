package validation

import (
	"errors"
	"strings"
)

// ErrUnknownSchema is returned by Check for a schema name nobody registered.
var ErrUnknownSchema = errors.New("unknown validation schema")

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects every field failure of one payload.
type Errors struct {
	Fields []FieldError
}

func (e *Errors) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *Errors) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Fields)
}

// Err returns e as an error, or nil when nothing was collected.
func (e *Errors) Err() error {
	if e.Len() == 0 {
		return nil
	}
	return e
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field has at least one error.
func (e *Errors) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
