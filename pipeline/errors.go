// ABOUTME: Error taxonomy for pipeline operations
// ABOUTME: Validation and not-found errors; anything else is a storage failure
package pipeline

import (
	"fmt"
	"strings"
)

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed or missing request fields. It is raised
// before any storage access.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Field+": "+d.Message)
	}
	return "invalid request data: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Details = append(e.Details, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Details) == 0 {
		return nil
	}
	return e
}

// NotFoundError names an entity that could not be resolved.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func repNotFound(name string) error {
	return &NotFoundError{Message: fmt.Sprintf("Sales rep not found: %s", name)}
}

func dealsNotFound(ids []int64) error {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return &NotFoundError{Message: "Deals not found: " + strings.Join(parts, ", ")}
}
