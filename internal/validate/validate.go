package validate

import (
	"fmt"
	"strings"
)

// Error aggregates field-level validation messages for one request body.
// All messages are collected before the error is surfaced so a caller sees
// every problem in a single response.
type Error struct {
	Messages []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil || len(e.Messages) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Addf appends a formatted field-level message.
func (e *Error) Addf(format string, args ...any) {
	e.Messages = append(e.Messages, fmt.Sprintf(format, args...))
}

// OrNil returns the error when any message was collected, nil otherwise.
func (e *Error) OrNil() error {
	if e == nil || len(e.Messages) == 0 {
		return nil
	}
	return e
}
