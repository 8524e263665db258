package domain

import (
	"fmt"
	"strings"
)

// ValidationError reports missing or malformed caller input. It is always
// user-correctable and carries field-level detail.
type ValidationError struct {
	Field string
	Index int // 1-based record position for bulk operations, 0 otherwise
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Index > 0 {
		return fmt.Sprintf("record %d: field %q: %s", e.Index, e.Field, e.Msg)
	}
	return fmt.Sprintf("field %q: %s", e.Field, e.Msg)
}

// MissingField builds a ValidationError for an absent required field.
func MissingField(field string) *ValidationError {
	return &ValidationError{Field: field, Msg: "required field is missing"}
}

// ValidationErrors collects every validation failure of a bulk operation
// instead of stopping at the first.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}

// Messages returns the individual error strings for transport.
func (e ValidationErrors) Messages() []string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return msgs
}

// UpstreamError wraps a document-store or completion-service failure. The
// cause is kept for logs; callers only ever see a generic message.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// FormatError reports completion-service output that failed to parse as
// expected.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "malformed completion output: " + e.Reason
}
