package types

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by the form engine wraps exactly one of
// these, so callers branch with errors.Is.
var (
	ErrInvalidSchema        = errors.New("invalid schema")
	ErrSchemaConflict       = errors.New("schema conflict")
	ErrStorageUnavailable   = errors.New("storage unavailable")
	ErrSchemaNotFound       = errors.New("schema not found")
	ErrFormInactive         = errors.New("form is not live right now")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidFieldValue    = errors.New("invalid field value")
	ErrCorruptSchema        = errors.New("stored schema is not parseable")
)

// Error carries an error kind together with the operation, the storage
// identifier it concerned and, for submission failures, the offending fields.
type Error struct {
	Kind       error
	Op         string
	Identifier string
	Message    string
	Fields     []string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Identifier != "" {
		fmt.Fprintf(&b, " (identifier=%s)", e.Identifier)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Fields) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Fields, ", "))
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Kind }

// Invalid returns an ErrInvalidSchema error with a formatted message.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: ErrInvalidSchema, Message: fmt.Sprintf(format, args...)}
}

// FieldsOf returns the field names attached to err, or nil.
func FieldsOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// IsUserError reports whether err is caused by caller input rather than by
// the storage backend.
func IsUserError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidSchema),
		errors.Is(err, ErrSchemaConflict),
		errors.Is(err, ErrSchemaNotFound),
		errors.Is(err, ErrFormInactive),
		errors.Is(err, ErrMissingRequiredField),
		errors.Is(err, ErrInvalidFieldValue):
		return true
	}
	return false
}
