package actions

import (
	"context"
	"errors"

	"finboard/internal/core"
)

// ErrorKind classifies a failed mutation without exposing the error itself.
type ErrorKind string

const (
	KindNone        ErrorKind = ""
	KindValidation  ErrorKind = "validation"
	KindNotFound    ErrorKind = "not_found"
	KindPersistence ErrorKind = "persistence"
	KindUnknown     ErrorKind = "unknown"
)

// Result is the uniform outcome of a mutation: either Success with optional
// Data, or a displayable Error message.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`

	// Kind and Signals are for the transport layer and are not serialized.
	Kind    ErrorKind `json:"-"`
	Signals []string  `json:"-"`
}

// Classify maps err onto the error taxonomy.
func Classify(err error) ErrorKind {
	var ve *core.ValidationError
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &ve), errors.Is(err, core.ErrValidation):
		return KindValidation
	case errors.Is(err, core.ErrNotFound):
		return KindNotFound
	case errors.Is(err, core.ErrPersistence),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return KindPersistence
	}
	return KindUnknown
}

// message returns the text shown to the caller, falling back to a generic
// message for errors that carry none.
func message(err error) string {
	if err == nil || err.Error() == "" {
		return core.ErrUnknown.Error()
	}
	return err.Error()
}
