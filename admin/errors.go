package admin

import (
	"errors"
	"sort"
	"strings"
)

// Error kinds surfaced to the back office. All are recoverable by retrying.
var (
	ErrLoadFailed       = errors.New("load failed")
	ErrValidationFailed = errors.New("validation failed")
	ErrCreateFailed     = errors.New("create failed")
	ErrUpdateFailed     = errors.New("update failed")
	ErrDeleteFailed     = errors.New("delete failed")
	ErrAuthCheckFailed  = errors.New("auth check failed")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrBusy             = errors.New("another submission is in progress")
	ErrNotFound         = errors.New("record not found")
)

// ValidationError carries per-field messages. It never reaches the network.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// OpError is a failed network operation. Kind is one of the Err*Failed
// values and Message is what the user is shown.
type OpError struct {
	Kind    error
	Message string
	Err     error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return e.Kind.Error() + ": " + e.Message
	}
	return e.Kind.Error() + ": " + e.Message + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// userMessager is implemented by transport errors that carry a message the
// server meant for humans.
type userMessager interface {
	UserMessage() string
}

// UserMessage returns the server-provided message inside err, or fallback.
func UserMessage(err error, fallback string) string {
	var um userMessager
	if errors.As(err, &um) {
		if msg := strings.TrimSpace(um.UserMessage()); msg != "" {
			return msg
		}
	}
	return fallback
}
