package models

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the scheduling core. Handlers map these to HTTP
// status codes; clients treat "conflict" as retryable.
const (
	ErrKindValidation        = "validation"
	ErrKindConflict          = "conflict"
	ErrKindInvalidTransition = "invalid_transition"
	ErrKindPermission        = "permission"
	ErrKindNotFound          = "not_found"
)

// DomainError is a structured error carrying a machine-readable kind and a
// human-readable message.
type DomainError struct {
	Kind    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewValidationError(format string, args ...interface{}) error {
	return &DomainError{Kind: ErrKindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...interface{}) error {
	return &DomainError{Kind: ErrKindConflict, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidTransitionError(format string, args ...interface{}) error {
	return &DomainError{Kind: ErrKindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func NewPermissionError(format string, args ...interface{}) error {
	return &DomainError{Kind: ErrKindPermission, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...interface{}) error {
	return &DomainError{Kind: ErrKindNotFound, Message: fmt.Sprintf(format, args...)}
}

// ErrorKind extracts the kind of a DomainError anywhere in err's chain.
// Returns an empty string for non-domain errors.
func ErrorKind(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err carries the given domain error kind.
func IsKind(err error, kind string) bool {
	return ErrorKind(err) == kind
}
