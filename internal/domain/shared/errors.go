package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error for the transport layer.
// Controllers map each kind onto exactly one status code.
type ErrorKind string

const (
	KindInvalidArgument ErrorKind = "INVALID_ARGUMENT"
	KindUnauthenticated ErrorKind = "UNAUTHENTICATED"
	KindForbidden       ErrorKind = "FORBIDDEN"
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindConflict        ErrorKind = "CONFLICT"
	KindInternal        ErrorKind = "INTERNAL"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind          ErrorKind `json:"kind"`
	Code          string    `json:"code"`
	Message       string    `json:"message"`
	RequiredRoles []string  `json:"required_roles,omitempty"`
	Retryable     bool      `json:"retryable,omitempty"`
	cause         error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a DomainError with the same code.
// This lets callers compare against the sentinels below even when the
// returned error carries a more specific message.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithCause returns a copy of the error wrapping cause
func (e *DomainError) WithCause(cause error) *DomainError {
	c := *e
	c.cause = cause
	return &c
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidArgument = NewDomainError(KindInvalidArgument, "INVALID_ARGUMENT", "Invalid argument provided")
	ErrUnauthenticated = NewDomainError(KindUnauthenticated, "UNAUTHENTICATED", "Authentication is required")
	ErrForbidden       = NewDomainError(KindForbidden, "FORBIDDEN", "Access to this resource is forbidden")
	ErrNotFound        = NewDomainError(KindNotFound, "NOT_FOUND", "Resource not found")
	ErrConflict        = NewDomainError(KindConflict, "CONFLICT", "Resource was modified by another process")
	ErrInvalidState    = NewDomainError(KindConflict, "INVALID_STATE", "Operation not allowed in current state")
	ErrInternal        = NewDomainError(KindInternal, "INTERNAL", "Unexpected internal error")
)

// NewInvalidArgumentError reports a malformed id or a missing required field
func NewInvalidArgumentError(format string, args ...any) *DomainError {
	return NewDomainError(KindInvalidArgument, ErrInvalidArgument.Code, fmt.Sprintf(format, args...))
}

// NewNotFoundError reports a missing resource by name and id
func NewNotFoundError(resource string, id any) *DomainError {
	return NewDomainError(KindNotFound, ErrNotFound.Code, fmt.Sprintf("%s %v not found", resource, id))
}

// NewForbiddenError reports an authenticated caller lacking entitlement.
// requiredRoles is informational and may be empty.
func NewForbiddenError(reason string, requiredRoles ...string) *DomainError {
	err := NewDomainError(KindForbidden, ErrForbidden.Code, reason)
	if len(requiredRoles) > 0 {
		err.RequiredRoles = append([]string(nil), requiredRoles...)
	}
	return err
}

// NewConflictError reports a uniqueness or concurrency conflict the caller may retry
func NewConflictError(message string) *DomainError {
	err := NewDomainError(KindConflict, ErrConflict.Code, message)
	err.Retryable = true
	return err
}

// NewInvalidStateError reports an operation rejected by the aggregate's current state
func NewInvalidStateError(message string) *DomainError {
	return NewDomainError(KindConflict, ErrInvalidState.Code, message)
}

// NewInternalError wraps an unexpected store or transport failure
func NewInternalError(message string, cause error) *DomainError {
	return NewDomainError(KindInternal, ErrInternal.Code, message).WithCause(cause)
}

// KindOf returns the kind of err. Errors that are not domain errors are Internal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}

// AsDomainError returns err as a DomainError, wrapping unknown errors as Internal
func AsDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return NewInternalError("unexpected error", err)
}
