package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an AppError for transport mapping.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindValidation   ErrorKind = "VALIDATION_ERROR"
	KindConflict     ErrorKind = "CONFLICT"
	KindForbidden    ErrorKind = "FORBIDDEN"
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
)

// AppError is a domain error that carries a kind the HTTP layer can map to a status code.
type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found: %s", entity, id)}
}

// NewValidationError reports invalid input.
func NewValidationError(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

// NewConflictError reports a concurrent modification or duplicate.
func NewConflictError(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

// NewForbiddenError reports an operation the caller may not perform.
func NewForbiddenError(msg string) *AppError {
	return &AppError{Kind: KindForbidden, Message: msg}
}

// NewUnauthorizedError reports missing or invalid credentials.
func NewUnauthorizedError(msg string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: msg}
}

// IsKind reports whether err wraps an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
