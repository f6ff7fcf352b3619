package utils

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindValidation      ErrorKind = "validation_failed"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindForbidden       ErrorKind = "forbidden"
	KindNotFound        ErrorKind = "not_found"
	KindConflict        ErrorKind = "conflict"
	KindInternal        ErrorKind = "internal"
)

// FieldError describes one failed field-level check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"msg"`
	Value   any    `json:"value,omitempty"`
}

// AppError carries the HTTP status a domain failure surfaces with.
type AppError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Data    []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func ValidationFailed(data ...FieldError) *AppError {
	return &AppError{Kind: KindValidation, Status: http.StatusBadRequest, Message: "Validations failed", Data: data}
}

func Unauthenticated() *AppError {
	return &AppError{Kind: KindUnauthenticated, Status: http.StatusUnauthorized, Message: "Not authenticated."}
}

// Forbidden is sent as 401 to stay wire-compatible with existing clients.
func Forbidden() *AppError {
	return &AppError{Kind: KindForbidden, Status: http.StatusUnauthorized, Message: "You are not allowed to access this section."}
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Status: http.StatusBadRequest, Message: message}
}

func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Status: http.StatusInternalServerError, Message: "Internal server error.", Err: err}
}

// AsAppError classifies err, falling back to Internal for anything unclassified.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
