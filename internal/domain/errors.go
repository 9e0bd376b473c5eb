package domain

import (
	"errors"
	"fmt"
)

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Error codes.
const (
	CodeStoreUnavailable    = "STORE_UNAVAILABLE"
	CodeMalformedRow        = "MALFORMED_ROW"
	CodeMissingCollaborator = "MISSING_COLLABORATOR"
	CodeAmbiguousMatch      = "AMBIGUOUS_MATCH"
	CodeNotFound            = "NOT_FOUND"
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeInternal            = "INTERNAL_ERROR"
)

// Standard domain error constructors.

// ErrStoreUnavailable reports a failed call to the external tabular store.
func ErrStoreUnavailable(op string, cause error) *AppError {
	return &AppError{Code: CodeStoreUnavailable, Message: fmt.Sprintf("store unavailable during %s", op), Status: 503, Cause: cause}
}

// ErrMalformedRow reports a row that failed date or number parsing.
func ErrMalformedRow(table string, position int, cause error) *AppError {
	return &AppError{Code: CodeMalformedRow, Message: fmt.Sprintf("%s row %d is malformed", table, position), Status: 422, Cause: cause}
}

func ErrMissingCollaborator(what string) *AppError {
	return &AppError{Code: CodeMissingCollaborator, Message: fmt.Sprintf("cannot render: %s unavailable", what), Status: 501}
}

// ErrAmbiguousMatch reports more than one row for a key that should be unique.
func ErrAmbiguousMatch(table, key string, count int) *AppError {
	return &AppError{Code: CodeAmbiguousMatch, Message: fmt.Sprintf("%s has %d rows for %s, first match used", table, count, key), Status: 409}
}

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: CodeValidation, Message: msg, Status: 400}
}

func ErrUnauthorized(msg string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: msg, Status: 401}
}

func ErrForbidden(msg string) *AppError {
	return &AppError{Code: CodeForbidden, Message: msg, Status: 403}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: msg, Status: 500, Cause: cause}
}

// HasCode reports whether err wraps an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
