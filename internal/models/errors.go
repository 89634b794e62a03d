package models

import (
	"errors"
	"fmt"
)

// Error codes used across the application.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeValidation    = "VALIDATION_ERROR"
	CodeEmailTaken    = "EMAIL_TAKEN"
	CodeTitleTaken    = "TITLE_TAKEN"
	CodeWrongPassword = "WRONG_PASSWORD"
	CodeForbidden     = "FORBIDDEN"
	CodeInternal      = "INTERNAL_ERROR"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
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

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewEmailTakenError(email string) *AppError {
	return &AppError{
		Code:    CodeEmailTaken,
		Message: fmt.Sprintf("email %q is already registered", email),
	}
}

func NewTitleTakenError(title string) *AppError {
	return &AppError{
		Code:    CodeTitleTaken,
		Message: fmt.Sprintf("a post titled %q already exists", title),
	}
}

func NewWrongPasswordError() *AppError {
	return &AppError{
		Code:    CodeWrongPassword,
		Message: "incorrect password",
	}
}

func NewForbiddenError() *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: "admin access required",
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// ErrorCode extracts the application error code from err, or CodeInternal
// for unclassified errors.
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given application error code.
func IsCode(err error, code string) bool {
	return err != nil && ErrorCode(err) == code
}
