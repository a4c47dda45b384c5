package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation error")
	ErrSignature    = errors.New("invalid signature")
	ErrConflict     = errors.New("conflict")
	// ErrIntegrity marks data that should exist but does not, e.g. a paid
	// checkout whose buyer has no user record.
	ErrIntegrity = errors.New("data integrity error")
)

type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

func Validation(message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message}
}

func Signature(message string) *AppError {
	return &AppError{Err: ErrSignature, Message: message}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

func Integrity(message string) *AppError {
	return &AppError{Err: ErrIntegrity, Message: message}
}
