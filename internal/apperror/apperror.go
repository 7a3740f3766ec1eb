// Package apperror defines the error taxonomy shared by every layer.
//
// Services return these domain errors; the HTTP layer translates them into
// status codes and the {message, errors} response envelope. Sentinel errors
// are matched with errors.Is across wrapped chains.
package apperror

import (
	"errors"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError carries a human-readable message plus optional per-field
// validation messages, keyed by the JSON field name.
type AppError struct {
	Err     error
	Message string
	Fields  map[string][]string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing resource. Ownership mismatches use this same
// constructor: the API never distinguishes "not yours" from "does not exist".
func NotFound(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

// Unauthorized reports a missing, invalid, or revoked credential.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// ValidationFailed reports a single-field validation failure. The overall
// message mirrors the field message, matching the original API envelope.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Fields:  map[string][]string{field: {message}},
	}
}

// ValidationFields reports validation failures for several fields at once.
// The top-level message is the first field message in the given field order.
func ValidationFields(order []string, fields map[string][]string) *AppError {
	message := "Os dados fornecidos são inválidos."
	for _, f := range order {
		if msgs := fields[f]; len(msgs) > 0 {
			message = msgs[0]
			break
		}
	}
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Fields:  fields,
	}
}
