// Package errors provides the error handling framework for the pingd
// service. It defines the base error types the application reports, plus
// wrapping and classification helpers so every layer handles failures the
// same way.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Base error types for the application
var (
	ErrValidation = errors.New("validation error")
	ErrConnection = errors.New("connection error")
	ErrPublish    = errors.New("publish error")
	ErrNotFound   = errors.New("not found error")
	ErrInternal   = errors.New("internal error")
)

// errorType is a classified application error
type errorType struct {
	baseErr   error
	msg       string
	cause     error
	details   map[string]interface{}
	retryable bool
}

// ErrorWithDetails is implemented by errors carrying structured detail data.
type ErrorWithDetails interface {
	Error() string
	Details() map[string]interface{}
}

// Error implements the error interface
func (e *errorType) Error() string {
	if e == nil {
		return ""
	}

	base := fmt.Sprintf("%s: %s", e.baseErr.Error(), e.msg)

	if len(e.details) > 0 {
		detailsJSON, err := json.Marshal(e.details)
		if err == nil {
			base += fmt.Sprintf(" - details: %s", detailsJSON)
		}
	}

	if e.cause != nil {
		base += fmt.Sprintf(" - caused by: %v", e.cause)
	}

	return base
}

// Unwrap returns the underlying cause of the error
func (e *errorType) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is reports whether the error is of the specified base type
func (e *errorType) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	return errors.Is(e.baseErr, target)
}

// Details returns the structured detail data attached to the error.
func (e *errorType) Details() map[string]interface{} {
	if e == nil {
		return nil
	}
	return e.details
}

// NewValidationError creates a new validation error
func NewValidationError(msg string) error {
	return &errorType{
		baseErr:   ErrValidation,
		msg:       msg,
		retryable: false,
	}
}

// NewConnectionError creates a new connection error
func NewConnectionError(msg string) error {
	return &errorType{
		baseErr:   ErrConnection,
		msg:       msg,
		retryable: true,
	}
}

// NewPublishError creates a new publish error
func NewPublishError(msg string, cause error) error {
	return &errorType{
		baseErr:   ErrPublish,
		msg:       msg,
		cause:     cause,
		retryable: true,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(msg string) error {
	return &errorType{
		baseErr:   ErrNotFound,
		msg:       msg,
		retryable: false,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(msg string) error {
	return &errorType{
		baseErr:   ErrInternal,
		msg:       msg,
		retryable: false,
	}
}

// Wrap wraps an error with additional context, preserving its classification
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}

	if customErr, ok := err.(*errorType); ok {
		return &errorType{
			baseErr:   customErr.baseErr,
			msg:       msg + ": " + customErr.msg,
			cause:     customErr.cause,
			details:   customErr.details,
			retryable: customErr.retryable,
		}
	}

	// A foreign error becomes an internal error with the original as cause
	return &errorType{
		baseErr:   ErrInternal,
		msg:       msg,
		cause:     err,
		retryable: false,
	}
}

// WithDetails attaches structured detail information to an error
func WithDetails(err error, details map[string]interface{}) error {
	if err == nil {
		return nil
	}

	if customErr, ok := err.(*errorType); ok {
		return &errorType{
			baseErr:   customErr.baseErr,
			msg:       customErr.msg,
			cause:     customErr.cause,
			details:   details,
			retryable: customErr.retryable,
		}
	}

	return &errorType{
		baseErr:   ErrInternal,
		msg:       err.Error(),
		details:   details,
		retryable: false,
	}
}

// MakeRetryable marks an error as retryable
func MakeRetryable(err error) error {
	if err == nil {
		return nil
	}

	if customErr, ok := err.(*errorType); ok {
		return &errorType{
			baseErr:   customErr.baseErr,
			msg:       customErr.msg,
			cause:     customErr.cause,
			details:   customErr.details,
			retryable: true,
		}
	}

	return &errorType{
		baseErr:   ErrInternal,
		msg:       err.Error(),
		retryable: true,
	}
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return err != nil && errors.Is(err, ErrValidation)
}

// IsConnectionError checks if the error is a connection error
func IsConnectionError(err error) bool {
	return err != nil && errors.Is(err, ErrConnection)
}

// IsPublishError checks if the error is a publish error
func IsPublishError(err error) bool {
	return err != nil && errors.Is(err, ErrPublish)
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return err != nil && errors.Is(err, ErrNotFound)
}

// IsInternalError checks if the error is an internal error
func IsInternalError(err error) bool {
	return err != nil && errors.Is(err, ErrInternal)
}

// IsRetryable checks if the error is retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	customErr, ok := err.(*errorType)
	if !ok {
		return false
	}

	return customErr.retryable
}

// GetDetails returns error details if available, nil otherwise
func GetDetails(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	if detailedErr, ok := err.(ErrorWithDetails); ok {
		return detailedErr.Details()
	}

	return nil
}
