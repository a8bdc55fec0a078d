package domain

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a failure kind in API responses and logs.
type ErrorCode string

const (
	ErrCodeInvalidPhone      ErrorCode = "INVALID_PHONE"
	ErrCodeInvalidCredential ErrorCode = "INVALID_CREDENTIAL"
	ErrCodeAlreadyInCall     ErrorCode = "ALREADY_IN_CALL"
	ErrCodeSweepRunning      ErrorCode = "SWEEP_RUNNING"
	ErrCodeInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidCode       ErrorCode = "INVALID_CODE"

	ErrCodeCallDispatchFailed ErrorCode = "CALL_DISPATCH_FAILED"
	ErrCodeCallTeardownFailed ErrorCode = "CALL_TEARDOWN_FAILED"
)

// ValidationError is returned for bad input or an operation that is not
// allowed in the current state. Nothing has changed when it is returned.
type ValidationError struct {
	Code    ErrorCode `json:"code"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}

func NewValidationError(code ErrorCode, field, message string) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error [%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("validation error [%s] %s: %s", e.Code, e.Field, e.Message)
}

// CallDispatchError is returned when the voice provider rejects a place-call
// request or cannot be reached.
type CallDispatchError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"statusCode,omitempty"`
	Err        error     `json:"-"`
}

func (e *CallDispatchError) Error() string {
	return fmt.Sprintf("call dispatch failed: %s", e.Message)
}

func (e *CallDispatchError) Unwrap() error { return e.Err }

// CallTeardownError wraps a failed stop-call request. It is logged only.
type CallTeardownError struct {
	CallID string
	Err    error
}

func (e *CallTeardownError) Error() string {
	return fmt.Sprintf("stop call %s: %v", e.CallID, e.Err)
}

func (e *CallTeardownError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
