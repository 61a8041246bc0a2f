// Package errors provides application-level error types and utilities.
// It defines common error types like validation, not found, conflict, and
// the payment-specific conditions (insufficient balance, cancelled prompt).
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation_error"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeConflict      ErrorType = "conflict"
	ErrorTypeUnauthorized  ErrorType = "unauthorized"
	ErrorTypeForbidden     ErrorType = "forbidden"
	ErrorTypeInternal      ErrorType = "internal_error"
	ErrorTypeBadRequest    ErrorType = "bad_request"
	ErrorTypeUnavailable   ErrorType = "unavailable"
	ErrorTypeInvalidAmount ErrorType = "invalid_amount"

	// Payment execution outcomes. Cancelled is a non-alarming outcome, not a
	// failure: the payer rejected the wallet prompt.
	ErrorTypeInsufficientBalance ErrorType = "insufficient_balance"
	ErrorTypeCancelled           ErrorType = "cancelled"
	ErrorTypeTransactionFailed   ErrorType = "transaction_failed"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newAppError(errType ErrorType, code int, message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    errType,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details...)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details...)
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, message, details...)
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnauthorized, http.StatusUnauthorized, message, details...)
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeForbidden, http.StatusForbidden, message, details...)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details...)
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeBadRequest, http.StatusBadRequest, message, details...)
}

// NewUnavailableError creates an error indicating the backing store or a
// collaborating service is unreachable or unconfigured. Callers are expected
// to degrade (long-form links, local-only rendering) rather than fail.
func NewUnavailableError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnavailable, http.StatusServiceUnavailable, message, details...)
}

// NewInvalidAmountError creates an error for a zero or negative amount override.
func NewInvalidAmountError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInvalidAmount, http.StatusBadRequest, message, details...)
}

// NewInsufficientBalanceError creates an error for a payer balance below the
// requested transfer amount. Raised before anything is submitted on-chain.
func NewInsufficientBalanceError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInsufficientBalance, http.StatusUnprocessableEntity, message, details...)
}

// NewCancelledError creates the outcome for a payer rejecting the wallet prompt.
func NewCancelledError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeCancelled, http.StatusOK, message, details...)
}

// NewTransactionFailedError creates an error for a failed on-chain submission
// or confirmation. The underlying provider text is kept as detail only; it is
// not stable across wallet providers.
func NewTransactionFailedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeTransactionFailed, http.StatusBadGateway, message, details...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func isType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return isType(err, ErrorTypeConflict)
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsForbiddenError checks if the error is a forbidden error
func IsForbiddenError(err error) bool {
	return isType(err, ErrorTypeForbidden)
}

// IsUnavailableError checks if the error is an unavailable error
func IsUnavailableError(err error) bool {
	return isType(err, ErrorTypeUnavailable)
}

// IsInvalidAmountError checks if the error is an invalid amount error
func IsInvalidAmountError(err error) bool {
	return isType(err, ErrorTypeInvalidAmount)
}

// IsInsufficientBalanceError checks if the error is an insufficient balance error
func IsInsufficientBalanceError(err error) bool {
	return isType(err, ErrorTypeInsufficientBalance)
}

// IsCancelledError checks if the error is a cancelled-by-user outcome
func IsCancelledError(err error) bool {
	return isType(err, ErrorTypeCancelled)
}

// IsTransactionFailedError checks if the error is a transaction failure
func IsTransactionFailedError(err error) bool {
	return isType(err, ErrorTypeTransactionFailed)
}

// IsDuplicateError checks if the error is a database duplicate key error
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// SQLite / generic
	if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key") {
		return true
	}
	// PostgreSQL unique violation
	if strings.Contains(errStr, "unique constraint") || strings.Contains(errStr, "violates unique constraint") {
		return true
	}
	return false
}
