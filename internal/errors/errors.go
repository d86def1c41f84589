// Package errors categorizes the failures a CardVault client can hit:
// local validation, transport, decode, HTTP status, authorization and timeout.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/cardvault-cli/internal/types"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	// CategoryValidation represents local validation errors; no request was made
	CategoryValidation ErrorCategory = "validation"
	// CategoryNetwork represents transport failures
	CategoryNetwork ErrorCategory = "network"
	// CategoryDecode represents malformed response bodies
	CategoryDecode ErrorCategory = "decode"
	// CategoryHTTP represents non-2xx responses
	CategoryHTTP ErrorCategory = "http"
	// CategoryAuthorization represents a missing session or a 401/403
	CategoryAuthorization ErrorCategory = "authorization"
	// CategoryNotFound represents 404 responses
	CategoryNotFound ErrorCategory = "not_found"
	// CategoryTimeout represents an exhausted polling budget
	CategoryTimeout ErrorCategory = "timeout"
	// CategoryCancelled represents work abandoned by the caller
	CategoryCancelled ErrorCategory = "cancelled"
	// CategoryInternal represents anything else
	CategoryInternal ErrorCategory = "internal"
)

// CategorizedError represents an error with category and HTTP status code
type CategorizedError struct {
	Category   ErrorCategory
	StatusCode int
	Code       string
	Message    string
	Details    map[string]interface{}
	Cause      error
}

// Error returns the user-facing message, followed by the cause for transport faults
func (e *CategorizedError) Error() string {
	if e.Cause != nil && (e.Category == CategoryNetwork || e.Category == CategoryDecode || e.Category == CategoryInternal) {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *CategorizedError) Unwrap() error {
	return e.Cause
}

// ToServiceError converts to a ServiceError
func (e *CategorizedError) ToServiceError() *types.ServiceError {
	return &types.ServiceError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
}

// NewValidationError creates a local validation error
func NewValidationError(message string) *CategorizedError {
	return &CategorizedError{
		Category: CategoryValidation,
		Code:     "VALIDATION_FAILED",
		Message:  message,
	}
}

// NewInvalidParameterError creates an invalid parameter error
func NewInvalidParameterError(param string, reason string) *CategorizedError {
	return &CategorizedError{
		Category: CategoryValidation,
		Code:     "INVALID_PARAMETER",
		Message:  fmt.Sprintf("invalid %s: %s", param, reason),
		Details: map[string]interface{}{
			"parameter": param,
			"reason":    reason,
		},
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryAuthorization,
		StatusCode: http.StatusUnauthorized,
		Code:       "UNAUTHORIZED",
		Message:    message,
	}
}

// NewNotLoggedInError is returned before any request when no session is stored
func NewNotLoggedInError() *CategorizedError {
	return &CategorizedError{
		Category: CategoryAuthorization,
		Code:     "NO_SESSION",
		Message:  "not logged in: run `cardvault login` first",
	}
}

// NewNetworkError wraps a transport failure
func NewNetworkError(operation string, cause error) *CategorizedError {
	return &CategorizedError{
		Category: CategoryNetwork,
		Code:     "NETWORK_ERROR",
		Message:  fmt.Sprintf("%s failed", operation),
		Cause:    cause,
		Details: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewDecodeError wraps a malformed response body
func NewDecodeError(operation string, cause error) *CategorizedError {
	return &CategorizedError{
		Category: CategoryDecode,
		Code:     "DECODE_ERROR",
		Message:  fmt.Sprintf("%s returned an unreadable response", operation),
		Cause:    cause,
		Details: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewHTTPError creates an error for a non-2xx response
func NewHTTPError(statusCode int, message string) *CategorizedError {
	category := CategoryHTTP
	code := "HTTP_ERROR"
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		category = CategoryAuthorization
		code = "UNAUTHORIZED"
	case http.StatusNotFound:
		category = CategoryNotFound
		code = "NOT_FOUND"
	}
	if message == "" {
		message = http.StatusText(statusCode)
	}
	return &CategorizedError{
		Category:   category,
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// NewTimeoutError creates an error for an exhausted polling budget
func NewTimeoutError(message string, attempts int) *CategorizedError {
	return &CategorizedError{
		Category: CategoryTimeout,
		Code:     "TIMEOUT",
		Message:  message,
		Details: map[string]interface{}{
			"attempts": attempts,
		},
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string, cause error) *CategorizedError {
	return &CategorizedError{
		Category: CategoryInternal,
		Code:     "INTERNAL_ERROR",
		Message:  message,
		Cause:    cause,
	}
}

// Categorize categorizes an existing error
func Categorize(err error) *CategorizedError {
	if err == nil {
		return nil
	}

	var catErr *CategorizedError
	if stderrors.As(err, &catErr) {
		return catErr
	}

	var svcErr *types.ServiceError
	if stderrors.As(err, &svcErr) {
		return categorizeServiceError(svcErr)
	}

	if stderrors.Is(err, context.Canceled) {
		return &CategorizedError{Category: CategoryCancelled, Code: "CANCELLED", Message: "cancelled", Cause: err}
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return &CategorizedError{Category: CategoryNetwork, Code: "DEADLINE_EXCEEDED", Message: "request deadline exceeded", Cause: err}
	}

	return NewInternalError("unexpected error", err)
}

func categorizeServiceError(err *types.ServiceError) *CategorizedError {
	switch err.Code {
	case "UNAUTHORIZED", "FORBIDDEN", "INVALID_TOKEN":
		return &CategorizedError{
			Category:   CategoryAuthorization,
			StatusCode: http.StatusUnauthorized,
			Code:       err.Code,
			Message:    err.Message,
			Details:    err.Details,
		}
	case "NOT_FOUND", "SCAN_NOT_FOUND", "ENTRY_NOT_FOUND":
		return &CategorizedError{
			Category:   CategoryNotFound,
			StatusCode: http.StatusNotFound,
			Code:       err.Code,
			Message:    err.Message,
			Details:    err.Details,
		}
	case "VALIDATION_ERROR", "INVALID_FILE":
		return &CategorizedError{
			Category:   CategoryHTTP,
			StatusCode: http.StatusBadRequest,
			Code:       err.Code,
			Message:    err.Message,
			Details:    err.Details,
		}
	default:
		return &CategorizedError{
			Category:   CategoryHTTP,
			StatusCode: http.StatusInternalServerError,
			Code:       err.Code,
			Message:    err.Message,
			Details:    err.Details,
		}
	}
}

func is(err error, category ErrorCategory) bool {
	catErr := Categorize(err)
	return catErr != nil && catErr.Category == category
}

// IsValidation reports a local validation error
func IsValidation(err error) bool {
	return is(err, CategoryValidation)
}

// IsTimeout reports an exhausted polling budget
func IsTimeout(err error) bool {
	return is(err, CategoryTimeout)
}

// IsUnauthorized reports a missing session or a rejected token
func IsUnauthorized(err error) bool {
	return is(err, CategoryAuthorization)
}

// IsNotFound reports a 404
func IsNotFound(err error) bool {
	return is(err, CategoryNotFound)
}

// IsTransportFault reports failures that never produced a usable response.
// Decode failures count as transport faults.
func IsTransportFault(err error) bool {
	catErr := Categorize(err)
	if catErr == nil {
		return false
	}
	return catErr.Category == CategoryNetwork || catErr.Category == CategoryDecode
}

// StatusCode returns the HTTP status carried by err, 0 when none
func StatusCode(err error) int {
	if catErr := Categorize(err); catErr != nil {
		return catErr.StatusCode
	}
	return 0
}

// IsUserError determines if an error is a user error (validation or 4xx)
func IsUserError(err error) bool {
	catErr := Categorize(err)
	if catErr == nil {
		return false
	}
	if catErr.Category == CategoryValidation {
		return true
	}
	return catErr.StatusCode >= 400 && catErr.StatusCode < 500
}
