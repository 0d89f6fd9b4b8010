// Package errors provides custom error types for the Obralink API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Budget validation errors. These are raised before any call to the budget
// store; a request that fails validation never reaches the transport layer.
var (
	ErrInvalidAmount          = &AppError{Code: "INVALID_AMOUNT", Message: "Amount must be a positive number", StatusCode: http.StatusBadRequest}
	ErrProjectRequired        = &AppError{Code: "PROJECT_REQUIRED", Message: "A project must be selected", StatusCode: http.StatusBadRequest}
	ErrConflictingGrouping    = &AppError{Code: "CONFLICTING_GROUPING", Message: "A budget may be linked to a category, a stage or a provider, but not more than one", StatusCode: http.StatusBadRequest}
	ErrInvalidIndexation      = &AppError{Code: "INVALID_INDEXATION", Message: "Indexation is only available for peso budgets", StatusCode: http.StatusBadRequest}
	ErrInvalidComparisonBasis = &AppError{Code: "INVALID_COMPARISON_BASIS", Message: "Comparison basis must be gross or net", StatusCode: http.StatusBadRequest}
)

// Budget lifecycle errors.
var (
	ErrBudgetNotFound     = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrStoreUnavailable   = &AppError{Code: "STORE_UNAVAILABLE", Message: "The budget could not be saved, please try again", StatusCode: http.StatusBadGateway}
	ErrOperationInFlight  = &AppError{Code: "OPERATION_IN_FLIGHT", Message: "Another operation is already in progress for this panel", StatusCode: http.StatusConflict}
	ErrPanelNotFound      = &AppError{Code: "PANEL_NOT_FOUND", Message: "Panel session not found", StatusCode: http.StatusNotFound}
	ErrDeleteNotConfirmed = &AppError{Code: "DELETE_NOT_CONFIRMED", Message: "Deletion must be confirmed before it is executed", StatusCode: http.StatusConflict}
)

// Rate provider errors. Rate unavailability is non-fatal: it degrades the
// indexation preview but never blocks a lifecycle operation.
var (
	ErrRateUnavailable = &AppError{Code: "RATE_UNAVAILABLE", Message: "Reference rate is currently unavailable", StatusCode: http.StatusServiceUnavailable}
)
