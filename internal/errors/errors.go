package errors

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Code is a stable error code for programmatic handling.
type Code string

const (
	CodeUnknown       Code = "unknown"
	CodeInvalid       Code = "invalid"
	CodeNotFound      Code = "not_found"
	CodeConflict      Code = "conflict"
	CodeUnauthorized  Code = "unauthorized"
	CodeForbidden     Code = "forbidden"
	CodeInternal      Code = "internal"
	CodeUnavailable   Code = "unavailable"
	CodeAlreadyExists Code = "already_exists"
)

// AppError carries a code, a user-facing message and an optional cause.
type AppError struct {
	Code    Code
	Message string
	Err     error
	Meta    map[string]any
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *AppError) Unwrap() error { return e.Err }

// WithMeta attaches metadata rendered as error details.
func (e *AppError) WithMeta(k string, v any) *AppError {
	cp := *e
	cp.Meta = make(map[string]any, len(e.Meta)+1)
	for mk, mv := range e.Meta {
		cp.Meta[mk] = mv
	}
	cp.Meta[k] = v
	return &cp
}

// New creates an AppError.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps err with a code and message.
func Wrap(err error, code Code, message string) *AppError {
	if err == nil {
		return New(code, message)
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// Invalid is shorthand for a validation failure.
func Invalid(message string) *AppError {
	return New(CodeInvalid, message)
}

// IsCode checks if err carries code anywhere in its chain.
func IsCode(err error, code Code) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

var (
	// ErrUnauthorized is returned when no valid identity is present.
	ErrUnauthorized = New(CodeUnauthorized, "Authentication required")
	// ErrAdminRequired is returned when the caller lacks the admin role.
	ErrAdminRequired = New(CodeForbidden, "Admin access required")
	// ErrAdminSessionRequired is returned when the admin console cookie is missing or invalid.
	ErrAdminSessionRequired = New(CodeUnauthorized, "Admin authentication required")
	// ErrForbidden is returned when the caller may not touch a resource.
	ErrForbidden = New(CodeForbidden, "Access denied")
	// ErrNotJobPoster is returned when someone else reads a job's applications.
	ErrNotJobPoster = New(CodeForbidden, "Access denied. You can only view applications for your own jobs.")

	ErrUserNotFound         = New(CodeNotFound, "User not found")
	ErrSkillNotFound        = New(CodeNotFound, "Skill not found")
	ErrCategoryNotFound     = New(CodeNotFound, "Skill category not found")
	ErrExchangeNotFound     = New(CodeNotFound, "Exchange not found")
	ErrNotificationNotFound = New(CodeNotFound, "Notification not found")
	ErrDocumentNotFound     = New(CodeNotFound, "Document not found")
	ErrBadgeRequestNotFound = New(CodeNotFound, "Badge request not found")
	ErrFlagNotFound         = New(CodeNotFound, "Feature flag not found")
	ErrPaymentNotFound      = New(CodeNotFound, "Payment not found")
	ErrInsuranceNotFound    = New(CodeNotFound, "Insurance record not found")
	ErrAngelJobNotFound     = New(CodeNotFound, "Angel job not found")
	ErrApplicationNotFound  = New(CodeNotFound, "Application not found")
	ErrPostNotFound         = New(CodeNotFound, "Post not found")
	ErrGuruRequired         = New(CodeNotFound, "Guru subdomain required")

	ErrInvalidTier         = New(CodeInvalid, "Invalid tier")
	ErrInvalidTransition   = New(CodeInvalid, "Invalid status transition")
	ErrExchangeClosed      = New(CodeInvalid, "Exchange is closed")
	ErrSelfExchange        = New(CodeInvalid, "Cannot request an exchange with yourself")
	ErrAlreadyRated        = New(CodeInvalid, "Exchange already rated")
	ErrBadgeAlreadyExists  = New(CodeInvalid, "Badge already requested or earned")
	ErrInvalidDocuments    = New(CodeInvalid, "One or more document IDs are invalid")
	ErrInvalidAmount       = New(CodeInvalid, "Invalid amount")
	ErrDocumentNotPending  = New(CodeInvalid, "Only pending documents can be removed")
	ErrAdminWriteDisabled  = New(CodeForbidden, "Admin write operations are disabled")
	ErrInvalidAdminKey     = New(CodeUnauthorized, "Invalid admin key")
	ErrAdminKeyMissing     = New(CodeInternal, "ADMIN_KEY not set")
	ErrInvalidSignature    = New(CodeInvalid, "Invalid signature")
	ErrWebhookSecretNotSet = New(CodeInternal, "Webhook secret not configured")

	ErrInsuranceNotEffective = New(CodeInvalid, "Insurance must be currently effective")
	ErrInsuranceExpired      = New(CodeInvalid, "Insurance policy has expired")
	ErrOwnJobApplication     = New(CodeInvalid, "Cannot apply to your own job posting")
	ErrAlreadyApplied        = New(CodeInvalid, "You have already applied to this job")
	ErrJobNotOpen            = New(CodeInvalid, "This job is no longer accepting applications")
	ErrSubdomainMismatch     = New(CodeInvalid, "Subdomain mismatch")
	ErrJobAlreadyCompleted   = New(CodeInvalid, "Job is already completed")

	ErrStripeNotConfigured  = New(CodeUnavailable, "Stripe not configured. Please set STRIPE_SECRET_KEY environment variable.")
	ErrStorageNotConfigured = New(CodeUnavailable, "Document storage not configured")
	ErrAccountNotConnected  = New(CodeInvalid, "No connected account found. Please complete account setup first.")
	ErrNotConnected         = New(CodeInvalid, "Not connected to Stripe")
	ErrNoInstantBalance     = New(CodeInvalid, "No instant balance available")
	ErrAmountExceedsBalance = New(CodeInvalid, "Amount exceeds instant available balance")
)

// ErrorDetail is the body of a failed response.
type ErrorDetail struct {
	Message string         `json:"message"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    map[string]any
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Message: e.Message,
			Code:    e.Code,
			Details: e.Details,
		},
	}
}

var statusByCode = map[Code]int{
	CodeInvalid:       http.StatusBadRequest,
	CodeNotFound:      http.StatusNotFound,
	CodeConflict:      http.StatusConflict,
	CodeAlreadyExists: http.StatusConflict,
	CodeUnauthorized:  http.StatusUnauthorized,
	CodeForbidden:     http.StatusForbidden,
	CodeUnavailable:   http.StatusServiceUnavailable,
	CodeInternal:      http.StatusInternalServerError,
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var ae *AppError
	switch {
	case errors.As(err, &ae):
		status, ok := statusByCode[ae.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		he := NewHTTPError(status, ae.Message, string(ae.Code))
		he.Details = ae.Meta
		return he
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NewHTTPError(http.StatusNotFound, "resource not found", string(CodeNotFound))
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", string(CodeInternal))
	}
}
