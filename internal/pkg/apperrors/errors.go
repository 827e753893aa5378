package apperrors

import (
	"errors"
	"strings"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Employee errors
var (
	ErrEmployeeNotFound   error = NewResourceNotFoundError("employee not found").WithCode(string(ReasonNotFound))
	ErrEmailAlreadyExists error = NewConflictError("email already exists").WithCode(string(ReasonDuplicateEmail))
	ErrInvalidFileType    error = NewBadRequestError("only jpg, jpeg, or png files are allowed").WithCode(string(ReasonInvalidFileType))
)

// Admin errors
var (
	ErrAdminNotFound      = NewResourceNotFoundError("admin not found")
	ErrAdminAlreadyExists = NewConflictError("admin username already exists")
)

// Reason is a machine-readable failure reason reported to API callers.
type Reason string

const (
	ReasonMissingFields       Reason = "missing-fields"
	ReasonInvalidEmailFormat  Reason = "invalid-email-format"
	ReasonDuplicateEmail      Reason = "duplicate-email"
	ReasonInvalidMobileFormat Reason = "invalid-mobile-format"
	ReasonInvalidFileType     Reason = "invalid-file-type"
	ReasonNotFound            Reason = "not-found"
	ReasonBadRequest          Reason = "bad-request"
	ReasonUnauthorized        Reason = "unauthorized"
	ReasonUnexpected          Reason = "unexpected-error"
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) *CustomError {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) *CustomError {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string // machine-readable reason, empty when the error has none
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// ErrorCode returns the Code of the first CustomError in err's chain
func ErrorCode(err error) (Reason, bool) {
	var cerr *CustomError
	if errors.As(err, &cerr) && cerr.Code != "" {
		return Reason(cerr.Code), true
	}
	return "", false
}

// FieldViolation is a single failed field rule.
type FieldViolation struct {
	Field   string `json:"field"`
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

// ValidationError collects every violated field rule of one request.
// Violations keep the order in which the rules were evaluated.
type ValidationError struct {
	Violations []FieldViolation
}

// Add appends a violation.
func (e *ValidationError) Add(field string, reason Reason, message string) {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Reason: reason, Message: message})
}

// HasViolations reports whether any rule failed.
func (e *ValidationError) HasViolations() bool {
	return e != nil && len(e.Violations) > 0
}

// Reason returns the reason of the first violation.
func (e *ValidationError) Reason() Reason {
	if !e.HasViolations() {
		return ""
	}
	return e.Violations[0].Reason
}

// Error implements error interface
func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
