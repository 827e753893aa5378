package dto

import (
	"time"

	"github.com/yigit/empdesk/internal/pkg/apperrors"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success   bool                       `json:"success" example:"false"`
	Error     apperrors.Reason           `json:"error" example:"duplicate-email"`
	Message   string                     `json:"message" example:"Email already exists"`
	Fields    []apperrors.FieldViolation `json:"fields,omitempty"`
	RequestID string                     `json:"requestId,omitempty"`
	Timestamp time.Time                  `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(reason apperrors.Reason, message string) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     reason,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithFields attaches per-field violations
func (e *ErrorResponse) WithFields(fields []apperrors.FieldViolation) *ErrorResponse {
	e.Fields = fields
	return e
}

// WithRequestID attaches the request correlation id
func (e *ErrorResponse) WithRequestID(id string) *ErrorResponse {
	e.RequestID = id
	return e
}
