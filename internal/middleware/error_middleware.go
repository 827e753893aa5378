package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/empdesk/internal/app/models/dto"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
	"github.com/yigit/empdesk/internal/pkg/logger"
)

// reasonMessages are the top-level messages for each reason
var reasonMessages = map[apperrors.Reason]string{
	apperrors.ReasonNotFound:            "Employee not found",
	apperrors.ReasonMissingFields:       "All fields are required",
	apperrors.ReasonInvalidEmailFormat:  "Invalid email format",
	apperrors.ReasonDuplicateEmail:      "Email already exists",
	apperrors.ReasonInvalidMobileFormat: "Mobile number must be numeric",
	apperrors.ReasonInvalidFileType:     "Only jpg, jpeg, or png files are allowed",
}

// writeError sends a reason-coded error body and aborts the chain
func writeError(c *gin.Context, status int, body *dto.ErrorResponse) {
	c.AbortWithStatusJSON(status, body.WithRequestID(GetRequestID(c)))
}

// HandleAPIError maps service errors to HTTP responses
func HandleAPIError(c *gin.Context, err error) {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) && verr.HasViolations() {
		reason := verr.Reason()
		message, ok := reasonMessages[reason]
		if !ok {
			message = verr.Violations[0].Message
		}
		writeError(c, http.StatusBadRequest, dto.NewErrorResponse(reason, message).WithFields(verr.Violations))
		return
	}

	if reason, ok := apperrors.ErrorCode(err); ok {
		message, known := reasonMessages[reason]
		if !known {
			message = err.Error()
		}
		writeError(c, codedStatus(err), dto.NewErrorResponse(reason, message))
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		writeError(c, http.StatusNotFound, dto.NewErrorResponse(apperrors.ReasonNotFound, "Resource not found"))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		writeError(c, http.StatusUnauthorized, dto.NewErrorResponse(apperrors.ReasonUnauthorized, "Invalid credentials"))
	case errors.Is(err, apperrors.ErrTokenExpired):
		writeError(c, http.StatusUnauthorized, dto.NewErrorResponse(apperrors.ReasonUnauthorized, "Session expired"))
	case errors.Is(err, apperrors.ErrTokenRevoked):
		writeError(c, http.StatusUnauthorized, dto.NewErrorResponse(apperrors.ReasonUnauthorized, "Session revoked"))
	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenNotFound):
		writeError(c, http.StatusUnauthorized, dto.NewErrorResponse(apperrors.ReasonUnauthorized, "Authentication required"))
	case apperrors.Is(err, apperrors.ErrBadRequest, apperrors.ErrValidationFailed):
		writeError(c, http.StatusBadRequest, dto.NewErrorResponse(apperrors.ReasonBadRequest, err.Error()))
	default:
		logger.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Str("requestId", GetRequestID(c)).
			Msg("Unexpected error while handling request")
		writeError(c, http.StatusInternalServerError, dto.NewErrorResponse(apperrors.ReasonUnexpected, "An unexpected error occurred"))
	}
}

// codedStatus picks the status for an error carrying a reason code.
// Conflicts are reported as 400 like the other field rules.
func codedStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrConflict, apperrors.ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
