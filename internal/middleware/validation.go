package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/empdesk/internal/app/models/dto"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
)

// HandleBindingError reports a request that could not be bound or failed its binding tags
func HandleBindingError(c *gin.Context, err error) {
	body := dto.NewErrorResponse(apperrors.ReasonBadRequest, "Invalid request format")

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		violations := make([]apperrors.FieldViolation, 0, len(verrs))
		for _, fe := range verrs {
			violations = append(violations, apperrors.FieldViolation{
				Field:   fe.Field(),
				Reason:  apperrors.ReasonBadRequest,
				Message: formatValidationError(fe),
			})
		}
		body.Message = violations[0].Message
		body = body.WithFields(violations)
	}

	writeError(c, http.StatusBadRequest, body)
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_without":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
