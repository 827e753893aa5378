package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/empdesk/internal/app/models/dto"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
)

func handle(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/employees/x", nil)
	HandleAPIError(c, err)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w.Code, body
}

func TestHandleAPIErrorUsesReasonCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReason apperrors.Reason
		wantMsg    string
	}{
		{"not found", fmt.Errorf("lookup: %w", apperrors.ErrEmployeeNotFound), http.StatusNotFound, apperrors.ReasonNotFound, "Employee not found"},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, http.StatusBadRequest, apperrors.ReasonDuplicateEmail, "Email already exists"},
		{"file type", apperrors.ErrInvalidFileType, http.StatusBadRequest, apperrors.ReasonInvalidFileType, "Only jpg, jpeg, or png files are allowed"},
		{"unknown code uses error text", apperrors.NewBadRequestError("odd input").WithCode("odd-input"), http.StatusBadRequest, "odd-input", "odd input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := handle(t, tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantReason, body.Error)
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestHandleAPIErrorValidation(t *testing.T) {
	verr := &apperrors.ValidationError{}
	verr.Add("name", apperrors.ReasonMissingFields, "Name is required")
	verr.Add("mobile", apperrors.ReasonInvalidMobileFormat, "Mobile number must be numeric")

	status, body := handle(t, verr)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperrors.ReasonMissingFields, body.Error)
	assert.Equal(t, "All fields are required", body.Message)
	assert.Len(t, body.Fields, 2)
}

func TestHandleAPIErrorFallbacks(t *testing.T) {
	status, body := handle(t, apperrors.ErrTokenRevoked)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.ReasonUnauthorized, body.Error)

	status, body = handle(t, errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, apperrors.ReasonUnexpected, body.Error)
	assert.NotContains(t, body.Message, "disk")
}
