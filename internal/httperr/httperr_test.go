package httperr

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
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{CodeUnauthenticated, http.StatusUnauthorized},
		{CodeIdentityProviderUnavailable, http.StatusServiceUnavailable},
		{CodeValidation, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeTooLateToCancel, http.StatusBadRequest},
		{CodePaymentProcessingDisabled, http.StatusServiceUnavailable},
		{CodeInvalidSignature, http.StatusBadRequest},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.code))
		})
	}
}

func TestIsBusinessUnwraps(t *testing.T) {
	err := fmt.Errorf("booking: %w", ErrBusiness(CodeConflict))
	assert.True(t, IsBusiness(err, CodeConflict))
	assert.False(t, IsBusiness(err, CodeNotFound))
	assert.False(t, IsBusiness(errors.New("boom"), CodeConflict))
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   HTTPError
	}{
		{
			name:       "business error with default message",
			err:        ErrBusiness(CodeTooLateToCancel),
			wantStatus: http.StatusBadRequest,
			wantBody:   HTTPError{Error: "Appointments cannot be canceled within 24 hours", Code: CodeTooLateToCancel},
		},
		{
			name:       "business error with details",
			err:        New(CodeValidation, "Invalid request data", "amount must be at least 50"),
			wantStatus: http.StatusBadRequest,
			wantBody:   HTTPError{Error: "Invalid request data", Code: CodeValidation, Details: []string{"amount must be at least 50"}},
		},
		{
			name:       "unexpected error is hidden",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   HTTPError{Error: "Internal server error", Code: CodeInternal},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Respond(c, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.wantBody, got)
		})
	}
}
