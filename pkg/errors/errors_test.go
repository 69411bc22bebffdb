package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsSetStatusCodes(t *testing.T) {
	tests := []struct {
		name         string
		err          *AppError
		expectedType ErrorType
		expectedCode int
	}{
		{
			name:         "Validation",
			err:          NewValidationError("bad input", nil),
			expectedType: ErrorTypeValidation,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Authentication",
			err:          NewAuthenticationError("who are you"),
			expectedType: ErrorTypeAuthentication,
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "Authorization",
			err:          NewAuthorizationError("not for you"),
			expectedType: ErrorTypeAuthorization,
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "NotFound",
			err:          NewNotFoundError("gone"),
			expectedType: ErrorTypeNotFound,
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Conflict",
			err:          NewConflictError("already there"),
			expectedType: ErrorTypeConflict,
			expectedCode: http.StatusConflict,
		},
		{
			name:         "Internal",
			err:          NewInternalError("boom", nil),
			expectedType: ErrorTypeInternal,
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:         "External",
			err:          NewExternalError("upstream broke", nil),
			expectedType: ErrorTypeExternal,
			expectedCode: http.StatusBadGateway,
		},
		{
			name:         "RateLimit",
			err:          NewRateLimitError("slow down"),
			expectedType: ErrorTypeRateLimit,
			expectedCode: http.StatusTooManyRequests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedType, tt.err.Type)
			assert.Equal(t, tt.expectedCode, tt.err.StatusCode)
		})
	}
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewInternalError("database unreachable", cause)

	assert.Contains(t, err.Error(), "database unreachable")
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, stderrors.Is(err, cause))

	plain := NewNotFoundError("gone")
	assert.Equal(t, "not_found: gone", plain.Error())
	assert.Nil(t, plain.Unwrap())
}
