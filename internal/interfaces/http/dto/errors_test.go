package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeRunLocked, http.StatusConflict},
		{ErrCodeBatchFailed, http.StatusUnprocessableEntity},
		{ErrCodeMissingParent, http.StatusUnprocessableEntity},
		{ErrCodeInvalidRegion, http.StatusUnprocessableEntity},
		{"ERR_NO_SUCH_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"ALREADY_LINKED", ErrCodeConflict},
		{"RUN_LOCKED", ErrCodeRunLocked},
		{"BATCH_FAILED", ErrCodeBatchFailed},
		{"MISSING_PARENT", ErrCodeMissingParent},
		{"INVALID_REGION", ErrCodeInvalidRegion},
		{"INVALID_DISCOUNT", ErrCodeInvalidInput},
		// Already normalized codes pass through untouched.
		{ErrCodeNotFound, ErrCodeNotFound},
		// Unknown codes pass through so callers can still log them.
		{"SOMETHING_ELSE", "SOMETHING_ELSE"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.in))
		})
	}
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]int{"count": 3})
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeRunLocked, "locked", "req-42")
	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.Equal(t, ErrCodeRunLocked, resp.Error.Code)
	assert.Equal(t, "locked", resp.Error.Message)
	assert.Equal(t, "req-42", resp.Error.RequestID)
}
