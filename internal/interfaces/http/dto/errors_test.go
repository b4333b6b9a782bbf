package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{"not found", ErrCodeNotFound, http.StatusNotFound},
		{"already exists", ErrCodeAlreadyExists, http.StatusConflict},
		{"invalid state", ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{"invalid input", ErrCodeInvalidInput, http.StatusBadRequest},
		{"source unavailable", ErrCodeSourceUnavailable, http.StatusBadGateway},
		{"recompute failed", ErrCodeRecomputeFailed, http.StatusInternalServerError},
		{"internal", ErrCodeInternal, http.StatusInternalServerError},
		{"unknown code defaults to 500", "SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{"register not found", "CASH_REGISTER_NOT_FOUND", ErrCodeNotFound},
		{"payment not found", "PAYMENT_NOT_FOUND", ErrCodeNotFound},
		{"expense not found", "EXPENSE_NOT_FOUND", ErrCodeNotFound},
		{"code taken", "CODE_TAKEN", ErrCodeAlreadyExists},
		{"register not accepting", "REGISTER_NOT_ACCEPTING", ErrCodeInvalidState},
		{"source unavailable", "SOURCE_UNAVAILABLE", ErrCodeSourceUnavailable},
		{"recompute failed", "RECOMPUTE_FAILED", ErrCodeRecomputeFailed},
		{"field-level invalid collapses", "INVALID_AMOUNT", ErrCodeInvalidInput},
		{"another field-level invalid", "INVALID_PAYER", ErrCodeInvalidInput},
		{"invalid state passes through mapping", "INVALID_STATE", ErrCodeInvalidState},
		{"wire code unchanged", ErrCodeNotFound, ErrCodeNotFound},
		{"unknown unchanged", "SOME_CUSTOM_CODE", "SOME_CUSTOM_CODE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.code))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Cash register not found", "req-123")

	assert.False(t, resp.Success)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Cash register not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "Amount", Message: "Must be greater than 0"},
		{Field: "Currency", Message: "This field is required"},
	}

	resp := NewValidationErrorResponse("Request validation failed", "req-456", details)

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-456", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "Amount", resp.Error.Details[0].Field)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 41, 2, 20)

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Meta)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
