package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidStatus, http.StatusBadRequest},
		{ErrCodeInvalidPeriod, http.StatusBadRequest},
		{ErrCodeBodyTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeNoMonthlyRate, http.StatusUnprocessableEntity},
		{ErrCodePropertyNotLinked, http.StatusUnprocessableEntity},
		{ErrCodeTenantNotFound, http.StatusUnprocessableEntity},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"INVALID_INPUT", ErrCodeInvalidInput},
		{"INVALID_STATUS", ErrCodeInvalidStatus},
		{"NO_MONTHLY_RATE", ErrCodeNoMonthlyRate},
		{"PROPERTY_NOT_LINKED", ErrCodePropertyNotLinked},
		{"TENANT_NOT_FOUND", ErrCodeTenantNotFound},
		{"ENTRY_NOT_FOUND", ErrCodeNotFound},
		{"ENTRY_NOT_DEAD", ErrCodeInvalidState},
		{"INTERNAL_ERROR", ErrCodeInternal},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestEveryMappedCodeHasStatus(t *testing.T) {
	for domainCode, apiCode := range DomainErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[apiCode]
		assert.True(t, ok, "%s maps to %s which has no HTTP status", domainCode, apiCode)
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		pages    int
	}{
		{0, 20, 0},
		{20, 20, 1},
		{21, 20, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta([]string{}, tt.total, 1, tt.pageSize)
		assert.True(t, resp.Success)
		assert.Equal(t, tt.pages, resp.Meta.TotalPages, "total=%d size=%d", tt.total, tt.pageSize)
	}
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "status", Message: "Must be one of: pending paid overdue"},
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data")

	errInfo := decoded["error"].(map[string]any)
	assert.Equal(t, ErrCodeValidation, errInfo["code"])
	assert.Equal(t, "req-1", errInfo["request_id"])
	assert.Len(t, errInfo["details"], 1)

	plain := NewErrorResponse(ErrCodeNotFound, "obligation not found")
	assert.Empty(t, plain.Error.RequestID)
	assert.Nil(t, plain.Error.Details)
}
