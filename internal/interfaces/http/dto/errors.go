package dto

import "net/http"

// Error codes returned by the API. Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation    = "ERR_VALIDATION"
	ErrCodeBadRequest    = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput  = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON   = "ERR_INVALID_JSON"
	ErrCodeInvalidStatus = "ERR_INVALID_STATUS"
	ErrCodeInvalidPeriod = "ERR_INVALID_PERIOD"
	ErrCodeInvalidAmount = "ERR_INVALID_AMOUNT"
	ErrCodeBodyTooLarge  = "ERR_BODY_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Precondition and state error codes. A single call that fails a precondition
// answers 422; batch calls report these per item instead.
const (
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeNoMonthlyRate     = "ERR_NO_MONTHLY_RATE"
	ErrCodeNoNoticeDay       = "ERR_NO_NOTICE_DAY"
	ErrCodePropertyNotLinked = "ERR_PROPERTY_NOT_LINKED"
	ErrCodeTenantNotFound    = "ERR_TENANT_NOT_FOUND"
	ErrCodePropertyNotFound  = "ERR_PROPERTY_NOT_FOUND"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:    http.StatusBadRequest,
	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeInvalidJSON:   http.StatusBadRequest,
	ErrCodeInvalidStatus: http.StatusBadRequest,
	ErrCodeInvalidPeriod: http.StatusBadRequest,
	ErrCodeInvalidAmount: http.StatusBadRequest,
	ErrCodeBodyTooLarge:  http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeNoMonthlyRate:     http.StatusUnprocessableEntity,
	ErrCodeNoNoticeDay:       http.StatusUnprocessableEntity,
	ErrCodePropertyNotLinked: http.StatusUnprocessableEntity,
	ErrCodeTenantNotFound:    http.StatusUnprocessableEntity,
	ErrCodePropertyNotFound:  http.StatusUnprocessableEntity,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":           ErrCodeNotFound,
	"ALREADY_EXISTS":      ErrCodeAlreadyExists,
	"INVALID_INPUT":       ErrCodeInvalidInput,
	"INVALID_STATE":       ErrCodeInvalidState,
	"INVALID_STATUS":      ErrCodeInvalidStatus,
	"INVALID_PERIOD":      ErrCodeInvalidPeriod,
	"INVALID_AMOUNT":      ErrCodeInvalidAmount,
	"NO_MONTHLY_RATE":     ErrCodeNoMonthlyRate,
	"NO_NOTICE_DAY":       ErrCodeNoNoticeDay,
	"PROPERTY_NOT_LINKED": ErrCodePropertyNotLinked,
	"TENANT_NOT_FOUND":    ErrCodeTenantNotFound,
	"PROPERTY_NOT_FOUND":  ErrCodePropertyNotFound,
	"ENTRY_NOT_FOUND":     ErrCodeNotFound,
	"ENTRY_NOT_DEAD":      ErrCodeInvalidState,
	"INTERNAL_ERROR":      ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to its API form.
// Codes already in API form, or unknown, pass through unchanged.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
