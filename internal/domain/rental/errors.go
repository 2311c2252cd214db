package rental

import "github.com/rentmgr/backend/internal/domain/shared"

// Error codes specific to rent obligations
const (
	CodeInvalidStatus     = "INVALID_STATUS"
	CodeInvalidPeriod     = "INVALID_PERIOD"
	CodeInvalidAmount     = "INVALID_AMOUNT"
	CodeNoMonthlyRate     = "NO_MONTHLY_RATE"
	CodeNoNoticeDay       = "NO_NOTICE_DAY"
	CodePropertyNotLinked = "PROPERTY_NOT_LINKED"
	CodeTenantNotFound    = "TENANT_NOT_FOUND"
	CodePropertyNotFound  = "PROPERTY_NOT_FOUND"
)

var (
	ErrInvalidStatus     = shared.NewDomainError(CodeInvalidStatus, "status must be one of pending, paid, overdue")
	ErrInvalidPeriod     = shared.NewDomainError(CodeInvalidPeriod, "invalid billing period")
	ErrInvalidAmount     = shared.NewDomainError(CodeInvalidAmount, "amount must be greater than zero")
	ErrNoMonthlyRate     = shared.NewDomainError(CodeNoMonthlyRate, "tenant has no monthly rate set")
	ErrNoNoticeDay       = shared.NewDomainError(CodeNoNoticeDay, "tenant has no valid notice day")
	ErrPropertyNotLinked = shared.NewDomainError(CodePropertyNotLinked, "tenant is not linked to property")
	ErrTenantNotFound    = shared.NewDomainError(CodeTenantNotFound, "tenant not found")
	ErrPropertyNotFound  = shared.NewDomainError(CodePropertyNotFound, "property not found")
	ErrObligationMissing = shared.NewDomainError("NOT_FOUND", "obligation not found")
)
