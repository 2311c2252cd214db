package rental

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TenantProfile is the billing view of a tenant. It is owned by the tenant
// profile module and only read here.
type TenantProfile struct {
	TenantID    uuid.UUID
	Name        string
	Email       string
	MonthlyRate *decimal.Decimal
	NoticeDay   *int
	PropertyIDs []uuid.UUID
}

// RateFor returns the positive monthly rate, or ErrNoMonthlyRate
func (t *TenantProfile) RateFor() (decimal.Decimal, error) {
	if t.MonthlyRate == nil || !t.MonthlyRate.IsPositive() {
		return decimal.Zero, ErrNoMonthlyRate
	}
	return *t.MonthlyRate, nil
}

// ValidNoticeDay returns the configured notice day, or ErrNoNoticeDay
func (t *TenantProfile) ValidNoticeDay() (int, error) {
	if t.NoticeDay == nil || !ValidNoticeDay(*t.NoticeDay) {
		return 0, ErrNoNoticeDay
	}
	return *t.NoticeDay, nil
}

// LinkedTo reports whether the tenant rents propertyID
func (t *TenantProfile) LinkedTo(propertyID uuid.UUID) bool {
	for _, id := range t.PropertyIDs {
		if id == propertyID {
			return true
		}
	}
	return false
}

// Property is the directory view of a rented unit
type Property struct {
	ID      uuid.UUID
	Name    string
	Address string
}

// Directory looks up tenants and properties
type Directory interface {
	GetTenant(ctx context.Context, tenantID uuid.UUID) (*TenantProfile, error)
	GetProperty(ctx context.Context, propertyID uuid.UUID) (*Property, error)
	// ListTenantsWithNoticeDay returns every tenant that has a notice day configured
	ListTenantsWithNoticeDay(ctx context.Context) ([]TenantProfile, error)
}

// Reminder asks a tenant to pay the obligation for a period
type Reminder struct {
	TenantID     uuid.UUID
	PropertyID   uuid.UUID
	Period       time.Time
	PeriodLabel  string
	Amount       decimal.Decimal
	PropertyName string
}

// Confirmation tells a tenant that one or more payments were recorded
type Confirmation struct {
	TenantID     uuid.UUID
	PeriodLabel  string
	Amount       decimal.Decimal
	PropertyName string
	PaymentDate  time.Time
}

// Notifier delivers tenant-facing messages over email and push
type Notifier interface {
	SendPaymentReminder(ctx context.Context, r Reminder) error
	SendPaymentConfirmation(ctx context.Context, c Confirmation) error
}
