package rental

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ObligationKey identifies the single obligation a tenant owes for a property and month
type ObligationKey struct {
	TenantID    uuid.UUID
	PropertyID  uuid.UUID
	PeriodMonth time.Time
}

// NewObligationKey builds a key with the period normalized to day 1
func NewObligationKey(tenantID, propertyID uuid.UUID, period time.Time) ObligationKey {
	return ObligationKey{
		TenantID:    tenantID,
		PropertyID:  propertyID,
		PeriodMonth: NormalizePeriod(period),
	}
}

// String renders the key for logs and error messages
func (k ObligationKey) String() string {
	return k.TenantID.String() + "/" + k.PropertyID.String() + "/" + PeriodKey(k.PeriodMonth)
}

// Obligation is one tenant's rent payment for one property for one month
type Obligation struct {
	shared.BaseEntity
	TenantID    uuid.UUID
	PropertyID  uuid.UUID
	PeriodMonth time.Time
	Amount      decimal.Decimal
	Status      ObligationStatus
	PaymentDate *time.Time
	Notes       string
}

// NewObligation creates a pending obligation. The amount is captured now and
// is not recomputed when the tenant's rate changes later.
func NewObligation(tenantID, propertyID uuid.UUID, period time.Time, amount decimal.Decimal) (*Obligation, error) {
	if tenantID == uuid.Nil || propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "tenant and property are required")
	}
	if period.IsZero() {
		return nil, ErrInvalidPeriod
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return &Obligation{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		PropertyID:  propertyID,
		PeriodMonth: NormalizePeriod(period),
		Amount:      amount.Round(2),
		Status:      StatusPending,
	}, nil
}

// Key returns the uniqueness key of the obligation
func (o *Obligation) Key() ObligationKey {
	return NewObligationKey(o.TenantID, o.PropertyID, o.PeriodMonth)
}

// ChangeStatus moves the obligation to status. Entering paid stamps today as
// the payment date and staying paid keeps the recorded one; any other status
// clears it. Notes are replaced only when
// non-nil. It returns true when the obligation entered paid with this call.
func (o *Obligation) ChangeStatus(status ObligationStatus, notes *string, today time.Time) (bool, error) {
	if !status.IsValid() {
		return false, ErrInvalidStatus
	}

	becamePaid := status == StatusPaid && o.Status != StatusPaid
	o.Status = status
	if status == StatusPaid {
		if becamePaid || o.PaymentDate == nil {
			d := CivilDate(today)
			o.PaymentDate = &d
		}
	} else {
		o.PaymentDate = nil
	}
	if notes != nil {
		o.Notes = *notes
	}
	o.UpdatedAt = time.Now()
	return becamePaid, nil
}

// IsPaid reports whether the obligation is settled
func (o *Obligation) IsPaid() bool {
	return o.Status == StatusPaid
}

// IsLate reports whether the obligation is still pending for a month that
// has already ended. It is a presentation flag and never stored.
func (o *Obligation) IsLate(now time.Time, loc *time.Location) bool {
	return o.Status == StatusPending && o.PeriodMonth.Before(CurrentPeriod(now, loc))
}
