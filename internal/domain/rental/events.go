package rental

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeTenantAccount = "TenantAccount"

	EventTypePaymentConfirmationRequested = "PaymentConfirmationRequested"
)

// PaidItem is one obligation covered by a confirmation
type PaidItem struct {
	ObligationID uuid.UUID       `json:"obligation_id"`
	PropertyID   uuid.UUID       `json:"property_id"`
	PeriodMonth  time.Time       `json:"period_month"`
	Amount       decimal.Decimal `json:"amount"`
}

// PaymentConfirmationRequested is raised once per tenant after obligations
// are marked paid. It is delivered through the outbox.
type PaymentConfirmationRequested struct {
	shared.BaseDomainEvent
	PaymentDate time.Time  `json:"payment_date"`
	Items       []PaidItem `json:"items"`
}

// NewPaymentConfirmationRequested builds the event for one tenant
func NewPaymentConfirmationRequested(tenantID uuid.UUID, paymentDate time.Time, items []PaidItem) *PaymentConfirmationRequested {
	return &PaymentConfirmationRequested{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePaymentConfirmationRequested,
			AggregateTypeTenantAccount,
			tenantID,
			tenantID,
		),
		PaymentDate: paymentDate,
		Items:       items,
	}
}

// Total sums the amounts of all items
func (e *PaymentConfirmationRequested) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range e.Items {
		total = total.Add(it.Amount)
	}
	return total
}

// GroupPaidByTenant builds one confirmation event per tenant from obligations
// that just became paid, preserving first-seen tenant order.
func GroupPaidByTenant(paid []*Obligation, paymentDate time.Time) []*PaymentConfirmationRequested {
	order := make([]uuid.UUID, 0)
	byTenant := make(map[uuid.UUID][]PaidItem)
	for _, o := range paid {
		if _, seen := byTenant[o.TenantID]; !seen {
			order = append(order, o.TenantID)
		}
		byTenant[o.TenantID] = append(byTenant[o.TenantID], PaidItem{
			ObligationID: o.ID,
			PropertyID:   o.PropertyID,
			PeriodMonth:  o.PeriodMonth,
			Amount:       o.Amount,
		})
	}

	events := make([]*PaymentConfirmationRequested, 0, len(order))
	for _, tenantID := range order {
		events = append(events, NewPaymentConfirmationRequested(tenantID, paymentDate, byTenant[tenantID]))
	}
	return events
}
