package notification

import (
	"fmt"

	"github.com/rentmgr/backend/internal/domain/rental"
)

const (
	KindPaymentReminder     = "payment_reminder"
	KindPaymentConfirmation = "payment_confirmation"

	ChannelEmail = "email"
	ChannelPush  = "push"
)

// Message is the JSON body posted to a gateway
type Message struct {
	Channel      string `json:"channel"`
	Kind         string `json:"kind"`
	TenantID     string `json:"tenant_id"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	PeriodLabel  string `json:"period_label"`
	Amount       string `json:"amount"`
	PropertyName string `json:"property_name"`
	PaymentDate  string `json:"payment_date,omitempty"`
}

func reminderMessage(f *Formatter, r rental.Reminder) Message {
	amount := f.Amount(r.Amount)
	property := f.Name(r.PropertyName)
	return Message{
		Kind:         KindPaymentReminder,
		TenantID:     r.TenantID.String(),
		Subject:      fmt.Sprintf("Rent due for %s", r.PeriodLabel),
		Body:         fmt.Sprintf("Your rent of %s for %s is due for %s.", amount, property, r.PeriodLabel),
		PeriodLabel:  r.PeriodLabel,
		Amount:       amount,
		PropertyName: property,
	}
}

func confirmationMessage(f *Formatter, c rental.Confirmation) Message {
	amount := f.Amount(c.Amount)
	property := f.Name(c.PropertyName)
	paidOn := c.PaymentDate.Format("2006-01-02")
	return Message{
		Kind:         KindPaymentConfirmation,
		TenantID:     c.TenantID.String(),
		Subject:      "Payment received",
		Body:         fmt.Sprintf("We received your payment of %s for %s (%s) on %s.", amount, property, c.PeriodLabel, paidOn),
		PeriodLabel:  c.PeriodLabel,
		Amount:       amount,
		PropertyName: property,
		PaymentDate:  paidOn,
	}
}
