package event

import "github.com/rentmgr/backend/internal/domain/rental"

// RegisterRentalEvents registers every event type the outbox carries so the
// processor can decode stored payloads.
func RegisterRentalEvents(serializer *EventSerializer) {
	serializer.Register(rental.EventTypePaymentConfirmationRequested, &rental.PaymentConfirmationRequested{})
}
