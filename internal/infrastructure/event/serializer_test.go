package event

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfirmationEvent(tenantID uuid.UUID) *rental.PaymentConfirmationRequested {
	return rental.NewPaymentConfirmationRequested(
		tenantID,
		time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC),
		[]rental.PaidItem{
			{ObligationID: uuid.New(), PropertyID: uuid.New(), PeriodMonth: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("300.00")},
			{ObligationID: uuid.New(), PropertyID: uuid.New(), PeriodMonth: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("125.50")},
		},
	)
}

func TestEventSerializer_RegisterRentalEvents(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterRentalEvents(serializer)

	assert.True(t, serializer.IsRegistered(rental.EventTypePaymentConfirmationRequested))
	assert.False(t, serializer.IsRegistered("UnknownEvent"))
	assert.Equal(t, []string{rental.EventTypePaymentConfirmationRequested}, serializer.RegisteredTypes())
}

func TestEventSerializer_RoundTrip(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterRentalEvents(serializer)

	original := newConfirmationEvent(uuid.New())
	data, err := serializer.Serialize(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"PaymentConfirmationRequested"`)

	decoded, err := serializer.Deserialize(rental.EventTypePaymentConfirmationRequested, data)
	require.NoError(t, err)

	got, ok := decoded.(*rental.PaymentConfirmationRequested)
	require.True(t, ok)
	assert.Equal(t, original.EventID(), got.EventID())
	assert.Equal(t, original.TenantID(), got.TenantID())
	assert.True(t, original.PaymentDate.Equal(got.PaymentDate))
	require.Len(t, got.Items, 2)
	assert.True(t, got.Total().Equal(decimal.RequireFromString("425.50")))
}

func TestEventSerializer_Deserialize_Errors(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterRentalEvents(serializer)

	t.Run("unknown type", func(t *testing.T) {
		_, err := serializer.Deserialize("UnknownEvent", []byte(`{}`))
		assert.ErrorContains(t, err, "unknown event type")
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := serializer.Deserialize(rental.EventTypePaymentConfirmationRequested, []byte(`{not json`))
		assert.ErrorContains(t, err, "failed to unmarshal")
	})

	t.Run("mismatched type", func(t *testing.T) {
		data, err := serializer.Serialize(newTestEvent("SomethingElse", uuid.New()))
		require.NoError(t, err)
		_, err = serializer.Deserialize(rental.EventTypePaymentConfirmationRequested, data)
		assert.ErrorContains(t, err, "expected")
	})
}
