package rental

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupPaidByTenant(t *testing.T) {
	tenantA, tenantB := uuid.New(), uuid.New()
	paymentDate := date(2025, time.July, 3)

	mk := func(tenantID uuid.UUID, amount int64) *Obligation {
		o, err := NewObligation(tenantID, uuid.New(), date(2025, time.July, 1), decimal.NewFromInt(amount))
		require.NoError(t, err)
		return o
	}

	events := GroupPaidByTenant([]*Obligation{
		mk(tenantA, 300), mk(tenantB, 500), mk(tenantA, 200), mk(tenantA, 100),
	}, paymentDate)

	require.Len(t, events, 2)
	assert.Equal(t, tenantA, events[0].TenantID())
	assert.Len(t, events[0].Items, 3)
	assert.True(t, events[0].Total().Equal(decimal.NewFromInt(600)))
	assert.Equal(t, EventTypePaymentConfirmationRequested, events[0].EventType())
	assert.Equal(t, paymentDate, events[0].PaymentDate)

	assert.Equal(t, tenantB, events[1].TenantID())
	assert.Len(t, events[1].Items, 1)
	assert.NotEqual(t, events[0].EventID(), events[1].EventID())
}

func TestGroupPaidByTenant_Empty(t *testing.T) {
	assert.Empty(t, GroupPaidByTenant(nil, time.Now()))
}
