package rental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func duplicate(base *Obligation, status ObligationStatus, createdAt time.Time) *Obligation {
	o := *base
	o.BaseEntity = newTestEntity(createdAt)
	o.Status = status
	return &o
}

func TestSelectKeeper(t *testing.T) {
	t0 := time.Date(2025, time.July, 1, 8, 0, 0, 0, time.UTC)

	t.Run("paid record wins regardless of recency", func(t *testing.T) {
		base := newTestObligation(t)
		paidOldest := duplicate(base, StatusPaid, t0)
		pendingOlder := duplicate(base, StatusPending, t0.Add(time.Hour))
		pendingNewer := duplicate(base, StatusPending, t0.Add(2*time.Hour))

		keeper, discards := SelectKeeper([]*Obligation{pendingNewer, paidOldest, pendingOlder})

		assert.Same(t, paidOldest, keeper)
		assert.ElementsMatch(t, []*Obligation{pendingOlder, pendingNewer}, discards)
	})

	t.Run("newest record wins when none is paid", func(t *testing.T) {
		base := newTestObligation(t)
		a := duplicate(base, StatusPending, t0)
		b := duplicate(base, StatusOverdue, t0.Add(time.Minute))
		c := duplicate(base, StatusPending, t0.Add(2*time.Minute))

		keeper, discards := SelectKeeper([]*Obligation{c, a, b})

		assert.Same(t, c, keeper)
		assert.Len(t, discards, 2)
		assert.NotContains(t, discards, c)
	})

	t.Run("same creation time is deterministic", func(t *testing.T) {
		base := newTestObligation(t)
		a := duplicate(base, StatusPending, t0)
		b := duplicate(base, StatusPending, t0)

		k1, _ := SelectKeeper([]*Obligation{a, b})
		k2, _ := SelectKeeper([]*Obligation{b, a})
		assert.Same(t, k1, k2)
	})

	t.Run("single record has nothing to discard", func(t *testing.T) {
		o := newTestObligation(t)
		keeper, discards := SelectKeeper([]*Obligation{o})
		assert.Same(t, o, keeper)
		assert.Empty(t, discards)
		assert.Empty(t, DiscardIDs([]*Obligation{o}))
	})

	t.Run("empty group", func(t *testing.T) {
		keeper, discards := SelectKeeper(nil)
		assert.Nil(t, keeper)
		assert.Nil(t, discards)
	})
}
