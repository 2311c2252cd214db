package rental

import "github.com/google/uuid"

// SelectKeeper picks the record that survives when several obligations share
// a key: a paid record wins, otherwise the most recently created one. Ties on
// creation time fall back to the larger id so the choice is deterministic.
// The remaining records are returned as discards; the keeper never is.
func SelectKeeper(group []*Obligation) (*Obligation, []*Obligation) {
	if len(group) == 0 {
		return nil, nil
	}

	keeper := group[0]
	for _, o := range group[1:] {
		if preferOver(o, keeper) {
			keeper = o
		}
	}

	discards := make([]*Obligation, 0, len(group)-1)
	for _, o := range group {
		if o != keeper {
			discards = append(discards, o)
		}
	}
	return keeper, discards
}

func preferOver(a, b *Obligation) bool {
	if a.IsPaid() != b.IsPaid() {
		return a.IsPaid()
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() > b.ID.String()
}

// DiscardIDs collects the ids of records to delete from a group
func DiscardIDs(group []*Obligation) []uuid.UUID {
	_, discards := SelectKeeper(group)
	ids := make([]uuid.UUID, len(discards))
	for i, o := range discards {
		ids[i] = o.ID
	}
	return ids
}
