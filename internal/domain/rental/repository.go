package rental

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ObligationFilter narrows obligation listings
type ObligationFilter struct {
	TenantID   *uuid.UUID
	PropertyID *uuid.UUID
	Status     *ObligationStatus
	From       *time.Time // inclusive period
	To         *time.Time // inclusive period
	OrderBy    string
	OrderDir   string
	Page       int
	PageSize   int
}

// DefaultObligationFilter returns the first page of twenty
func DefaultObligationFilter() ObligationFilter {
	return ObligationFilter{Page: 1, PageSize: 20}
}

// DuplicateGroup is a key that currently has more than one record
type DuplicateGroup struct {
	Key     ObligationKey
	Members []*Obligation
}

// ObligationRepository persists obligations
type ObligationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Obligation, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Obligation, error)
	// FindByKey returns the obligation for key or shared.ErrNotFound.
	// When duplicates exist the preferred record (see SelectKeeper) is returned.
	FindByKey(ctx context.Context, key ObligationKey) (*Obligation, error)
	FindAll(ctx context.Context, filter ObligationFilter) ([]*Obligation, int64, error)
	// Create inserts a new obligation. A uniqueness violation on the key is
	// reported as shared.ErrAlreadyExists.
	Create(ctx context.Context, o *Obligation) error
	// UpdateStatuses persists status, payment date and notes for all given
	// obligations in one transaction.
	UpdateStatuses(ctx context.Context, obligations []*Obligation) error
	// FindDuplicateGroups returns every key with more than one record, with members
	FindDuplicateGroups(ctx context.Context) ([]DuplicateGroup, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}
