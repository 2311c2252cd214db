package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed event IDs so redelivered events are skipped
type IdempotencyStore interface {
	// MarkProcessed marks an event as processed with a TTL.
	// Returns true if the event was newly marked, false if it was already processed.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	// Forget drops the marker so a failed delivery can be attempted again
	Forget(ctx context.Context, eventID string) error
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a processed event ID is remembered
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     72 * time.Hour,
		Enabled: true,
	}
}
