package event

import (
	"context"
	"fmt"

	"github.com/rentmgr/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxPublisher serializes domain events into outbox entries
type OutboxPublisher struct {
	db         *gorm.DB
	serializer *EventSerializer
	maxRetries int
}

// NewOutboxPublisher creates a publisher writing through db
func NewOutboxPublisher(db *gorm.DB, serializer *EventSerializer) *OutboxPublisher {
	return &OutboxPublisher{
		db:         db,
		serializer: serializer,
		maxRetries: shared.DefaultMaxRetries,
	}
}

// SetMaxRetries sets the delivery attempts given to new entries. Values
// below one keep the default.
func (p *OutboxPublisher) SetMaxRetries(n int) {
	if n > 0 {
		p.maxRetries = n
	}
}

// Publish enqueues events in their own statement. Callers use it after their
// business transaction has committed, so a failure here never undoes that work.
func (p *OutboxPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return p.PublishWithTx(ctx, p.db, events...)
}

// PublishWithTx enqueues events inside tx so they commit or roll back with it
func (p *OutboxPublisher) PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}
		entry := shared.NewOutboxEntry(event, payload)
		entry.MaxRetries = p.maxRetries
		entries = append(entries, entry)
	}

	if err := NewGormOutboxRepository(tx).Save(ctx, entries...); err != nil {
		return fmt.Errorf("enqueue %d outbox entries: %w", len(entries), err)
	}
	return nil
}

var _ shared.EventPublisher = (*OutboxPublisher)(nil)
