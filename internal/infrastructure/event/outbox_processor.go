package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OutboxProcessorConfig holds configuration for the outbox processor
type OutboxProcessorConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	CleanupEnabled   bool
	CleanupRetention time.Duration
	CleanupInterval  time.Duration
}

// DefaultOutboxProcessorConfig returns default configuration
func DefaultOutboxProcessorConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:        100,
		PollInterval:     5 * time.Second,
		CleanupEnabled:   true,
		CleanupRetention: 7 * 24 * time.Hour,
		CleanupInterval:  time.Hour,
	}
}

// BatchResult summarizes one processing pass
type BatchResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
	Dead   int `json:"dead"`
}

// OutboxProcessor drains the outbox into the event bus in the background
type OutboxProcessor struct {
	repo       shared.OutboxRepository
	eventBus   shared.EventPublisher
	serializer *EventSerializer
	config     OutboxProcessorConfig
	logger     *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOutboxProcessor creates a new outbox processor
func NewOutboxProcessor(
	repo shared.OutboxRepository,
	eventBus shared.EventPublisher,
	serializer *EventSerializer,
	config OutboxProcessorConfig,
	logger *zap.Logger,
) *OutboxProcessor {
	return &OutboxProcessor{
		repo:       repo,
		eventBus:   eventBus,
		serializer: serializer,
		config:     config,
		logger:     logger,
	}
}

// Start launches the poll loop and, if enabled, the cleanup loop
func (p *OutboxProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.processLoop(ctx)

	if p.config.CleanupEnabled {
		p.wg.Add(1)
		go p.cleanupLoop(ctx)
	}

	p.logger.Info("outbox processor started",
		zap.Int("batch_size", p.config.BatchSize),
		zap.Duration("poll_interval", p.config.PollInterval),
	)
	return nil
}

// Stop cancels the loops and waits for the current batch, bounded by ctx
func (p *OutboxProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("outbox processor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *OutboxProcessor) processLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.ProcessOnce(ctx); err != nil {
				p.logger.Error("outbox batch failed", zap.Error(err))
			}
		}
	}
}

// ProcessOnce delivers one batch of pending entries and one batch of due retries
func (p *OutboxProcessor) ProcessOnce(ctx context.Context) (BatchResult, error) {
	var result BatchResult

	pending, err := p.repo.FindPending(ctx, p.config.BatchSize)
	if err != nil {
		return result, fmt.Errorf("find pending entries: %w", err)
	}
	p.processEntries(ctx, pending, &result)

	retryable, err := p.repo.FindRetryable(ctx, time.Now(), p.config.BatchSize)
	if err != nil {
		return result, fmt.Errorf("find retryable entries: %w", err)
	}
	p.processEntries(ctx, retryable, &result)

	return result, nil
}

func (p *OutboxProcessor) processEntries(ctx context.Context, entries []*shared.OutboxEntry, result *BatchResult) {
	if len(entries) == 0 {
		return
	}
	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}

	claimed, err := p.repo.MarkProcessing(ctx, ids)
	if err != nil {
		p.logger.Error("failed to mark entries as processing", zap.Error(err))
		return
	}

	for _, entry := range claimed {
		p.processEntry(ctx, entry, result)
	}
}

func (p *OutboxProcessor) processEntry(ctx context.Context, entry *shared.OutboxEntry, result *BatchResult) {
	event, err := p.serializer.Deserialize(entry.EventType, entry.Payload)
	if err == nil {
		err = p.eventBus.Publish(ctx, event)
	}
	if err != nil {
		p.fail(ctx, entry, err, result)
		return
	}

	entry.MarkSent()
	result.Sent++
	if err := p.repo.Update(ctx, entry); err != nil {
		p.logger.Error("failed to mark entry as sent",
			zap.String("event_id", entry.EventID.String()),
			zap.Error(err),
		)
	}
}

func (p *OutboxProcessor) fail(ctx context.Context, entry *shared.OutboxEntry, cause error, result *BatchResult) {
	entry.MarkFailed(cause.Error())
	fields := []zap.Field{
		zap.String("event_id", entry.EventID.String()),
		zap.String("event_type", entry.EventType),
		zap.String("tenant_id", entry.TenantID.String()),
		zap.Int("retry_count", entry.RetryCount),
		zap.Error(cause),
	}
	if entry.IsDead() {
		result.Dead++
		p.logger.Warn("event moved to dead letter queue", fields...)
	} else {
		result.Failed++
		p.logger.Warn("event delivery failed, will retry",
			append(fields, zap.Timep("next_retry_at", entry.NextRetryAt))...)
	}
	if err := p.repo.Update(ctx, entry); err != nil {
		p.logger.Error("failed to update entry", zap.Error(err))
	}
}

// RetryDead puts a dead entry back in the pending queue
func (p *OutboxProcessor) RetryDead(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	entry, err := p.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.ResetForRetry(); err != nil {
		return nil, shared.WrapDomainError(shared.ErrInvalidState.Code, "entry is not in the dead letter queue", err)
	}
	if err := p.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	p.logger.Info("dead entry requeued", zap.String("entry_id", id.String()))
	return entry, nil
}

func (p *OutboxProcessor) cleanupLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.cleanup(ctx)
		}
	}
}

func (p *OutboxProcessor) cleanup(ctx context.Context) {
	cutoff := time.Now().Add(-p.config.CleanupRetention)
	deleted, err := p.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		p.logger.Error("failed to cleanup old entries", zap.Error(err))
		return
	}
	if deleted > 0 {
		p.logger.Info("cleaned up old outbox entries",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
}
