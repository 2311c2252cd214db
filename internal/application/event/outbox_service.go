package event

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Outbox error codes
const (
	CodeEntryNotFound  = "ENTRY_NOT_FOUND"
	CodeEntryNotDead   = "ENTRY_NOT_DEAD"
	CodeOutboxInternal = "INTERNAL_ERROR"
	retryAllPageSize   = 100
	defaultOutboxPage  = 20
	maxOutboxPageSize  = 100
)

// OutboxService lets operators inspect pending confirmation deliveries and
// requeue the ones that exhausted their retries.
type OutboxService struct {
	repo   shared.OutboxRepository
	logger *zap.Logger
}

// NewOutboxService creates a new outbox service
func NewOutboxService(repo shared.OutboxRepository, logger *zap.Logger) *OutboxService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutboxService{repo: repo, logger: logger}
}

// OutboxEntryDTO is the operator view of a queued notification
type OutboxEntryDTO struct {
	ID          uuid.UUID       `json:"id"`
	EventID     uuid.UUID       `json:"event_id"`
	EventType   string          `json:"event_type"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	Status      string          `json:"status"`
	RetryCount  int             `json:"retry_count"`
	MaxRetries  int             `json:"max_retries"`
	LastError   string          `json:"last_error,omitempty"`
	NextRetryAt *time.Time      `json:"next_retry_at,omitempty"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty" swaggertype:"object"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OutboxFilter pages through dead entries
type OutboxFilter struct {
	Page     int `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize int `form:"page_size,omitempty" binding:"omitempty,min=1,max=100"`
}

// OutboxListResult is one page of entries
type OutboxListResult struct {
	Entries    []OutboxEntryDTO `json:"entries"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// OutboxStatsDTO counts entries per delivery state
type OutboxStatsDTO struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
	Dead       int64 `json:"dead"`
	Total      int64 `json:"total"`
}

// GetDeadLetterEntries lists entries that will not be retried automatically
func (s *OutboxService) GetDeadLetterEntries(ctx context.Context, filter OutboxFilter) (*OutboxListResult, error) {
	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultOutboxPage
	}
	if pageSize > maxOutboxPageSize {
		pageSize = maxOutboxPageSize
	}

	entries, total, err := s.repo.FindDead(ctx, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to find dead letter entries", zap.Error(err))
		return nil, shared.WrapDomainError(CodeOutboxInternal, "failed to retrieve dead letter entries", err)
	}

	dtos := make([]OutboxEntryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = toOutboxEntryDTO(entry)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &OutboxListResult{
		Entries:    dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// GetEntry returns a single entry
func (s *OutboxService) GetEntry(ctx context.Context, id uuid.UUID) (*OutboxEntryDTO, error) {
	entry, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toOutboxEntryDTO(entry)
	return &dto, nil
}

// RetryDeadEntry puts a dead entry back in the pending queue
func (s *OutboxService) RetryDeadEntry(ctx context.Context, id uuid.UUID) (*OutboxEntryDTO, error) {
	entry, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := entry.ResetForRetry(); err != nil {
		return nil, shared.WrapDomainError(CodeEntryNotDead, "only dead entries can be retried", err)
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		s.logger.Error("Failed to update outbox entry", zap.Error(err), zap.String("id", id.String()))
		return nil, shared.WrapDomainError(CodeOutboxInternal, "failed to retry entry", err)
	}

	s.logger.Info("Dead letter entry reset for retry",
		zap.String("id", id.String()),
		zap.String("event_type", entry.EventType),
	)

	dto := toOutboxEntryDTO(entry)
	return &dto, nil
}

// RetryAllDeadEntries requeues every dead entry and returns how many moved.
// Requeued entries leave the dead set, so the first page is re-read until it
// is empty or nothing on it could be moved.
func (s *OutboxService) RetryAllDeadEntries(ctx context.Context) (int64, error) {
	var count int64
	for {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		entries, _, err := s.repo.FindDead(ctx, 1, retryAllPageSize)
		if err != nil {
			s.logger.Error("Failed to find dead letter entries", zap.Error(err))
			return count, shared.WrapDomainError(CodeOutboxInternal, "failed to retrieve dead letter entries", err)
		}
		if len(entries) == 0 {
			break
		}

		moved := 0
		for _, entry := range entries {
			if err := entry.ResetForRetry(); err != nil {
				continue
			}
			if err := s.repo.Update(ctx, entry); err != nil {
				s.logger.Error("Failed to update outbox entry", zap.Error(err), zap.String("id", entry.ID.String()))
				continue
			}
			moved++
		}
		count += int64(moved)
		if moved == 0 || len(entries) < retryAllPageSize {
			break
		}
	}

	s.logger.Info("Retried dead letter entries", zap.Int64("count", count))
	return count, nil
}

// GetStats returns entry counts per status
func (s *OutboxService) GetStats(ctx context.Context) (*OutboxStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("Failed to get outbox stats", zap.Error(err))
		return nil, shared.WrapDomainError(CodeOutboxInternal, "failed to get outbox stats", err)
	}

	stats := &OutboxStatsDTO{
		Pending:    counts[shared.OutboxStatusPending],
		Processing: counts[shared.OutboxStatusProcessing],
		Sent:       counts[shared.OutboxStatusSent],
		Failed:     counts[shared.OutboxStatusFailed],
		Dead:       counts[shared.OutboxStatusDead],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

func (s *OutboxService) find(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) || (err == nil && entry == nil) {
		return nil, shared.NewDomainError(CodeEntryNotFound, "outbox entry not found")
	}
	if err != nil {
		s.logger.Error("Failed to find outbox entry", zap.Error(err), zap.String("id", id.String()))
		return nil, shared.WrapDomainError(CodeOutboxInternal, "failed to load outbox entry", err)
	}
	return entry, nil
}

func toOutboxEntryDTO(entry *shared.OutboxEntry) OutboxEntryDTO {
	dto := OutboxEntryDTO{
		ID:          entry.ID,
		EventID:     entry.EventID,
		EventType:   entry.EventType,
		TenantID:    entry.TenantID,
		Status:      string(entry.Status),
		RetryCount:  entry.RetryCount,
		MaxRetries:  entry.MaxRetries,
		LastError:   entry.LastError,
		NextRetryAt: entry.NextRetryAt,
		ProcessedAt: entry.ProcessedAt,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
	if json.Valid(entry.Payload) {
		dto.Payload = json.RawMessage(entry.Payload)
	}
	return dto
}
