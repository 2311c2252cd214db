package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rentmgr/backend/internal/application/event"
	rentalapp "github.com/rentmgr/backend/internal/application/rental"
	"github.com/rentmgr/backend/internal/domain/rental"
)

// MockObligationService implements the generator, status and reader ports
type MockObligationService struct {
	mock.Mock
}

func (m *MockObligationService) EnsureBatch(ctx context.Context, tenantIDs []uuid.UUID, propertyID uuid.UUID, year int, months []int) (*rentalapp.BatchResult, error) {
	args := m.Called(ctx, tenantIDs, propertyID, year, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rentalapp.BatchResult), args.Error(1)
}

func (m *MockObligationService) GenerateAhead(ctx context.Context, tenantIDs []uuid.UUID, propertyID uuid.UUID, n int) (*rentalapp.BatchResult, error) {
	args := m.Called(ctx, tenantIDs, propertyID, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rentalapp.BatchResult), args.Error(1)
}

func (m *MockObligationService) SetStatus(ctx context.Context, id uuid.UUID, status rental.ObligationStatus, notes *string) (*rentalapp.StatusResult, error) {
	args := m.Called(ctx, id, status, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rentalapp.StatusResult), args.Error(1)
}

func (m *MockObligationService) SetStatusBulk(ctx context.Context, ids []uuid.UUID, status rental.ObligationStatus, notes *string) (*rentalapp.BulkStatusResult, error) {
	args := m.Called(ctx, ids, status, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rentalapp.BulkStatusResult), args.Error(1)
}

func (m *MockObligationService) Get(ctx context.Context, id uuid.UUID) (*rentalapp.ObligationResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rentalapp.ObligationResponse), args.Error(1)
}

func (m *MockObligationService) List(ctx context.Context, q rentalapp.ListObligationsQuery) (*rentalapp.ObligationListResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rentalapp.ObligationListResult), args.Error(1)
}

// MockReminderJob implements ReminderJob
type MockReminderJob struct {
	mock.Mock
}

func (m *MockReminderJob) RunNow(ctx context.Context) (*rentalapp.RunSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rentalapp.RunSummary), args.Error(1)
}

func (m *MockReminderJob) Status() map[string]any {
	return m.Called().Get(0).(map[string]any)
}

// MockReconciliationJob implements ReconciliationJob
type MockReconciliationJob struct {
	mock.Mock
}

func (m *MockReconciliationJob) RunNow(ctx context.Context) (*rentalapp.ReconcileResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rentalapp.ReconcileResult), args.Error(1)
}

func (m *MockReconciliationJob) Status() map[string]any {
	return m.Called().Get(0).(map[string]any)
}

// MockOutboxManager implements OutboxManager
type MockOutboxManager struct {
	mock.Mock
}

func (m *MockOutboxManager) GetDeadLetterEntries(ctx context.Context, filter event.OutboxFilter) (*event.OutboxListResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.OutboxListResult), args.Error(1)
}

func (m *MockOutboxManager) GetEntry(ctx context.Context, id uuid.UUID) (*event.OutboxEntryDTO, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.OutboxEntryDTO), args.Error(1)
}

func (m *MockOutboxManager) RetryDeadEntry(ctx context.Context, id uuid.UUID) (*event.OutboxEntryDTO, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.OutboxEntryDTO), args.Error(1)
}

func (m *MockOutboxManager) RetryAllDeadEntries(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOutboxManager) GetStats(ctx context.Context) (*event.OutboxStatsDTO, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.OutboxStatsDTO), args.Error(1)
}
