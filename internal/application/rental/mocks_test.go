package rental

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/rentmgr/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockObligationRepository is a mock implementation of rental.ObligationRepository
type MockObligationRepository struct {
	mock.Mock
}

func (m *MockObligationRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Obligation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Obligation), args.Error(1)
}

func (m *MockObligationRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*rental.Obligation, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rental.Obligation), args.Error(1)
}

func (m *MockObligationRepository) FindByKey(ctx context.Context, key rental.ObligationKey) (*rental.Obligation, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Obligation), args.Error(1)
}

func (m *MockObligationRepository) FindAll(ctx context.Context, filter rental.ObligationFilter) ([]*rental.Obligation, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*rental.Obligation), args.Get(1).(int64), args.Error(2)
}

func (m *MockObligationRepository) Create(ctx context.Context, o *rental.Obligation) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockObligationRepository) UpdateStatuses(ctx context.Context, obligations []*rental.Obligation) error {
	return m.Called(ctx, obligations).Error(0)
}

func (m *MockObligationRepository) FindDuplicateGroups(ctx context.Context) ([]rental.DuplicateGroup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.DuplicateGroup), args.Error(1)
}

func (m *MockObligationRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	if fn, ok := args.Get(0).(func(context.Context, []uuid.UUID) int64); ok {
		return fn(ctx, ids), args.Error(1)
	}
	return args.Get(0).(int64), args.Error(1)
}

// MockDirectory is a mock implementation of rental.Directory
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) GetTenant(ctx context.Context, tenantID uuid.UUID) (*rental.TenantProfile, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.TenantProfile), args.Error(1)
}

func (m *MockDirectory) GetProperty(ctx context.Context, propertyID uuid.UUID) (*rental.Property, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Property), args.Error(1)
}

func (m *MockDirectory) ListTenantsWithNoticeDay(ctx context.Context) ([]rental.TenantProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.TenantProfile), args.Error(1)
}

// MockNotifier is a mock implementation of rental.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendPaymentReminder(ctx context.Context, r rental.Reminder) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockNotifier) SendPaymentConfirmation(ctx context.Context, c rental.Confirmation) error {
	return m.Called(ctx, c).Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}
