package rental

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/rentmgr/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGeneratorService_Ensure(t *testing.T) {
	ctx := context.Background()
	propertyID := uuid.New()
	july := date(2025, time.July, 1)

	t.Run("creates a pending obligation at the monthly rate", func(t *testing.T) {
		tenant := tenantProfile(300, 5, propertyID)
		dir := new(MockDirectory)
		repo := new(MockObligationRepository)
		dir.On("GetTenant", mock.Anything, tenant.TenantID).Return(tenant, nil)
		repo.On("FindByKey", mock.Anything, rental.NewObligationKey(tenant.TenantID, propertyID, july)).Return(nil, shared.ErrNotFound)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(o *rental.Obligation) bool {
			return o.Status == rental.StatusPending && o.Amount.StringFixed(2) == "300.00" && o.PeriodMonth.Equal(july)
		})).Return(nil)

		svc := NewGeneratorService(repo, dir, time.UTC, zap.NewNop())
		result, err := svc.Ensure(ctx, tenant.TenantID, propertyID, date(2025, time.July, 17))
		require.NoError(t, err)
		assert.True(t, result.Created)
		assert.NotEqual(t, uuid.Nil, result.ObligationID)
		repo.AssertExpectations(t)
	})

	t.Run("returns an existing record untouched whatever its status", func(t *testing.T) {
		tenant := tenantProfile(300, 5, propertyID)
		existing, err := rental.NewObligation(tenant.TenantID, propertyID, july, decimal.NewFromInt(250))
		require.NoError(t, err)
		existing.Status = rental.StatusOverdue

		dir := new(MockDirectory)
		repo := new(MockObligationRepository)
		dir.On("GetTenant", mock.Anything, tenant.TenantID).Return(tenant, nil)
		repo.On("FindByKey", mock.Anything, mock.Anything).Return(existing, nil)

		svc := NewGeneratorService(repo, dir, time.UTC, nil)
		result, err := svc.Ensure(ctx, tenant.TenantID, propertyID, july)
		require.NoError(t, err)
		assert.False(t, result.Created)
		assert.Equal(t, existing.ID, result.ObligationID)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("recovers from a lost insert race", func(t *testing.T) {
		tenant := tenantProfile(300, 5, propertyID)
		winner, err := rental.NewObligation(tenant.TenantID, propertyID, july, *tenant.MonthlyRate)
		require.NoError(t, err)

		dir := new(MockDirectory)
		repo := new(MockObligationRepository)
		dir.On("GetTenant", mock.Anything, tenant.TenantID).Return(tenant, nil)
		repo.On("FindByKey", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound).Once()
		repo.On("Create", mock.Anything, mock.Anything).
			Return(shared.WrapDomainError(shared.ErrAlreadyExists.Code, "exists", errors.New("UNIQUE constraint failed"))).Once()
		repo.On("FindByKey", mock.Anything, mock.Anything).Return(winner, nil).Once()

		svc := NewGeneratorService(repo, dir, time.UTC, zap.NewNop())
		result, err := svc.Ensure(ctx, tenant.TenantID, propertyID, july)
		require.NoError(t, err)
		assert.False(t, result.Created)
		assert.Equal(t, winner.ID, result.ObligationID)
		repo.AssertExpectations(t)
	})

	t.Run("preconditions", func(t *testing.T) {
		tests := []struct {
			name    string
			tenant  *rental.TenantProfile
			wantErr error
		}{
			{"no monthly rate", tenantProfile(0, 5, propertyID), rental.ErrNoMonthlyRate},
			{"property not linked", tenantProfile(300, 5, uuid.New()), rental.ErrPropertyNotLinked},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				dir := new(MockDirectory)
				repo := new(MockObligationRepository)
				dir.On("GetTenant", mock.Anything, tt.tenant.TenantID).Return(tt.tenant, nil)

				svc := NewGeneratorService(repo, dir, time.UTC, zap.NewNop())
				_, err := svc.Ensure(ctx, tt.tenant.TenantID, propertyID, july)
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("unknown tenant", func(t *testing.T) {
		dir := new(MockDirectory)
		dir.On("GetTenant", mock.Anything, mock.Anything).Return(nil, rental.ErrTenantNotFound)

		svc := NewGeneratorService(new(MockObligationRepository), dir, time.UTC, zap.NewNop())
		_, err := svc.Ensure(ctx, uuid.New(), propertyID, july)
		assert.ErrorIs(t, err, rental.ErrTenantNotFound)
	})

	t.Run("zero period", func(t *testing.T) {
		svc := NewGeneratorService(new(MockObligationRepository), new(MockDirectory), time.UTC, zap.NewNop())
		_, err := svc.Ensure(ctx, uuid.New(), propertyID, time.Time{})
		assert.ErrorIs(t, err, rental.ErrInvalidPeriod)
	})
}

func TestGeneratorService_Ensure_Idempotent(t *testing.T) {
	s := newStore(t)
	propertyID := s.addProperty(t, "Flat 2B")
	tenantID := s.addTenant(t, "ana", 300, 5, propertyID)
	svc := NewGeneratorService(s.repo, s.directory, time.UTC, zap.NewNop())
	ctx := context.Background()

	first, err := svc.Ensure(ctx, tenantID, propertyID, date(2025, time.July, 1))
	require.NoError(t, err)
	assert.True(t, first.Created)

	// a paid record must not be duplicated or reset
	_, err = NewStatusService(s.repo, nil, time.UTC, zap.NewNop()).SetStatus(ctx, first.ObligationID, rental.StatusPaid, nil)
	require.NoError(t, err)

	second, err := svc.Ensure(ctx, tenantID, propertyID, date(2025, time.July, 20))
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.ObligationID, second.ObligationID)
	assert.Equal(t, int64(1), s.countObligations(t))

	stored, err := s.repo.FindByID(ctx, first.ObligationID)
	require.NoError(t, err)
	assert.Equal(t, rental.StatusPaid, stored.Status)
}

func TestGeneratorService_Ensure_Concurrent(t *testing.T) {
	s := newStore(t)
	propertyID := s.addProperty(t, "Flat 2B")
	tenantID := s.addTenant(t, "ana", 300, 5, propertyID)
	svc := NewGeneratorService(s.repo, s.directory, time.UTC, zap.NewNop())

	const callers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []*EnsureResult
		errs    []error
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			r, err := svc.Ensure(context.Background(), tenantID, propertyID, date(2025, time.August, 1))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			results = append(results, r)
		}()
	}
	close(start)
	wg.Wait()

	require.Empty(t, errs)
	require.Len(t, results, callers)
	created := 0
	for _, r := range results {
		if r.Created {
			created++
		}
		assert.Equal(t, results[0].ObligationID, r.ObligationID)
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, int64(1), s.countObligations(t))
}

func TestGeneratorService_EnsureBatch(t *testing.T) {
	s := newStore(t)
	propertyID := s.addProperty(t, "Flat 2B")
	ana := s.addTenant(t, "ana", 300, 5, propertyID)
	noRate := s.addTenant(t, "bo", 0, 5, propertyID)
	unknown := uuid.New()
	svc := NewGeneratorService(s.repo, s.directory, time.UTC, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Ensure(ctx, ana, propertyID, date(2025, time.July, 1))
	require.NoError(t, err)

	result, err := svc.EnsureBatch(ctx, []uuid.UUID{ana, noRate, unknown}, propertyID, 2025, []int{7, 8, 13})
	require.NoError(t, err)

	require.Len(t, result.Created, 1)
	assert.Equal(t, EnsuredItem{ObligationID: result.Created[0].ObligationID, TenantID: ana, PeriodMonth: "2025-08"}, result.Created[0])
	require.Len(t, result.Existing, 1)
	assert.Equal(t, "2025-07", result.Existing[0].PeriodMonth)

	codes := make(map[uuid.UUID][]string)
	for _, e := range result.Errors {
		codes[e.TenantID] = append(codes[e.TenantID], e.PeriodMonth+":"+e.Code)
	}
	assert.Equal(t, []string{"2025-13:INVALID_PERIOD"}, codes[ana])
	assert.Equal(t, []string{"2025-07:NO_MONTHLY_RATE", "2025-08:NO_MONTHLY_RATE", "2025-13:INVALID_PERIOD"}, codes[noRate])
	assert.Equal(t, []string{"2025-07:TENANT_NOT_FOUND", "2025-08:TENANT_NOT_FOUND", "2025-13:TENANT_NOT_FOUND"}, codes[unknown])
	assert.Equal(t, int64(2), s.countObligations(t))
}

func TestGeneratorService_EnsureBatch_Validation(t *testing.T) {
	svc := NewGeneratorService(new(MockObligationRepository), new(MockDirectory), time.UTC, zap.NewNop())
	ctx := context.Background()

	_, err := svc.EnsureBatch(ctx, nil, uuid.New(), 2025, []int{7})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	_, err = svc.EnsureBatch(ctx, []uuid.UUID{uuid.New()}, uuid.Nil, 2025, []int{7})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	_, err = svc.EnsureBatch(ctx, []uuid.UUID{uuid.New()}, uuid.New(), 2025, nil)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestGeneratorService_GenerateAhead(t *testing.T) {
	s := newStore(t)
	propertyID := s.addProperty(t, "Flat 2B")
	ana := s.addTenant(t, "ana", 300, 5, propertyID)

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	svc := NewGeneratorService(s.repo, s.directory, tokyo, zap.NewNop())
	// 30 Nov 16:00 UTC is already 1 Dec in Tokyo
	svc.SetClock(fixedClock(time.Date(2025, time.November, 30, 16, 0, 0, 0, time.UTC)))

	result, err := svc.GenerateAhead(context.Background(), []uuid.UUID{ana}, propertyID, 3)
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	var months []string
	for _, item := range result.Created {
		months = append(months, item.PeriodMonth)
	}
	assert.Equal(t, []string{"2026-01", "2026-02", "2026-03"}, months)

	for _, n := range []int{0, MaxMonthsAhead + 1} {
		_, err := svc.GenerateAhead(context.Background(), []uuid.UUID{ana}, propertyID, n)
		assert.ErrorIs(t, err, shared.ErrInvalidInput, "n=%d", n)
	}
}
