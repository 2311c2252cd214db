package rental

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/rentmgr/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestReconciliationService_Run(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.db.Migrator().DropIndex(&models.PaymentObligationModel{}, models.ObligationKeyIndex))
	ctx := context.Background()
	tenantID, propertyID := uuid.New(), uuid.New()
	july, august := date(2025, time.July, 1), date(2025, time.August, 1)
	base := time.Date(2025, time.June, 20, 8, 0, 0, 0, time.UTC)

	insert := func(period time.Time, created time.Time, status rental.ObligationStatus) *rental.Obligation {
		o, err := rental.NewObligation(tenantID, propertyID, period, rentAmount)
		require.NoError(t, err)
		o.CreatedAt = created
		if status != rental.StatusPending {
			_, _ = o.ChangeStatus(status, nil, created)
		}
		require.NoError(t, s.repo.Create(ctx, o))
		return o
	}

	// July: the old paid record beats two newer pending ones
	paidJuly := insert(july, base, rental.StatusPaid)
	insert(july, base.Add(time.Hour), rental.StatusPending)
	insert(july, base.Add(2*time.Hour), rental.StatusPending)
	// August: nothing paid, the newest wins
	insert(august, base, rental.StatusPending)
	newestAugust := insert(august, base.Add(time.Hour), rental.StatusOverdue)
	// September has a single record and is left alone
	single := insert(date(2025, time.September, 1), base, rental.StatusPending)

	svc := NewReconciliationService(s.repo, 1, zap.NewNop())
	result, err := svc.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, result.GroupsWithDuplicates)
	assert.Equal(t, int64(3), result.RecordsDeleted)
	assert.Zero(t, result.RemainingDuplicateGroups)
	assert.Empty(t, result.Warning)
	assert.Equal(t, int64(3), s.countObligations(t))

	for _, kept := range []*rental.Obligation{paidJuly, newestAugust, single} {
		_, err := s.repo.FindByID(ctx, kept.ID)
		assert.NoError(t, err)
	}

	again, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReconcileResult{}, *again, "a second run finds nothing")
}

func TestReconciliationService_Run_RemainingGroupsWarn(t *testing.T) {
	group := duplicateGroup(t, 2)
	repo := new(MockObligationRepository)
	repo.On("FindDuplicateGroups", mock.Anything).Return([]rental.DuplicateGroup{group}, nil)
	repo.On("DeleteByIDs", mock.Anything, mock.Anything).Return(int64(1), nil)

	core, logs := observer.New(zap.WarnLevel)
	svc := NewReconciliationService(repo, 0, zap.New(core))
	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.RemainingDuplicateGroups)
	assert.NotEmpty(t, result.Warning)
	assert.Equal(t, 1, logs.FilterMessage("Duplicate obligations remain after reconciliation").Len())
	repo.AssertNumberOfCalls(t, "FindDuplicateGroups", 2)
}

func TestReconciliationService_Run_Batches(t *testing.T) {
	groups := []rental.DuplicateGroup{duplicateGroup(t, 3), duplicateGroup(t, 3)}
	repo := new(MockObligationRepository)
	repo.On("FindDuplicateGroups", mock.Anything).Return(groups, nil).Once()
	repo.On("FindDuplicateGroups", mock.Anything).Return([]rental.DuplicateGroup{}, nil).Once()
	repo.On("DeleteByIDs", mock.Anything, mock.MatchedBy(func(ids []uuid.UUID) bool { return len(ids) <= 3 })).
		Return(func(_ context.Context, ids []uuid.UUID) int64 { return int64(len(ids)) }, nil)

	svc := NewReconciliationService(repo, 3, zap.NewNop())
	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), result.RecordsDeleted)
	repo.AssertNumberOfCalls(t, "DeleteByIDs", 2)

	for _, call := range repo.Calls {
		if call.Method != "DeleteByIDs" {
			continue
		}
		for _, id := range call.Arguments.Get(1).([]uuid.UUID) {
			for _, g := range groups {
				keeper, _ := rental.SelectKeeper(g.Members)
				assert.NotEqual(t, keeper.ID, id, "a keeper is never deleted")
			}
		}
	}
}

func TestReconciliationService_Run_Errors(t *testing.T) {
	t.Run("cancelled between batches", func(t *testing.T) {
		repo := new(MockObligationRepository)
		repo.On("FindDuplicateGroups", mock.Anything).Return([]rental.DuplicateGroup{duplicateGroup(t, 2)}, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewReconciliationService(repo, 1, zap.NewNop()).Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		repo.AssertNotCalled(t, "DeleteByIDs", mock.Anything, mock.Anything)
	})

	t.Run("delete failure", func(t *testing.T) {
		repo := new(MockObligationRepository)
		repo.On("FindDuplicateGroups", mock.Anything).Return([]rental.DuplicateGroup{duplicateGroup(t, 2)}, nil)
		repo.On("DeleteByIDs", mock.Anything, mock.Anything).Return(int64(0), errors.New("lock timeout"))

		_, err := NewReconciliationService(repo, 1, zap.NewNop()).Run(context.Background())
		assert.ErrorContains(t, err, "lock timeout")
	})

	t.Run("scan failure", func(t *testing.T) {
		repo := new(MockObligationRepository)
		repo.On("FindDuplicateGroups", mock.Anything).Return(nil, errors.New("timeout"))

		_, err := NewReconciliationService(repo, 1, zap.NewNop()).Run(context.Background())
		assert.Error(t, err)
	})
}

func duplicateGroup(t *testing.T, size int) rental.DuplicateGroup {
	t.Helper()
	tenantID, propertyID := uuid.New(), uuid.New()
	members := make([]*rental.Obligation, size)
	for i := range members {
		o, err := rental.NewObligation(tenantID, propertyID, date(2025, time.July, 1), rentAmount)
		require.NoError(t, err)
		o.CreatedAt = time.Date(2025, time.June, 1, i, 0, 0, 0, time.UTC)
		members[i] = o
	}
	return rental.DuplicateGroup{Key: members[0].Key(), Members: members}
}
