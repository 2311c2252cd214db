package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	rentalapp "github.com/rentmgr/backend/internal/application/rental"
	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/rentmgr/backend/internal/domain/shared"
	"github.com/rentmgr/backend/internal/infrastructure/cache"
	"github.com/rentmgr/backend/internal/infrastructure/event"
	"github.com/rentmgr/backend/internal/infrastructure/persistence"
	"github.com/rentmgr/backend/internal/infrastructure/persistence/models"
)

// recordingNotifier keeps every message it is asked to deliver
type recordingNotifier struct {
	mu            sync.Mutex
	reminders     []rental.Reminder
	confirmations []rental.Confirmation
}

func (n *recordingNotifier) SendPaymentReminder(_ context.Context, r rental.Reminder) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminders = append(n.reminders, r)
	return nil
}

func (n *recordingNotifier) SendPaymentConfirmation(_ context.Context, c rental.Confirmation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmations = append(n.confirmations, c)
	return nil
}

func (n *recordingNotifier) sentConfirmations() []rental.Confirmation {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]rental.Confirmation(nil), n.confirmations...)
}

// RentalTestSetup wires the rental services to a real database
type RentalTestSetup struct {
	DB             *TestDB
	Repo           *persistence.GormObligationRepository
	Directory      *persistence.GormDirectory
	OutboxRepo     *event.GormOutboxRepository
	Generator      *rentalapp.GeneratorService
	Status         *rentalapp.StatusService
	Reminders      *rentalapp.ReminderService
	Reconciliation *rentalapp.ReconciliationService
	Processor      *event.OutboxProcessor
	Notifier       *recordingNotifier
}

func newRentalTestSetup(t *testing.T, today time.Time) *RentalTestSetup {
	t.Helper()

	tdb := NewTestDB(t)
	log := zap.NewNop()
	loc := time.UTC
	clock := func() time.Time { return today }

	repo := persistence.NewGormObligationRepository(tdb.DB)
	directory := persistence.NewGormDirectory(tdb.DB)
	outboxRepo := event.NewGormOutboxRepository(tdb.DB)

	serializer := event.NewEventSerializer()
	event.RegisterRentalEvents(serializer)
	publisher := event.NewOutboxPublisher(tdb.DB, serializer)

	notifier := &recordingNotifier{}
	confirmations := rentalapp.NewConfirmationHandler(directory, notifier, log)
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(
		event.NewIdempotentHandler(confirmations, cache.NewInMemoryIdempotencyStore(), log),
		confirmations.EventTypes()...,
	)

	cfg := event.DefaultOutboxProcessorConfig()
	cfg.CleanupEnabled = false
	processor := event.NewOutboxProcessor(outboxRepo, bus, serializer, cfg, log)

	generator := rentalapp.NewGeneratorService(repo, directory, loc, log)
	generator.SetClock(clock)
	status := rentalapp.NewStatusService(repo, publisher, loc, log)
	status.SetClock(clock)

	return &RentalTestSetup{
		DB:             tdb,
		Repo:           repo,
		Directory:      directory,
		OutboxRepo:     outboxRepo,
		Generator:      generator,
		Status:         status,
		Reminders:      rentalapp.NewReminderService(repo, directory, notifier, log),
		Reconciliation: rentalapp.NewReconciliationService(repo, 100, log),
		Processor:      processor,
		Notifier:       notifier,
	}
}

func (s *RentalTestSetup) countObligations(t *testing.T, tenantID, propertyID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.DB.DB.Model(&models.PaymentObligationModel{}).
		Where("tenant_id = ? AND property_id = ?", tenantID, propertyID).
		Count(&n).Error)
	return n
}

func TestEnsure_ConcurrentCallersShareOneObligation(t *testing.T) {
	s := newRentalTestSetup(t, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	property := s.DB.CreateProperty("Harbour View")
	tenant := s.DB.CreateTenant("ana", 300, 5, property)
	period := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	const callers = 12
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = map[uuid.UUID]int{}
		created int
		errs    []error
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			res, err := s.Generator.Ensure(ctx, tenant, property, period)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			ids[res.ObligationID]++
			if res.Created {
				created++
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Empty(t, errs)
	assert.Len(t, ids, 1, "every caller must see the same obligation")
	assert.Equal(t, 1, created, "exactly one caller creates the record")
	assert.Equal(t, int64(1), s.countObligations(t, tenant, property))
}

func TestEnsureBatch_ReportsPairErrorsAgainstPostgres(t *testing.T) {
	s := newRentalTestSetup(t, time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	property := s.DB.CreateProperty("Elm Court")
	paying := s.DB.CreateTenant("bob", 450, 10, property)
	noRate := s.DB.CreateTenant("cleo", 0, 10, property)
	unlinked := s.DB.CreateTenant("dan", 500, 10)

	res, err := s.Generator.EnsureBatch(ctx, []uuid.UUID{paying, noRate, unlinked}, property, 2025, []int{1, 2, 13})
	require.NoError(t, err)

	assert.Len(t, res.Created, 2)
	assert.Empty(t, res.Existing)
	// month 13 fails for everyone, the rest fail per tenant
	codes := map[uuid.UUID][]string{}
	for _, e := range res.Errors {
		codes[e.TenantID] = append(codes[e.TenantID], e.Code)
	}
	assert.Len(t, codes[paying], 1)
	assert.NotEmpty(t, codes[noRate])
	assert.NotEmpty(t, codes[unlinked])

	again, err := s.Generator.EnsureBatch(ctx, []uuid.UUID{paying}, property, 2025, []int{1, 2})
	require.NoError(t, err)
	assert.Empty(t, again.Created)
	assert.Len(t, again.Existing, 2)
	assert.Equal(t, int64(2), s.countObligations(t, paying, property))

	o, err := s.Repo.FindByKey(ctx, rental.NewObligationKey(paying, property, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(450).Equal(o.Amount))
	assert.Equal(t, rental.StatusPending, o.Status)
}

func TestSetStatusPaid_QueuesAndDeliversConfirmation(t *testing.T) {
	today := time.Date(2025, 4, 3, 14, 0, 0, 0, time.UTC)
	s := newRentalTestSetup(t, today)
	ctx := context.Background()

	property := s.DB.CreateProperty("Linden House")
	tenant := s.DB.CreateTenant("eve", 320, 5, property)

	batch, err := s.Generator.EnsureBatch(ctx, []uuid.UUID{tenant}, property, 2025, []int{3, 4})
	require.NoError(t, err)
	require.Len(t, batch.Created, 2)
	ids := []uuid.UUID{batch.Created[0].ObligationID, batch.Created[1].ObligationID}

	bulk, err := s.Status.SetStatusBulk(ctx, ids, rental.StatusPaid, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, bulk.Updated)
	assert.Equal(t, 1, bulk.NotificationsQueued, "one confirmation per tenant")
	assert.Zero(t, bulk.NotificationFailures)

	pending, err := s.OutboxRepo.FindPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, rental.EventTypePaymentConfirmationRequested, pending[0].EventType)
	assert.Equal(t, tenant, pending[0].AggregateID)

	result, err := s.Processor.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)

	sent := s.Notifier.sentConfirmations()
	require.Len(t, sent, 1)
	assert.Equal(t, tenant, sent[0].TenantID)
	assert.True(t, decimal.NewFromInt(640).Equal(sent[0].Amount))
	assert.Equal(t, "Linden House", sent[0].PropertyName)

	entry, err := s.OutboxRepo.FindByID(ctx, pending[0].ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusSent, entry.Status)

	// paying again is not a new payment
	again, err := s.Status.SetStatus(ctx, ids[0], rental.StatusPaid, nil)
	require.NoError(t, err)
	assert.Zero(t, again.NotificationFailures)
	pending, err = s.OutboxRepo.FindPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestReminderCheck_SkipsPaidObligations(t *testing.T) {
	today := time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)
	s := newRentalTestSetup(t, today)
	ctx := context.Background()

	property := s.DB.CreateProperty("Birch Lofts")
	unpaid := s.DB.CreateTenant("finn", 280, 10, property)
	paid := s.DB.CreateTenant("gia", 310, 10, property)
	_ = s.DB.CreateTenant("hal", 290, 20, property)

	res, err := s.Generator.Ensure(ctx, paid, property, today)
	require.NoError(t, err)
	_, err = s.Status.SetStatus(ctx, res.ObligationID, rental.StatusPaid, nil)
	require.NoError(t, err)

	summary, err := s.Reminders.RunCheck(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TenantsChecked)
	assert.Equal(t, 1, summary.RemindersSent)
	assert.Zero(t, summary.Failures)

	s.Notifier.mu.Lock()
	defer s.Notifier.mu.Unlock()
	require.Len(t, s.Notifier.reminders, 1)
	assert.Equal(t, unpaid, s.Notifier.reminders[0].TenantID)
	assert.True(t, decimal.NewFromInt(280).Equal(s.Notifier.reminders[0].Amount))
}

func TestReconciliation_KeepsPaidOrNewestRecord(t *testing.T) {
	s := newRentalTestSetup(t, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	property := s.DB.CreateProperty("Cedar Row")
	tenant := s.DB.CreateTenant("ivy", 300, 5, property)
	may := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	june := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// duplicates can only exist in a database that predates the unique index
	require.NoError(t, s.DB.DB.Exec("DROP INDEX "+models.ObligationKeyIndex).Error)

	insert := func(period time.Time, createdAt time.Time, paid bool) uuid.UUID {
		o, err := rental.NewObligation(tenant, property, period, decimal.NewFromInt(300))
		require.NoError(t, err)
		o.CreatedAt = createdAt
		o.UpdatedAt = createdAt
		if paid {
			_, err := o.ChangeStatus(rental.StatusPaid, nil, createdAt)
			require.NoError(t, err)
		}
		require.NoError(t, s.Repo.Create(ctx, o))
		return o.ID
	}

	base := time.Date(2025, 4, 20, 8, 0, 0, 0, time.UTC)
	var newestMay uuid.UUID
	for i := 0; i < 3; i++ {
		newestMay = insert(may, base.Add(time.Duration(i)*time.Hour), false)
	}
	paidJune := insert(june, base, true)
	insert(june, base.Add(time.Hour), false)
	require.Equal(t, int64(5), s.countObligations(t, tenant, property))

	result, err := s.Reconciliation.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.GroupsWithDuplicates)
	assert.Equal(t, int64(3), result.RecordsDeleted)
	assert.Zero(t, result.RemainingDuplicateGroups)
	assert.Empty(t, result.Warning)

	survivor, err := s.Repo.FindByKey(ctx, rental.NewObligationKey(tenant, property, may))
	require.NoError(t, err)
	assert.Equal(t, newestMay, survivor.ID)

	survivor, err = s.Repo.FindByKey(ctx, rental.NewObligationKey(tenant, property, june))
	require.NoError(t, err)
	assert.Equal(t, paidJune, survivor.ID)
	assert.True(t, survivor.IsPaid())

	// the index can be restored once the data is clean
	require.NoError(t, s.DB.DB.Exec(
		"CREATE UNIQUE INDEX "+models.ObligationKeyIndex+" ON payment_obligations (tenant_id, property_id, period_month)",
	).Error)

	again, err := s.Reconciliation.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.GroupsWithDuplicates)
}
