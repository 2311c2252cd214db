package rental

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/rentmgr/backend/internal/infrastructure/persistence"
	"github.com/rentmgr/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func ptr[T any](v T) *T {
	return &v
}

// store bundles a private in-memory database with the real adapters
type store struct {
	db        *gorm.DB
	repo      *persistence.GormObligationRepository
	directory *persistence.GormDirectory
}

func newStore(t *testing.T) *store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	return &store{
		db:        db,
		repo:      persistence.NewGormObligationRepository(db),
		directory: persistence.NewGormDirectory(db),
	}
}

// addTenant stores a billing profile linked to the given properties.
// A zero rate or notice day is stored as NULL.
func (s *store) addTenant(t *testing.T, name string, rate int64, noticeDay int, properties ...uuid.UUID) uuid.UUID {
	t.Helper()
	profile := models.TenantBillingProfileModel{TenantID: uuid.New(), Name: name, Email: name + "@example.com"}
	if rate > 0 {
		profile.MonthlyRate = ptr(decimal.NewFromInt(rate))
	}
	if noticeDay > 0 {
		profile.NoticeDay = ptr(noticeDay)
	}
	require.NoError(t, s.db.Create(&profile).Error)
	for _, p := range properties {
		require.NoError(t, s.db.Create(&models.TenantPropertyModel{TenantID: profile.TenantID, PropertyID: p}).Error)
	}
	return profile.TenantID
}

func (s *store) addProperty(t *testing.T, name string) uuid.UUID {
	t.Helper()
	p := models.PropertyModel{ID: uuid.New(), Name: name}
	require.NoError(t, s.db.Create(&p).Error)
	return p.ID
}

func (s *store) addObligation(t *testing.T, tenantID, propertyID uuid.UUID, period time.Time, amount string) *rental.Obligation {
	t.Helper()
	o, err := rental.NewObligation(tenantID, propertyID, period, decimal.RequireFromString(amount))
	require.NoError(t, err)
	require.NoError(t, s.repo.Create(t.Context(), o))
	return o
}

func (s *store) countObligations(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(&models.PaymentObligationModel{}).Count(&n).Error)
	return n
}

func tenantProfile(rate int64, noticeDay int, properties ...uuid.UUID) *rental.TenantProfile {
	p := &rental.TenantProfile{TenantID: uuid.New(), Name: "tenant", PropertyIDs: properties}
	if rate > 0 {
		p.MonthlyRate = ptr(decimal.NewFromInt(rate))
	}
	if noticeDay != 0 {
		p.NoticeDay = ptr(noticeDay)
	}
	return p
}

var rentAmount = decimal.NewFromInt(300)
