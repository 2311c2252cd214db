package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/rentmgr/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupRentalTestDB opens a private in-memory SQLite database with the full schema
func setupRentalTestDB(t *testing.T) *gorm.DB {
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
	return db
}

// dropObligationKeyIndex recreates the pre-constraint schema so duplicate
// rows can be inserted the way legacy data has them.
func dropObligationKeyIndex(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Migrator().DropIndex(&models.PaymentObligationModel{}, models.ObligationKeyIndex))
}

func period(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func newObligation(t *testing.T, tenantID, propertyID uuid.UUID, p time.Time, amount string) *rental.Obligation {
	t.Helper()
	o, err := rental.NewObligation(tenantID, propertyID, p, decimal.RequireFromString(amount))
	require.NoError(t, err)
	return o
}
