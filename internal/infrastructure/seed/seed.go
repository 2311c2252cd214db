// Package seed fills the directory tables with fake tenants and properties
// for local development and load tests.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rentmgr/backend/internal/infrastructure/persistence/models"
)

// ErrInvalidOptions is returned for non-positive counts or ratios outside [0,1]
var ErrInvalidOptions = errors.New("invalid seed options")

// Options controls the generated data set
type Options struct {
	Properties int
	Tenants    int
	// Seed makes runs reproducible; 0 picks a random seed
	Seed uint64
	// NoRateRatio is the share of tenants with no monthly rate, which the
	// generator reports as per-pair errors
	NoRateRatio float64
	// NoNoticeRatio is the share of tenants that opted out of reminders
	NoNoticeRatio float64
}

// DefaultOptions returns a small mixed data set
func DefaultOptions() Options {
	return Options{
		Properties:    5,
		Tenants:       40,
		NoRateRatio:   0.05,
		NoNoticeRatio: 0.2,
	}
}

func (o Options) validate() error {
	if o.Properties < 1 || o.Tenants < 1 {
		return fmt.Errorf("%w: properties and tenants must be positive", ErrInvalidOptions)
	}
	if o.NoRateRatio < 0 || o.NoRateRatio > 1 || o.NoNoticeRatio < 0 || o.NoNoticeRatio > 1 {
		return fmt.Errorf("%w: ratios must be between 0 and 1", ErrInvalidOptions)
	}
	return nil
}

// Result lists what was inserted
type Result struct {
	PropertyIDs []uuid.UUID
	TenantIDs   []uuid.UUID
}

// Seeder writes fake directory rows
type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{db: db, logger: logger}
}

// Run inserts properties and tenants in one transaction. Every tenant rents
// exactly one property, spread round robin.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	faker := gofakeit.New(opts.Seed)

	properties := make([]models.PropertyModel, opts.Properties)
	for i := range properties {
		addr := faker.Address()
		properties[i] = models.PropertyModel{
			ID:      uuidFrom(faker),
			Name:    faker.Company() + " " + faker.StreetSuffix(),
			Address: addr.Address,
		}
	}

	profiles := make([]models.TenantBillingProfileModel, opts.Tenants)
	links := make([]models.TenantPropertyModel, opts.Tenants)
	for i := range profiles {
		p := models.TenantBillingProfileModel{
			TenantID: uuidFrom(faker),
			Name:     faker.Name(),
			Email:    faker.Email(),
		}
		if faker.Float64Range(0, 1) >= opts.NoRateRatio {
			rate := decimal.NewFromInt(int64(faker.IntRange(40, 300) * 10))
			p.MonthlyRate = &rate
		}
		if faker.Float64Range(0, 1) >= opts.NoNoticeRatio {
			day := faker.IntRange(1, 28)
			p.NoticeDay = &day
		}
		profiles[i] = p
		links[i] = models.TenantPropertyModel{
			TenantID:   p.TenantID,
			PropertyID: properties[i%len(properties)].ID,
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(properties, 100).Error; err != nil {
			return fmt.Errorf("insert properties: %w", err)
		}
		if err := tx.CreateInBatches(profiles, 100).Error; err != nil {
			return fmt.Errorf("insert tenant profiles: %w", err)
		}
		if err := tx.CreateInBatches(links, 100).Error; err != nil {
			return fmt.Errorf("insert tenant links: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &Result{
		PropertyIDs: make([]uuid.UUID, len(properties)),
		TenantIDs:   make([]uuid.UUID, len(profiles)),
	}
	for i, p := range properties {
		res.PropertyIDs[i] = p.ID
	}
	for i, p := range profiles {
		res.TenantIDs[i] = p.TenantID
	}

	s.logger.Info("Seeded directory",
		zap.Int("properties", len(properties)),
		zap.Int("tenants", len(profiles)),
	)
	return res, nil
}

// uuidFrom draws the UUID from the faker so a fixed seed yields fixed IDs
func uuidFrom(f *gofakeit.Faker) uuid.UUID {
	id, err := uuid.Parse(f.UUID())
	if err != nil {
		return uuid.New()
	}
	return id
}
