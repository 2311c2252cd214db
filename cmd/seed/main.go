package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	rentalapp "github.com/rentmgr/backend/internal/application/rental"
	"github.com/rentmgr/backend/internal/infrastructure/auth"
	"github.com/rentmgr/backend/internal/infrastructure/config"
	"github.com/rentmgr/backend/internal/infrastructure/logger"
	"github.com/rentmgr/backend/internal/infrastructure/persistence"
	"github.com/rentmgr/backend/internal/infrastructure/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	var (
		opts        seed.Options
		monthsAhead int
		printToken  bool
	)
	flag.IntVar(&opts.Properties, "properties", defaults.Properties, "Number of properties to create")
	flag.IntVar(&opts.Tenants, "tenants", defaults.Tenants, "Number of tenants to create")
	flag.Uint64Var(&opts.Seed, "seed", 0, "Random seed; 0 picks one")
	flag.Float64Var(&opts.NoRateRatio, "no-rate-ratio", defaults.NoRateRatio, "Share of tenants without a monthly rate")
	flag.Float64Var(&opts.NoNoticeRatio, "no-notice-ratio", defaults.NoNoticeRatio, "Share of tenants without a notice day")
	flag.IntVar(&monthsAhead, "months-ahead", 3, "Generate obligations for this many months from the current one; 0 skips")
	flag.BoolVar(&printToken, "token", true, "Print an access token with every permission")
	flag.Parse()

	log, err := logger.New(logger.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.App.Env == "production" {
		log.Fatal("Refusing to seed a production database")
	}
	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal("Invalid business timezone", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database, logger.NewGormLogger(log, logger.MapGormLogLevel("warn")))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := seed.NewSeeder(db.DB, log).Run(ctx, opts)
	if err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}

	if monthsAhead > 0 {
		generateAhead(ctx, db, res, monthsAhead, loc, log)
	}

	if printToken {
		issueToken(cfg.JWT, log)
	}
}

// generateAhead creates upcoming obligations per property. Tenants seeded
// without a rate show up as per-pair errors.
func generateAhead(ctx context.Context, db *persistence.Database, res *seed.Result, months int, loc *time.Location, log *zap.Logger) {
	generator := rentalapp.NewGeneratorService(
		persistence.NewGormObligationRepository(db.DB),
		persistence.NewGormDirectory(db.DB),
		loc,
		log,
	)

	byProperty := make(map[uuid.UUID][]uuid.UUID, len(res.PropertyIDs))
	for i, tenantID := range res.TenantIDs {
		propertyID := res.PropertyIDs[i%len(res.PropertyIDs)]
		byProperty[propertyID] = append(byProperty[propertyID], tenantID)
	}

	var created, failed int
	for propertyID, tenantIDs := range byProperty {
		batch, err := generator.GenerateAhead(ctx, tenantIDs, propertyID, months)
		if err != nil {
			log.Fatal("Generating obligations failed", zap.Stringer("property_id", propertyID), zap.Error(err))
		}
		created += len(batch.Created)
		failed += len(batch.Errors)
	}
	log.Info("Generated obligations",
		zap.Int("months_ahead", months),
		zap.Int("created", created),
		zap.Int("pair_errors", failed),
	)
}

func issueToken(cfg config.JWTConfig, log *zap.Logger) {
	svc, err := auth.NewJWTService(cfg)
	if err != nil {
		log.Warn("No token printed", zap.Error(err))
		return
	}
	token, expiresAt, err := svc.GenerateToken(auth.GenerateTokenInput{
		UserID:      uuid.New(),
		Username:    "seed-admin",
		Permissions: auth.AllPermissions(),
	})
	if err != nil {
		log.Fatal("Failed to sign token", zap.Error(err))
	}
	fmt.Printf("Authorization: Bearer %s\n(expires %s)\n", token, expiresAt.Format(time.RFC3339))
}
