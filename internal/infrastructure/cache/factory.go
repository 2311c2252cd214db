package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/rentmgr/backend/internal/domain/shared"
	"github.com/rentmgr/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrRedisNotConfigured is returned when Redis is required but no host is set
var ErrRedisNotConfigured = errors.New("redis host not configured")

// IdempotencyStoreFactory picks the idempotency store for the deployment
type IdempotencyStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// IdempotencyStoreFactoryOption is a functional option for configuring the factory
type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the
// in-memory store. Enabled by default.
func WithInMemoryFallback(allow bool) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewIdempotencyStoreFactory creates a new factory
func NewIdempotencyStoreFactory(cfg config.RedisConfig, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisStore connects to the configured Redis
func (f *IdempotencyStoreFactory) CreateRedisStore(ctx context.Context) (shared.IdempotencyStore, error) {
	if !f.redisConfig.Enabled() {
		return nil, ErrRedisNotConfigured
	}
	store, err := NewRedisIdempotencyStore(ctx, RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis idempotency store: %w", err)
	}
	return store, nil
}

// CreateStore prefers Redis and falls back to memory when allowed
func (f *IdempotencyStoreFactory) CreateStore(ctx context.Context) (shared.IdempotencyStore, error) {
	store, err := f.CreateRedisStore(ctx)
	if err == nil {
		f.logger.Info("using Redis idempotency store")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for idempotency but unavailable: %w", err)
	}

	if errors.Is(err, ErrRedisNotConfigured) {
		f.logger.Info("Redis not configured, using in-memory idempotency store")
	} else {
		f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store; "+
			"confirmations may be sent twice when several instances run",
			zap.Error(err),
		)
	}
	return NewInMemoryIdempotencyStore(), nil
}
