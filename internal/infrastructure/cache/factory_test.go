package cache

import (
	"context"
	"testing"

	"github.com/rentmgr/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIdempotencyStoreFactory(t *testing.T) {
	ctx := context.Background()

	t.Run("unconfigured redis uses memory", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(config.RedisConfig{}, WithLogger(zap.NewNop()))

		store, err := f.CreateStore(ctx)
		require.NoError(t, err)
		mem, ok := store.(*InMemoryIdempotencyStore)
		require.True(t, ok)
		_ = mem.Close()
	})

	t.Run("redis store reports missing host", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(config.RedisConfig{})

		_, err := f.CreateRedisStore(ctx)
		assert.ErrorIs(t, err, ErrRedisNotConfigured)
	})

	t.Run("fallback disabled surfaces the error", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(config.RedisConfig{}, WithInMemoryFallback(false))

		_, err := f.CreateStore(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRedisNotConfigured)
	})

	t.Run("unreachable redis falls back", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(config.RedisConfig{Host: "127.0.0.1", Port: 1})

		store, err := f.CreateStore(ctx)
		require.NoError(t, err)
		_, ok := store.(*InMemoryIdempotencyStore)
		assert.True(t, ok)
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache.local:6380", RedisConfig{Host: "cache.local", Port: 6380}.Addr())
}
