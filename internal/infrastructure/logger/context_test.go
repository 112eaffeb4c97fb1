package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStoreIDContext(t *testing.T) {
	t.Run("round-trips store id through context", func(t *testing.T) {
		ctx, _ := WithStoreID(context.Background(), zap.NewNop(), "store-123")
		assert.Equal(t, "store-123", GetStoreID(ctx))
	})

	t.Run("empty when no store context is set", func(t *testing.T) {
		assert.Empty(t, GetStoreID(context.Background()))
	})

	t.Run("store context does not leak across contexts", func(t *testing.T) {
		base := context.Background()
		scoped, _ := WithStoreID(base, zap.NewNop(), "store-123")

		assert.Equal(t, "store-123", GetStoreID(scoped))
		assert.Empty(t, GetStoreID(base))
	})
}

func TestContextLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := context.Background()
	ctx, _ = WithRequestID(ctx, base, "req-1")
	ctx, _ = WithStoreID(ctx, FromContext(ctx), "store-9")

	WithLogger(ctx, base).Info("checkout complete")

	entries := logs.All()
	assert.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "store-9", fields["store_id"])
}

func TestFromContext(t *testing.T) {
	t.Run("returns attached logger", func(t *testing.T) {
		l := zap.NewNop()
		ctx := WithContext(context.Background(), l)
		assert.Same(t, l, FromContext(ctx))
	})

	t.Run("returns no-op when absent", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})
}
