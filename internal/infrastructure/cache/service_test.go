package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, store Store) *Service {
	t.Helper()
	return NewService(store, zap.NewNop())
}

func newRedisTestStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "cache")
}

type dashboardPayload struct {
	Revenue string `json:"revenue"`
	Orders  int    `json:"orders"`
}

func TestServiceRemember(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()

	t.Run("computes on miss and serves from cache after", func(t *testing.T) {
		svc := newTestService(t, NewMemoryStore())
		key := Key(FamilyDashboard, storeID, "summary")

		calls := 0
		compute := func(ctx context.Context) (any, error) {
			calls++
			return dashboardPayload{Revenue: "120.50", Orders: 7}, nil
		}

		var first dashboardPayload
		require.NoError(t, svc.Remember(ctx, key, TTLMedium, &first, compute))
		assert.Equal(t, 1, calls)
		assert.Equal(t, 7, first.Orders)

		var second dashboardPayload
		require.NoError(t, svc.Remember(ctx, key, TTLMedium, &second, compute))
		assert.Equal(t, 1, calls, "second read must come from cache")
		assert.Equal(t, first, second)
	})

	t.Run("propagates compute errors without caching", func(t *testing.T) {
		svc := newTestService(t, NewMemoryStore())
		key := Key(FamilyProducts, storeID, "list")
		wantErr := errors.New("db down")

		var dest dashboardPayload
		err := svc.Remember(ctx, key, TTLShort, &dest, func(ctx context.Context) (any, error) {
			return nil, wantErr
		})
		assert.ErrorIs(t, err, wantErr)

		calls := 0
		require.NoError(t, svc.Remember(ctx, key, TTLShort, &dest, func(ctx context.Context) (any, error) {
			calls++
			return dashboardPayload{Orders: 1}, nil
		}))
		assert.Equal(t, 1, calls, "failed compute must not leave a cache entry")
	})

	t.Run("recomputes over corrupt entries", func(t *testing.T) {
		store := NewMemoryStore()
		svc := newTestService(t, store)
		key := Key(FamilyStudents, storeID, "detail")

		require.NoError(t, store.Set(ctx, key, []byte("{not json"), TTLShort))

		var dest dashboardPayload
		require.NoError(t, svc.Remember(ctx, key, TTLShort, &dest, func(ctx context.Context) (any, error) {
			return dashboardPayload{Orders: 3}, nil
		}))
		assert.Equal(t, 3, dest.Orders)
	})
}

func TestServiceInvalidate(t *testing.T) {
	ctx := context.Background()
	storeA := uuid.New()
	storeB := uuid.New()

	backends := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"redis":  func(t *testing.T) Store { return newRedisTestStore(t) },
	}

	for name, newStore := range backends {
		t.Run(name, func(t *testing.T) {
			t.Run("scoped to one store", func(t *testing.T) {
				store := newStore(t)
				svc := newTestService(t, store)

				seed := func(key string) {
					require.NoError(t, store.Set(ctx, key, []byte(`{"orders":1}`), TTLLong))
				}
				seed(Key(FamilyProducts, storeA, "list"))
				seed(Key(FamilyProducts, storeA, "detail", "p1"))
				seed(Key(FamilyProducts, storeA))
				seed(Key(FamilyProducts, storeB, "list"))
				seed(Key(FamilyStudents, storeA, "list"))

				svc.Invalidate(ctx, FamilyProducts, &storeA)

				_, err := store.Get(ctx, Key(FamilyProducts, storeA, "list"))
				assert.ErrorIs(t, err, ErrCacheMiss)
				_, err = store.Get(ctx, Key(FamilyProducts, storeA, "detail", "p1"))
				assert.ErrorIs(t, err, ErrCacheMiss)
				_, err = store.Get(ctx, Key(FamilyProducts, storeA))
				assert.ErrorIs(t, err, ErrCacheMiss, "store-level key belongs to the family too")

				_, err = store.Get(ctx, Key(FamilyProducts, storeB, "list"))
				assert.NoError(t, err, "other stores keep their entries")
				_, err = store.Get(ctx, Key(FamilyStudents, storeA, "list"))
				assert.NoError(t, err, "other families keep their entries")
			})

			t.Run("whole family across stores", func(t *testing.T) {
				store := newStore(t)
				svc := newTestService(t, store)

				require.NoError(t, store.Set(ctx, Key(FamilyOrders, storeA, "today"), []byte(`1`), TTLLong))
				require.NoError(t, store.Set(ctx, Key(FamilyOrders, storeB, "today"), []byte(`1`), TTLLong))

				svc.Invalidate(ctx, FamilyOrders, nil)

				_, err := store.Get(ctx, Key(FamilyOrders, storeA, "today"))
				assert.ErrorIs(t, err, ErrCacheMiss)
				_, err = store.Get(ctx, Key(FamilyOrders, storeB, "today"))
				assert.ErrorIs(t, err, ErrCacheMiss)
			})

			t.Run("invalidate then remember recomputes", func(t *testing.T) {
				store := newStore(t)
				svc := newTestService(t, store)
				key := Key(FamilyDashboard, storeA, "summary")

				calls := 0
				compute := func(ctx context.Context) (any, error) {
					calls++
					return dashboardPayload{Orders: calls}, nil
				}

				var dest dashboardPayload
				require.NoError(t, svc.Remember(ctx, key, TTLLong, &dest, compute))
				svc.Invalidate(ctx, FamilyDashboard, &storeA)
				require.NoError(t, svc.Remember(ctx, key, TTLLong, &dest, compute))
				assert.Equal(t, 2, calls)
				assert.Equal(t, 2, dest.Orders)
			})
		})
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	_, err := store.Get(ctx, "k")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 0, store.Len())
}
