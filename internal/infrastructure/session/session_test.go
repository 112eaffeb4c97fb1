package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSelections(t *testing.T) {
	backends := map[string]func(t *testing.T) StoreSelections{
		"memory": func(t *testing.T) StoreSelections {
			return NewMemoryStoreSelections()
		},
		"redis": func(t *testing.T) StoreSelections {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = client.Close() })
			return NewRedisStoreSelections(client)
		},
	}

	for name, newStore := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			userID := uuid.New()
			storeA := uuid.New()
			storeB := uuid.New()

			t.Run("no selection by default", func(t *testing.T) {
				store := newStore(t)
				_, err := store.Get(ctx, userID)
				assert.ErrorIs(t, err, ErrNoSelection)
			})

			t.Run("set then get", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, store.Set(ctx, userID, storeA, DefaultTTL))

				got, err := store.Get(ctx, userID)
				require.NoError(t, err)
				assert.Equal(t, storeA, got)
			})

			t.Run("reselect replaces the previous selection", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, store.Set(ctx, userID, storeA, DefaultTTL))
				require.NoError(t, store.Set(ctx, userID, storeB, DefaultTTL))

				got, err := store.Get(ctx, userID)
				require.NoError(t, err)
				assert.Equal(t, storeB, got)
			})

			t.Run("clear removes the selection", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, store.Set(ctx, userID, storeA, DefaultTTL))
				require.NoError(t, store.Clear(ctx, userID))

				_, err := store.Get(ctx, userID)
				assert.ErrorIs(t, err, ErrNoSelection)
			})

			t.Run("selections are per user", func(t *testing.T) {
				store := newStore(t)
				otherUser := uuid.New()
				require.NoError(t, store.Set(ctx, userID, storeA, DefaultTTL))
				require.NoError(t, store.Set(ctx, otherUser, storeB, DefaultTTL))

				got, err := store.Get(ctx, userID)
				require.NoError(t, err)
				assert.Equal(t, storeA, got)
			})
		})
	}
}

func TestRedisStoreSelectionsExpiry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStoreSelections(client)

	userID := uuid.New()
	require.NoError(t, store.Set(ctx, userID, uuid.New(), time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, userID)
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestRedisStoreSelectionsCorruptEntry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStoreSelections(client)

	userID := uuid.New()
	require.NoError(t, mr.Set("session:store:"+userID.String(), "not-a-uuid"))

	_, err := store.Get(ctx, userID)
	assert.ErrorIs(t, err, ErrNoSelection)
}
