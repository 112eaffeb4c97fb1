package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStoreSelections keeps one Redis key per user. Selecting a store
// overwrites the key, so a user can never hold two selections at once.
type RedisStoreSelections struct {
	client *redis.Client
}

// NewRedisStoreSelections creates a Redis-backed selection store
func NewRedisStoreSelections(client *redis.Client) *RedisStoreSelections {
	return &RedisStoreSelections{client: client}
}

func selectionKey(userID uuid.UUID) string {
	return fmt.Sprintf("session:store:%s", userID)
}

// Get returns the user's selected store, or ErrNoSelection
func (s *RedisStoreSelections) Get(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	raw, err := s.client.Get(ctx, selectionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrNoSelection
	}
	if err != nil {
		return uuid.Nil, err
	}

	storeID, err := uuid.Parse(raw)
	if err != nil {
		// Unparseable entry: treat as unselected and drop it
		_ = s.client.Del(ctx, selectionKey(userID)).Err()
		return uuid.Nil, ErrNoSelection
	}
	return storeID, nil
}

// Set records the user's selected store, replacing any previous one
func (s *RedisStoreSelections) Set(ctx context.Context, userID, storeID uuid.UUID, ttl time.Duration) error {
	return s.client.Set(ctx, selectionKey(userID), storeID.String(), ttl).Err()
}

// Clear removes the user's selection
func (s *RedisStoreSelections) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.client.Del(ctx, selectionKey(userID)).Err()
}

// Ensure RedisStoreSelections implements StoreSelections
var _ StoreSelections = (*RedisStoreSelections)(nil)
