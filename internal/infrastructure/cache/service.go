package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/infrastructure/logger"
)

// Service wraps a Store with read-through caching and family-level
// invalidation. Cache failures degrade to direct computation: a broken
// cache must never fail a request.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a cache service backed by the given store
func NewService(store Store, zapLogger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: zapLogger,
	}
}

// Remember returns the cached value for key, computing and storing it on a
// miss. The computed value is JSON-encoded; dest receives the decoded value
// either way.
func (s *Service) Remember(ctx context.Context, key string, ttl time.Duration, dest any, compute func(ctx context.Context) (any, error)) error {
	cached, err := s.store.Get(ctx, key)
	if err == nil {
		if unmarshalErr := json.Unmarshal(cached, dest); unmarshalErr == nil {
			return nil
		}
		// Corrupt entry: drop it and recompute
		logger.WithLogger(ctx, s.logger).Warn("dropping undecodable cache entry", zap.String("key", key))
		_ = s.store.Delete(ctx, key)
	} else if !errors.Is(err, ErrCacheMiss) {
		logger.WithLogger(ctx, s.logger).Warn("cache read failed, computing directly",
			zap.String("key", key),
			zap.Error(err))
	}

	value, err := compute(ctx)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, key, encoded, ttl); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("cache write failed",
			zap.String("key", key),
			zap.Error(err))
	}

	return json.Unmarshal(encoded, dest)
}

// Forget removes a single cache key
func (s *Service) Forget(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}

// Invalidate removes every key of a family, optionally narrowed to one
// store. Invalidation failures are logged and swallowed: entries expire by
// TTL anyway, and a stale read is preferable to a failed write path.
func (s *Service) Invalidate(ctx context.Context, family Family, storeID *uuid.UUID) {
	var pattern string
	if storeID != nil {
		pattern = StoreKeyPattern(family, *storeID)
	} else {
		pattern = FamilyPattern(family, nil)
	}

	if err := s.store.DeletePattern(ctx, pattern); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("cache invalidation failed, entries will expire by TTL",
			zap.String("family", string(family)),
			zap.String("pattern", pattern),
			zap.Error(err))
	}
}
