package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStoreSelections is an in-process selection store for
// single-instance deployments and tests
type MemoryStoreSelections struct {
	mu         sync.RWMutex
	selections map[uuid.UUID]memorySelection
}

type memorySelection struct {
	storeID   uuid.UUID
	expiresAt time.Time
}

// NewMemoryStoreSelections creates an in-memory selection store
func NewMemoryStoreSelections() *MemoryStoreSelections {
	return &MemoryStoreSelections{
		selections: make(map[uuid.UUID]memorySelection),
	}
}

// Get returns the user's selected store, or ErrNoSelection
func (s *MemoryStoreSelections) Get(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	s.mu.RLock()
	sel, ok := s.selections[userID]
	s.mu.RUnlock()

	if !ok {
		return uuid.Nil, ErrNoSelection
	}
	if time.Now().After(sel.expiresAt) {
		s.mu.Lock()
		delete(s.selections, userID)
		s.mu.Unlock()
		return uuid.Nil, ErrNoSelection
	}
	return sel.storeID, nil
}

// Set records the user's selected store, replacing any previous one
func (s *MemoryStoreSelections) Set(ctx context.Context, userID, storeID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selections[userID] = memorySelection{
		storeID:   storeID,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Clear removes the user's selection
func (s *MemoryStoreSelections) Clear(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selections, userID)
	return nil
}

// Ensure MemoryStoreSelections implements StoreSelections
var _ StoreSelections = (*MemoryStoreSelections)(nil)
