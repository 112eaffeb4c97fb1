package store

import (
	"context"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for store persistence
type Repository interface {
	// FindByID finds a store by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)

	// FindByCode finds a store by its code
	FindByCode(ctx context.Context, code string) (*Store, error)

	// FindBySlug finds a store by its slug
	FindBySlug(ctx context.Context, slug string) (*Store, error)

	// FindAll finds all stores matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Store, error)

	// FindByIDs finds multiple stores by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Store, error)

	// FindActive finds all active stores
	FindActive(ctx context.Context) ([]Store, error)

	// Save creates or updates a store
	Save(ctx context.Context, s *Store) error

	// Count counts stores matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a store with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
