package catalog

import (
	"context"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence.
// All methods are scoped by the store in the context unless the
// implementation is given an explicit override.
type ProductRepository interface {
	// FindByID finds a product by its ID within the active store
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByCode finds a product by its code within the active store
	FindByCode(ctx context.Context, code string) (*Product, error)

	// FindByBarcode finds a product by its barcode within the active store
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindByCategory finds all products in a specific category
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindActive finds all sellable products
	FindActive(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product within the active store
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByCategory counts products in a specific category
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	// ExistsByCode checks if a product with the given code exists in the active store
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID within the active store
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindAll finds all categories for the active store, ordered for display
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete deletes a category within the active store
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByName checks if a category with the given name exists in the active store
	ExistsByName(ctx context.Context, name string) (bool, error)
}
