package catalog

import (
	"strings"
	"time"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Category groups products on the POS screen. Store-scoped.
type Category struct {
	shared.StoreAggregateRoot
	Name      string `gorm:"type:varchar(100);not null;uniqueIndex:idx_category_store_name,priority:2"`
	SortOrder int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(storeID uuid.UUID, name string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}

	return &Category{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Name:               name,
	}, nil
}

// Rename changes the category name
func (c *Category) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetSortOrder changes the display position
func (c *Category) SetSortOrder(order int) {
	c.SortOrder = order
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
