package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/canteen/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code           string          `json:"code" binding:"required,min=1,max=50"`
	Name           string          `json:"name" binding:"required,min=1,max=200"`
	Description    string          `json:"description" binding:"max=2000"`
	Barcode        string          `json:"barcode" binding:"max=50"`
	CategoryID     *uuid.UUID      `json:"category_id"`
	Price          decimal.Decimal `json:"price" binding:"required"`
	InitialStock   int             `json:"initial_stock" binding:"min=0"`
	AlertEnabled   bool            `json:"alert_enabled"`
	AlertThreshold int             `json:"alert_threshold" binding:"min=0"`
	SortOrder      *int            `json:"sort_order"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description    *string          `json:"description" binding:"omitempty,max=2000"`
	Barcode        *string          `json:"barcode" binding:"omitempty,max=50"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	Price          *decimal.Decimal `json:"price"`
	AlertEnabled   *bool            `json:"alert_enabled"`
	AlertThreshold *int             `json:"alert_threshold" binding:"omitempty,min=0"`
	SortOrder      *int             `json:"sort_order"`
}

// ReplenishStockRequest represents a stock replenishment
type ReplenishStockRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// ListProductsQuery represents product listing parameters
type ListProductsQuery struct {
	Page       int        `form:"page,default=1" binding:"min=1"`
	PageSize   int        `form:"page_size,default=20" binding:"min=1,max=100"`
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"category_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=active inactive"`
	LowStock   bool       `form:"low_stock"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	StoreID        uuid.UUID       `json:"store_id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Barcode        string          `json:"barcode"`
	CategoryID     *uuid.UUID      `json:"category_id"`
	Price          decimal.Decimal `json:"price"`
	Stock          int             `json:"stock"`
	AlertEnabled   bool            `json:"alert_enabled"`
	AlertThreshold int             `json:"alert_threshold"`
	LowStock       bool            `json:"low_stock"`
	Status         string          `json:"status"`
	SortOrder      int             `json:"sort_order"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain product to a response DTO
func ToProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:             p.ID,
		StoreID:        p.StoreID,
		Code:           p.Code,
		Name:           p.Name,
		Description:    p.Description,
		Barcode:        p.Barcode,
		CategoryID:     p.CategoryID,
		Price:          p.Price,
		Stock:          p.Stock,
		AlertEnabled:   p.AlertEnabled,
		AlertThreshold: p.AlertThreshold,
		LowStock:       p.AlertEnabled && p.Stock <= p.AlertThreshold,
		Status:         string(p.Status),
		SortOrder:      p.SortOrder,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	SortOrder *int   `json:"sort_order"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=100"`
	SortOrder *int    `json:"sort_order"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID           uuid.UUID `json:"id"`
	StoreID      uuid.UUID `json:"store_id"`
	Name         string    `json:"name"`
	SortOrder    int       `json:"sort_order"`
	ProductCount int64     `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToCategoryResponse converts a domain category to a response DTO
func ToCategoryResponse(c *catalog.Category, productCount int64) *CategoryResponse {
	return &CategoryResponse{
		ID:           c.ID,
		StoreID:      c.StoreID,
		Name:         c.Name,
		SortOrder:    c.SortOrder,
		ProductCount: productCount,
		CreatedAt:    c.CreatedAt,
	}
}
