package catalog

import (
	"strings"
	"time"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product represents an item sold at the canteen counter.
// It is the aggregate root for catalog operations and carries the stock
// level plus the low-stock alerting policy.
type Product struct {
	shared.StoreAggregateRoot
	Code           string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_store_code,priority:2"`
	Name           string          `gorm:"type:varchar(200);not null"`
	Description    string          `gorm:"type:text"`
	Barcode        string          `gorm:"type:varchar(50);index"`
	CategoryID     *uuid.UUID      `gorm:"type:uuid;index"`
	Price          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Stock          int             `gorm:"not null;default:0"`
	AlertEnabled   bool            `gorm:"not null;default:false"`
	AlertThreshold int             `gorm:"not null;default:0"`
	Status         ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	SortOrder      int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(storeID uuid.UUID, code, name string, price valueobject.Money) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	product := &Product{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Code:               strings.ToUpper(code),
		Name:               name,
		Price:              price.Amount(),
		Status:             ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.touch()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetBarcode sets the product barcode
func (p *Product) SetBarcode(barcode string) error {
	if len(barcode) > 50 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 50 characters")
	}
	p.Barcode = barcode
	p.touch()
	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.touch()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// SetPrice sets the selling price
func (p *Product) SetPrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	p.Price = price.Amount()
	p.touch()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetLowStockAlert configures low-stock alerting for this product
func (p *Product) SetLowStockAlert(enabled bool, threshold int) error {
	if threshold < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Alert threshold cannot be negative")
	}
	p.AlertEnabled = enabled
	p.AlertThreshold = threshold
	p.touch()
	return nil
}

// DecrementStock reduces stock by qty and records a StockDecremented event
// carrying the delta, the remaining stock and the order that caused it.
func (p *Product) DecrementStock(qty int, orderID *uuid.UUID) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.Stock < qty {
		return shared.ErrInsufficientStock
	}

	p.Stock -= qty
	p.touch()

	p.AddDomainEvent(NewStockDecrementedEvent(p, qty, orderID))

	return nil
}

// ReplenishStock increases stock by qty
func (p *Product) ReplenishStock(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	p.Stock += qty
	p.touch()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// Deactivate removes the product from sale without deleting it
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.touch()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// IsActive reports whether the product can be sold
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func validateProductCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
