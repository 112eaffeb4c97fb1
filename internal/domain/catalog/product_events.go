package catalog

import (
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated   = "ProductCreated"
	EventTypeProductUpdated   = "ProductUpdated"
	EventTypeStockDecremented = "StockDecremented"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID  `json:"product_id"`
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID, product.StoreID),
		ProductID:       product.ID,
		Code:            product.Code,
		Name:            product.Name,
		CategoryID:      product.CategoryID,
	}
}

// ProductUpdatedEvent is published when a product is updated
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID       `json:"product_id"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	CategoryID *uuid.UUID      `json:"category_id,omitempty"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, product.ID, product.StoreID),
		ProductID:       product.ID,
		Code:            product.Code,
		Name:            product.Name,
		Price:           product.Price,
		CategoryID:      product.CategoryID,
	}
}

// StockDecrementedEvent is published when stock is consumed by a sale.
// It carries the quantity delta, the remaining stock and the alerting
// policy snapshot so listeners never need to reload the product.
type StockDecrementedEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID  `json:"product_id"`
	Code           string     `json:"code"`
	Name           string     `json:"name"`
	Quantity       int        `json:"quantity"`
	Remaining      int        `json:"remaining"`
	AlertEnabled   bool       `json:"alert_enabled"`
	AlertThreshold int        `json:"alert_threshold"`
	OrderID        *uuid.UUID `json:"order_id,omitempty"`
}

// NewStockDecrementedEvent creates a new StockDecrementedEvent
func NewStockDecrementedEvent(product *Product, qty int, orderID *uuid.UUID) *StockDecrementedEvent {
	return &StockDecrementedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDecremented, AggregateTypeProduct, product.ID, product.StoreID),
		ProductID:       product.ID,
		Code:            product.Code,
		Name:            product.Name,
		Quantity:        qty,
		Remaining:       product.Stock,
		AlertEnabled:    product.AlertEnabled,
		AlertThreshold:  product.AlertThreshold,
		OrderID:         orderID,
	}
}
