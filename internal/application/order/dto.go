package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/canteen/backend/internal/domain/order"
)

// CheckoutLineRequest is a single cart line at checkout
type CheckoutLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// CheckoutRequest represents a cart being settled at the counter
type CheckoutRequest struct {
	PaymentMethod string                `json:"payment_method" binding:"required,oneof=cash ewallet student_wallet"`
	StudentID     *uuid.UUID            `json:"student_id"`
	Lines         []CheckoutLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ListOrdersQuery represents order listing parameters
type ListOrdersQuery struct {
	Page          int        `form:"page,default=1" binding:"min=1"`
	PageSize      int        `form:"page_size,default=20" binding:"min=1,max=100"`
	Status        string     `form:"status" binding:"omitempty,oneof=completed voided"`
	PaymentMethod string     `form:"payment_method" binding:"omitempty,oneof=cash ewallet student_wallet"`
	StudentID     *uuid.UUID `form:"student_id"`
	CashierID     *uuid.UUID `form:"cashier_id"`
	PlacedAfter   *time.Time `form:"placed_after" time_format:"2006-01-02T15:04:05Z07:00"`
	PlacedBefore  *time.Time `form:"placed_before" time_format:"2006-01-02T15:04:05Z07:00"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderLineResponse represents an order line in API responses
type OrderLineResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	StoreID       uuid.UUID           `json:"store_id"`
	Number        string              `json:"number"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	StudentID     *uuid.UUID          `json:"student_id,omitempty"`
	CashierID     uuid.UUID           `json:"cashier_id"`
	Total         decimal.Decimal     `json:"total"`
	Lines         []OrderLineResponse `json:"lines"`
	PlacedAt      time.Time           `json:"placed_at"`
	CreatedAt     time.Time           `json:"created_at"`
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(o *order.Order) *OrderResponse {
	lines := make([]OrderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = OrderLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		}
	}
	return &OrderResponse{
		ID:            o.ID,
		StoreID:       o.StoreID,
		Number:        o.Number,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		StudentID:     o.StudentID,
		CashierID:     o.CashierID,
		Total:         o.Total,
		Lines:         lines,
		PlacedAt:      o.PlacedAt,
		CreatedAt:     o.CreatedAt,
	}
}
