package order

import (
	"time"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated = "OrderCreated"
)

// OrderCreatedLine is an immutable snapshot of an order line
type OrderCreatedLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderCreatedEvent is published once per checkout
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID          `json:"order_id"`
	Number        string             `json:"number"`
	PaymentMethod PaymentMethod      `json:"payment_method"`
	StudentID     *uuid.UUID         `json:"student_id,omitempty"`
	CashierID     uuid.UUID          `json:"cashier_id"`
	Total         decimal.Decimal    `json:"total"`
	Lines         []OrderCreatedLine `json:"lines"`
	PlacedAt      time.Time          `json:"placed_at"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	lines := make([]OrderCreatedLine, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = OrderCreatedLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal,
		}
	}
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID, o.StoreID),
		OrderID:         o.ID,
		Number:          o.Number,
		PaymentMethod:   o.PaymentMethod,
		StudentID:       o.StudentID,
		CashierID:       o.CashierID,
		Total:           o.Total,
		Lines:           lines,
		PlacedAt:        o.PlacedAt,
	}
}
