package order

import (
	"context"
	"time"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesSummary aggregates completed orders for the dashboard
type SalesSummary struct {
	Orders    int64                             `json:"orders"`
	Revenue   decimal.Decimal                   `json:"revenue"`
	ItemsSold int64                             `json:"items_sold"`
	ByMethod  map[PaymentMethod]decimal.Decimal `json:"by_method"`
	From      time.Time                         `json:"from"`
	To        time.Time                         `json:"to"`
}

// Repository defines the interface for order persistence, scoped by the
// store in the context.
type Repository interface {
	// FindByID finds an order with its lines within the active store
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByNumber finds an order by its order number within the active store
	FindByNumber(ctx context.Context, number string) (*Order, error)

	// FindAll finds orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Save persists the order and its lines atomically
	Save(ctx context.Context, o *Order) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Summarize aggregates completed orders in [from, to) for the active store
	Summarize(ctx context.Context, from, to time.Time) (*SalesSummary, error)
}
