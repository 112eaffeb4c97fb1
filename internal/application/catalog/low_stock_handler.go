package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/domain/shared"
)

// LowStockHandler watches StockDecremented events and warns when a
// product with alerting enabled falls to or below its threshold. The
// event carries the remaining stock and the policy snapshot, so the
// handler never reloads the product.
type LowStockHandler struct {
	logger *zap.Logger
}

// NewLowStockHandler creates a new LowStockHandler
func NewLowStockHandler(logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{catalog.EventTypeStockDecremented}
}

// Handle processes a StockDecrementedEvent
func (h *LowStockHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	e, ok := event.(*catalog.StockDecrementedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeStockDecremented, event.EventType())
	}

	if !e.AlertEnabled || e.Remaining > e.AlertThreshold {
		return nil
	}

	h.logger.Warn("product stock below alert threshold",
		zap.String("store_id", e.StoreID().String()),
		zap.String("product_id", e.ProductID.String()),
		zap.String("code", e.Code),
		zap.String("name", e.Name),
		zap.Int("remaining", e.Remaining),
		zap.Int("threshold", e.AlertThreshold),
	)
	return nil
}

var _ shared.EventHandler = (*LowStockHandler)(nil)
