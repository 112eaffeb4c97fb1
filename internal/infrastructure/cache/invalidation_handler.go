package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/domain/order"
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/domain/student"
)

// invalidationTable maps each domain event type to the cache families it
// stales. The mapping is static; a new event type must be added here
// before its listeners see fresh reads.
var invalidationTable = map[string][]Family{
	catalog.EventTypeProductCreated:   {FamilyProducts},
	catalog.EventTypeProductUpdated:   {FamilyProducts},
	catalog.EventTypeStockDecremented: {FamilyProducts},
	order.EventTypeOrderCreated:       {FamilyOrders, FamilyDashboard},
	student.EventTypeStudentCreated:   {FamilyStudents},
	student.EventTypeStudentUpdated:   {FamilyStudents},
	student.EventTypeWalletDeposited:  {FamilyWallet, FamilyStudents},
	student.EventTypeWalletWithdrawn:  {FamilyWallet, FamilyStudents},
}

// crossStoreFamilies are invalidated family-wide regardless of the
// event's store. The head-office dashboard aggregates across stores and
// is cached under the nil store key, which a store-scoped eviction would
// never match.
var crossStoreFamilies = map[Family]bool{
	FamilyDashboard: true,
}

// InvalidationHandler drops cache entries made stale by domain events.
// Scoped to the event's store except for cross-store families; events
// from a store never evict another store's entries otherwise.
type InvalidationHandler struct {
	cache *Service
}

// NewInvalidationHandler creates a new InvalidationHandler
func NewInvalidationHandler(cacheService *Service) *InvalidationHandler {
	return &InvalidationHandler{cache: cacheService}
}

// EventTypes returns the event types this handler is interested in
func (h *InvalidationHandler) EventTypes() []string {
	types := make([]string, 0, len(invalidationTable))
	for eventType := range invalidationTable {
		types = append(types, eventType)
	}
	return types
}

// Handle invalidates the families mapped to the event's type
func (h *InvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	families, ok := invalidationTable[event.EventType()]
	if !ok {
		return nil
	}

	var storeID *uuid.UUID
	if id := event.StoreID(); id != uuid.Nil {
		storeID = &id
	}
	for _, family := range families {
		if crossStoreFamilies[family] {
			h.cache.Invalidate(ctx, family, nil)
			continue
		}
		h.cache.Invalidate(ctx, family, storeID)
	}
	return nil
}

var _ shared.EventHandler = (*InvalidationHandler)(nil)
