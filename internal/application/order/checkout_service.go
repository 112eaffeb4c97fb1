package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/domain/order"
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/domain/shared/valueobject"
	"github.com/canteen/backend/internal/infrastructure/logger"
	"github.com/canteen/backend/internal/infrastructure/persistence/storescope"
)

// CheckoutService settles carts at the counter and manages the resulting
// orders. Stock decrements, wallet debits and the order itself are
// persisted in one transaction; domain events go out only after commit.
type CheckoutService struct {
	orderRepo      order.Repository
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(orderRepo order.Repository, scope TransactionScope, eventPublisher shared.EventPublisher) *CheckoutService {
	return &CheckoutService{
		orderRepo:      orderRepo,
		scope:          scope,
		eventPublisher: eventPublisher,
	}
}

// Checkout settles a cart: validates the products, decrements stock,
// debits the student wallet when paying by student wallet, and persists
// the completed order atomically.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*OrderResponse, error) {
	storeID, err := storescope.ActiveStoreID(ctx)
	if err != nil {
		return nil, err
	}
	cashierID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	quantities := make(map[uuid.UUID]int, len(req.Lines))
	productIDs := make([]uuid.UUID, 0, len(req.Lines))
	for _, line := range req.Lines {
		if _, seen := quantities[line.ProductID]; !seen {
			productIDs = append(productIDs, line.ProductID)
		}
		// the same product scanned twice merges into one line
		quantities[line.ProductID] += line.Quantity
	}

	var (
		placed  *order.Order
		touched []eventSource
	)
	err = s.scope.Execute(ctx, func(repos CheckoutRepositories) error {
		products, err := repos.Products().FindByIDs(ctx, productIDs)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*catalog.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		lines := make([]order.Line, 0, len(productIDs))
		for _, id := range productIDs {
			p, ok := byID[id]
			if !ok {
				return shared.NewDomainError("UNKNOWN_PRODUCT", fmt.Sprintf("Product %s does not exist", id))
			}
			if !p.IsActive() {
				return shared.NewDomainError("PRODUCT_INACTIVE", fmt.Sprintf("Product %s is not for sale", p.Code))
			}
			lines = append(lines, order.Line{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    quantities[id],
				UnitPrice:   p.Price,
			})
		}

		o, err := order.NewOrder(storeID, cashierID, order.PaymentMethod(req.PaymentMethod), req.StudentID, lines)
		if err != nil {
			return err
		}

		for _, id := range productIDs {
			p := byID[id]
			if err := p.DecrementStock(quantities[id], &o.ID); err != nil {
				return err
			}
			if err := repos.Products().Save(ctx, p); err != nil {
				return err
			}
			touched = append(touched, p)
		}

		if o.PaymentMethod == order.PaymentMethodStudentWallet {
			st, err := repos.Students().FindByID(ctx, *req.StudentID)
			if err != nil {
				return err
			}
			if !st.Active {
				return shared.NewDomainError("STUDENT_INACTIVE", "Student account is deactivated")
			}
			if err := st.Pay(valueobject.NewMoneyCNY(o.Total), o.ID); err != nil {
				return err
			}
			if err := repos.Students().Save(ctx, st); err != nil {
				return err
			}
			touched = append(touched, st)
		}

		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}
		placed = o
		touched = append(touched, o)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, touched)

	return ToOrderResponse(placed), nil
}

// Void cancels a completed order and compensates: stock is replenished
// and a student-wallet payment is refunded, atomically with the status
// change.
func (s *CheckoutService) Void(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	var (
		voided  *order.Order
		touched []eventSource
	)
	err := s.scope.Execute(ctx, func(repos CheckoutRepositories) error {
		o, err := repos.Orders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := o.Void(); err != nil {
			return err
		}

		for _, line := range o.Lines {
			p, err := repos.Products().FindByID(ctx, line.ProductID)
			if err != nil {
				// the product may have been deleted since the sale;
				// the void still goes through
				if errors.Is(err, shared.ErrNotFound) {
					continue
				}
				return err
			}
			if err := p.ReplenishStock(line.Quantity); err != nil {
				return err
			}
			if err := repos.Products().Save(ctx, p); err != nil {
				return err
			}
			touched = append(touched, p)
		}

		if o.PaymentMethod == order.PaymentMethodStudentWallet && o.StudentID != nil {
			st, err := repos.Students().FindByID(ctx, *o.StudentID)
			if err != nil {
				return err
			}
			if err := st.Deposit(valueobject.NewMoneyCNY(o.Total)); err != nil {
				return err
			}
			if err := repos.Students().Save(ctx, st); err != nil {
				return err
			}
			touched = append(touched, st)
		}

		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}
		voided = o
		touched = append(touched, o)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, touched)

	return ToOrderResponse(voided), nil
}

// GetByID retrieves an order with its lines
func (s *CheckoutService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// GetByNumber retrieves an order by its order number
func (s *CheckoutService) GetByNumber(ctx context.Context, number string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

// List retrieves orders matching the query, paginated
func (s *CheckoutService) List(ctx context.Context, query ListOrdersQuery) (*shared.Paginated[OrderResponse], error) {
	filter := shared.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}
	if query.PaymentMethod != "" {
		filter.Filters["payment_method"] = query.PaymentMethod
	}
	if query.StudentID != nil {
		filter.Filters["student_id"] = *query.StudentID
	}
	if query.CashierID != nil {
		filter.Filters["cashier_id"] = *query.CashierID
	}
	if query.PlacedAfter != nil {
		filter.Filters["placed_after"] = *query.PlacedAfter
	}
	if query.PlacedBefore != nil {
		filter.Filters["placed_before"] = *query.PlacedBefore
	}

	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *ToOrderResponse(&orders[i]))
	}

	result := shared.NewPaginated(items, total, query.Page, query.PageSize)
	return &result, nil
}

// eventSource is any aggregate that collected domain events during the
// transaction
type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

func (s *CheckoutService) publishDomainEvents(ctx context.Context, sources []eventSource) {
	if s.eventPublisher == nil {
		return
	}
	for _, src := range sources {
		events := src.GetDomainEvents()
		if len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
		}
		src.ClearDomainEvents()
	}
}

func currentUserID(ctx context.Context) (uuid.UUID, error) {
	raw := logger.GetUserID(ctx)
	if raw == "" {
		return uuid.Nil, shared.ErrUnauthorized
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, shared.ErrUnauthorized
	}
	return id, nil
}
