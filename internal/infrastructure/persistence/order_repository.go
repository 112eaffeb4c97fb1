package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/canteen/backend/internal/domain/order"
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/infrastructure/persistence/storescope"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *storescope.ScopedDB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *storescope.ScopedDB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its lines within the active store
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByNumber finds an order by its order number within the active store
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("number = ?", number).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAll finds orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := r.applyFilter(r.db.WithContext(ctx).Model(&order.Order{}).Preload("Lines"), filter)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save persists the order and its lines atomically
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(o).Error
	})
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&order.Order{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Summarize aggregates completed orders in [from, to) for the active store
func (r *GormOrderRepository) Summarize(ctx context.Context, from, to time.Time) (*order.SalesSummary, error) {
	summary := &order.SalesSummary{
		Revenue:  decimal.Zero,
		ByMethod: make(map[order.PaymentMethod]decimal.Decimal),
		From:     from,
		To:       to,
	}

	type methodRow struct {
		PaymentMethod order.PaymentMethod
		Orders        int64
		Revenue       decimal.Decimal
	}
	var rows []methodRow
	if err := r.db.WithContext(ctx).Model(&order.Order{}).
		Select("payment_method, COUNT(*) AS orders, COALESCE(SUM(total), 0) AS revenue").
		Where("status = ? AND placed_at >= ? AND placed_at < ?", order.OrderStatusCompleted, from, to).
		Group("payment_method").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		summary.Orders += row.Orders
		summary.Revenue = summary.Revenue.Add(row.Revenue)
		summary.ByMethod[row.PaymentMethod] = row.Revenue
	}

	// Line quantities live on order_lines; join back to the scoped orders
	var itemsSold int64
	if err := r.db.WithContext(ctx).Model(&order.Order{}).
		Select("COALESCE(SUM(order_lines.quantity), 0)").
		Joins("JOIN order_lines ON order_lines.order_id = orders.id").
		Where("orders.status = ? AND orders.placed_at >= ? AND orders.placed_at < ?", order.OrderStatusCompleted, from, to).
		Scan(&itemsSold).Error; err != nil {
		return nil, err
	}
	summary.ItemsSold = itemsSold

	return summary, nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "placed_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("placed_at DESC")
	}

	return query
}

func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "student_id":
			query = query.Where("student_id = ?", value)
		case "cashier_id":
			query = query.Where("cashier_id = ?", value)
		case "placed_after":
			query = query.Where("placed_at >= ?", value)
		case "placed_before":
			query = query.Where("placed_at < ?", value)
		}
	}

	return query
}

// Ensure GormOrderRepository implements Repository
var _ order.Repository = (*GormOrderRepository)(nil)
