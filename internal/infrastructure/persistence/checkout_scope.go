package persistence

import (
	"context"

	"gorm.io/gorm"

	apporder "github.com/canteen/backend/internal/application/order"
	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/domain/order"
	"github.com/canteen/backend/internal/domain/student"
	"github.com/canteen/backend/internal/infrastructure/persistence/storescope"
)

// GormCheckoutScope implements the checkout transaction scope using GORM
// transactions. Repositories handed to the callback share one transaction,
// each still scoped to the store in the context.
type GormCheckoutScope struct {
	db *storescope.ScopedDB
}

// NewGormCheckoutScope creates a new GormCheckoutScope
func NewGormCheckoutScope(db *storescope.ScopedDB) *GormCheckoutScope {
	return &GormCheckoutScope{db: db}
}

// Execute runs fn within a database transaction. If fn returns an error
// the transaction is rolled back.
func (s *GormCheckoutScope) Execute(ctx context.Context, fn func(repos apporder.CheckoutRepositories) error) error {
	return s.db.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormCheckoutRepositories{db: storescope.Wrap(tx)})
	})
}

type gormCheckoutRepositories struct {
	db *storescope.ScopedDB
}

// Orders returns the order repository scoped to the current transaction.
func (r *gormCheckoutRepositories) Orders() order.Repository {
	return NewGormOrderRepository(r.db)
}

// Products returns the product repository scoped to the current transaction.
func (r *gormCheckoutRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.db)
}

// Students returns the student repository scoped to the current transaction.
func (r *gormCheckoutRepositories) Students() student.Repository {
	return NewGormStudentRepository(r.db)
}

var _ apporder.TransactionScope = (*GormCheckoutScope)(nil)
var _ apporder.CheckoutRepositories = (*gormCheckoutRepositories)(nil)
