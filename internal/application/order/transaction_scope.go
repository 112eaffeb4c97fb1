package order

import (
	"context"

	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/domain/order"
	"github.com/canteen/backend/internal/domain/student"
)

// TransactionScope provides transactional access to the repositories a
// checkout touches. Everything executed within one scope commits or rolls
// back atomically: an order is never persisted with stock or wallet
// changes half applied.
type TransactionScope interface {
	// Execute runs fn within a database transaction. If fn returns an
	// error the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos CheckoutRepositories) error) error
}

// CheckoutRepositories provides access to the repositories within a
// transaction. All repositories returned share the same underlying
// database transaction.
type CheckoutRepositories interface {
	// Orders returns the order repository scoped to the current transaction
	Orders() order.Repository
	// Products returns the product repository scoped to the current transaction
	Products() catalog.ProductRepository
	// Students returns the student repository scoped to the current transaction
	Students() student.Repository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful in tests where the repositories are mocks.
type NoOpTransactionScope struct {
	orderRepo   order.Repository
	productRepo catalog.ProductRepository
	studentRepo student.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given
// repositories.
func NewNoOpTransactionScope(orderRepo order.Repository, productRepo catalog.ProductRepository, studentRepo student.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		studentRepo: studentRepo,
	}
}

// Execute runs fn directly against the wrapped repositories.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos CheckoutRepositories) error) error {
	return fn(s)
}

// Orders returns the order repository.
func (s *NoOpTransactionScope) Orders() order.Repository {
	return s.orderRepo
}

// Products returns the product repository.
func (s *NoOpTransactionScope) Products() catalog.ProductRepository {
	return s.productRepo
}

// Students returns the student repository.
func (s *NoOpTransactionScope) Students() student.Repository {
	return s.studentRepo
}
