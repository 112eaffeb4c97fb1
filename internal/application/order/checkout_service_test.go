package order

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/domain/order"
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/domain/shared/valueobject"
	"github.com/canteen/backend/internal/domain/student"
	"github.com/canteen/backend/internal/infrastructure/logger"
	"github.com/canteen/backend/internal/infrastructure/persistence/storescope"
)

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByNumber(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Summarize(ctx context.Context, from, to time.Time) (*order.SalesSummary, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.SalesSummary), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByBarcode(ctx context.Context, barcode string) (*catalog.Product, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, categoryID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MockStudentRepository is a mock implementation of student.Repository
type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*student.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*student.Student), args.Error(1)
}

func (m *MockStudentRepository) FindByNumber(ctx context.Context, number string) (*student.Student, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*student.Student), args.Error(1)
}

func (m *MockStudentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]student.Student, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]student.Student), args.Error(1)
}

func (m *MockStudentRepository) Save(ctx context.Context, s *student.Student) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStudentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStudentRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type checkoutFixture struct {
	orders   *MockOrderRepository
	products *MockProductRepository
	students *MockStudentRepository
	pub      *MockEventPublisher
	svc      *CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	students := new(MockStudentRepository)
	pub := new(MockEventPublisher)
	scope := NewNoOpTransactionScope(orders, products, students)
	return &checkoutFixture{
		orders:   orders,
		products: products,
		students: students,
		pub:      pub,
		svc:      NewCheckoutService(orders, scope, pub),
	}
}

func counterContext(storeID, cashierID uuid.UUID) context.Context {
	ctx := context.Background()
	ctx, _ = logger.WithStoreID(ctx, logger.FromContext(ctx), storeID.String())
	ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), cashierID.String())
	return ctx
}

func newSellableProduct(t *testing.T, storeID uuid.UUID, code string, price float64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(storeID, code, "Product "+code, valueobject.NewMoneyCNY(decimal.NewFromFloat(price)))
	require.NoError(t, err)
	require.NoError(t, p.ReplenishStock(stock))
	p.ClearDomainEvents()
	return p
}

func newWalletStudent(t *testing.T, storeID uuid.UUID, balance int64) *student.Student {
	t.Helper()
	st, err := student.NewStudent(storeID, "S2024001", "Li Ming", "3A")
	require.NoError(t, err)
	if balance > 0 {
		require.NoError(t, st.Deposit(valueobject.NewMoneyCNY(decimal.NewFromInt(balance))))
	}
	st.ClearDomainEvents()
	return st
}

func TestCheckoutCash(t *testing.T) {
	storeID := uuid.New()
	cashierID := uuid.New()
	f := newCheckoutFixture()

	milk := newSellableProduct(t, storeID, "MILK-01", 2.50, 10)
	bun := newSellableProduct(t, storeID, "BUN-01", 1.20, 5)

	f.products.On("FindByIDs", mock.Anything, []uuid.UUID{milk.ID, bun.ID}).
		Return([]catalog.Product{*milk, *bun}, nil)
	f.products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.svc.Checkout(counterContext(storeID, cashierID), CheckoutRequest{
		PaymentMethod: "cash",
		Lines: []CheckoutLineRequest{
			{ProductID: milk.ID, Quantity: 2},
			{ProductID: bun.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, storeID, resp.StoreID)
	assert.Equal(t, cashierID, resp.CashierID)
	assert.Equal(t, "completed", resp.Status)
	assert.True(t, resp.Total.Equal(decimal.NewFromFloat(6.20)))
	require.Len(t, resp.Lines, 2)
	assert.True(t, resp.Lines[0].Subtotal.Equal(decimal.NewFromFloat(5.00)))

	f.orders.AssertExpectations(t)
	f.products.AssertExpectations(t)
	// no student repo access on a cash sale
	f.students.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestCheckoutMergesDuplicateLines(t *testing.T) {
	storeID := uuid.New()
	f := newCheckoutFixture()

	milk := newSellableProduct(t, storeID, "MILK-01", 2.00, 10)

	f.products.On("FindByIDs", mock.Anything, []uuid.UUID{milk.ID}).
		Return([]catalog.Product{*milk}, nil)
	f.products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)
	f.orders.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.svc.Checkout(counterContext(storeID, uuid.New()), CheckoutRequest{
		PaymentMethod: "cash",
		Lines: []CheckoutLineRequest{
			{ProductID: milk.ID, Quantity: 1},
			{ProductID: milk.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 3, resp.Lines[0].Quantity)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(6)))
}

func TestCheckoutStudentWallet(t *testing.T) {
	storeID := uuid.New()

	t.Run("debits the wallet for the order total", func(t *testing.T) {
		f := newCheckoutFixture()

		milk := newSellableProduct(t, storeID, "MILK-01", 2.50, 10)
		st := newWalletStudent(t, storeID, 20)

		f.products.On("FindByIDs", mock.Anything, []uuid.UUID{milk.ID}).
			Return([]catalog.Product{*milk}, nil)
		f.products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)
		f.students.On("FindByID", mock.Anything, st.ID).Return(st, nil)
		f.students.On("Save", mock.Anything, st).Return(nil)
		f.orders.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
		f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.svc.Checkout(counterContext(storeID, uuid.New()), CheckoutRequest{
			PaymentMethod: "student_wallet",
			StudentID:     &st.ID,
			Lines:         []CheckoutLineRequest{{ProductID: milk.ID, Quantity: 4}},
		})
		require.NoError(t, err)

		assert.True(t, resp.Total.Equal(decimal.NewFromInt(10)))
		assert.True(t, st.Balance.Equal(decimal.NewFromInt(10)))
	})

	t.Run("rejects checkout beyond the wallet balance", func(t *testing.T) {
		f := newCheckoutFixture()

		milk := newSellableProduct(t, storeID, "MILK-01", 2.50, 10)
		st := newWalletStudent(t, storeID, 5)

		f.products.On("FindByIDs", mock.Anything, []uuid.UUID{milk.ID}).
			Return([]catalog.Product{*milk}, nil)
		f.products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)
		f.students.On("FindByID", mock.Anything, st.ID).Return(st, nil)

		_, err := f.svc.Checkout(counterContext(storeID, uuid.New()), CheckoutRequest{
			PaymentMethod: "student_wallet",
			StudentID:     &st.ID,
			Lines:         []CheckoutLineRequest{{ProductID: milk.ID, Quantity: 4}},
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientBalance)
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("requires a student reference", func(t *testing.T) {
		f := newCheckoutFixture()

		milk := newSellableProduct(t, storeID, "MILK-01", 2.50, 10)
		f.products.On("FindByIDs", mock.Anything, []uuid.UUID{milk.ID}).
			Return([]catalog.Product{*milk}, nil)

		_, err := f.svc.Checkout(counterContext(storeID, uuid.New()), CheckoutRequest{
			PaymentMethod: "student_wallet",
			Lines:         []CheckoutLineRequest{{ProductID: milk.ID, Quantity: 1}},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "STUDENT_REQUIRED", domainErr.Code)
	})

	t.Run("rejects a deactivated student", func(t *testing.T) {
		f := newCheckoutFixture()

		milk := newSellableProduct(t, storeID, "MILK-01", 2.50, 10)
		st := newWalletStudent(t, storeID, 100)
		st.Deactivate()
		st.ClearDomainEvents()

		f.products.On("FindByIDs", mock.Anything, []uuid.UUID{milk.ID}).
			Return([]catalog.Product{*milk}, nil)
		f.products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)
		f.students.On("FindByID", mock.Anything, st.ID).Return(st, nil)

		_, err := f.svc.Checkout(counterContext(storeID, uuid.New()), CheckoutRequest{
			PaymentMethod: "student_wallet",
			StudentID:     &st.ID,
			Lines:         []CheckoutLineRequest{{ProductID: milk.ID, Quantity: 1}},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "STUDENT_INACTIVE", domainErr.Code)
	})
}

func TestCheckoutStockValidation(t *testing.T) {
	storeID := uuid.New()

	t.Run("rejects checkout beyond available stock", func(t *testing.T) {
		f := newCheckoutFixture()

		milk := newSellableProduct(t, storeID, "MILK-01", 2.50, 2)
		f.products.On("FindByIDs", mock.Anything, []uuid.UUID{milk.ID}).
			Return([]catalog.Product{*milk}, nil)

		_, err := f.svc.Checkout(counterContext(storeID, uuid.New()), CheckoutRequest{
			PaymentMethod: "cash",
			Lines:         []CheckoutLineRequest{{ProductID: milk.ID, Quantity: 3}},
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects an inactive product", func(t *testing.T) {
		f := newCheckoutFixture()

		milk := newSellableProduct(t, storeID, "MILK-01", 2.50, 10)
		milk.Deactivate()
		milk.ClearDomainEvents()

		f.products.On("FindByIDs", mock.Anything, []uuid.UUID{milk.ID}).
			Return([]catalog.Product{*milk}, nil)

		_, err := f.svc.Checkout(counterContext(storeID, uuid.New()), CheckoutRequest{
			PaymentMethod: "cash",
			Lines:         []CheckoutLineRequest{{ProductID: milk.ID, Quantity: 1}},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PRODUCT_INACTIVE", domainErr.Code)
	})

	t.Run("rejects an unknown product", func(t *testing.T) {
		f := newCheckoutFixture()

		missing := uuid.New()
		f.products.On("FindByIDs", mock.Anything, []uuid.UUID{missing}).
			Return([]catalog.Product{}, nil)

		_, err := f.svc.Checkout(counterContext(storeID, uuid.New()), CheckoutRequest{
			PaymentMethod: "cash",
			Lines:         []CheckoutLineRequest{{ProductID: missing, Quantity: 1}},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNKNOWN_PRODUCT", domainErr.Code)
	})
}

func TestCheckoutRequiresContext(t *testing.T) {
	f := newCheckoutFixture()

	t.Run("no active store", func(t *testing.T) {
		_, err := f.svc.Checkout(context.Background(), CheckoutRequest{
			PaymentMethod: "cash",
			Lines:         []CheckoutLineRequest{{ProductID: uuid.New(), Quantity: 1}},
		})
		assert.ErrorIs(t, err, storescope.ErrStoreRequired)
	})

	t.Run("no authenticated cashier", func(t *testing.T) {
		ctx, _ := logger.WithStoreID(context.Background(), logger.FromContext(context.Background()), uuid.NewString())
		_, err := f.svc.Checkout(ctx, CheckoutRequest{
			PaymentMethod: "cash",
			Lines:         []CheckoutLineRequest{{ProductID: uuid.New(), Quantity: 1}},
		})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}

func TestVoidCompensates(t *testing.T) {
	storeID := uuid.New()
	f := newCheckoutFixture()

	milk := newSellableProduct(t, storeID, "MILK-01", 2.50, 8)
	st := newWalletStudent(t, storeID, 10)

	o, err := order.NewOrder(storeID, uuid.New(), order.PaymentMethodStudentWallet, &st.ID, []order.Line{
		{ProductID: milk.ID, ProductName: milk.Name, Quantity: 2, UnitPrice: milk.Price},
	})
	require.NoError(t, err)
	o.ClearDomainEvents()

	f.orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	f.orders.On("Save", mock.Anything, o).Return(nil)
	f.products.On("FindByID", mock.Anything, milk.ID).Return(milk, nil)
	f.products.On("Save", mock.Anything, milk).Return(nil)
	f.students.On("FindByID", mock.Anything, st.ID).Return(st, nil)
	f.students.On("Save", mock.Anything, st).Return(nil)
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.svc.Void(counterContext(storeID, uuid.New()), o.ID)
	require.NoError(t, err)

	assert.Equal(t, "voided", resp.Status)
	assert.Equal(t, 10, milk.Stock)
	assert.True(t, st.Balance.Equal(decimal.NewFromInt(15)))
}

func TestVoidAlreadyVoided(t *testing.T) {
	storeID := uuid.New()
	f := newCheckoutFixture()

	milk := newSellableProduct(t, storeID, "MILK-01", 2.50, 8)
	o, err := order.NewOrder(storeID, uuid.New(), order.PaymentMethodCash, nil, []order.Line{
		{ProductID: milk.ID, ProductName: milk.Name, Quantity: 1, UnitPrice: milk.Price},
	})
	require.NoError(t, err)
	require.NoError(t, o.Void())
	o.ClearDomainEvents()

	f.orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)

	_, err = f.svc.Void(counterContext(storeID, uuid.New()), o.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
