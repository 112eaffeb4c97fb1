package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/domain/shared/valueobject"
	"github.com/canteen/backend/internal/infrastructure/logger"
	"github.com/canteen/backend/internal/infrastructure/persistence/storescope"
)

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

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
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

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
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

func storeContext(storeID uuid.UUID) context.Context {
	ctx, _ := logger.WithStoreID(context.Background(), logger.FromContext(context.Background()), storeID.String())
	return ctx
}

func TestProductServiceCreate(t *testing.T) {
	storeID := uuid.New()

	t.Run("creates and publishes events", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		categoryRepo := new(MockCategoryRepository)
		publisher := new(MockEventPublisher)
		svc := NewProductService(productRepo, categoryRepo, publisher)

		productRepo.On("ExistsByCode", mock.Anything, "MILK-01").Return(false, nil)
		productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.Create(storeContext(storeID), CreateProductRequest{
			Code:         "MILK-01",
			Name:         "Milk 250ml",
			Price:        decimal.NewFromFloat(2.50),
			InitialStock: 40,
		})
		require.NoError(t, err)

		assert.Equal(t, storeID, resp.StoreID)
		assert.Equal(t, "MILK-01", resp.Code)
		assert.Equal(t, 40, resp.Stock)
		productRepo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		svc := NewProductService(productRepo, new(MockCategoryRepository), nil)

		productRepo.On("ExistsByCode", mock.Anything, "MILK-01").Return(true, nil)

		_, err := svc.Create(storeContext(storeID), CreateProductRequest{
			Code:  "MILK-01",
			Name:  "Milk 250ml",
			Price: decimal.NewFromFloat(2.50),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		categoryRepo := new(MockCategoryRepository)
		svc := NewProductService(productRepo, categoryRepo, nil)

		categoryID := uuid.New()
		productRepo.On("ExistsByCode", mock.Anything, "MILK-01").Return(false, nil)
		categoryRepo.On("FindByID", mock.Anything, categoryID).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(storeContext(storeID), CreateProductRequest{
			Code:       "MILK-01",
			Name:       "Milk 250ml",
			Price:      decimal.NewFromFloat(2.50),
			CategoryID: &categoryID,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CATEGORY", domainErr.Code)
	})

	t.Run("requires an active store", func(t *testing.T) {
		svc := NewProductService(new(MockProductRepository), new(MockCategoryRepository), nil)

		_, err := svc.Create(context.Background(), CreateProductRequest{
			Code:  "MILK-01",
			Name:  "Milk 250ml",
			Price: decimal.NewFromFloat(2.50),
		})
		assert.ErrorIs(t, err, storescope.ErrStoreRequired)
	})
}

func TestProductServiceReplenishStock(t *testing.T) {
	storeID := uuid.New()

	productRepo := new(MockProductRepository)
	publisher := new(MockEventPublisher)
	svc := NewProductService(productRepo, new(MockCategoryRepository), publisher)

	product := newTestProduct(t, storeID, "MILK-01", 5)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	productRepo.On("Save", mock.Anything, product).Return(nil)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.ReplenishStock(storeContext(storeID), product.ID, ReplenishStockRequest{Quantity: 20})
	require.NoError(t, err)
	assert.Equal(t, 25, resp.Stock)
}

func newTestProduct(t *testing.T, storeID uuid.UUID, code string, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(storeID, code, "Test Product", valueobject.NewMoneyCNY(decimal.NewFromFloat(2.50)))
	require.NoError(t, err)
	if stock > 0 {
		require.NoError(t, product.ReplenishStock(stock))
	}
	product.ClearDomainEvents()
	return product
}
