package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/domain/shared/valueobject"
	"github.com/canteen/backend/internal/infrastructure/persistence/storescope"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	categoryRepo   catalog.CategoryRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	eventPublisher shared.EventPublisher,
) *ProductService {
	return &ProductService{
		productRepo:    productRepo,
		categoryRepo:   categoryRepo,
		eventPublisher: eventPublisher,
	}
}

// Create creates a new product in the active store
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	storeID, err := storescope.ActiveStoreID(ctx)
	if err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
	}

	product, err := catalog.NewProduct(storeID, req.Code, req.Name, valueobject.NewMoneyCNY(req.Price))
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.Barcode != "" {
		if err := product.SetBarcode(req.Barcode); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		product.SetCategory(req.CategoryID)
	}
	if req.InitialStock > 0 {
		if err := product.ReplenishStock(req.InitialStock); err != nil {
			return nil, err
		}
	}
	if err := product.SetLowStockAlert(req.AlertEnabled, req.AlertThreshold); err != nil {
		return nil, err
	}
	if req.SortOrder != nil {
		product.SortOrder = *req.SortOrder
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	return ToProductResponse(product), nil
}

// Update updates an existing product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := product.Name
		description := product.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}
	if req.Barcode != nil {
		if err := product.SetBarcode(*req.Barcode); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}
	if req.Price != nil {
		if err := product.SetPrice(valueobject.NewMoneyCNY(*req.Price)); err != nil {
			return nil, err
		}
	}
	if req.AlertEnabled != nil || req.AlertThreshold != nil {
		enabled := product.AlertEnabled
		threshold := product.AlertThreshold
		if req.AlertEnabled != nil {
			enabled = *req.AlertEnabled
		}
		if req.AlertThreshold != nil {
			threshold = *req.AlertThreshold
		}
		if err := product.SetLowStockAlert(enabled, threshold); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		product.SortOrder = *req.SortOrder
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	return ToProductResponse(product), nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByBarcode retrieves a product by barcode (till scanner path)
func (s *ProductService) GetByBarcode(ctx context.Context, barcode string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List retrieves products matching the query
func (s *ProductService) List(ctx context.Context, query ListProductsQuery) (*shared.Paginated[ProductResponse], error) {
	filter := shared.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
		Search:   query.Search,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if query.CategoryID != nil {
		filter.Filters["category_id"] = *query.CategoryID
	}
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}
	if query.LowStock {
		filter.Filters["low_stock"] = true
	}

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *ToProductResponse(&products[i]))
	}

	result := shared.NewPaginated(items, total, query.Page, query.PageSize)
	return &result, nil
}

// ReplenishStock adds stock to a product
func (s *ProductService) ReplenishStock(ctx context.Context, id uuid.UUID, req ReplenishStockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.ReplenishStock(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	return ToProductResponse(product), nil
}

// Deactivate removes a product from sale without deleting it
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Deactivate()
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	return ToProductResponse(product), nil
}

// Delete removes a product permanently
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// publishDomainEvents drains and publishes the product's recorded events.
// Errors are logged by the event bus, not propagated.
func (s *ProductService) publishDomainEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	product.ClearDomainEvents()
}
