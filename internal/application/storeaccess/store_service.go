package storeaccess

import (
	"context"

	"github.com/google/uuid"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/domain/store"
)

// StoreService manages the stores themselves. Head-office only; the
// router guards it by role.
type StoreService struct {
	storeRepo store.Repository
}

// NewStoreService creates a new StoreService
func NewStoreService(storeRepo store.Repository) *StoreService {
	return &StoreService{storeRepo: storeRepo}
}

// Create opens a new store
func (s *StoreService) Create(ctx context.Context, req CreateStoreRequest) (*StoreResponse, error) {
	exists, err := s.storeRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Store with this code already exists")
	}

	st, err := store.NewStore(req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	if err := s.storeRepo.Save(ctx, st); err != nil {
		return nil, err
	}
	return ToStoreResponse(st), nil
}

// Update renames a store
func (s *StoreService) Update(ctx context.Context, id uuid.UUID, req UpdateStoreRequest) (*StoreResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := st.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.storeRepo.Save(ctx, st); err != nil {
		return nil, err
	}
	return ToStoreResponse(st), nil
}

// GetByID retrieves a store
func (s *StoreService) GetByID(ctx context.Context, id uuid.UUID) (*StoreResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToStoreResponse(st), nil
}

// List retrieves stores matching the query, paginated
func (s *StoreService) List(ctx context.Context, query ListStoresQuery) (*shared.Paginated[StoreResponse], error) {
	filter := shared.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
		Search:   query.Search,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
	}

	stores, err := s.storeRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.storeRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]StoreResponse, 0, len(stores))
	for i := range stores {
		items = append(items, *ToStoreResponse(&stores[i]))
	}

	result := shared.NewPaginated(items, total, query.Page, query.PageSize)
	return &result, nil
}

// Deactivate closes a store. Its data stays; members lose access until
// the store is reactivated.
func (s *StoreService) Deactivate(ctx context.Context, id uuid.UUID) (*StoreResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	st.Deactivate()
	if err := s.storeRepo.Save(ctx, st); err != nil {
		return nil, err
	}
	return ToStoreResponse(st), nil
}

// Activate reopens a store
func (s *StoreService) Activate(ctx context.Context, id uuid.UUID) (*StoreResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	st.Activate()
	if err := s.storeRepo.Save(ctx, st); err != nil {
		return nil, err
	}
	return ToStoreResponse(st), nil
}
