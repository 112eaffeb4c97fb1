package storeaccess

import (
	"time"

	"github.com/google/uuid"

	"github.com/canteen/backend/internal/domain/store"
)

// CreateStoreRequest represents a request to open a new store
type CreateStoreRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// UpdateStoreRequest represents a request to rename a store
type UpdateStoreRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// SelectStoreRequest represents a store selection by the acting user
type SelectStoreRequest struct {
	StoreID uuid.UUID `json:"store_id" binding:"required"`
}

// ListStoresQuery represents store listing parameters
type ListStoresQuery struct {
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StoreResponse represents a store in API responses
type StoreResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToStoreResponse converts a domain store to a response DTO
func ToStoreResponse(s *store.Store) *StoreResponse {
	return &StoreResponse{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		Slug:      s.Slug,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ScopeResponse describes the acting user's current store scope
type ScopeResponse struct {
	// Store is nil for head-office users operating across stores
	Store *StoreResponse `json:"store"`
	// Selectable lists the stores the user may select
	Selectable []StoreResponse `json:"selectable"`
}
