package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/canteen/backend/internal/application/storeaccess"
	"github.com/canteen/backend/internal/interfaces/http/middleware"
)

// StoreHandler manages stores and the caller's store selection
type StoreHandler struct {
	BaseHandler
	storeService  *storeaccess.StoreService
	accessService *storeaccess.AccessService
}

// NewStoreHandler creates a store handler
func NewStoreHandler(storeService *storeaccess.StoreService, accessService *storeaccess.AccessService) *StoreHandler {
	return &StoreHandler{storeService: storeService, accessService: accessService}
}

// RegisterRoutes registers store selection endpoints available to every
// authenticated user
func (h *StoreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stores/accessible", h.Accessible)
	rg.POST("/stores/select", h.Select)
	rg.DELETE("/stores/select", h.ClearSelection)
}

// RegisterAdminRoutes registers store management endpoints, guarded for
// head office by the router
func (h *StoreHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/stores", h.List)
	rg.POST("/stores", h.Create)
	rg.GET("/stores/:id", h.Get)
	rg.PUT("/stores/:id", h.Update)
	rg.POST("/stores/:id/deactivate", h.Deactivate)
	rg.POST("/stores/:id/activate", h.Activate)
}

// Accessible handles GET /stores/accessible
func (h *StoreHandler) Accessible(c *gin.Context) {
	stores, err := h.accessService.AccessibleStores(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stores)
}

// Select handles POST /stores/select
func (h *StoreHandler) Select(c *gin.Context) {
	var req storeaccess.SelectStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	store, err := h.accessService.Select(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, store)
}

// ClearSelection handles DELETE /stores/select
func (h *StoreHandler) ClearSelection(c *gin.Context) {
	if err := h.accessService.ClearSelection(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /stores
func (h *StoreHandler) List(c *gin.Context) {
	var query storeaccess.ListStoresQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.storeService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Paginated(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Create handles POST /stores
func (h *StoreHandler) Create(c *gin.Context) {
	var req storeaccess.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	store, err := h.storeService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, store)
}

// Get handles GET /stores/:id
func (h *StoreHandler) Get(c *gin.Context) {
	id, ok := h.bindUUIDParam(c)
	if !ok {
		return
	}

	store, err := h.storeService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, store)
}

// Update handles PUT /stores/:id
func (h *StoreHandler) Update(c *gin.Context) {
	id, ok := h.bindUUIDParam(c)
	if !ok {
		return
	}

	var req storeaccess.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	store, err := h.storeService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, store)
}

// Deactivate handles POST /stores/:id/deactivate
func (h *StoreHandler) Deactivate(c *gin.Context) {
	id, ok := h.bindUUIDParam(c)
	if !ok {
		return
	}

	store, err := h.storeService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, store)
}

// Activate handles POST /stores/:id/activate
func (h *StoreHandler) Activate(c *gin.Context) {
	id, ok := h.bindUUIDParam(c)
	if !ok {
		return
	}

	store, err := h.storeService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, store)
}
