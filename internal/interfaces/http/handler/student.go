package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/canteen/backend/internal/application/student"
)

// StudentHandler manages students and their wallets
type StudentHandler struct {
	BaseHandler
	studentService *student.StudentService
}

// NewStudentHandler creates a student handler
func NewStudentHandler(studentService *student.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// RegisterRoutes registers student endpoints
func (h *StudentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/students", h.List)
	rg.POST("/students", h.Create)
	rg.GET("/students/number/:number", h.GetByNumber)
	rg.GET("/students/:id", h.Get)
	rg.PUT("/students/:id", h.Update)
	rg.POST("/students/:id/deactivate", h.Deactivate)
	rg.POST("/students/:id/wallet/deposit", h.Deposit)
	rg.POST("/students/:id/wallet/withdraw", h.Withdraw)
}

// List handles GET /students
func (h *StudentHandler) List(c *gin.Context) {
	var query student.ListStudentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.studentService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Paginated(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Create handles POST /students
func (h *StudentHandler) Create(c *gin.Context) {
	var req student.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	st, err := h.studentService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, st)
}

// Get handles GET /students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := h.bindUUIDParam(c)
	if !ok {
		return
	}

	st, err := h.studentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, st)
}

// GetByNumber handles GET /students/number/:number, the badge lookup at
// the till
func (h *StudentHandler) GetByNumber(c *gin.Context) {
	st, err := h.studentService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, st)
}

// Update handles PUT /students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := h.bindUUIDParam(c)
	if !ok {
		return
	}

	var req student.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	st, err := h.studentService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, st)
}

// Deactivate handles POST /students/:id/deactivate
func (h *StudentHandler) Deactivate(c *gin.Context) {
	id, ok := h.bindUUIDParam(c)
	if !ok {
		return
	}

	st, err := h.studentService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, st)
}

// Deposit handles POST /students/:id/wallet/deposit
func (h *StudentHandler) Deposit(c *gin.Context) {
	id, ok := h.bindUUIDParam(c)
	if !ok {
		return
	}

	var req student.WalletOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	st, err := h.studentService.Deposit(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, st)
}

// Withdraw handles POST /students/:id/wallet/withdraw
func (h *StudentHandler) Withdraw(c *gin.Context) {
	id, ok := h.bindUUIDParam(c)
	if !ok {
		return
	}

	var req student.WalletOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	st, err := h.studentService.Withdraw(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, st)
}
