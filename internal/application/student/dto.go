package student

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/canteen/backend/internal/domain/student"
)

// CreateStudentRequest represents a request to enroll a student
type CreateStudentRequest struct {
	Number string `json:"number" binding:"required,min=1,max=50"`
	Name   string `json:"name" binding:"required,min=1,max=100"`
	Class  string `json:"class" binding:"max=50"`
}

// UpdateStudentRequest represents a request to update a student
type UpdateStudentRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Class *string `json:"class" binding:"omitempty,max=50"`
}

// WalletOperationRequest represents a wallet deposit or withdrawal
type WalletOperationRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,dpositive"`
}

// ListStudentsQuery represents student listing parameters
type ListStudentsQuery struct {
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
	Search   string `form:"search"`
	Class    string `form:"class"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StudentResponse represents a student in API responses
type StudentResponse struct {
	ID        uuid.UUID       `json:"id"`
	StoreID   uuid.UUID       `json:"store_id"`
	Number    string          `json:"number"`
	Name      string          `json:"name"`
	Class     string          `json:"class"`
	Balance   decimal.Decimal `json:"balance"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToStudentResponse converts a domain student to a response DTO
func ToStudentResponse(s *student.Student) *StudentResponse {
	return &StudentResponse{
		ID:        s.ID,
		StoreID:   s.StoreID,
		Number:    s.Number,
		Name:      s.Name,
		Class:     s.Class,
		Balance:   s.Balance,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
