package student

import (
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeStudent = "Student"

// Event type constants
const (
	EventTypeStudentCreated  = "StudentCreated"
	EventTypeStudentUpdated  = "StudentUpdated"
	EventTypeWalletDeposited = "WalletDeposited"
	EventTypeWalletWithdrawn = "WalletWithdrawn"
)

// StudentCreatedEvent is published when a new student is enrolled
type StudentCreatedEvent struct {
	shared.BaseDomainEvent
	StudentID uuid.UUID `json:"student_id"`
	Number    string    `json:"number"`
	Name      string    `json:"name"`
	Class     string    `json:"class,omitempty"`
}

// NewStudentCreatedEvent creates a new StudentCreatedEvent
func NewStudentCreatedEvent(s *Student) *StudentCreatedEvent {
	return &StudentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStudentCreated, AggregateTypeStudent, s.ID, s.StoreID),
		StudentID:       s.ID,
		Number:          s.Number,
		Name:            s.Name,
		Class:           s.Class,
	}
}

// StudentUpdatedEvent is published when a student's details change
type StudentUpdatedEvent struct {
	shared.BaseDomainEvent
	StudentID uuid.UUID `json:"student_id"`
	Number    string    `json:"number"`
	Name      string    `json:"name"`
	Class     string    `json:"class,omitempty"`
}

// NewStudentUpdatedEvent creates a new StudentUpdatedEvent
func NewStudentUpdatedEvent(s *Student) *StudentUpdatedEvent {
	return &StudentUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStudentUpdated, AggregateTypeStudent, s.ID, s.StoreID),
		StudentID:       s.ID,
		Number:          s.Number,
		Name:            s.Name,
		Class:           s.Class,
	}
}

// WalletDepositedEvent is published when funds are added to a wallet
type WalletDepositedEvent struct {
	shared.BaseDomainEvent
	StudentID uuid.UUID       `json:"student_id"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
}

// NewWalletDepositedEvent creates a new WalletDepositedEvent
func NewWalletDepositedEvent(s *Student, amount decimal.Decimal) *WalletDepositedEvent {
	return &WalletDepositedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWalletDeposited, AggregateTypeStudent, s.ID, s.StoreID),
		StudentID:       s.ID,
		Amount:          amount,
		Balance:         s.Balance,
	}
}

// WalletWithdrawnEvent is published when funds leave a wallet, either by
// an explicit withdrawal or by paying for an order (OrderID set).
type WalletWithdrawnEvent struct {
	shared.BaseDomainEvent
	StudentID uuid.UUID       `json:"student_id"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
	OrderID   *uuid.UUID      `json:"order_id,omitempty"`
}

// NewWalletWithdrawnEvent creates a new WalletWithdrawnEvent
func NewWalletWithdrawnEvent(s *Student, amount decimal.Decimal) *WalletWithdrawnEvent {
	return &WalletWithdrawnEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWalletWithdrawn, AggregateTypeStudent, s.ID, s.StoreID),
		StudentID:       s.ID,
		Amount:          amount,
		Balance:         s.Balance,
	}
}
