package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how an order was paid
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodEWallet       PaymentMethod = "ewallet"
	PaymentMethodStudentWallet PaymentMethod = "student_wallet"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	// OrderStatusCompleted is the normal terminal state; counter sales
	// settle immediately at checkout
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusVoided    OrderStatus = "voided"
)

// Order represents a completed counter sale. Store-scoped aggregate root.
type Order struct {
	shared.StoreAggregateRoot
	Number        string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_store_number,priority:2"`
	Status        OrderStatus     `gorm:"type:varchar(20);not null;default:'completed'"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null"`
	StudentID     *uuid.UUID      `gorm:"type:uuid;index"`
	CashierID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Total         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Lines         []Line          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PlacedAt      time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// Line is a single cart line within an order
type Line struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	StoreID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (Line) TableName() string {
	return "order_lines"
}

// NewOrder builds an order from cart lines and publishes OrderCreated.
// The cart must not be empty; a student reference is mandatory for
// student-wallet payments.
func NewOrder(storeID, cashierID uuid.UUID, method PaymentMethod, studentID *uuid.UUID, lines []Line) (*Order, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Order must contain at least one line")
	}
	switch method {
	case PaymentMethodCash, PaymentMethodEWallet, PaymentMethodStudentWallet:
	default:
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if method == PaymentMethodStudentWallet && studentID == nil {
		return nil, shared.NewDomainError("STUDENT_REQUIRED", "Student wallet payments require a student")
	}

	o := &Order{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Number:             NewOrderNumber(time.Now()),
		Status:             OrderStatusCompleted,
		PaymentMethod:      method,
		StudentID:          studentID,
		CashierID:          cashierID,
		PlacedAt:           time.Now(),
	}

	total := decimal.Zero
	for i := range lines {
		lines[i].ID = uuid.New()
		lines[i].OrderID = o.ID
		lines[i].StoreID = storeID
		lines[i].Subtotal = lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(lines[i].Quantity)))
		total = total.Add(lines[i].Subtotal)
	}
	o.Lines = lines
	o.Total = total

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// NewOrderNumber generates a human-readable order number
func NewOrderNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("POS-%s-%s", at.Format("20060102"), suffix)
}

// Void cancels a completed order (till correction). Stock and wallet
// compensation is the caller's responsibility.
func (o *Order) Void() error {
	if o.Status != OrderStatusCompleted {
		return shared.ErrInvalidState
	}
	o.Status = OrderStatusVoided
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}
