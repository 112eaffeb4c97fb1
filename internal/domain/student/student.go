package student

import (
	"strings"
	"time"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Student represents a pupil with a stored-value wallet usable as a
// payment method at the counter. Store-scoped: a student is enrolled at
// exactly one canteen.
type Student struct {
	shared.StoreAggregateRoot
	Number  string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_student_store_number,priority:2"`
	Name    string          `gorm:"type:varchar(100);not null"`
	Class   string          `gorm:"type:varchar(50)"`
	Balance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active  bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Student) TableName() string {
	return "students"
}

// NewStudent creates a new student with a zero wallet balance
func NewStudent(storeID uuid.UUID, number, name, class string) (*Student, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Student number cannot be empty")
	}
	if len(number) > 50 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Student number cannot exceed 50 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Student name cannot be empty")
	}

	student := &Student{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Number:             strings.ToUpper(number),
		Name:               name,
		Class:              class,
		Balance:            decimal.Zero,
		Active:             true,
	}

	student.AddDomainEvent(NewStudentCreatedEvent(student))

	return student, nil
}

// Update updates the student's basic information
func (s *Student) Update(name, class string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Student name cannot be empty")
	}
	s.Name = name
	s.Class = class
	s.touch()

	s.AddDomainEvent(NewStudentUpdatedEvent(s))

	return nil
}

// Deposit adds funds to the wallet
func (s *Student) Deposit(amount valueobject.Money) error {
	if amount.IsNegative() || amount.IsZero() {
		return shared.NewDomainError("INVALID_AMOUNT", "Deposit amount must be positive")
	}

	s.Balance = s.Balance.Add(amount.Amount())
	s.touch()

	s.AddDomainEvent(NewWalletDepositedEvent(s, amount.Amount()))

	return nil
}

// Withdraw removes funds from the wallet (refund to guardian, account
// closure). Fails on insufficient balance.
func (s *Student) Withdraw(amount valueobject.Money) error {
	if amount.IsNegative() || amount.IsZero() {
		return shared.NewDomainError("INVALID_AMOUNT", "Withdrawal amount must be positive")
	}
	if s.Balance.LessThan(amount.Amount()) {
		return shared.ErrInsufficientBalance
	}

	s.Balance = s.Balance.Sub(amount.Amount())
	s.touch()

	s.AddDomainEvent(NewWalletWithdrawnEvent(s, amount.Amount()))

	return nil
}

// Pay debits the wallet for an order. Same balance rules as Withdraw but
// keeps the order reference on the event.
func (s *Student) Pay(amount valueobject.Money, orderID uuid.UUID) error {
	if amount.IsNegative() || amount.IsZero() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if s.Balance.LessThan(amount.Amount()) {
		return shared.ErrInsufficientBalance
	}

	s.Balance = s.Balance.Sub(amount.Amount())
	s.touch()

	event := NewWalletWithdrawnEvent(s, amount.Amount())
	event.OrderID = &orderID
	s.AddDomainEvent(event)

	return nil
}

// Deactivate disables the student account. The wallet balance is kept so
// a later withdrawal can refund it.
func (s *Student) Deactivate() {
	s.Active = false
	s.touch()

	s.AddDomainEvent(NewStudentUpdatedEvent(s))
}

func (s *Student) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
