package student

import (
	"testing"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStudent(t *testing.T) *Student {
	t.Helper()
	s, err := NewStudent(uuid.New(), "2026-0042", "Mika Tan", "5B")
	require.NoError(t, err)
	s.ClearDomainEvents()
	return s
}

func TestNewStudent(t *testing.T) {
	storeID := uuid.New()

	s, err := NewStudent(storeID, "2026-0042", "Mika Tan", "5B")
	require.NoError(t, err)
	assert.Equal(t, storeID, s.StoreID)
	assert.True(t, s.Balance.IsZero())
	assert.True(t, s.Active)

	events := s.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeStudentCreated, events[0].EventType())

	_, err = NewStudent(storeID, "", "Mika Tan", "5B")
	assert.Error(t, err)
}

func TestStudent_Deposit(t *testing.T) {
	s := newStudent(t)

	err := s.Deposit(valueobject.NewMoneyCNY(decimal.NewFromInt(20)))
	require.NoError(t, err)
	assert.True(t, s.Balance.Equal(decimal.NewFromInt(20)))

	events := s.GetDomainEvents()
	require.Len(t, events, 1)
	event, ok := events[0].(*WalletDepositedEvent)
	require.True(t, ok)
	assert.True(t, event.Amount.Equal(decimal.NewFromInt(20)))
	assert.True(t, event.Balance.Equal(decimal.NewFromInt(20)))

	assert.Error(t, s.Deposit(valueobject.NewMoneyCNY(decimal.Zero)))
}

func TestStudent_Withdraw(t *testing.T) {
	s := newStudent(t)
	require.NoError(t, s.Deposit(valueobject.NewMoneyCNY(decimal.NewFromInt(10))))
	s.ClearDomainEvents()

	t.Run("withdraws within balance", func(t *testing.T) {
		err := s.Withdraw(valueobject.NewMoneyCNY(decimal.NewFromInt(4)))
		require.NoError(t, err)
		assert.True(t, s.Balance.Equal(decimal.NewFromInt(6)))

		event, ok := s.GetDomainEvents()[0].(*WalletWithdrawnEvent)
		require.True(t, ok)
		assert.Nil(t, event.OrderID)
	})

	t.Run("rejects overdraw", func(t *testing.T) {
		err := s.Withdraw(valueobject.NewMoneyCNY(decimal.NewFromInt(100)))
		assert.ErrorIs(t, err, shared.ErrInsufficientBalance)
		assert.True(t, s.Balance.Equal(decimal.NewFromInt(6)))
	})
}

func TestStudent_Pay(t *testing.T) {
	s := newStudent(t)
	require.NoError(t, s.Deposit(valueobject.NewMoneyCNY(decimal.NewFromInt(10))))
	s.ClearDomainEvents()

	orderID := uuid.New()
	err := s.Pay(valueobject.NewMoneyCNY(decimal.NewFromFloat(7.5)), orderID)
	require.NoError(t, err)
	assert.True(t, s.Balance.Equal(decimal.NewFromFloat(2.5)))

	event, ok := s.GetDomainEvents()[0].(*WalletWithdrawnEvent)
	require.True(t, ok)
	require.NotNil(t, event.OrderID)
	assert.Equal(t, orderID, *event.OrderID)

	err = s.Pay(valueobject.NewMoneyCNY(decimal.NewFromInt(5)), orderID)
	assert.ErrorIs(t, err, shared.ErrInsufficientBalance)
}
