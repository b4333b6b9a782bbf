package expenses

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExpensePayment(t *testing.T, registerID *uuid.UUID) *ExpensePayment {
	t.Helper()
	payment, err := NewExpensePayment(
		uuid.New(),
		registerID,
		testMoney(t, "15000"),
		time.Now(),
		"first installment",
	)
	require.NoError(t, err)
	return payment
}

func TestNewExpensePayment(t *testing.T) {
	t.Run("creates a disbursement", func(t *testing.T) {
		registerID := uuid.New()
		payment := newTestExpensePayment(t, &registerID)

		assert.True(t, payment.Amount.Equal(decimal.NewFromInt(15000)))
		assert.Equal(t, "first installment", payment.Note)
		require.NotNil(t, payment.RegisterID)

		events := payment.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeExpensePaymentRecorded, events[0].EventType())
	})

	t.Run("settles immediately when attached to a register", func(t *testing.T) {
		registerID := uuid.New()
		payment := newTestExpensePayment(t, &registerID)
		assert.True(t, payment.IsSettled())
	})

	t.Run("deferred disbursement is not settled", func(t *testing.T) {
		payment := newTestExpensePayment(t, nil)
		assert.False(t, payment.IsSettled())
	})

	t.Run("requires an expense", func(t *testing.T) {
		_, err := NewExpensePayment(uuid.Nil, nil, testMoney(t, "100"), time.Now(), "")
		assert.Error(t, err)
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		_, err := NewExpensePayment(uuid.New(), nil, testMoney(t, "0"), time.Now(), "")
		assert.Error(t, err)
	})
}

func TestExpensePayment_Update(t *testing.T) {
	t.Run("updates amount and note", func(t *testing.T) {
		payment := newTestExpensePayment(t, nil)
		payment.ClearDomainEvents()

		err := payment.Update(testMoney(t, "20000"), time.Now(), "corrected")
		require.NoError(t, err)

		assert.True(t, payment.Amount.Equal(decimal.NewFromInt(20000)))
		assert.Equal(t, "corrected", payment.Note)

		events := payment.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeExpensePaymentUpdated, events[0].EventType())
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		payment := newTestExpensePayment(t, nil)
		assert.Error(t, payment.Update(testMoney(t, "0"), time.Now(), ""))
	})
}

func TestExpensePayment_ReassignRegister(t *testing.T) {
	t.Run("moves the disbursement and emits an event", func(t *testing.T) {
		oldRegister := uuid.New()
		newRegister := uuid.New()
		payment := newTestExpensePayment(t, &oldRegister)
		payment.ClearDomainEvents()

		require.NoError(t, payment.ReassignRegister(&newRegister))

		require.NotNil(t, payment.RegisterID)
		assert.Equal(t, newRegister, *payment.RegisterID)
		events := payment.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeExpensePaymentReassigned, events[0].EventType())
	})

	t.Run("defers when target is nil", func(t *testing.T) {
		registerID := uuid.New()
		payment := newTestExpensePayment(t, &registerID)

		require.NoError(t, payment.ReassignRegister(nil))
		assert.Nil(t, payment.RegisterID)
		assert.False(t, payment.IsSettled())
	})

	t.Run("same register is a no-op", func(t *testing.T) {
		registerID := uuid.New()
		payment := newTestExpensePayment(t, &registerID)
		payment.ClearDomainEvents()

		same := registerID
		require.NoError(t, payment.ReassignRegister(&same))
		assert.Empty(t, payment.GetDomainEvents())
	})
}
