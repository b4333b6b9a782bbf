package expenses

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hotelier/backend/internal/domain/expenses"
	"github.com/hotelier/backend/internal/domain/shared"
)

func newDisbursementServiceFixture(t *testing.T) (*ExpensePaymentService, *MockExpensePaymentRepository, *MockExpenseRepository, *MockCashRegisterRepository, *MockEventPublisher) {
	t.Helper()
	paymentRepo := new(MockExpensePaymentRepository)
	expenseRepo := new(MockExpenseRepository)
	registerRepo := new(MockCashRegisterRepository)
	publisher := new(MockEventPublisher)

	service := NewExpensePaymentService(paymentRepo, expenseRepo, registerRepo, zap.NewNop())
	service.SetEventPublisher(publisher)

	return service, paymentRepo, expenseRepo, registerRepo, publisher
}

func TestExpensePaymentService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("records a disbursement against its expense's register", func(t *testing.T) {
		service, paymentRepo, expenseRepo, registerRepo, publisher := newDisbursementServiceFixture(t)
		register := newActiveRegister(t)
		expense := newPendingExpense(t, &register.ID)

		expenseRepo.On("FindByID", ctx, expense.ID).Return(expense, nil)
		registerRepo.On("FindByID", ctx, register.ID).Return(register, nil)
		paymentRepo.On("Save", ctx, mock.AnythingOfType("*expenses.ExpensePayment")).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		response, err := service.Record(ctx, RecordExpensePaymentRequest{
			ExpenseID:  expense.ID,
			RegisterID: &register.ID,
			Amount:     decimal.NewFromInt(120),
			PaidAt:     time.Now(),
			Note:       "first installment",
		})

		require.NoError(t, err)
		assert.Equal(t, expense.ID, response.ExpenseID)
		assert.False(t, response.Deferred)
		publisher.AssertCalled(t, "Publish", ctx, mock.Anything)
	})

	t.Run("a deferred disbursement skips the register check", func(t *testing.T) {
		service, paymentRepo, expenseRepo, registerRepo, publisher := newDisbursementServiceFixture(t)
		expense := newPendingExpense(t, nil)

		expenseRepo.On("FindByID", ctx, expense.ID).Return(expense, nil)
		paymentRepo.On("Save", ctx, mock.Anything).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		response, err := service.Record(ctx, RecordExpensePaymentRequest{
			ExpenseID: expense.ID,
			Amount:    decimal.NewFromInt(80),
			PaidAt:    time.Now(),
		})

		require.NoError(t, err)
		assert.True(t, response.Deferred)
		registerRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("currency defaults to the expense's currency", func(t *testing.T) {
		service, paymentRepo, expenseRepo, _, publisher := newDisbursementServiceFixture(t)
		expense := newPendingExpense(t, nil)

		expenseRepo.On("FindByID", ctx, expense.ID).Return(expense, nil)
		paymentRepo.On("Save", ctx, mock.Anything).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		response, err := service.Record(ctx, RecordExpensePaymentRequest{
			ExpenseID: expense.ID,
			Amount:    decimal.NewFromInt(50),
			PaidAt:    time.Now(),
		})

		require.NoError(t, err)
		assert.Equal(t, expense.Currency.String(), response.Currency)
	})

	t.Run("unknown expense", func(t *testing.T) {
		service, paymentRepo, expenseRepo, _, _ := newDisbursementServiceFixture(t)
		expenseID := uuid.New()

		expenseRepo.On("FindByID", ctx, expenseID).Return(nil, nil)

		_, err := service.Record(ctx, RecordExpensePaymentRequest{
			ExpenseID: expenseID,
			Amount:    decimal.NewFromInt(50),
			PaidAt:    time.Now(),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EXPENSE_NOT_FOUND", domainErr.Code)
		paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("zero amount refuses", func(t *testing.T) {
		service, paymentRepo, expenseRepo, _, _ := newDisbursementServiceFixture(t)
		expense := newPendingExpense(t, nil)

		expenseRepo.On("FindByID", ctx, expense.ID).Return(expense, nil)

		_, err := service.Record(ctx, RecordExpensePaymentRequest{
			ExpenseID: expense.ID,
			Amount:    decimal.Zero,
			PaidAt:    time.Now(),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
		paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("register currency must match the disbursement", func(t *testing.T) {
		service, paymentRepo, expenseRepo, registerRepo, _ := newDisbursementServiceFixture(t)
		register := newActiveRegister(t)
		expense := newPendingExpense(t, &register.ID)

		expenseRepo.On("FindByID", ctx, expense.ID).Return(expense, nil)
		registerRepo.On("FindByID", ctx, register.ID).Return(register, nil)

		_, err := service.Record(ctx, RecordExpensePaymentRequest{
			ExpenseID:  expense.ID,
			RegisterID: &register.ID,
			Amount:     decimal.NewFromInt(50),
			Currency:   "USD",
			PaidAt:     time.Now(),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CURRENCY_MISMATCH", domainErr.Code)
		paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestExpensePaymentService_Update(t *testing.T) {
	ctx := context.Background()
	service, paymentRepo, _, _, publisher := newDisbursementServiceFixture(t)
	payment := newDisbursement(t, uuid.New(), nil)

	paymentRepo.On("FindByID", ctx, payment.ID).Return(payment, nil)
	paymentRepo.On("Save", ctx, payment).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	response, err := service.Update(ctx, payment.ID, UpdateExpensePaymentRequest{
		Amount: decimal.NewFromInt(90),
		PaidAt: time.Now(),
		Note:   "amount corrected",
	})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(90).Equal(response.Amount))
	assert.Equal(t, "amount corrected", response.Note)
}

func TestExpensePaymentService_Reassign(t *testing.T) {
	ctx := context.Background()

	t.Run("moves a disbursement to another register", func(t *testing.T) {
		service, paymentRepo, _, registerRepo, publisher := newDisbursementServiceFixture(t)
		oldRegister := newActiveRegister(t)
		newRegister := newActiveRegister(t)
		payment := newDisbursement(t, uuid.New(), &oldRegister.ID)

		paymentRepo.On("FindByID", ctx, payment.ID).Return(payment, nil)
		registerRepo.On("FindByID", ctx, newRegister.ID).Return(newRegister, nil)
		paymentRepo.On("Save", ctx, payment).Return(nil)
		publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			if len(events) != 1 {
				return false
			}
			scoped, ok := events[0].(interface{ AffectedRegisterIDs() []uuid.UUID })
			return ok && len(scoped.AffectedRegisterIDs()) == 2
		})).Return(nil)

		response, err := service.Reassign(ctx, payment.ID, &newRegister.ID)

		require.NoError(t, err)
		require.NotNil(t, response.RegisterID)
		assert.Equal(t, newRegister.ID, *response.RegisterID)
		publisher.AssertExpectations(t)
	})

	t.Run("deferring detaches without a register lookup", func(t *testing.T) {
		service, paymentRepo, _, registerRepo, publisher := newDisbursementServiceFixture(t)
		register := newActiveRegister(t)
		payment := newDisbursement(t, uuid.New(), &register.ID)

		paymentRepo.On("FindByID", ctx, payment.ID).Return(payment, nil)
		paymentRepo.On("Save", ctx, payment).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		response, err := service.Reassign(ctx, payment.ID, nil)

		require.NoError(t, err)
		assert.Nil(t, response.RegisterID)
		assert.True(t, response.Deferred)
		registerRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestExpensePaymentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes and queues a recomputation", func(t *testing.T) {
		service, paymentRepo, _, _, publisher := newDisbursementServiceFixture(t)
		register := newActiveRegister(t)
		payment := newDisbursement(t, uuid.New(), &register.ID)

		paymentRepo.On("FindByID", ctx, payment.ID).Return(payment, nil)
		paymentRepo.On("Delete", ctx, payment.ID).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		require.NoError(t, service.Delete(ctx, payment.ID))
		publisher.AssertCalled(t, "Publish", ctx, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		service, paymentRepo, _, _, _ := newDisbursementServiceFixture(t)
		id := uuid.New()

		paymentRepo.On("FindByID", ctx, id).Return(nil, nil)

		err := service.Delete(ctx, id)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EXPENSE_PAYMENT_NOT_FOUND", domainErr.Code)
	})
}

func TestExpensePaymentService_ListByExpense(t *testing.T) {
	ctx := context.Background()
	service, paymentRepo, _, _, _ := newDisbursementServiceFixture(t)
	expenseID := uuid.New()

	items := []*expenses.ExpensePayment{
		newDisbursement(t, expenseID, nil),
		newDisbursement(t, expenseID, nil),
	}
	paymentRepo.On("FindByExpense", ctx, expenseID).Return(items, nil)

	responses, err := service.ListByExpense(ctx, expenseID)

	require.NoError(t, err)
	assert.Len(t, responses, 2)
	for _, r := range responses {
		assert.Equal(t, expenseID, r.ExpenseID)
	}
}
