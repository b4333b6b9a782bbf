package expenses

import (
	"context"
	"errors"
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
	"github.com/hotelier/backend/internal/domain/treasury"
)

func newExpenseServiceFixture(t *testing.T) (*ExpenseService, *MockExpenseRepository, *MockCashRegisterRepository, *MockEventPublisher) {
	t.Helper()
	expenseRepo := new(MockExpenseRepository)
	registerRepo := new(MockCashRegisterRepository)
	publisher := new(MockEventPublisher)

	service := NewExpenseService(expenseRepo, registerRepo, zap.NewNop())
	service.SetEventPublisher(publisher)

	return service, expenseRepo, registerRepo, publisher
}

func TestExpenseService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("records a pending expense", func(t *testing.T) {
		service, expenseRepo, registerRepo, publisher := newExpenseServiceFixture(t)
		register := newActiveRegister(t)

		registerRepo.On("FindByID", ctx, register.ID).Return(register, nil)
		expenseRepo.On("NextExpenseNumber", ctx).Return("EXP-202608-00001", nil)
		expenseRepo.On("Save", ctx, mock.AnythingOfType("*expenses.Expense")).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		response, err := service.Record(ctx, RecordExpenseRequest{
			Label:        "Boiler repair",
			Category:     "MAINTENANCE",
			Amount:       decimal.NewFromInt(450),
			RegisterID:   &register.ID,
			SupplierName: "ChaudPro",
			IncurredAt:   time.Now(),
		})

		require.NoError(t, err)
		assert.Equal(t, "EXP-202608-00001", response.ExpenseNumber)
		assert.Equal(t, "PENDING", response.Status)
		assert.Equal(t, "MAINTENANCE", response.Category)
	})

	t.Run("invalid category", func(t *testing.T) {
		service, expenseRepo, _, _ := newExpenseServiceFixture(t)

		expenseRepo.On("NextExpenseNumber", ctx).Return("EXP-202608-00002", nil)

		_, err := service.Record(ctx, RecordExpenseRequest{
			Label:      "Boiler repair",
			Category:   "GARDENING",
			Amount:     decimal.NewFromInt(450),
			IncurredAt: time.Now(),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CATEGORY", domainErr.Code)
		expenseRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("register must accept transactions", func(t *testing.T) {
		service, expenseRepo, registerRepo, _ := newExpenseServiceFixture(t)
		register := newActiveRegister(t)
		require.NoError(t, register.ChangeStatus(treasury.CashRegisterStatusMaintenance))

		registerRepo.On("FindByID", ctx, register.ID).Return(register, nil)

		_, err := service.Record(ctx, RecordExpenseRequest{
			Label:      "Boiler repair",
			Category:   "MAINTENANCE",
			Amount:     decimal.NewFromInt(450),
			RegisterID: &register.ID,
			IncurredAt: time.Now(),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "REGISTER_NOT_ACCEPTING", domainErr.Code)
		expenseRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("register currency must match the expense", func(t *testing.T) {
		service, expenseRepo, registerRepo, _ := newExpenseServiceFixture(t)
		register := newActiveRegister(t)

		registerRepo.On("FindByID", ctx, register.ID).Return(register, nil)

		_, err := service.Record(ctx, RecordExpenseRequest{
			Label:      "Imported linen",
			Category:   "SUPPLIES",
			Amount:     decimal.NewFromInt(450),
			Currency:   "EUR",
			RegisterID: &register.ID,
			IncurredAt: time.Now(),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CURRENCY_MISMATCH", domainErr.Code)
		expenseRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestExpenseService_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("approve then mark paid", func(t *testing.T) {
		service, expenseRepo, _, publisher := newExpenseServiceFixture(t)
		register := newActiveRegister(t)
		expense := newPendingExpense(t, &register.ID)
		approver := uuid.New()

		expenseRepo.On("FindByID", ctx, expense.ID).Return(expense, nil)
		expenseRepo.On("Save", ctx, expense).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		approved, err := service.Approve(ctx, expense.ID, approver)
		require.NoError(t, err)
		assert.Equal(t, "APPROVED", approved.Status)
		require.NotNil(t, approved.ApprovedBy)
		assert.Equal(t, approver, *approved.ApprovedBy)

		paid, err := service.MarkPaid(ctx, expense.ID)
		require.NoError(t, err)
		assert.Equal(t, "PAID", paid.Status)
		assert.NotNil(t, paid.PaidAt)
	})

	t.Run("approving twice fails", func(t *testing.T) {
		service, expenseRepo, _, publisher := newExpenseServiceFixture(t)
		expense := newPendingExpense(t, nil)
		require.NoError(t, expense.Approve(uuid.New()))
		expense.ClearDomainEvents()

		expenseRepo.On("FindByID", ctx, expense.ID).Return(expense, nil)

		_, err := service.Approve(ctx, expense.ID, uuid.New())

		require.Error(t, err)
		expenseRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("reject with reason", func(t *testing.T) {
		service, expenseRepo, _, publisher := newExpenseServiceFixture(t)
		expense := newPendingExpense(t, nil)

		expenseRepo.On("FindByID", ctx, expense.ID).Return(expense, nil)
		expenseRepo.On("Save", ctx, expense).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		response, err := service.Reject(ctx, expense.ID, "duplicate invoice")

		require.NoError(t, err)
		assert.Equal(t, "REJECTED", response.Status)
		assert.Equal(t, "duplicate invoice", response.RejectReason)
	})

	t.Run("not found", func(t *testing.T) {
		service, expenseRepo, _, _ := newExpenseServiceFixture(t)
		id := uuid.New()

		expenseRepo.On("FindByID", ctx, id).Return(nil, nil)

		_, err := service.Approve(ctx, id, uuid.New())

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EXPENSE_NOT_FOUND", domainErr.Code)
	})
}

func TestExpenseService_Reassign(t *testing.T) {
	ctx := context.Background()

	t.Run("an approved expense moves between registers", func(t *testing.T) {
		service, expenseRepo, registerRepo, publisher := newExpenseServiceFixture(t)
		oldRegister := newActiveRegister(t)
		newRegister := newActiveRegister(t)
		expense := newPendingExpense(t, &oldRegister.ID)
		require.NoError(t, expense.Approve(uuid.New()))
		expense.ClearDomainEvents()

		expenseRepo.On("FindByID", ctx, expense.ID).Return(expense, nil)
		registerRepo.On("FindByID", ctx, newRegister.ID).Return(newRegister, nil)
		expenseRepo.On("Save", ctx, expense).Return(nil)
		publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			if len(events) != 1 {
				return false
			}
			scoped, ok := events[0].(interface{ AffectedRegisterIDs() []uuid.UUID })
			return ok && len(scoped.AffectedRegisterIDs()) == 2
		})).Return(nil)

		response, err := service.Reassign(ctx, expense.ID, &newRegister.ID)

		require.NoError(t, err)
		require.NotNil(t, response.RegisterID)
		assert.Equal(t, newRegister.ID, *response.RegisterID)
		publisher.AssertExpectations(t)
	})

	t.Run("a rejected expense refuses to move", func(t *testing.T) {
		service, expenseRepo, registerRepo, _ := newExpenseServiceFixture(t)
		target := newActiveRegister(t)
		expense := newPendingExpense(t, nil)
		require.NoError(t, expense.Reject("wrong supplier"))
		expense.ClearDomainEvents()

		expenseRepo.On("FindByID", ctx, expense.ID).Return(expense, nil)
		registerRepo.On("FindByID", ctx, target.ID).Return(target, nil)

		_, err := service.Reassign(ctx, expense.ID, &target.ID)

		require.Error(t, err)
		expenseRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestExpenseService_Delete(t *testing.T) {
	ctx := context.Background()
	service, expenseRepo, _, publisher := newExpenseServiceFixture(t)
	register := newActiveRegister(t)
	expense := newPendingExpense(t, &register.ID)

	expenseRepo.On("FindByID", ctx, expense.ID).Return(expense, nil)
	expenseRepo.On("Delete", ctx, expense.ID).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	require.NoError(t, service.Delete(ctx, expense.ID))
	publisher.AssertCalled(t, "Publish", ctx, mock.Anything)
}

func TestExpenseService_List(t *testing.T) {
	ctx := context.Background()
	service, expenseRepo, _, _ := newExpenseServiceFixture(t)

	items := []*expenses.Expense{newPendingExpense(t, nil), newPendingExpense(t, nil)}
	filter := expenses.ExpenseFilter{Status: expenses.ExpenseStatusPending}
	filter.Page = 1
	filter.PageSize = 10

	expenseRepo.On("FindAll", ctx, filter).Return(items, nil)
	expenseRepo.On("Count", ctx, filter).Return(int64(2), nil)

	result, err := service.List(ctx, filter)

	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, int64(2), result.Total)
}

func TestExpenseService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("edits a pending expense", func(t *testing.T) {
		service, expenseRepo, _, publisher := newExpenseServiceFixture(t)
		expense := newPendingExpense(t, nil)

		expenseRepo.On("FindByID", ctx, expense.ID).Return(expense, nil)
		expenseRepo.On("Save", ctx, expense).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		response, err := service.Update(ctx, expense.ID, UpdateExpenseRequest{
			Label:        "Linen delivery (amended)",
			Category:     "SUPPLIES",
			Amount:       decimal.NewFromInt(350),
			SupplierName: "Textile SARL",
			IncurredAt:   time.Now(),
		})

		require.NoError(t, err)
		assert.Equal(t, "Linen delivery (amended)", response.Label)
		assert.True(t, decimal.NewFromInt(350).Equal(response.Amount))
	})

	t.Run("save failure surfaces", func(t *testing.T) {
		service, expenseRepo, _, publisher := newExpenseServiceFixture(t)
		expense := newPendingExpense(t, nil)

		expenseRepo.On("FindByID", ctx, expense.ID).Return(expense, nil)
		expenseRepo.On("Save", ctx, expense).Return(errors.New("db error"))

		_, err := service.Update(ctx, expense.ID, UpdateExpenseRequest{
			Label:      "Linen delivery",
			Category:   "SUPPLIES",
			Amount:     decimal.NewFromInt(350),
			IncurredAt: time.Now(),
		})

		require.Error(t, err)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}
