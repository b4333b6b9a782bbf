package expenses

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hotelier/backend/internal/domain/expenses"
	"github.com/hotelier/backend/internal/domain/shared"
	"github.com/hotelier/backend/internal/domain/shared/valueobject"
	"github.com/hotelier/backend/internal/domain/treasury"
)

// MockExpenseRepository is a mock of expenses.ExpenseRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*expenses.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*expenses.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindByNumber(ctx context.Context, number string) (*expenses.Expense, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*expenses.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindAll(ctx context.Context, filter expenses.ExpenseFilter) ([]*expenses.Expense, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*expenses.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Count(ctx context.Context, filter expenses.ExpenseFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExpenseRepository) Save(ctx context.Context, expense *expenses.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExpenseRepository) NextExpenseNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockExpensePaymentRepository is a mock of expenses.ExpensePaymentRepository
type MockExpensePaymentRepository struct {
	mock.Mock
}

func (m *MockExpensePaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*expenses.ExpensePayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*expenses.ExpensePayment), args.Error(1)
}

func (m *MockExpensePaymentRepository) FindByExpense(ctx context.Context, expenseID uuid.UUID) ([]*expenses.ExpensePayment, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*expenses.ExpensePayment), args.Error(1)
}

func (m *MockExpensePaymentRepository) Save(ctx context.Context, payment *expenses.ExpensePayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockExpensePaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCashRegisterRepository is a mock of treasury.CashRegisterRepository
type MockCashRegisterRepository struct {
	mock.Mock
}

func (m *MockCashRegisterRepository) FindByID(ctx context.Context, id uuid.UUID) (*treasury.CashRegister, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.CashRegister), args.Error(1)
}

func (m *MockCashRegisterRepository) FindByCode(ctx context.Context, code string) (*treasury.CashRegister, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.CashRegister), args.Error(1)
}

func (m *MockCashRegisterRepository) FindAll(ctx context.Context, filter treasury.CashRegisterFilter) ([]treasury.CashRegister, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]treasury.CashRegister), args.Error(1)
}

func (m *MockCashRegisterRepository) Count(ctx context.Context, filter treasury.CashRegisterFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCashRegisterRepository) Save(ctx context.Context, register *treasury.CashRegister) error {
	args := m.Called(ctx, register)
	return args.Error(0)
}

func (m *MockCashRegisterRepository) UpdateCurrentBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	args := m.Called(ctx, id, balance)
	return args.Error(0)
}

func (m *MockCashRegisterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCashRegisterRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher is a mock of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newActiveRegister(t *testing.T) *treasury.CashRegister {
	t.Helper()
	register, err := treasury.NewCashRegister("Reception", "REG-001", valueobject.XOF, decimal.NewFromInt(1000))
	require.NoError(t, err)
	register.ClearDomainEvents()
	return register
}

func newPendingExpense(t *testing.T, registerID *uuid.UUID) *expenses.Expense {
	t.Helper()
	amount, err := valueobject.NewMoneyFromString("300", valueobject.XOF)
	require.NoError(t, err)
	expense, err := expenses.NewExpense("EXP-202608-00042", "Linen delivery",
		expenses.CategorySupplies, amount, registerID, "Textile SARL", time.Now())
	require.NoError(t, err)
	expense.ClearDomainEvents()
	return expense
}

func newDisbursement(t *testing.T, expenseID uuid.UUID, registerID *uuid.UUID) *expenses.ExpensePayment {
	t.Helper()
	amount, err := valueobject.NewMoneyFromString("120", valueobject.XOF)
	require.NoError(t, err)
	payment, err := expenses.NewExpensePayment(expenseID, registerID, amount, time.Now(), "first installment")
	require.NoError(t, err)
	payment.ClearDomainEvents()
	return payment
}
