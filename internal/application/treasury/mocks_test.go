package treasury

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/hotelier/backend/internal/domain/shared"
	"github.com/hotelier/backend/internal/domain/treasury"
)

// MockCashRegisterRepository is a mock implementation of CashRegisterRepository
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

// MockTransactionSource is a mock implementation of TransactionSource
type MockTransactionSource struct {
	mock.Mock
	sourceType treasury.LedgerSourceType
}

func newMockSource(sourceType treasury.LedgerSourceType) *MockTransactionSource {
	return &MockTransactionSource{sourceType: sourceType}
}

func (m *MockTransactionSource) SourceType() treasury.LedgerSourceType {
	return m.sourceType
}

func (m *MockTransactionSource) ListSettledByRegister(ctx context.Context, registerID uuid.UUID) ([]treasury.LedgerEntry, error) {
	args := m.Called(ctx, registerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]treasury.LedgerEntry), args.Error(1)
}

func (m *MockTransactionSource) SumSettledByRegister(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, registerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
