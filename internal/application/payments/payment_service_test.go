package payments

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

	"github.com/hotelier/backend/internal/domain/payments"
	"github.com/hotelier/backend/internal/domain/shared"
	"github.com/hotelier/backend/internal/domain/shared/valueobject"
	"github.com/hotelier/backend/internal/domain/treasury"
)

// MockIncomingPaymentRepository is a mock of payments.IncomingPaymentRepository
type MockIncomingPaymentRepository struct {
	mock.Mock
}

func (m *MockIncomingPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payments.IncomingPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.IncomingPayment), args.Error(1)
}

func (m *MockIncomingPaymentRepository) FindByNumber(ctx context.Context, number string) (*payments.IncomingPayment, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.IncomingPayment), args.Error(1)
}

func (m *MockIncomingPaymentRepository) FindAll(ctx context.Context, filter payments.PaymentFilter) ([]*payments.IncomingPayment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payments.IncomingPayment), args.Error(1)
}

func (m *MockIncomingPaymentRepository) Count(ctx context.Context, filter payments.PaymentFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIncomingPaymentRepository) Save(ctx context.Context, payment *payments.IncomingPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockIncomingPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockIncomingPaymentRepository) NextPaymentNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
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

func newServiceFixture(t *testing.T) (*PaymentService, *MockIncomingPaymentRepository, *MockCashRegisterRepository, *MockEventPublisher) {
	t.Helper()
	paymentRepo := new(MockIncomingPaymentRepository)
	registerRepo := new(MockCashRegisterRepository)
	publisher := new(MockEventPublisher)

	service := NewPaymentService(paymentRepo, registerRepo, zap.NewNop())
	service.SetEventPublisher(publisher)

	return service, paymentRepo, registerRepo, publisher
}

func newActiveRegister(t *testing.T) *treasury.CashRegister {
	t.Helper()
	register, err := treasury.NewCashRegister("Reception", "REG-001", valueobject.XOF, decimal.NewFromInt(1000))
	require.NoError(t, err)
	register.ClearDomainEvents()
	return register
}

func newPendingPayment(t *testing.T, registerID *uuid.UUID) *payments.IncomingPayment {
	t.Helper()
	amount, err := valueobject.NewMoneyFromString("150.50", valueobject.XOF)
	require.NoError(t, err)
	payment, err := payments.NewIncomingPayment("PAY-202608-00042", amount,
		payments.PaymentMethodCash, registerID, "A. Diallo", "Room 12 deposit", time.Now())
	require.NoError(t, err)
	payment.ClearDomainEvents()
	return payment
}

func TestPaymentService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("records a pending payment and publishes its event", func(t *testing.T) {
		service, paymentRepo, registerRepo, publisher := newServiceFixture(t)
		register := newActiveRegister(t)

		registerRepo.On("FindByID", ctx, register.ID).Return(register, nil)
		paymentRepo.On("NextPaymentNumber", ctx).Return("PAY-202608-00001", nil)
		paymentRepo.On("Save", ctx, mock.AnythingOfType("*payments.IncomingPayment")).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		response, err := service.Record(ctx, RecordPaymentRequest{
			Amount:     decimal.NewFromInt(200),
			Method:     "CASH",
			RegisterID: &register.ID,
			PayerName:  "A. Diallo",
			ReceivedAt: time.Now(),
		})

		require.NoError(t, err)
		assert.Equal(t, "PAY-202608-00001", response.PaymentNumber)
		assert.Equal(t, "PENDING", response.Status)
		assert.Equal(t, valueobject.XOF.String(), response.Currency)
		publisher.AssertCalled(t, "Publish", ctx, mock.Anything)
	})

	t.Run("refuses a register that does not accept transactions", func(t *testing.T) {
		service, paymentRepo, registerRepo, _ := newServiceFixture(t)
		register := newActiveRegister(t)
		require.NoError(t, register.ChangeStatus(treasury.CashRegisterStatusClosed))

		registerRepo.On("FindByID", ctx, register.ID).Return(register, nil)

		_, err := service.Record(ctx, RecordPaymentRequest{
			Amount:     decimal.NewFromInt(200),
			Method:     "CASH",
			RegisterID: &register.ID,
			PayerName:  "A. Diallo",
			ReceivedAt: time.Now(),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "REGISTER_NOT_ACCEPTING", domainErr.Code)
		paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("refuses a payment in another currency than the register", func(t *testing.T) {
		service, paymentRepo, registerRepo, publisher := newServiceFixture(t)
		register := newActiveRegister(t)

		registerRepo.On("FindByID", ctx, register.ID).Return(register, nil)

		_, err := service.Record(ctx, RecordPaymentRequest{
			Amount:     decimal.NewFromInt(200),
			Currency:   "USD",
			Method:     "CASH",
			RegisterID: &register.ID,
			PayerName:  "A. Diallo",
			ReceivedAt: time.Now(),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CURRENCY_MISMATCH", domainErr.Code)
		paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("unknown register", func(t *testing.T) {
		service, _, registerRepo, _ := newServiceFixture(t)
		registerID := uuid.New()

		registerRepo.On("FindByID", ctx, registerID).Return(nil, nil)

		_, err := service.Record(ctx, RecordPaymentRequest{
			Amount:     decimal.NewFromInt(200),
			Method:     "CASH",
			RegisterID: &registerID,
			PayerName:  "A. Diallo",
			ReceivedAt: time.Now(),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CASH_REGISTER_NOT_FOUND", domainErr.Code)
	})

	t.Run("a detached payment needs no register check", func(t *testing.T) {
		service, paymentRepo, registerRepo, publisher := newServiceFixture(t)

		paymentRepo.On("NextPaymentNumber", ctx).Return("PAY-202608-00002", nil)
		paymentRepo.On("Save", ctx, mock.Anything).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		response, err := service.Record(ctx, RecordPaymentRequest{
			Amount:     decimal.NewFromInt(75),
			Method:     "BANK_TRANSFER",
			PayerName:  "B. Camara",
			ReceivedAt: time.Now(),
		})

		require.NoError(t, err)
		assert.Nil(t, response.RegisterID)
		registerRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestPaymentService_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("validates a pending payment", func(t *testing.T) {
		service, paymentRepo, _, publisher := newServiceFixture(t)
		register := newActiveRegister(t)
		payment := newPendingPayment(t, &register.ID)
		validator := uuid.New()

		paymentRepo.On("FindByID", ctx, payment.ID).Return(payment, nil)
		paymentRepo.On("Save", ctx, payment).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		response, err := service.Validate(ctx, payment.ID, validator)

		require.NoError(t, err)
		assert.Equal(t, "VALIDATED", response.Status)
		require.NotNil(t, response.ValidatedBy)
		assert.Equal(t, validator, *response.ValidatedBy)
		publisher.AssertCalled(t, "Publish", ctx, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		service, paymentRepo, _, _ := newServiceFixture(t)
		id := uuid.New()

		paymentRepo.On("FindByID", ctx, id).Return(nil, nil)

		_, err := service.Validate(ctx, id, uuid.New())

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PAYMENT_NOT_FOUND", domainErr.Code)
	})

	t.Run("save failure surfaces", func(t *testing.T) {
		service, paymentRepo, _, publisher := newServiceFixture(t)
		payment := newPendingPayment(t, nil)

		paymentRepo.On("FindByID", ctx, payment.ID).Return(payment, nil)
		paymentRepo.On("Save", ctx, payment).Return(errors.New("db error"))

		_, err := service.Validate(ctx, payment.ID, uuid.New())
		require.Error(t, err)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestPaymentService_Reassign(t *testing.T) {
	ctx := context.Background()

	t.Run("moves a payment to another register", func(t *testing.T) {
		service, paymentRepo, registerRepo, publisher := newServiceFixture(t)
		oldRegister := newActiveRegister(t)
		newRegister := newActiveRegister(t)
		payment := newPendingPayment(t, &oldRegister.ID)

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

	t.Run("detaching needs no register lookup", func(t *testing.T) {
		service, paymentRepo, registerRepo, publisher := newServiceFixture(t)
		register := newActiveRegister(t)
		payment := newPendingPayment(t, &register.ID)

		paymentRepo.On("FindByID", ctx, payment.ID).Return(payment, nil)
		paymentRepo.On("Save", ctx, payment).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		response, err := service.Reassign(ctx, payment.ID, nil)

		require.NoError(t, err)
		assert.Nil(t, response.RegisterID)
		registerRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("closed target register refuses", func(t *testing.T) {
		service, paymentRepo, registerRepo, _ := newServiceFixture(t)
		closed := newActiveRegister(t)
		require.NoError(t, closed.ChangeStatus(treasury.CashRegisterStatusClosed))
		payment := newPendingPayment(t, nil)

		paymentRepo.On("FindByID", ctx, payment.ID).Return(payment, nil)
		registerRepo.On("FindByID", ctx, closed.ID).Return(closed, nil)

		_, err := service.Reassign(ctx, payment.ID, &closed.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "REGISTER_NOT_ACCEPTING", domainErr.Code)
		paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("target register in another currency refuses", func(t *testing.T) {
		service, paymentRepo, registerRepo, _ := newServiceFixture(t)
		register := newActiveRegister(t)

		amount, err := valueobject.NewMoneyFromString("99.90", valueobject.EUR)
		require.NoError(t, err)
		payment, err := payments.NewIncomingPayment("PAY-202608-00043", amount,
			payments.PaymentMethodCash, nil, "B. Traore", "Seminar room", time.Now())
		require.NoError(t, err)
		payment.ClearDomainEvents()

		paymentRepo.On("FindByID", ctx, payment.ID).Return(payment, nil)
		registerRepo.On("FindByID", ctx, register.ID).Return(register, nil)

		_, err = service.Reassign(ctx, payment.ID, &register.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CURRENCY_MISMATCH", domainErr.Code)
		paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestPaymentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes and queues a recomputation", func(t *testing.T) {
		service, paymentRepo, _, publisher := newServiceFixture(t)
		register := newActiveRegister(t)
		payment := newPendingPayment(t, &register.ID)

		paymentRepo.On("FindByID", ctx, payment.ID).Return(payment, nil)
		paymentRepo.On("Delete", ctx, payment.ID).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		require.NoError(t, service.Delete(ctx, payment.ID))
		publisher.AssertCalled(t, "Publish", ctx, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		service, paymentRepo, _, _ := newServiceFixture(t)
		id := uuid.New()

		paymentRepo.On("FindByID", ctx, id).Return(nil, nil)

		err := service.Delete(ctx, id)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PAYMENT_NOT_FOUND", domainErr.Code)
	})
}

func TestPaymentService_List(t *testing.T) {
	ctx := context.Background()
	service, paymentRepo, _, _ := newServiceFixture(t)

	register := newActiveRegister(t)
	items := []*payments.IncomingPayment{
		newPendingPayment(t, &register.ID),
		newPendingPayment(t, nil),
	}
	filter := payments.PaymentFilter{}
	filter.Page = 1
	filter.PageSize = 20

	paymentRepo.On("FindAll", ctx, filter).Return(items, nil)
	paymentRepo.On("Count", ctx, filter).Return(int64(2), nil)

	result, err := service.List(ctx, filter)

	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, 1, result.TotalPages)
}

func TestPaymentService_List_DefaultsPagination(t *testing.T) {
	ctx := context.Background()
	service, paymentRepo, _, _ := newServiceFixture(t)

	defaulted := payments.PaymentFilter{}
	defaulted.Page = 1
	defaulted.PageSize = 20

	paymentRepo.On("FindAll", ctx, defaulted).Return([]*payments.IncomingPayment{}, nil)
	paymentRepo.On("Count", ctx, defaulted).Return(int64(0), nil)

	result, err := service.List(ctx, payments.PaymentFilter{})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 20, result.PageSize)
	paymentRepo.AssertExpectations(t)
}
