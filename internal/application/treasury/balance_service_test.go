package treasury

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hotelier/backend/internal/domain/shared"
	"github.com/hotelier/backend/internal/domain/shared/valueobject"
	"github.com/hotelier/backend/internal/domain/treasury"
)

func newTestRegister(t *testing.T, initial string) *treasury.CashRegister {
	t.Helper()
	register, err := treasury.NewCashRegister("Reception", "REG-001",
		valueobject.XOF, decimal.RequireFromString(initial))
	require.NoError(t, err)
	register.ClearDomainEvents()
	return register
}

func newBalanceFixture(t *testing.T) (*BalanceService, *MockCashRegisterRepository, *MockTransactionSource, *MockTransactionSource, *MockTransactionSource) {
	t.Helper()
	repo := new(MockCashRegisterRepository)
	paymentSource := newMockSource(treasury.LedgerSourcePayment)
	disbursementSource := newMockSource(treasury.LedgerSourceExpensePayment)
	expenseSource := newMockSource(treasury.LedgerSourceExpense)

	service := NewBalanceService(repo,
		[]treasury.TransactionSource{paymentSource, disbursementSource, expenseSource},
		zap.NewNop())

	return service, repo, paymentSource, disbursementSource, expenseSource
}

func TestBalanceService_Recalculate(t *testing.T) {
	ctx := context.Background()

	t.Run("derives and persists the balance", func(t *testing.T) {
		service, repo, paymentSource, disbursementSource, expenseSource := newBalanceFixture(t)
		register := newTestRegister(t, "100")

		paymentSource.On("SumSettledByRegister", mock.Anything, register.ID).
			Return(decimal.NewFromInt(50), nil)
		disbursementSource.On("SumSettledByRegister", mock.Anything, register.ID).
			Return(decimal.NewFromInt(20), nil)
		expenseSource.On("SumSettledByRegister", mock.Anything, register.ID).
			Return(decimal.NewFromInt(10), nil)
		repo.On("UpdateCurrentBalance", mock.Anything, register.ID,
			mock.MatchedBy(func(b decimal.Decimal) bool {
				return b.Equal(decimal.NewFromInt(120))
			})).Return(nil)

		breakdown, err := service.Recalculate(ctx, register)
		require.NoError(t, err)

		assert.True(t, breakdown.CurrentBalance.Equal(decimal.NewFromInt(120)))
		assert.True(t, breakdown.IncomingTotal.Equal(decimal.NewFromInt(50)))
		assert.True(t, breakdown.ExpensePaymentTotal.Equal(decimal.NewFromInt(20)))
		assert.True(t, breakdown.ExpenseTotal.Equal(decimal.NewFromInt(10)))
		assert.True(t, register.CurrentBalance.Equal(decimal.NewFromInt(120)),
			"loaded aggregate must reflect the recomputed balance")
		repo.AssertExpectations(t)
	})

	t.Run("one failing source aborts the whole recomputation", func(t *testing.T) {
		service, repo, paymentSource, disbursementSource, expenseSource := newBalanceFixture(t)
		register := newTestRegister(t, "100")
		previous := register.CurrentBalance

		paymentSource.On("SumSettledByRegister", mock.Anything, register.ID).
			Return(decimal.NewFromInt(50), nil)
		disbursementSource.On("SumSettledByRegister", mock.Anything, register.ID).
			Return(decimal.Zero, errors.New("connection reset"))
		expenseSource.On("SumSettledByRegister", mock.Anything, register.ID).
			Return(decimal.NewFromInt(10), nil)

		_, err := service.Recalculate(ctx, register)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "RECOMPUTE_FAILED", domainErr.Code)

		assert.True(t, register.CurrentBalance.Equal(previous),
			"cached balance must not change on a partial snapshot")
		repo.AssertNotCalled(t, "UpdateCurrentBalance", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("persistence failure surfaces as recompute failure", func(t *testing.T) {
		service, repo, paymentSource, disbursementSource, expenseSource := newBalanceFixture(t)
		register := newTestRegister(t, "100")

		paymentSource.On("SumSettledByRegister", mock.Anything, register.ID).
			Return(decimal.Zero, nil)
		disbursementSource.On("SumSettledByRegister", mock.Anything, register.ID).
			Return(decimal.Zero, nil)
		expenseSource.On("SumSettledByRegister", mock.Anything, register.ID).
			Return(decimal.Zero, nil)
		repo.On("UpdateCurrentBalance", mock.Anything, register.ID, mock.Anything).
			Return(errors.New("write failed"))

		_, err := service.Recalculate(ctx, register)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "RECOMPUTE_FAILED", domainErr.Code)
	})

	t.Run("zero totals leave the initial balance", func(t *testing.T) {
		service, repo, paymentSource, disbursementSource, expenseSource := newBalanceFixture(t)
		register := newTestRegister(t, "750.50")

		for _, source := range []*MockTransactionSource{paymentSource, disbursementSource, expenseSource} {
			source.On("SumSettledByRegister", mock.Anything, register.ID).
				Return(decimal.Zero, nil)
		}
		repo.On("UpdateCurrentBalance", mock.Anything, register.ID, mock.Anything).Return(nil)

		breakdown, err := service.Recalculate(ctx, register)
		require.NoError(t, err)
		assert.True(t, breakdown.CurrentBalance.Equal(decimal.RequireFromString("750.50")))
	})
}

func TestBalanceService_RecalculateByID(t *testing.T) {
	ctx := context.Background()

	t.Run("loads the register then recomputes", func(t *testing.T) {
		service, repo, paymentSource, disbursementSource, expenseSource := newBalanceFixture(t)
		register := newTestRegister(t, "200")

		repo.On("FindByID", mock.Anything, register.ID).Return(register, nil)
		for _, source := range []*MockTransactionSource{paymentSource, disbursementSource, expenseSource} {
			source.On("SumSettledByRegister", mock.Anything, register.ID).
				Return(decimal.NewFromInt(5), nil)
		}
		repo.On("UpdateCurrentBalance", mock.Anything, register.ID, mock.Anything).Return(nil)

		breakdown, err := service.RecalculateByID(ctx, register.ID)
		require.NoError(t, err)
		// 200 + 5 - 5 - 5
		assert.True(t, breakdown.CurrentBalance.Equal(decimal.NewFromInt(195)))
	})

	t.Run("unknown register yields a not-found error", func(t *testing.T) {
		service, repo, _, _, _ := newBalanceFixture(t)
		registerID := uuid.New()

		repo.On("FindByID", mock.Anything, registerID).Return(nil, nil)

		_, err := service.RecalculateByID(ctx, registerID)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CASH_REGISTER_NOT_FOUND", domainErr.Code)
	})
}
