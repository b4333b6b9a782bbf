package treasury

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/shared"
	"github.com/hotelier/backend/internal/domain/treasury"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// recomputeTimeout bounds one full recomputation across all sources
const recomputeTimeout = 15 * time.Second

// BalanceService recomputes and persists cash register balances from the
// three transaction sources. A recomputation either succeeds over all
// sources or fails as a whole; the cached balance is never updated from
// a partially read snapshot.
type BalanceService struct {
	registerRepo treasury.CashRegisterRepository
	sources      []treasury.TransactionSource
	logger       *zap.Logger
}

// NewBalanceService creates a new BalanceService. The sources must cover
// each ledger source type exactly once.
func NewBalanceService(
	registerRepo treasury.CashRegisterRepository,
	sources []treasury.TransactionSource,
	logger *zap.Logger,
) *BalanceService {
	return &BalanceService{
		registerRepo: registerRepo,
		sources:      sources,
		logger:       logger,
	}
}

// RecalculateByID recomputes the balance of one register from scratch and
// persists the result. Returns the full breakdown on success.
func (s *BalanceService) RecalculateByID(ctx context.Context, registerID uuid.UUID) (*treasury.BalanceBreakdown, error) {
	register, err := s.registerRepo.FindByID(ctx, registerID)
	if err != nil {
		return nil, err
	}
	if register == nil {
		return nil, shared.NewDomainError("CASH_REGISTER_NOT_FOUND", "Cash register not found")
	}

	return s.Recalculate(ctx, register)
}

// Recalculate recomputes an already-loaded register's balance and
// persists it. The per-source sums are fetched concurrently; any source
// failure aborts the whole recomputation.
func (s *BalanceService) Recalculate(ctx context.Context, register *treasury.CashRegister) (*treasury.BalanceBreakdown, error) {
	ctx, cancel := context.WithTimeout(ctx, recomputeTimeout)
	defer cancel()

	totals, err := s.sumAllSources(ctx, register.ID)
	if err != nil {
		return nil, shared.WrapDomainError("RECOMPUTE_FAILED",
			fmt.Sprintf("Balance recomputation aborted for register %s", register.Code), err)
	}

	breakdown := treasury.ComputeBalance(
		register,
		totals[treasury.LedgerSourcePayment],
		totals[treasury.LedgerSourceExpensePayment],
		totals[treasury.LedgerSourceExpense],
	)

	if err := s.registerRepo.UpdateCurrentBalance(ctx, register.ID, breakdown.CurrentBalance); err != nil {
		return nil, shared.WrapDomainError("RECOMPUTE_FAILED",
			fmt.Sprintf("Failed to persist recomputed balance for register %s", register.Code), err)
	}

	register.ApplyRecomputedBalance(breakdown.CurrentBalance)

	s.logger.Debug("register balance recomputed",
		zap.String("register_id", register.ID.String()),
		zap.String("register_code", register.Code),
		zap.String("balance", breakdown.CurrentBalance.String()),
	)

	return &breakdown, nil
}

// sumAllSources fetches the settled total from every source in parallel.
// The first error wins; partial results are discarded.
func (s *BalanceService) sumAllSources(ctx context.Context, registerID uuid.UUID) (map[treasury.LedgerSourceType]decimal.Decimal, error) {
	type sourceSum struct {
		sourceType treasury.LedgerSourceType
		total      decimal.Decimal
		err        error
	}

	results := make([]sourceSum, len(s.sources))

	var wg sync.WaitGroup
	for i, source := range s.sources {
		wg.Add(1)
		go func(i int, source treasury.TransactionSource) {
			defer wg.Done()
			total, err := source.SumSettledByRegister(ctx, registerID)
			results[i] = sourceSum{sourceType: source.SourceType(), total: total, err: err}
		}(i, source)
	}
	wg.Wait()

	totals := map[treasury.LedgerSourceType]decimal.Decimal{
		treasury.LedgerSourcePayment:        decimal.Zero,
		treasury.LedgerSourceExpensePayment: decimal.Zero,
		treasury.LedgerSourceExpense:        decimal.Zero,
	}
	for _, r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("source %s unavailable: %w", r.sourceType, r.err)
		}
		totals[r.sourceType] = r.total
	}

	return totals, nil
}
