package treasury

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/shared"
	"github.com/hotelier/backend/internal/domain/treasury"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// LedgerService assembles the merged transaction history of a register
// out of the three source stores. Every query fetches the complete
// per-source lists: the merged ordering and the summary totals are only
// correct over full lists, so pagination happens after the merge, never
// inside a source.
type LedgerService struct {
	registerRepo treasury.CashRegisterRepository
	sources      []treasury.TransactionSource
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	registerRepo treasury.CashRegisterRepository,
	sources []treasury.TransactionSource,
) *LedgerService {
	return &LedgerService{
		registerRepo: registerRepo,
		sources:      sources,
	}
}

// History returns one page of the register's merged history along with
// summary totals computed over the complete lists. Any source failure
// fails the whole query; a partially merged history would silently
// misreport totals and ordering.
func (s *LedgerService) History(ctx context.Context, registerID uuid.UUID, page, pageSize int) (*LedgerPageResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	register, err := s.registerRepo.FindByID(ctx, registerID)
	if err != nil {
		return nil, err
	}
	if register == nil {
		return nil, shared.NewDomainError("CASH_REGISTER_NOT_FOUND", "Cash register not found")
	}

	merged, totals, err := s.fetchAndMerge(ctx, register.ID)
	if err != nil {
		return nil, err
	}

	breakdown := treasury.ComputeBalance(
		register,
		totals[treasury.LedgerSourcePayment],
		totals[treasury.LedgerSourceExpensePayment],
		totals[treasury.LedgerSourceExpense],
	)

	pageEntries := treasury.PageOf(merged, page, pageSize)
	responses := make([]LedgerEntryResponse, 0, len(pageEntries))
	for _, entry := range pageEntries {
		responses = append(responses, ToLedgerEntryResponse(entry))
	}

	totalItems := int64(len(merged))
	totalPages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))

	return &LedgerPageResponse{
		RegisterID:   register.ID,
		Transactions: responses,
		Summary:      ToBalanceSummaryResponse(breakdown),
		Pagination: PaginationResponse{
			Page:       page,
			Limit:      pageSize,
			TotalItems: totalItems,
			TotalPages: totalPages,
		},
	}, nil
}

// FullHistory returns the register's complete merged history without
// pagination. Used by report generation, which needs every line.
func (s *LedgerService) FullHistory(ctx context.Context, registerID uuid.UUID) ([]LedgerEntryResponse, *BalanceSummaryResponse, error) {
	register, err := s.registerRepo.FindByID(ctx, registerID)
	if err != nil {
		return nil, nil, err
	}
	if register == nil {
		return nil, nil, shared.NewDomainError("CASH_REGISTER_NOT_FOUND", "Cash register not found")
	}

	merged, totals, err := s.fetchAndMerge(ctx, register.ID)
	if err != nil {
		return nil, nil, err
	}

	breakdown := treasury.ComputeBalance(
		register,
		totals[treasury.LedgerSourcePayment],
		totals[treasury.LedgerSourceExpensePayment],
		totals[treasury.LedgerSourceExpense],
	)

	responses := make([]LedgerEntryResponse, 0, len(merged))
	for _, entry := range merged {
		responses = append(responses, ToLedgerEntryResponse(entry))
	}

	summary := ToBalanceSummaryResponse(breakdown)
	return responses, &summary, nil
}

// fetchAndMerge loads the complete settled list from every source in
// parallel, then merges them into one deterministic ordering. Totals are
// summed from the same lists so summary and page always agree.
func (s *LedgerService) fetchAndMerge(ctx context.Context, registerID uuid.UUID) ([]treasury.LedgerEntry, map[treasury.LedgerSourceType]decimal.Decimal, error) {
	type sourceList struct {
		sourceType treasury.LedgerSourceType
		entries    []treasury.LedgerEntry
		err        error
	}

	results := make([]sourceList, len(s.sources))

	var wg sync.WaitGroup
	for i, source := range s.sources {
		wg.Add(1)
		go func(i int, source treasury.TransactionSource) {
			defer wg.Done()
			entries, err := source.ListSettledByRegister(ctx, registerID)
			results[i] = sourceList{sourceType: source.SourceType(), entries: entries, err: err}
		}(i, source)
	}
	wg.Wait()

	totals := map[treasury.LedgerSourceType]decimal.Decimal{
		treasury.LedgerSourcePayment:        decimal.Zero,
		treasury.LedgerSourceExpensePayment: decimal.Zero,
		treasury.LedgerSourceExpense:        decimal.Zero,
	}
	lists := make([][]treasury.LedgerEntry, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			return nil, nil, shared.WrapDomainError("SOURCE_UNAVAILABLE",
				fmt.Sprintf("Transaction source %s unavailable", r.sourceType), r.err)
		}
		lists = append(lists, r.entries)
		totals[r.sourceType] = treasury.SumEntries(r.entries)
	}

	return treasury.MergeEntries(lists...), totals, nil
}
