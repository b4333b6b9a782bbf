package treasury

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/treasury"
	"github.com/shopspring/decimal"
)

// CashRegisterResponse is the API representation of a cash register
type CashRegisterResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Code           string          `json:"code"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	CurrentBalance decimal.Decimal `json:"calculatedBalance"`
	Status         string          `json:"status"`
	ManagerID      *uuid.UUID      `json:"managerId,omitempty"`
	Description    string          `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ToCashRegisterResponse maps a register aggregate to its API form
func ToCashRegisterResponse(r *treasury.CashRegister) CashRegisterResponse {
	return CashRegisterResponse{
		ID:             r.ID,
		Name:           r.Name,
		Code:           r.Code,
		Currency:       r.Currency.String(),
		InitialBalance: r.InitialBalance,
		CurrentBalance: r.CurrentBalance,
		Status:         r.Status.String(),
		ManagerID:      r.ManagerID,
		Description:    r.Description,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// CashRegisterDetailResponse is the register detail with a freshness flag.
// BalanceStale is true when the on-read refresh failed and the cached
// balance is being served instead.
type CashRegisterDetailResponse struct {
	CashRegisterResponse
	BalanceStale bool `json:"balanceStale"`
}

// LedgerEntryResponse is one line of the merged transaction history
type LedgerEntryResponse struct {
	ID          string          `json:"id"`
	SourceType  string          `json:"sourceType"`
	NativeType  string          `json:"nativeType"`
	SourceID    uuid.UUID       `json:"sourceId"`
	Amount      decimal.Decimal `json:"amount"`
	Signed      decimal.Decimal `json:"signedAmount"`
	Currency    string          `json:"currency"`
	Date        time.Time       `json:"occurredAt"`
	Reference   string          `json:"reference,omitempty"`
	Description string          `json:"description,omitempty"`
}

// ToLedgerEntryResponse maps a merged ledger entry to its API form
func ToLedgerEntryResponse(e treasury.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:          e.CombinedID(),
		SourceType:  e.SourceType.String(),
		NativeType:  e.SourceType.NativeType(),
		SourceID:    e.SourceID,
		Amount:      e.Amount,
		Signed:      e.SignedAmount(),
		Currency:    e.Currency.String(),
		Date:        e.OccurredAt,
		Reference:   e.Reference,
		Description: e.Description,
	}
}

// BalanceSummaryResponse carries the per-source totals computed over the
// complete (unpaginated) history alongside the derived balance
type BalanceSummaryResponse struct {
	Incoming            decimal.Decimal `json:"incoming"`
	Partial             decimal.Decimal `json:"partial"`
	Expenses            decimal.Decimal `json:"expenses"`
	ExpensesPlusPartial decimal.Decimal `json:"expensesPlusPartial"`
	InitialBalance      decimal.Decimal `json:"initialBalance"`
	CalculatedBalance   decimal.Decimal `json:"calculatedBalance"`
}

// ToBalanceSummaryResponse maps a balance breakdown to its API form
func ToBalanceSummaryResponse(b treasury.BalanceBreakdown) BalanceSummaryResponse {
	return BalanceSummaryResponse{
		Incoming:            b.IncomingTotal,
		Partial:             b.ExpensePaymentTotal,
		Expenses:            b.ExpenseTotal,
		ExpensesPlusPartial: b.Disbursed(),
		InitialBalance:      b.InitialBalance,
		CalculatedBalance:   b.CurrentBalance,
	}
}

// PaginationResponse describes the slice returned out of the full merged list
type PaginationResponse struct {
	Page       int   `json:"currentPage"`
	Limit      int   `json:"itemsPerPage"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// LedgerPageResponse is one page of merged history plus full-range summary
type LedgerPageResponse struct {
	RegisterID   uuid.UUID              `json:"registerId"`
	Transactions []LedgerEntryResponse  `json:"transactions"`
	Summary      BalanceSummaryResponse `json:"summary"`
	Pagination   PaginationResponse     `json:"pagination"`
}

// LedgerExportResponse is the complete unpaginated history of a register
type LedgerExportResponse struct {
	Transactions []LedgerEntryResponse  `json:"transactions"`
	Summary      BalanceSummaryResponse `json:"summary"`
}
