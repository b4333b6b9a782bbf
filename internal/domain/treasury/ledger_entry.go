package treasury

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LedgerSourceType identifies which of the three transaction stores a
// merged ledger entry originates from. The three stores share no ledger
// table and no identifier space; the pair (source type, native ID) is the
// only combined identity an entry has.
type LedgerSourceType string

const (
	// LedgerSourcePayment is a validated incoming payment (credit)
	LedgerSourcePayment LedgerSourceType = "PAYMENT"
	// LedgerSourceExpensePayment is a partial disbursement against an expense (debit)
	LedgerSourceExpensePayment LedgerSourceType = "EXPENSE_PAYMENT"
	// LedgerSourceExpense is an approved or paid expense (debit)
	LedgerSourceExpense LedgerSourceType = "EXPENSE"
)

// IsValid checks if the source type is valid
func (t LedgerSourceType) IsValid() bool {
	switch t {
	case LedgerSourcePayment, LedgerSourceExpensePayment, LedgerSourceExpense:
		return true
	}
	return false
}

// String returns the string representation of LedgerSourceType
func (t LedgerSourceType) String() string {
	return string(t)
}

// IsCredit returns true if entries from this source increase the balance
func (t LedgerSourceType) IsCredit() bool {
	return t == LedgerSourcePayment
}

// NativeType returns the display classification of the source:
// incoming payments show as "Payment", expenses and their partial
// disbursements both show as "Expense".
func (t LedgerSourceType) NativeType() string {
	if t == LedgerSourcePayment {
		return "Payment"
	}
	return "Expense"
}

// sortRank orders source types deterministically when occurrence times tie
func (t LedgerSourceType) sortRank() int {
	switch t {
	case LedgerSourcePayment:
		return 0
	case LedgerSourceExpensePayment:
		return 1
	default:
		return 2
	}
}

// LedgerEntry is one settled record projected out of a transaction source,
// normalized for merging. Amount is always a positive magnitude; the sign
// is derived from the source type.
type LedgerEntry struct {
	SourceType  LedgerSourceType     `json:"source_type"`
	SourceID    uuid.UUID            `json:"source_id"`
	Amount      decimal.Decimal      `json:"amount"`
	Currency    valueobject.Currency `json:"currency"`
	OccurredAt  time.Time            `json:"occurred_at"`
	Reference   string               `json:"reference"`
	Description string               `json:"description"`
}

// CombinedID returns the synthetic identity of the entry, unique across
// all three sources. Display-only; never persisted.
func (e LedgerEntry) CombinedID() string {
	return fmt.Sprintf("%s:%s", e.SourceType, e.SourceID)
}

// SignedAmount returns the amount with the sign implied by the source type
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if e.SourceType.IsCredit() {
		return e.Amount
	}
	return e.Amount.Neg()
}

// MergeEntries concatenates per-source entry lists into one sequence
// sorted by occurrence time descending. Ties are broken by source type
// and then native ID so repeated merges of the same data are
// byte-for-byte identical.
func MergeEntries(lists ...[]LedgerEntry) []LedgerEntry {
	size := 0
	for _, l := range lists {
		size += len(l)
	}
	merged := make([]LedgerEntry, 0, size)
	for _, l := range lists {
		merged = append(merged, l...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.After(b.OccurredAt)
		}
		if a.SourceType != b.SourceType {
			return a.SourceType.sortRank() < b.SourceType.sortRank()
		}
		return a.SourceID.String() < b.SourceID.String()
	})

	return merged
}

// PageOf slices the requested 1-based page out of a merged sequence.
// Pages past the end return an empty slice, never an error.
func PageOf(entries []LedgerEntry, page, pageSize int) []LedgerEntry {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	offset := (page - 1) * pageSize
	if offset >= len(entries) {
		return []LedgerEntry{}
	}
	end := offset + pageSize
	if end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end]
}

// SumEntries returns the total magnitude of a list of entries
func SumEntries(entries []LedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}
