package treasury

import (
	"context"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/shared"
	"github.com/hotelier/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CashRegisterFilter defines filtering options for register list queries
type CashRegisterFilter struct {
	shared.Filter
	Status   *CashRegisterStatus
	Currency *valueobject.Currency
}

// CashRegisterRepository defines the interface for cash register persistence
type CashRegisterRepository interface {
	// FindByID finds a cash register by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CashRegister, error)

	// FindByCode finds a cash register by its unique code
	FindByCode(ctx context.Context, code string) (*CashRegister, error)

	// FindAll finds cash registers matching the filter
	FindAll(ctx context.Context, filter CashRegisterFilter) ([]CashRegister, error)

	// Count counts cash registers matching the filter
	Count(ctx context.Context, filter CashRegisterFilter) (int64, error)

	// Save creates or updates a cash register
	Save(ctx context.Context, register *CashRegister) error

	// UpdateCurrentBalance overwrites only the cached current balance of a
	// register. The write is a last-writer-wins overwrite (see
	// CashRegister.ApplyRecomputedBalance); it must not touch any other column.
	UpdateCurrentBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error

	// Delete soft deletes a cash register
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByCode checks whether a register code is already taken
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// TransactionSource is a read-only projection over one of the three
// independently-mutated transaction stores, scoped to a single register
// and filtered to the rows that count as settled for that source.
//
// Implementations must not paginate: the merge layer needs complete
// per-source lists (the three tables cannot be sorted and limited by one
// SQL query), and the calculator needs full-range sums.
type TransactionSource interface {
	// SourceType identifies which store this source projects
	SourceType() LedgerSourceType

	// ListSettledByRegister returns every settled entry for the register,
	// ordered by occurrence time descending. A register with no matching
	// rows yields an empty slice, not an error.
	ListSettledByRegister(ctx context.Context, registerID uuid.UUID) ([]LedgerEntry, error)

	// SumSettledByRegister returns the aggregate settled amount for the
	// register. Zero rows sum to zero, never null.
	SumSettledByRegister(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error)
}
