package expenses

import (
	"context"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/shared"
)

// ExpenseFilter carries list filtering options for expenses
type ExpenseFilter struct {
	shared.Filter
	Status     ExpenseStatus
	Category   ExpenseCategory
	RegisterID *uuid.UUID
}

// ExpenseRepository defines persistence operations for expenses
type ExpenseRepository interface {
	// FindByID finds an expense by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)

	// FindByNumber finds an expense by its expense number
	FindByNumber(ctx context.Context, number string) (*Expense, error)

	// FindAll finds expenses matching the filter, incurred-date descending
	FindAll(ctx context.Context, filter ExpenseFilter) ([]*Expense, error)

	// Count counts expenses matching the filter
	Count(ctx context.Context, filter ExpenseFilter) (int64, error)

	// Save creates or updates an expense
	Save(ctx context.Context, expense *Expense) error

	// Delete removes an expense
	Delete(ctx context.Context, id uuid.UUID) error

	// NextExpenseNumber allocates the next sequential expense number
	// for the current month, formatted EXP-YYYYMM-NNNNN.
	NextExpenseNumber(ctx context.Context) (string, error)
}

// ExpensePaymentRepository defines persistence operations for partial disbursements
type ExpensePaymentRepository interface {
	// FindByID finds a disbursement by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ExpensePayment, error)

	// FindByExpense lists all disbursements recorded against an expense
	FindByExpense(ctx context.Context, expenseID uuid.UUID) ([]*ExpensePayment, error)

	// Save creates or updates a disbursement
	Save(ctx context.Context, payment *ExpensePayment) error

	// Delete removes a disbursement
	Delete(ctx context.Context, id uuid.UUID) error
}
