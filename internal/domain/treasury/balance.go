package treasury

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BalanceBreakdown is the result of one balance recomputation: the three
// per-source aggregates and the balance they derive, captured over a
// single snapshot of the source tables.
type BalanceBreakdown struct {
	RegisterID          uuid.UUID            `json:"register_id"`
	Currency            valueobject.Currency `json:"currency"`
	InitialBalance      decimal.Decimal      `json:"initial_balance"`
	IncomingTotal       decimal.Decimal      `json:"incoming_total"`
	ExpensePaymentTotal decimal.Decimal      `json:"expense_payment_total"`
	ExpenseTotal        decimal.Decimal      `json:"expense_total"`
	CurrentBalance      decimal.Decimal      `json:"current_balance"`
	ComputedAt          time.Time            `json:"computed_at"`
}

// Disbursed returns the combined outgoing total (expenses plus partial
// disbursements)
func (b BalanceBreakdown) Disbursed() decimal.Decimal {
	return b.ExpenseTotal.Add(b.ExpensePaymentTotal)
}

// ComputeBalance derives a register's balance from the three source
// aggregates:
//
//	current = initial + incoming − partial − expenses
//
// It is a pure function of its inputs; recomputing over the same snapshot
// always yields a decimal-exact identical result.
func ComputeBalance(register *CashRegister, incoming, expensePayments, expenses decimal.Decimal) BalanceBreakdown {
	current := register.InitialBalance.
		Add(incoming).
		Sub(expensePayments).
		Sub(expenses)

	return BalanceBreakdown{
		RegisterID:          register.ID,
		Currency:            register.Currency,
		InitialBalance:      register.InitialBalance,
		IncomingTotal:       incoming,
		ExpensePaymentTotal: expensePayments,
		ExpenseTotal:        expenses,
		CurrentBalance:      current,
		ComputedAt:          time.Now(),
	}
}
