package expenses

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/shared"
	"github.com/hotelier/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExpensePayment represents a partial disbursement made against an
// expense, drawn from a cash register. Unlike expenses themselves,
// expense payments have no approval gate: every row attached to a
// register counts toward that register's balance from creation.
// A nil RegisterID means the disbursement is deferred and does not
// touch any register until one is assigned.
type ExpensePayment struct {
	shared.BaseAggregateRoot
	ExpenseID  uuid.UUID            `json:"expense_id"`
	RegisterID *uuid.UUID           `json:"register_id"`
	Amount     decimal.Decimal      `json:"amount"`
	Currency   valueobject.Currency `json:"currency"`
	PaidAt     time.Time            `json:"paid_at"`
	Note       string               `json:"note"`
}

// NewExpensePayment records a partial disbursement against an expense
func NewExpensePayment(
	expenseID uuid.UUID,
	registerID *uuid.UUID,
	amount valueobject.Money,
	paidAt time.Time,
	note string,
) (*ExpensePayment, error) {
	if expenseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EXPENSE", "Expense ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	payment := &ExpensePayment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ExpenseID:         expenseID,
		RegisterID:        registerID,
		Amount:            amount.Amount(),
		Currency:          amount.Currency(),
		PaidAt:            paidAt,
		Note:              note,
	}

	payment.AddDomainEvent(NewExpensePaymentRecordedEvent(payment))

	return payment, nil
}

// Update edits the disbursement amount and note
func (p *ExpensePayment) Update(amount valueobject.Money, paidAt time.Time, note string) error {
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}

	p.Amount = amount.Amount()
	p.Currency = amount.Currency()
	if !paidAt.IsZero() {
		p.PaidAt = paidAt
	}
	p.Note = note
	p.Touch()

	p.AddDomainEvent(NewExpensePaymentUpdatedEvent(p))

	return nil
}

// ReassignRegister moves the disbursement to another register, or
// defers it when registerID is nil. Both sides' balances become stale.
func (p *ExpensePayment) ReassignRegister(registerID *uuid.UUID) error {
	if equalRegisterRef(p.RegisterID, registerID) {
		return nil
	}

	previous := p.RegisterID
	p.RegisterID = registerID
	p.Touch()

	p.AddDomainEvent(NewExpensePaymentReassignedEvent(p, previous))

	return nil
}

// IsSettled returns true if this disbursement counts toward a register balance
func (p *ExpensePayment) IsSettled() bool {
	return p.RegisterID != nil
}

// GetAmountMoney returns the amount as Money
func (p *ExpensePayment) GetAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(p.Amount, p.Currency)
	return m
}
