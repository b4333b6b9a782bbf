package expenses

import (
	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/shared"
)

const (
	EventTypeExpenseRecorded   = "expenses.expense.recorded"
	EventTypeExpenseApproved   = "expenses.expense.approved"
	EventTypeExpensePaid       = "expenses.expense.paid"
	EventTypeExpenseRejected   = "expenses.expense.rejected"
	EventTypeExpenseReassigned = "expenses.expense.reassigned"
	EventTypeExpenseDeleted    = "expenses.expense.deleted"

	EventTypeExpensePaymentRecorded   = "expenses.expense_payment.recorded"
	EventTypeExpensePaymentUpdated    = "expenses.expense_payment.updated"
	EventTypeExpensePaymentReassigned = "expenses.expense_payment.reassigned"
	EventTypeExpensePaymentDeleted    = "expenses.expense_payment.deleted"
)

const (
	aggregateTypeExpense        = "Expense"
	aggregateTypeExpensePayment = "ExpensePayment"
)

// ExpenseRecordedEvent is published when an expense is first recorded
type ExpenseRecordedEvent struct {
	shared.BaseDomainEvent
	ExpenseNumber string     `json:"expense_number"`
	RegisterID    *uuid.UUID `json:"register_id"`
	Amount        string     `json:"amount"`
	Currency      string     `json:"currency"`
}

// NewExpenseRecordedEvent creates a new ExpenseRecordedEvent
func NewExpenseRecordedEvent(e *Expense) *ExpenseRecordedEvent {
	return &ExpenseRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseRecorded, aggregateTypeExpense, e.ID),
		ExpenseNumber:   e.ExpenseNumber,
		RegisterID:      copyRegisterRef(e.RegisterID),
		Amount:          e.Amount.String(),
		Currency:        e.Currency.String(),
	}
}

// AffectedRegisterIDs returns the registers whose balances this event may invalidate
func (e *ExpenseRecordedEvent) AffectedRegisterIDs() []uuid.UUID {
	return collectRegisterIDs(e.RegisterID)
}

// ExpenseApprovedEvent is published when an expense is approved. The
// expense now deducts from its register's balance.
type ExpenseApprovedEvent struct {
	shared.BaseDomainEvent
	ExpenseNumber string     `json:"expense_number"`
	RegisterID    *uuid.UUID `json:"register_id"`
	ApprovedBy    uuid.UUID  `json:"approved_by"`
}

// NewExpenseApprovedEvent creates a new ExpenseApprovedEvent
func NewExpenseApprovedEvent(e *Expense) *ExpenseApprovedEvent {
	var by uuid.UUID
	if e.ApprovedBy != nil {
		by = *e.ApprovedBy
	}
	return &ExpenseApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseApproved, aggregateTypeExpense, e.ID),
		ExpenseNumber:   e.ExpenseNumber,
		RegisterID:      copyRegisterRef(e.RegisterID),
		ApprovedBy:      by,
	}
}

// AffectedRegisterIDs returns the registers whose balances this event may invalidate
func (e *ExpenseApprovedEvent) AffectedRegisterIDs() []uuid.UUID {
	return collectRegisterIDs(e.RegisterID)
}

// ExpensePaidEvent is published when an approved expense is paid out
type ExpensePaidEvent struct {
	shared.BaseDomainEvent
	ExpenseNumber string     `json:"expense_number"`
	RegisterID    *uuid.UUID `json:"register_id"`
}

// NewExpensePaidEvent creates a new ExpensePaidEvent
func NewExpensePaidEvent(e *Expense) *ExpensePaidEvent {
	return &ExpensePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpensePaid, aggregateTypeExpense, e.ID),
		ExpenseNumber:   e.ExpenseNumber,
		RegisterID:      copyRegisterRef(e.RegisterID),
	}
}

// AffectedRegisterIDs returns the registers whose balances this event may invalidate
func (e *ExpensePaidEvent) AffectedRegisterIDs() []uuid.UUID {
	return collectRegisterIDs(e.RegisterID)
}

// ExpenseRejectedEvent is published when a pending expense is rejected
type ExpenseRejectedEvent struct {
	shared.BaseDomainEvent
	ExpenseNumber string     `json:"expense_number"`
	RegisterID    *uuid.UUID `json:"register_id"`
	Reason        string     `json:"reason"`
}

// NewExpenseRejectedEvent creates a new ExpenseRejectedEvent
func NewExpenseRejectedEvent(e *Expense) *ExpenseRejectedEvent {
	return &ExpenseRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseRejected, aggregateTypeExpense, e.ID),
		ExpenseNumber:   e.ExpenseNumber,
		RegisterID:      copyRegisterRef(e.RegisterID),
		Reason:          e.RejectReason,
	}
}

// AffectedRegisterIDs returns the registers whose balances this event may invalidate
func (e *ExpenseRejectedEvent) AffectedRegisterIDs() []uuid.UUID {
	return collectRegisterIDs(e.RegisterID)
}

// ExpenseReassignedEvent is published when an expense moves between
// registers. Both sides need their balances recomputed.
type ExpenseReassignedEvent struct {
	shared.BaseDomainEvent
	ExpenseNumber      string     `json:"expense_number"`
	PreviousRegisterID *uuid.UUID `json:"previous_register_id"`
	NewRegisterID      *uuid.UUID `json:"new_register_id"`
}

// NewExpenseReassignedEvent creates a new ExpenseReassignedEvent
func NewExpenseReassignedEvent(e *Expense, previous *uuid.UUID) *ExpenseReassignedEvent {
	return &ExpenseReassignedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeExpenseReassigned, aggregateTypeExpense, e.ID),
		ExpenseNumber:      e.ExpenseNumber,
		PreviousRegisterID: copyRegisterRef(previous),
		NewRegisterID:      copyRegisterRef(e.RegisterID),
	}
}

// AffectedRegisterIDs returns both the previous and the new register
func (e *ExpenseReassignedEvent) AffectedRegisterIDs() []uuid.UUID {
	return collectRegisterIDs(e.PreviousRegisterID, e.NewRegisterID)
}

// ExpenseDeletedEvent is published when an expense is hard-deleted
type ExpenseDeletedEvent struct {
	shared.BaseDomainEvent
	ExpenseNumber string     `json:"expense_number"`
	RegisterID    *uuid.UUID `json:"register_id"`
	WasSettled    bool       `json:"was_settled"`
}

// NewExpenseDeletedEvent creates a new ExpenseDeletedEvent
func NewExpenseDeletedEvent(e *Expense) *ExpenseDeletedEvent {
	return &ExpenseDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseDeleted, aggregateTypeExpense, e.ID),
		ExpenseNumber:   e.ExpenseNumber,
		RegisterID:      copyRegisterRef(e.RegisterID),
		WasSettled:      e.IsSettled(),
	}
}

// AffectedRegisterIDs returns the registers whose balances this event may invalidate
func (e *ExpenseDeletedEvent) AffectedRegisterIDs() []uuid.UUID {
	return collectRegisterIDs(e.RegisterID)
}

// ExpensePaymentRecordedEvent is published when a partial disbursement
// is recorded against an expense
type ExpensePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	ExpenseID  uuid.UUID  `json:"expense_id"`
	RegisterID *uuid.UUID `json:"register_id"`
	Amount     string     `json:"amount"`
	Currency   string     `json:"currency"`
}

// NewExpensePaymentRecordedEvent creates a new ExpensePaymentRecordedEvent
func NewExpensePaymentRecordedEvent(p *ExpensePayment) *ExpensePaymentRecordedEvent {
	return &ExpensePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpensePaymentRecorded, aggregateTypeExpensePayment, p.ID),
		ExpenseID:       p.ExpenseID,
		RegisterID:      copyRegisterRef(p.RegisterID),
		Amount:          p.Amount.String(),
		Currency:        p.Currency.String(),
	}
}

// AffectedRegisterIDs returns the registers whose balances this event may invalidate
func (e *ExpensePaymentRecordedEvent) AffectedRegisterIDs() []uuid.UUID {
	return collectRegisterIDs(e.RegisterID)
}

// ExpensePaymentUpdatedEvent is published when a disbursement's amount
// or details change
type ExpensePaymentUpdatedEvent struct {
	shared.BaseDomainEvent
	ExpenseID  uuid.UUID  `json:"expense_id"`
	RegisterID *uuid.UUID `json:"register_id"`
	Amount     string     `json:"amount"`
}

// NewExpensePaymentUpdatedEvent creates a new ExpensePaymentUpdatedEvent
func NewExpensePaymentUpdatedEvent(p *ExpensePayment) *ExpensePaymentUpdatedEvent {
	return &ExpensePaymentUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpensePaymentUpdated, aggregateTypeExpensePayment, p.ID),
		ExpenseID:       p.ExpenseID,
		RegisterID:      copyRegisterRef(p.RegisterID),
		Amount:          p.Amount.String(),
	}
}

// AffectedRegisterIDs returns the registers whose balances this event may invalidate
func (e *ExpensePaymentUpdatedEvent) AffectedRegisterIDs() []uuid.UUID {
	return collectRegisterIDs(e.RegisterID)
}

// ExpensePaymentReassignedEvent is published when a disbursement moves
// between registers. Both sides need their balances recomputed.
type ExpensePaymentReassignedEvent struct {
	shared.BaseDomainEvent
	ExpenseID          uuid.UUID  `json:"expense_id"`
	PreviousRegisterID *uuid.UUID `json:"previous_register_id"`
	NewRegisterID      *uuid.UUID `json:"new_register_id"`
}

// NewExpensePaymentReassignedEvent creates a new ExpensePaymentReassignedEvent
func NewExpensePaymentReassignedEvent(p *ExpensePayment, previous *uuid.UUID) *ExpensePaymentReassignedEvent {
	return &ExpensePaymentReassignedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeExpensePaymentReassigned, aggregateTypeExpensePayment, p.ID),
		ExpenseID:          p.ExpenseID,
		PreviousRegisterID: copyRegisterRef(previous),
		NewRegisterID:      copyRegisterRef(p.RegisterID),
	}
}

// AffectedRegisterIDs returns both the previous and the new register
func (e *ExpensePaymentReassignedEvent) AffectedRegisterIDs() []uuid.UUID {
	return collectRegisterIDs(e.PreviousRegisterID, e.NewRegisterID)
}

// ExpensePaymentDeletedEvent is published when a disbursement is hard-deleted
type ExpensePaymentDeletedEvent struct {
	shared.BaseDomainEvent
	ExpenseID  uuid.UUID  `json:"expense_id"`
	RegisterID *uuid.UUID `json:"register_id"`
}

// NewExpensePaymentDeletedEvent creates a new ExpensePaymentDeletedEvent
func NewExpensePaymentDeletedEvent(p *ExpensePayment) *ExpensePaymentDeletedEvent {
	return &ExpensePaymentDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpensePaymentDeleted, aggregateTypeExpensePayment, p.ID),
		ExpenseID:       p.ExpenseID,
		RegisterID:      copyRegisterRef(p.RegisterID),
	}
}

// AffectedRegisterIDs returns the registers whose balances this event may invalidate
func (e *ExpensePaymentDeletedEvent) AffectedRegisterIDs() []uuid.UUID {
	return collectRegisterIDs(e.RegisterID)
}

func copyRegisterRef(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func collectRegisterIDs(ids ...*uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == nil {
			continue
		}
		seen := false
		for _, existing := range out {
			if existing == *id {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, *id)
		}
	}
	return out
}
