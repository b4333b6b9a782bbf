package treasury

import (
	"github.com/hotelier/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the treasury domain
const (
	EventTypeCashRegisterCreated                 = "treasury.cash_register.created"
	EventTypeCashRegisterStatusChanged          = "treasury.cash_register.status_changed"
	EventTypeCashRegisterInitialBalanceAdjusted = "treasury.cash_register.initial_balance_adjusted"
)

const aggregateTypeCashRegister = "CashRegister"

// CashRegisterCreatedEvent is emitted when a new register is opened
type CashRegisterCreatedEvent struct {
	shared.BaseDomainEvent
	Name           string          `json:"name"`
	Code           string          `json:"code"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// NewCashRegisterCreatedEvent creates a CashRegisterCreatedEvent
func NewCashRegisterCreatedEvent(r *CashRegister) *CashRegisterCreatedEvent {
	return &CashRegisterCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCashRegisterCreated, aggregateTypeCashRegister, r.ID),
		Name:            r.Name,
		Code:            r.Code,
		Currency:        string(r.Currency),
		InitialBalance:  r.InitialBalance,
	}
}

// CashRegisterStatusChangedEvent is emitted on a status transition
type CashRegisterStatusChangedEvent struct {
	shared.BaseDomainEvent
	PreviousStatus CashRegisterStatus `json:"previous_status"`
	NewStatus      CashRegisterStatus `json:"new_status"`
}

// NewCashRegisterStatusChangedEvent creates a CashRegisterStatusChangedEvent
func NewCashRegisterStatusChangedEvent(r *CashRegister, previous CashRegisterStatus) *CashRegisterStatusChangedEvent {
	return &CashRegisterStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCashRegisterStatusChanged, aggregateTypeCashRegister, r.ID),
		PreviousStatus:  previous,
		NewStatus:       r.Status,
	}
}

// CashRegisterInitialBalanceAdjustedEvent is emitted when the opening
// balance is edited; the derived current balance must be recomputed.
type CashRegisterInitialBalanceAdjustedEvent struct {
	shared.BaseDomainEvent
	PreviousInitialBalance decimal.Decimal `json:"previous_initial_balance"`
	NewInitialBalance      decimal.Decimal `json:"new_initial_balance"`
}

// NewCashRegisterInitialBalanceAdjustedEvent creates a CashRegisterInitialBalanceAdjustedEvent
func NewCashRegisterInitialBalanceAdjustedEvent(r *CashRegister, previous decimal.Decimal) *CashRegisterInitialBalanceAdjustedEvent {
	return &CashRegisterInitialBalanceAdjustedEvent{
		BaseDomainEvent:        shared.NewBaseDomainEvent(EventTypeCashRegisterInitialBalanceAdjusted, aggregateTypeCashRegister, r.ID),
		PreviousInitialBalance: previous,
		NewInitialBalance:      r.InitialBalance,
	}
}
