package treasury

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/shared"
	"github.com/hotelier/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CashRegisterStatus represents the operational status of a cash register
type CashRegisterStatus string

const (
	CashRegisterStatusActive      CashRegisterStatus = "ACTIVE"
	CashRegisterStatusInactive    CashRegisterStatus = "INACTIVE"
	CashRegisterStatusMaintenance CashRegisterStatus = "MAINTENANCE"
	CashRegisterStatusClosed      CashRegisterStatus = "CLOSED"
)

// IsValid checks if the status is a valid CashRegisterStatus
func (s CashRegisterStatus) IsValid() bool {
	switch s {
	case CashRegisterStatusActive, CashRegisterStatusInactive,
		CashRegisterStatusMaintenance, CashRegisterStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of CashRegisterStatus
func (s CashRegisterStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further status transitions are allowed
func (s CashRegisterStatus) IsTerminal() bool {
	return s == CashRegisterStatusClosed
}

// AcceptsTransactions returns true if new transactions may be attached
// to a register in this status
func (s CashRegisterStatus) AcceptsTransactions() bool {
	return s == CashRegisterStatusActive
}

// CashRegister represents a caisse: an accounting unit holding an initial
// and a current balance in a single currency.
//
// CurrentBalance is a cached projection derived from the settled rows of
// the three transaction sources. It is written only by the balance
// recomputation path and must never be treated as a source of truth.
type CashRegister struct {
	shared.BaseAggregateRoot
	Name           string               `json:"name"`
	Code           string               `json:"code"`
	Currency       valueobject.Currency `json:"currency"`
	InitialBalance decimal.Decimal      `json:"initial_balance"`
	CurrentBalance decimal.Decimal      `json:"current_balance"`
	Status         CashRegisterStatus   `json:"status"`
	ManagerID      *uuid.UUID           `json:"manager_id"`
	Description    string               `json:"description"`
}

// NewCashRegister creates a new cash register.
// The current balance starts equal to the initial balance.
func NewCashRegister(
	name string,
	code string,
	currency valueobject.Currency,
	initialBalance decimal.Decimal,
) (*CashRegister, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Register name cannot be empty")
	}
	if len(name) > 120 {
		return nil, shared.NewDomainError("INVALID_NAME", "Register name cannot exceed 120 characters")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Register code cannot be empty")
	}
	if len(code) > 30 {
		return nil, shared.NewDomainError("INVALID_CODE", "Register code cannot exceed 30 characters")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency is not supported")
	}

	register := &CashRegister{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Code:              code,
		Currency:          currency,
		InitialBalance:    initialBalance,
		CurrentBalance:    initialBalance,
		Status:            CashRegisterStatusActive,
	}

	register.AddDomainEvent(NewCashRegisterCreatedEvent(register))

	return register, nil
}

// Update changes the register's display name and description
func (r *CashRegister) Update(name, description string) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a closed register")
	}
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Register name cannot be empty")
	}
	if len(name) > 120 {
		return shared.NewDomainError("INVALID_NAME", "Register name cannot exceed 120 characters")
	}

	r.Name = name
	r.Description = description
	r.Touch()

	return nil
}

// AssignManager sets the optional owning manager
func (r *CashRegister) AssignManager(managerID uuid.UUID) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a closed register")
	}
	if managerID == uuid.Nil {
		return shared.NewDomainError("INVALID_MANAGER", "Manager ID cannot be empty")
	}
	r.ManagerID = &managerID
	r.Touch()
	return nil
}

// AdjustInitialBalance changes the opening balance of the register.
// Since the current balance is derived from the initial balance, every
// adjustment must be followed by a recomputation; the emitted event
// carries the register so the recalculation handler picks it up.
func (r *CashRegister) AdjustInitialBalance(newInitial decimal.Decimal) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot adjust a closed register")
	}
	if r.InitialBalance.Equal(newInitial) {
		return nil
	}

	previous := r.InitialBalance
	r.InitialBalance = newInitial
	r.Touch()

	r.AddDomainEvent(NewCashRegisterInitialBalanceAdjustedEvent(r, previous))

	return nil
}

// ChangeStatus transitions the register to a new status
func (r *CashRegister) ChangeStatus(newStatus CashRegisterStatus) error {
	if !newStatus.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Register status is not valid")
	}
	if r.Status == newStatus {
		return nil
	}
	if r.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition register out of %s status", r.Status))
	}

	previous := r.Status
	r.Status = newStatus
	r.Touch()

	r.AddDomainEvent(NewCashRegisterStatusChangedEvent(r, previous))

	return nil
}

// ApplyRecomputedBalance overwrites the cached current balance with a
// freshly derived value. The write is an idempotent overwrite: any writer
// produces the same value given the same underlying source data, so last
// writer wins is correct without locking.
func (r *CashRegister) ApplyRecomputedBalance(balance decimal.Decimal) {
	r.CurrentBalance = balance
	r.Touch()
}

// IsClosed returns true if the register is closed
func (r *CashRegister) IsClosed() bool {
	return r.Status == CashRegisterStatusClosed
}

// IsActive returns true if the register is active
func (r *CashRegister) IsActive() bool {
	return r.Status == CashRegisterStatusActive
}
