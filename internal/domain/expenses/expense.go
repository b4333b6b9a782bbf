package expenses

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/shared"
	"github.com/hotelier/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExpenseStatus represents the lifecycle status of an expense
type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "PENDING"
	ExpenseStatusApproved ExpenseStatus = "APPROVED"
	ExpenseStatusPaid     ExpenseStatus = "PAID"
	ExpenseStatusRejected ExpenseStatus = "REJECTED"
)

// IsValid checks if the status is a valid ExpenseStatus
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpenseStatusPending, ExpenseStatusApproved,
		ExpenseStatusPaid, ExpenseStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ExpenseStatus
func (s ExpenseStatus) String() string {
	return string(s)
}

// IsSettled returns true if expenses in this status count toward a
// register's balance and history. Approved and paid expenses do;
// pending and rejected ones never appear in a register's ledger.
func (s ExpenseStatus) IsSettled() bool {
	return s == ExpenseStatusApproved || s == ExpenseStatusPaid
}

// ExpenseCategory groups expenses for reporting
type ExpenseCategory string

const (
	CategorySupplies    ExpenseCategory = "SUPPLIES"
	CategoryMaintenance ExpenseCategory = "MAINTENANCE"
	CategoryUtilities   ExpenseCategory = "UTILITIES"
	CategoryPayroll     ExpenseCategory = "PAYROLL"
	CategoryFoodBev     ExpenseCategory = "FOOD_BEVERAGE"
	CategoryOther       ExpenseCategory = "OTHER"
)

// IsValid checks if the category is a valid ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case CategorySupplies, CategoryMaintenance, CategoryUtilities,
		CategoryPayroll, CategoryFoodBev, CategoryOther:
		return true
	}
	return false
}

// Expense represents an operating expense charged against a cash
// register. Once approved (and later paid) its full amount is deducted
// from the register's balance.
type Expense struct {
	shared.BaseAggregateRoot
	ExpenseNumber string               `json:"expense_number"`
	Label         string               `json:"label"`
	Category      ExpenseCategory      `json:"category"`
	Amount        decimal.Decimal      `json:"amount"`
	Currency      valueobject.Currency `json:"currency"`
	Status        ExpenseStatus        `json:"status"`
	RegisterID    *uuid.UUID           `json:"register_id"`
	SupplierName  string               `json:"supplier_name"`
	IncurredAt    time.Time            `json:"incurred_at"`
	ApprovedAt    *time.Time           `json:"approved_at"`
	ApprovedBy    *uuid.UUID           `json:"approved_by"`
	PaidAt        *time.Time           `json:"paid_at"`
	RejectedAt    *time.Time           `json:"rejected_at"`
	RejectReason  string               `json:"reject_reason"`
}

// NewExpense records a new expense in pending status
func NewExpense(
	expenseNumber string,
	label string,
	category ExpenseCategory,
	amount valueobject.Money,
	registerID *uuid.UUID,
	supplierName string,
	incurredAt time.Time,
) (*Expense, error) {
	if expenseNumber == "" {
		return nil, shared.NewDomainError("INVALID_EXPENSE_NUMBER", "Expense number cannot be empty")
	}
	if label == "" {
		return nil, shared.NewDomainError("INVALID_LABEL", "Expense label cannot be empty")
	}
	if len(label) > 200 {
		return nil, shared.NewDomainError("INVALID_LABEL", "Expense label cannot exceed 200 characters")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category is not valid")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if incurredAt.IsZero() {
		incurredAt = time.Now()
	}

	expense := &Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ExpenseNumber:     expenseNumber,
		Label:             label,
		Category:          category,
		Amount:            amount.Amount(),
		Currency:          amount.Currency(),
		Status:            ExpenseStatusPending,
		RegisterID:        registerID,
		SupplierName:      supplierName,
		IncurredAt:        incurredAt,
	}

	expense.AddDomainEvent(NewExpenseRecordedEvent(expense))

	return expense, nil
}

// Approve approves a pending expense; from this point its amount is
// deducted from the register's balance.
func (e *Expense) Approve(approvedBy uuid.UUID) error {
	if e.Status != ExpenseStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot approve expense in %s status", e.Status))
	}
	if approvedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Approver user ID cannot be empty")
	}

	now := time.Now()
	e.Status = ExpenseStatusApproved
	e.ApprovedAt = &now
	e.ApprovedBy = &approvedBy
	e.Touch()

	e.AddDomainEvent(NewExpenseApprovedEvent(e))

	return nil
}

// MarkPaid marks an approved expense as paid out. The deduction does
// not change, only the lifecycle state.
func (e *Expense) MarkPaid() error {
	if e.Status != ExpenseStatusApproved {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot pay expense in %s status", e.Status))
	}

	now := time.Now()
	e.Status = ExpenseStatusPaid
	e.PaidAt = &now
	e.Touch()

	e.AddDomainEvent(NewExpensePaidEvent(e))

	return nil
}

// Reject rejects a pending expense
func (e *Expense) Reject(reason string) error {
	if e.Status != ExpenseStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot reject expense in %s status", e.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}

	now := time.Now()
	e.Status = ExpenseStatusRejected
	e.RejectedAt = &now
	e.RejectReason = reason
	e.Touch()

	e.AddDomainEvent(NewExpenseRejectedEvent(e))

	return nil
}

// Update edits the mutable details of a pending expense
func (e *Expense) Update(
	label string,
	category ExpenseCategory,
	amount valueobject.Money,
	supplierName string,
	incurredAt time.Time,
) error {
	if e.Status != ExpenseStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Can only update a pending expense")
	}
	if label == "" {
		return shared.NewDomainError("INVALID_LABEL", "Expense label cannot be empty")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Expense category is not valid")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}

	e.Label = label
	e.Category = category
	e.Amount = amount.Amount()
	e.Currency = amount.Currency()
	e.SupplierName = supplierName
	if !incurredAt.IsZero() {
		e.IncurredAt = incurredAt
	}
	e.Touch()

	return nil
}

// ReassignRegister moves the expense to another register. Both the
// previous and the new register's balances become stale.
func (e *Expense) ReassignRegister(registerID *uuid.UUID) error {
	if e.Status == ExpenseStatusRejected {
		return shared.NewDomainError("INVALID_STATE", "Cannot reassign a rejected expense")
	}
	if equalRegisterRef(e.RegisterID, registerID) {
		return nil
	}

	previous := e.RegisterID
	e.RegisterID = registerID
	e.Touch()

	e.AddDomainEvent(NewExpenseReassignedEvent(e, previous))

	return nil
}

// IsSettled returns true if this expense counts toward a register balance
func (e *Expense) IsSettled() bool {
	return e.Status.IsSettled() && e.RegisterID != nil
}

// GetAmountMoney returns the amount as Money
func (e *Expense) GetAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(e.Amount, e.Currency)
	return m
}

func equalRegisterRef(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
