package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/expenses"
	"github.com/hotelier/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExpenseModel is the persistence model for the Expense aggregate root.
type ExpenseModel struct {
	AggregateModel
	ExpenseNumber string                   `gorm:"type:varchar(50);not null;uniqueIndex"`
	Label         string                   `gorm:"type:varchar(200);not null"`
	Category      expenses.ExpenseCategory `gorm:"type:varchar(30);not null;index"`
	Amount        decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	Currency      valueobject.Currency     `gorm:"type:varchar(3);not null;default:'XOF'"`
	Status        expenses.ExpenseStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_expenses_status_register"`
	RegisterID    *uuid.UUID               `gorm:"type:uuid;index:idx_expenses_status_register"`
	SupplierName  string                   `gorm:"type:varchar(200)"`
	IncurredAt    time.Time                `gorm:"not null;index"`
	ApprovedAt    *time.Time
	ApprovedBy    *uuid.UUID `gorm:"type:uuid"`
	PaidAt        *time.Time
	RejectedAt    *time.Time
	RejectReason  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense entity.
func (m *ExpenseModel) ToDomain() *expenses.Expense {
	expense := &expenses.Expense{
		ExpenseNumber: m.ExpenseNumber,
		Label:         m.Label,
		Category:      m.Category,
		Amount:        m.Amount,
		Currency:      m.Currency,
		Status:        m.Status,
		RegisterID:    m.RegisterID,
		SupplierName:  m.SupplierName,
		IncurredAt:    m.IncurredAt,
		ApprovedAt:    m.ApprovedAt,
		ApprovedBy:    m.ApprovedBy,
		PaidAt:        m.PaidAt,
		RejectedAt:    m.RejectedAt,
		RejectReason:  m.RejectReason,
	}
	m.PopulateAggregateRoot(&expense.BaseAggregateRoot)
	return expense
}

// FromDomain populates the persistence model from a domain Expense entity.
func (m *ExpenseModel) FromDomain(expense *expenses.Expense) {
	m.FromDomainAggregateRoot(expense.BaseAggregateRoot)
	m.ExpenseNumber = expense.ExpenseNumber
	m.Label = expense.Label
	m.Category = expense.Category
	m.Amount = expense.Amount
	m.Currency = expense.Currency
	m.Status = expense.Status
	m.RegisterID = expense.RegisterID
	m.SupplierName = expense.SupplierName
	m.IncurredAt = expense.IncurredAt
	m.ApprovedAt = expense.ApprovedAt
	m.ApprovedBy = expense.ApprovedBy
	m.PaidAt = expense.PaidAt
	m.RejectedAt = expense.RejectedAt
	m.RejectReason = expense.RejectReason
}

// ExpenseModelFromDomain creates a new persistence model from a domain Expense.
func ExpenseModelFromDomain(expense *expenses.Expense) *ExpenseModel {
	m := &ExpenseModel{}
	m.FromDomain(expense)
	return m
}

// ExpensePaymentModel is the persistence model for the ExpensePayment aggregate root.
type ExpensePaymentModel struct {
	AggregateModel
	ExpenseID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	RegisterID *uuid.UUID           `gorm:"type:uuid;index"`
	Amount     decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Currency   valueobject.Currency `gorm:"type:varchar(3);not null;default:'XOF'"`
	PaidAt     time.Time            `gorm:"not null;index"`
	Note       string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ExpensePaymentModel) TableName() string {
	return "expense_payments"
}

// ToDomain converts the persistence model to a domain ExpensePayment entity.
func (m *ExpensePaymentModel) ToDomain() *expenses.ExpensePayment {
	payment := &expenses.ExpensePayment{
		ExpenseID:  m.ExpenseID,
		RegisterID: m.RegisterID,
		Amount:     m.Amount,
		Currency:   m.Currency,
		PaidAt:     m.PaidAt,
		Note:       m.Note,
	}
	m.PopulateAggregateRoot(&payment.BaseAggregateRoot)
	return payment
}

// FromDomain populates the persistence model from a domain ExpensePayment entity.
func (m *ExpensePaymentModel) FromDomain(payment *expenses.ExpensePayment) {
	m.FromDomainAggregateRoot(payment.BaseAggregateRoot)
	m.ExpenseID = payment.ExpenseID
	m.RegisterID = payment.RegisterID
	m.Amount = payment.Amount
	m.Currency = payment.Currency
	m.PaidAt = payment.PaidAt
	m.Note = payment.Note
}

// ExpensePaymentModelFromDomain creates a new persistence model from a domain ExpensePayment.
func ExpensePaymentModelFromDomain(payment *expenses.ExpensePayment) *ExpensePaymentModel {
	m := &ExpensePaymentModel{}
	m.FromDomain(payment)
	return m
}
