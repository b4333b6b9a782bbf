package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/payments"
	"github.com/hotelier/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// IncomingPaymentModel is the persistence model for the IncomingPayment aggregate root.
type IncomingPaymentModel struct {
	AggregateModel
	PaymentNumber string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	Amount        decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	Currency      valueobject.Currency   `gorm:"type:varchar(3);not null;default:'XOF'"`
	Method        payments.PaymentMethod `gorm:"type:varchar(20);not null"`
	Status        payments.PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_payments_status_register"`
	RegisterID    *uuid.UUID             `gorm:"type:uuid;index:idx_payments_status_register"`
	PayerName     string                 `gorm:"type:varchar(200);not null"`
	Description   string                 `gorm:"type:text"`
	ReceivedAt    time.Time              `gorm:"not null;index"`
	ValidatedAt   *time.Time
	ValidatedBy   *uuid.UUID `gorm:"type:uuid"`
	RejectedAt    *time.Time
	RejectReason  string `gorm:"type:varchar(500)"`
	CancelledAt   *time.Time
	CancelReason  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (IncomingPaymentModel) TableName() string {
	return "incoming_payments"
}

// ToDomain converts the persistence model to a domain IncomingPayment entity.
func (m *IncomingPaymentModel) ToDomain() *payments.IncomingPayment {
	payment := &payments.IncomingPayment{
		PaymentNumber: m.PaymentNumber,
		Amount:        m.Amount,
		Currency:      m.Currency,
		Method:        m.Method,
		Status:        m.Status,
		RegisterID:    m.RegisterID,
		PayerName:     m.PayerName,
		Description:   m.Description,
		ReceivedAt:    m.ReceivedAt,
		ValidatedAt:   m.ValidatedAt,
		ValidatedBy:   m.ValidatedBy,
		RejectedAt:    m.RejectedAt,
		RejectReason:  m.RejectReason,
		CancelledAt:   m.CancelledAt,
		CancelReason:  m.CancelReason,
	}
	m.PopulateAggregateRoot(&payment.BaseAggregateRoot)
	return payment
}

// FromDomain populates the persistence model from a domain IncomingPayment entity.
func (m *IncomingPaymentModel) FromDomain(payment *payments.IncomingPayment) {
	m.FromDomainAggregateRoot(payment.BaseAggregateRoot)
	m.PaymentNumber = payment.PaymentNumber
	m.Amount = payment.Amount
	m.Currency = payment.Currency
	m.Method = payment.Method
	m.Status = payment.Status
	m.RegisterID = payment.RegisterID
	m.PayerName = payment.PayerName
	m.Description = payment.Description
	m.ReceivedAt = payment.ReceivedAt
	m.ValidatedAt = payment.ValidatedAt
	m.ValidatedBy = payment.ValidatedBy
	m.RejectedAt = payment.RejectedAt
	m.RejectReason = payment.RejectReason
	m.CancelledAt = payment.CancelledAt
	m.CancelReason = payment.CancelReason
}

// IncomingPaymentModelFromDomain creates a new persistence model from a domain IncomingPayment.
func IncomingPaymentModelFromDomain(payment *payments.IncomingPayment) *IncomingPaymentModel {
	m := &IncomingPaymentModel{}
	m.FromDomain(payment)
	return m
}
