package payments

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/shared"
	"github.com/hotelier/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the lifecycle status of an incoming payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusValidated PaymentStatus = "VALIDATED"
	PaymentStatusRejected  PaymentStatus = "REJECTED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusValidated,
		PaymentStatusRejected, PaymentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the payment is in a terminal state
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusRejected || s == PaymentStatusCancelled
}

// IsSettled returns true if payments in this status count toward a
// register's balance and history. Only validated payments do.
func (s PaymentStatus) IsSettled() bool {
	return s == PaymentStatusValidated
}

// PaymentMethod represents how an incoming payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodMobileMoney  PaymentMethod = "MOBILE_MONEY"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer,
		PaymentMethodMobileMoney, PaymentMethodCard, PaymentMethodCheque:
		return true
	}
	return false
}

// IncomingPayment represents money received by the hotel (room settlement,
// deposit, event billing) optionally attached to a cash register. Only
// validated payments contribute to that register's balance.
type IncomingPayment struct {
	shared.BaseAggregateRoot
	PaymentNumber string               `json:"payment_number"`
	Amount        decimal.Decimal      `json:"amount"`
	Currency      valueobject.Currency `json:"currency"`
	Method        PaymentMethod        `json:"method"`
	Status        PaymentStatus        `json:"status"`
	RegisterID    *uuid.UUID           `json:"register_id"`
	PayerName     string               `json:"payer_name"`
	Description   string               `json:"description"`
	ReceivedAt    time.Time            `json:"received_at"`
	ValidatedAt   *time.Time           `json:"validated_at"`
	ValidatedBy   *uuid.UUID           `json:"validated_by"`
	RejectedAt    *time.Time           `json:"rejected_at"`
	RejectReason  string               `json:"reject_reason"`
	CancelledAt   *time.Time           `json:"cancelled_at"`
	CancelReason  string               `json:"cancel_reason"`
}

// NewIncomingPayment records a new payment in pending status
func NewIncomingPayment(
	paymentNumber string,
	amount valueobject.Money,
	method PaymentMethod,
	registerID *uuid.UUID,
	payerName string,
	description string,
	receivedAt time.Time,
) (*IncomingPayment, error) {
	if paymentNumber == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_NUMBER", "Payment number cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	if payerName == "" {
		return nil, shared.NewDomainError("INVALID_PAYER", "Payer name cannot be empty")
	}
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	payment := &IncomingPayment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PaymentNumber:     paymentNumber,
		Amount:            amount.Amount(),
		Currency:          amount.Currency(),
		Method:            method,
		Status:            PaymentStatusPending,
		RegisterID:        registerID,
		PayerName:         payerName,
		Description:       description,
		ReceivedAt:        receivedAt,
	}

	payment.AddDomainEvent(NewPaymentRecordedEvent(payment))

	return payment, nil
}

// Validate marks the payment as validated; from this point it counts
// toward its register's balance and history.
func (p *IncomingPayment) Validate(validatedBy uuid.UUID) error {
	if p.Status != PaymentStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot validate payment in %s status", p.Status))
	}
	if validatedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Validator user ID cannot be empty")
	}

	now := time.Now()
	p.Status = PaymentStatusValidated
	p.ValidatedAt = &now
	p.ValidatedBy = &validatedBy
	p.Touch()

	p.AddDomainEvent(NewPaymentValidatedEvent(p))

	return nil
}

// Reject rejects a pending payment
func (p *IncomingPayment) Reject(reason string) error {
	if p.Status != PaymentStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot reject payment in %s status", p.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}

	now := time.Now()
	p.Status = PaymentStatusRejected
	p.RejectedAt = &now
	p.RejectReason = reason
	p.Touch()

	p.AddDomainEvent(NewPaymentRejectedEvent(p))

	return nil
}

// Cancel cancels a pending or validated payment. Cancelling a validated
// payment removes it from its register's settled set, so the emitted
// event must reach the balance recalculation handler.
func (p *IncomingPayment) Cancel(reason string) error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel payment in %s status", p.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	wasSettled := p.Status.IsSettled()

	now := time.Now()
	p.Status = PaymentStatusCancelled
	p.CancelledAt = &now
	p.CancelReason = reason
	p.Touch()

	p.AddDomainEvent(NewPaymentCancelledEvent(p, wasSettled))

	return nil
}

// Update edits the mutable details of a pending payment
func (p *IncomingPayment) Update(
	amount valueobject.Money,
	method PaymentMethod,
	payerName string,
	description string,
	receivedAt time.Time,
) error {
	if p.Status != PaymentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Can only update a pending payment")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	if payerName == "" {
		return shared.NewDomainError("INVALID_PAYER", "Payer name cannot be empty")
	}

	p.Amount = amount.Amount()
	p.Currency = amount.Currency()
	p.Method = method
	p.PayerName = payerName
	p.Description = description
	if !receivedAt.IsZero() {
		p.ReceivedAt = receivedAt
	}
	p.Touch()

	return nil
}

// ReassignRegister moves the payment to another register (or detaches it
// when registerID is nil). Both the previous and the new register's
// balances become stale, so the event carries both.
func (p *IncomingPayment) ReassignRegister(registerID *uuid.UUID) error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot reassign a terminal payment")
	}
	if equalRegisterRef(p.RegisterID, registerID) {
		return nil
	}

	previous := p.RegisterID
	p.RegisterID = registerID
	p.Touch()

	p.AddDomainEvent(NewPaymentReassignedEvent(p, previous))

	return nil
}

// IsSettled returns true if this payment counts toward a register balance
func (p *IncomingPayment) IsSettled() bool {
	return p.Status.IsSettled() && p.RegisterID != nil
}

// GetAmountMoney returns the amount as Money
func (p *IncomingPayment) GetAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(p.Amount, p.Currency)
	return m
}

func equalRegisterRef(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
