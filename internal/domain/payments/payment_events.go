package payments

import (
	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/shared"
)

const (
	EventTypePaymentRecorded   = "payments.incoming_payment.recorded"
	EventTypePaymentValidated  = "payments.incoming_payment.validated"
	EventTypePaymentRejected   = "payments.incoming_payment.rejected"
	EventTypePaymentCancelled  = "payments.incoming_payment.cancelled"
	EventTypePaymentReassigned = "payments.incoming_payment.reassigned"
	EventTypePaymentDeleted    = "payments.incoming_payment.deleted"
)

const aggregateTypePayment = "IncomingPayment"

// PaymentRecordedEvent is published when a payment is first recorded
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string     `json:"payment_number"`
	RegisterID    *uuid.UUID `json:"register_id"`
	Amount        string     `json:"amount"`
	Currency      string     `json:"currency"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(p *IncomingPayment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, aggregateTypePayment, p.ID),
		PaymentNumber:   p.PaymentNumber,
		RegisterID:      copyRegisterRef(p.RegisterID),
		Amount:          p.Amount.String(),
		Currency:        p.Currency.String(),
	}
}

// AffectedRegisterIDs returns the registers whose balances this event may invalidate
func (e *PaymentRecordedEvent) AffectedRegisterIDs() []uuid.UUID {
	return collectRegisterIDs(e.RegisterID)
}

// PaymentValidatedEvent is published when a payment is validated. The
// payment now contributes to its register's balance.
type PaymentValidatedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string     `json:"payment_number"`
	RegisterID    *uuid.UUID `json:"register_id"`
	ValidatedBy   uuid.UUID  `json:"validated_by"`
}

// NewPaymentValidatedEvent creates a new PaymentValidatedEvent
func NewPaymentValidatedEvent(p *IncomingPayment) *PaymentValidatedEvent {
	var by uuid.UUID
	if p.ValidatedBy != nil {
		by = *p.ValidatedBy
	}
	return &PaymentValidatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentValidated, aggregateTypePayment, p.ID),
		PaymentNumber:   p.PaymentNumber,
		RegisterID:      copyRegisterRef(p.RegisterID),
		ValidatedBy:     by,
	}
}

// AffectedRegisterIDs returns the registers whose balances this event may invalidate
func (e *PaymentValidatedEvent) AffectedRegisterIDs() []uuid.UUID {
	return collectRegisterIDs(e.RegisterID)
}

// PaymentRejectedEvent is published when a pending payment is rejected
type PaymentRejectedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string     `json:"payment_number"`
	RegisterID    *uuid.UUID `json:"register_id"`
	Reason        string     `json:"reason"`
}

// NewPaymentRejectedEvent creates a new PaymentRejectedEvent
func NewPaymentRejectedEvent(p *IncomingPayment) *PaymentRejectedEvent {
	return &PaymentRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRejected, aggregateTypePayment, p.ID),
		PaymentNumber:   p.PaymentNumber,
		RegisterID:      copyRegisterRef(p.RegisterID),
		Reason:          p.RejectReason,
	}
}

// AffectedRegisterIDs returns the registers whose balances this event may invalidate
func (e *PaymentRejectedEvent) AffectedRegisterIDs() []uuid.UUID {
	return collectRegisterIDs(e.RegisterID)
}

// PaymentCancelledEvent is published when a payment is cancelled.
// WasSettled records whether the payment counted toward a balance
// before cancellation.
type PaymentCancelledEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string     `json:"payment_number"`
	RegisterID    *uuid.UUID `json:"register_id"`
	Reason        string     `json:"reason"`
	WasSettled    bool       `json:"was_settled"`
}

// NewPaymentCancelledEvent creates a new PaymentCancelledEvent
func NewPaymentCancelledEvent(p *IncomingPayment, wasSettled bool) *PaymentCancelledEvent {
	return &PaymentCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCancelled, aggregateTypePayment, p.ID),
		PaymentNumber:   p.PaymentNumber,
		RegisterID:      copyRegisterRef(p.RegisterID),
		Reason:          p.CancelReason,
		WasSettled:      wasSettled,
	}
}

// AffectedRegisterIDs returns the registers whose balances this event may invalidate
func (e *PaymentCancelledEvent) AffectedRegisterIDs() []uuid.UUID {
	return collectRegisterIDs(e.RegisterID)
}

// PaymentReassignedEvent is published when a payment moves between
// registers. Both sides need their balances recomputed.
type PaymentReassignedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber      string     `json:"payment_number"`
	PreviousRegisterID *uuid.UUID `json:"previous_register_id"`
	NewRegisterID      *uuid.UUID `json:"new_register_id"`
}

// NewPaymentReassignedEvent creates a new PaymentReassignedEvent
func NewPaymentReassignedEvent(p *IncomingPayment, previous *uuid.UUID) *PaymentReassignedEvent {
	return &PaymentReassignedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypePaymentReassigned, aggregateTypePayment, p.ID),
		PaymentNumber:      p.PaymentNumber,
		PreviousRegisterID: copyRegisterRef(previous),
		NewRegisterID:      copyRegisterRef(p.RegisterID),
	}
}

// AffectedRegisterIDs returns both the previous and the new register
func (e *PaymentReassignedEvent) AffectedRegisterIDs() []uuid.UUID {
	return collectRegisterIDs(e.PreviousRegisterID, e.NewRegisterID)
}

// PaymentDeletedEvent is published when a payment is hard-deleted
type PaymentDeletedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string     `json:"payment_number"`
	RegisterID    *uuid.UUID `json:"register_id"`
	WasSettled    bool       `json:"was_settled"`
}

// NewPaymentDeletedEvent creates a new PaymentDeletedEvent
func NewPaymentDeletedEvent(p *IncomingPayment) *PaymentDeletedEvent {
	return &PaymentDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentDeleted, aggregateTypePayment, p.ID),
		PaymentNumber:   p.PaymentNumber,
		RegisterID:      copyRegisterRef(p.RegisterID),
		WasSettled:      p.IsSettled(),
	}
}

// AffectedRegisterIDs returns the registers whose balances this event may invalidate
func (e *PaymentDeletedEvent) AffectedRegisterIDs() []uuid.UUID {
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
