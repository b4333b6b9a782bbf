package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/payments"
	"github.com/shopspring/decimal"
)

// PaymentResponse is the API representation of an incoming payment
type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	PaymentNumber string          `json:"paymentNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Method        string          `json:"method"`
	Status        string          `json:"status"`
	RegisterID    *uuid.UUID      `json:"registerId,omitempty"`
	PayerName     string          `json:"payerName"`
	Description   string          `json:"description,omitempty"`
	ReceivedAt    time.Time       `json:"receivedAt"`
	ValidatedAt   *time.Time      `json:"validatedAt,omitempty"`
	ValidatedBy   *uuid.UUID      `json:"validatedBy,omitempty"`
	RejectedAt    *time.Time      `json:"rejectedAt,omitempty"`
	RejectReason  string          `json:"rejectReason,omitempty"`
	CancelledAt   *time.Time      `json:"cancelledAt,omitempty"`
	CancelReason  string          `json:"cancelReason,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ToPaymentResponse maps a payment aggregate to its API form
func ToPaymentResponse(p *payments.IncomingPayment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		PaymentNumber: p.PaymentNumber,
		Amount:        p.Amount,
		Currency:      p.Currency.String(),
		Method:        string(p.Method),
		Status:        p.Status.String(),
		RegisterID:    p.RegisterID,
		PayerName:     p.PayerName,
		Description:   p.Description,
		ReceivedAt:    p.ReceivedAt,
		ValidatedAt:   p.ValidatedAt,
		ValidatedBy:   p.ValidatedBy,
		RejectedAt:    p.RejectedAt,
		RejectReason:  p.RejectReason,
		CancelledAt:   p.CancelledAt,
		CancelReason:  p.CancelReason,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
