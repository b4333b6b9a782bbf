package expenses

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/expenses"
	"github.com/shopspring/decimal"
)

// ExpenseResponse is the API representation of an expense
type ExpenseResponse struct {
	ID            uuid.UUID       `json:"id"`
	ExpenseNumber string          `json:"expenseNumber"`
	Label         string          `json:"label"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	RegisterID    *uuid.UUID      `json:"registerId,omitempty"`
	SupplierName  string          `json:"supplierName,omitempty"`
	IncurredAt    time.Time       `json:"incurredAt"`
	ApprovedAt    *time.Time      `json:"approvedAt,omitempty"`
	ApprovedBy    *uuid.UUID      `json:"approvedBy,omitempty"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
	RejectedAt    *time.Time      `json:"rejectedAt,omitempty"`
	RejectReason  string          `json:"rejectReason,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ToExpenseResponse maps an expense aggregate to its API form
func ToExpenseResponse(e *expenses.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		ExpenseNumber: e.ExpenseNumber,
		Label:         e.Label,
		Category:      string(e.Category),
		Amount:        e.Amount,
		Currency:      e.Currency.String(),
		Status:        e.Status.String(),
		RegisterID:    e.RegisterID,
		SupplierName:  e.SupplierName,
		IncurredAt:    e.IncurredAt,
		ApprovedAt:    e.ApprovedAt,
		ApprovedBy:    e.ApprovedBy,
		PaidAt:        e.PaidAt,
		RejectedAt:    e.RejectedAt,
		RejectReason:  e.RejectReason,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// ExpensePaymentResponse is the API representation of a partial disbursement
type ExpensePaymentResponse struct {
	ID         uuid.UUID       `json:"id"`
	ExpenseID  uuid.UUID       `json:"expenseId"`
	RegisterID *uuid.UUID      `json:"registerId,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	PaidAt     time.Time       `json:"paidAt"`
	Note       string          `json:"note,omitempty"`
	Deferred   bool            `json:"deferred"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// ToExpensePaymentResponse maps a disbursement aggregate to its API form
func ToExpensePaymentResponse(p *expenses.ExpensePayment) ExpensePaymentResponse {
	return ExpensePaymentResponse{
		ID:         p.ID,
		ExpenseID:  p.ExpenseID,
		RegisterID: p.RegisterID,
		Amount:     p.Amount,
		Currency:   p.Currency.String(),
		PaidAt:     p.PaidAt,
		Note:       p.Note,
		Deferred:   p.RegisterID == nil,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
