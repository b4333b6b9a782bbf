package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/shared"
)

// PaymentFilter carries list filtering options for incoming payments
type PaymentFilter struct {
	shared.Filter
	Status     PaymentStatus
	Method     PaymentMethod
	RegisterID *uuid.UUID
}

// IncomingPaymentRepository defines persistence operations for incoming payments
type IncomingPaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*IncomingPayment, error)

	// FindByNumber finds a payment by its payment number
	FindByNumber(ctx context.Context, number string) (*IncomingPayment, error)

	// FindAll finds payments matching the filter, received-date descending
	FindAll(ctx context.Context, filter PaymentFilter) ([]*IncomingPayment, error)

	// Count counts payments matching the filter
	Count(ctx context.Context, filter PaymentFilter) (int64, error)

	// Save creates or updates a payment
	Save(ctx context.Context, payment *IncomingPayment) error

	// Delete removes a payment
	Delete(ctx context.Context, id uuid.UUID) error

	// NextPaymentNumber allocates the next sequential payment number
	// for the current month, formatted PAY-YYYYMM-NNNNN.
	NextPaymentNumber(ctx context.Context) (string, error)
}
