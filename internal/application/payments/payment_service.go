package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/payments"
	"github.com/hotelier/backend/internal/domain/shared"
	"github.com/hotelier/backend/internal/domain/shared/valueobject"
	"github.com/hotelier/backend/internal/domain/treasury"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService manages incoming payments. Every mutation publishes its
// domain events after a successful save so register balances are
// recomputed in the background.
type PaymentService struct {
	paymentRepo    payments.IncomingPaymentRepository
	registerRepo   treasury.CashRegisterRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo payments.IncomingPaymentRepository,
	registerRepo treasury.CashRegisterRepository,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		registerRepo: registerRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// RecordPaymentRequest carries the fields for recording a payment
type RecordPaymentRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Method      string
	RegisterID  *uuid.UUID
	PayerName   string
	Description string
	ReceivedAt  time.Time
}

// Record registers a new incoming payment in pending status
func (s *PaymentService) Record(ctx context.Context, req RecordPaymentRequest) (*PaymentResponse, error) {
	currency := valueobject.Currency(req.Currency)
	if req.Currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if err := s.checkRegister(ctx, req.RegisterID, currency); err != nil {
		return nil, err
	}

	amount, err := valueobject.NewMoney(req.Amount, currency)
	if err != nil {
		return nil, err
	}

	number, err := s.paymentRepo.NextPaymentNumber(ctx)
	if err != nil {
		return nil, err
	}

	payment, err := payments.NewIncomingPayment(
		number,
		amount,
		payments.PaymentMethod(req.Method),
		req.RegisterID,
		req.PayerName,
		req.Description,
		req.ReceivedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, payment)

	s.logger.Info("incoming payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("payment_number", payment.PaymentNumber),
		zap.String("amount", payment.Amount.String()),
	)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// Validate confirms a pending payment. From this point it counts toward
// its register's balance.
func (s *PaymentService) Validate(ctx context.Context, id, validatedBy uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.findPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := payment.Validate(validatedBy); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, payment)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// Reject rejects a pending payment
func (s *PaymentService) Reject(ctx context.Context, id uuid.UUID, reason string) (*PaymentResponse, error) {
	payment, err := s.findPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := payment.Reject(reason); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, payment)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// Cancel cancels a pending or validated payment
func (s *PaymentService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*PaymentResponse, error) {
	payment, err := s.findPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := payment.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, payment)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// UpdatePaymentRequest carries the editable payment fields
type UpdatePaymentRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Method      string
	PayerName   string
	Description string
	ReceivedAt  time.Time
}

// Update edits a pending payment
func (s *PaymentService) Update(ctx context.Context, id uuid.UUID, req UpdatePaymentRequest) (*PaymentResponse, error) {
	payment, err := s.findPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	currency := valueobject.Currency(req.Currency)
	if req.Currency == "" {
		currency = payment.Currency
	}
	if payment.RegisterID != nil && currency != payment.Currency {
		return nil, shared.NewDomainError("CURRENCY_MISMATCH",
			"Transaction currency does not match the register currency")
	}
	amount, err := valueobject.NewMoney(req.Amount, currency)
	if err != nil {
		return nil, err
	}

	if err := payment.Update(amount, payments.PaymentMethod(req.Method), req.PayerName, req.Description, req.ReceivedAt); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, payment)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// Reassign moves a payment to another register (nil detaches it). Both
// registers' balances are recomputed via the published event.
func (s *PaymentService) Reassign(ctx context.Context, id uuid.UUID, registerID *uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.findPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkRegister(ctx, registerID, payment.Currency); err != nil {
		return nil, err
	}

	if err := payment.ReassignRegister(registerID); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, payment)

	response := ToPaymentResponse(payment)
	return &response, nil
}

// Delete removes a payment and queues a recomputation for its register
func (s *PaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	payment, err := s.findPayment(ctx, id)
	if err != nil {
		return err
	}

	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, payments.NewPaymentDeletedEvent(payment))
	}

	return nil
}

// GetByID retrieves a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.findPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(payment)
	return &response, nil
}

// List returns payments matching the filter with pagination
func (s *PaymentService) List(ctx context.Context, filter payments.PaymentFilter) (*shared.Paginated[PaymentResponse], error) {
	filter.Normalize()
	items, err := s.paymentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.paymentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]PaymentResponse, 0, len(items))
	for _, p := range items {
		responses = append(responses, ToPaymentResponse(p))
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

func (s *PaymentService) findPayment(ctx context.Context, id uuid.UUID) (*payments.IncomingPayment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment not found")
	}
	return payment, nil
}

// checkRegister verifies the target register exists, takes transactions
// and holds the same currency as the record being attached
func (s *PaymentService) checkRegister(ctx context.Context, registerID *uuid.UUID, currency valueobject.Currency) error {
	if registerID == nil {
		return nil
	}
	register, err := s.registerRepo.FindByID(ctx, *registerID)
	if err != nil {
		return err
	}
	if register == nil {
		return shared.NewDomainError("CASH_REGISTER_NOT_FOUND", "Cash register not found")
	}
	if !register.Status.AcceptsTransactions() {
		return shared.NewDomainError("REGISTER_NOT_ACCEPTING",
			"Cash register does not accept transactions in its current status")
	}
	if currency != "" && register.Currency != currency {
		return shared.NewDomainError("CURRENCY_MISMATCH",
			"Transaction currency does not match the register currency")
	}
	return nil
}

// publishDomainEvents publishes all domain events from the payment
func (s *PaymentService) publishDomainEvents(ctx context.Context, payment *payments.IncomingPayment) {
	if s.eventPublisher == nil {
		return
	}
	events := payment.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	payment.ClearDomainEvents()
}
