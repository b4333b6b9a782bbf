package expenses

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/expenses"
	"github.com/hotelier/backend/internal/domain/shared"
	"github.com/hotelier/backend/internal/domain/shared/valueobject"
	"github.com/hotelier/backend/internal/domain/treasury"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExpensePaymentService manages partial disbursements against expenses.
// Disbursements have no approval gate: every one attached to a register
// counts toward that register's balance from the moment it is saved.
type ExpensePaymentService struct {
	paymentRepo    expenses.ExpensePaymentRepository
	expenseRepo    expenses.ExpenseRepository
	registerRepo   treasury.CashRegisterRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewExpensePaymentService creates a new ExpensePaymentService
func NewExpensePaymentService(
	paymentRepo expenses.ExpensePaymentRepository,
	expenseRepo expenses.ExpenseRepository,
	registerRepo treasury.CashRegisterRepository,
	logger *zap.Logger,
) *ExpensePaymentService {
	return &ExpensePaymentService{
		paymentRepo:  paymentRepo,
		expenseRepo:  expenseRepo,
		registerRepo: registerRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ExpensePaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// RecordExpensePaymentRequest carries the fields for a partial disbursement.
// RegisterID may be nil, which records a deferred disbursement that does
// not touch any register until one is assigned.
type RecordExpensePaymentRequest struct {
	ExpenseID  uuid.UUID
	RegisterID *uuid.UUID
	Amount     decimal.Decimal
	Currency   string
	PaidAt     time.Time
	Note       string
}

// Record registers a partial disbursement against an expense
func (s *ExpensePaymentService) Record(ctx context.Context, req RecordExpensePaymentRequest) (*ExpensePaymentResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, req.ExpenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, shared.NewDomainError("EXPENSE_NOT_FOUND", "Expense not found")
	}

	currency := valueobject.Currency(req.Currency)
	if req.Currency == "" {
		currency = expense.Currency
	}
	if err := s.checkRegister(ctx, req.RegisterID, currency); err != nil {
		return nil, err
	}

	amount, err := valueobject.NewMoney(req.Amount, currency)
	if err != nil {
		return nil, err
	}

	payment, err := expenses.NewExpensePayment(req.ExpenseID, req.RegisterID, amount, req.PaidAt, req.Note)
	if err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, payment)

	s.logger.Info("expense disbursement recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("expense_id", payment.ExpenseID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.Bool("deferred", payment.RegisterID == nil),
	)

	response := ToExpensePaymentResponse(payment)
	return &response, nil
}

// UpdateExpensePaymentRequest carries the editable disbursement fields
type UpdateExpensePaymentRequest struct {
	Amount   decimal.Decimal
	Currency string
	PaidAt   time.Time
	Note     string
}

// Update edits a disbursement's amount or note
func (s *ExpensePaymentService) Update(ctx context.Context, id uuid.UUID, req UpdateExpensePaymentRequest) (*ExpensePaymentResponse, error) {
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

	if err := payment.Update(amount, req.PaidAt, req.Note); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, payment)

	response := ToExpensePaymentResponse(payment)
	return &response, nil
}

// Reassign moves a disbursement to another register, or defers it when
// registerID is nil. Both sides' balances are recomputed via the event.
func (s *ExpensePaymentService) Reassign(ctx context.Context, id uuid.UUID, registerID *uuid.UUID) (*ExpensePaymentResponse, error) {
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

	response := ToExpensePaymentResponse(payment)
	return &response, nil
}

// Delete removes a disbursement and queues a recomputation for its register
func (s *ExpensePaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	payment, err := s.findPayment(ctx, id)
	if err != nil {
		return err
	}

	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, expenses.NewExpensePaymentDeletedEvent(payment))
	}

	return nil
}

// GetByID retrieves a disbursement by ID
func (s *ExpensePaymentService) GetByID(ctx context.Context, id uuid.UUID) (*ExpensePaymentResponse, error) {
	payment, err := s.findPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToExpensePaymentResponse(payment)
	return &response, nil
}

// ListByExpense lists all disbursements recorded against an expense
func (s *ExpensePaymentService) ListByExpense(ctx context.Context, expenseID uuid.UUID) ([]ExpensePaymentResponse, error) {
	items, err := s.paymentRepo.FindByExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	responses := make([]ExpensePaymentResponse, 0, len(items))
	for _, p := range items {
		responses = append(responses, ToExpensePaymentResponse(p))
	}
	return responses, nil
}

func (s *ExpensePaymentService) findPayment(ctx context.Context, id uuid.UUID) (*expenses.ExpensePayment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, shared.NewDomainError("EXPENSE_PAYMENT_NOT_FOUND", "Expense disbursement not found")
	}
	return payment, nil
}

// checkRegister verifies the target register exists, takes transactions
// and holds the same currency as the record being attached
func (s *ExpensePaymentService) checkRegister(ctx context.Context, registerID *uuid.UUID, currency valueobject.Currency) error {
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

// publishDomainEvents publishes all domain events from the disbursement
func (s *ExpensePaymentService) publishDomainEvents(ctx context.Context, payment *expenses.ExpensePayment) {
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
