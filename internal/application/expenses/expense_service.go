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

// ExpenseService manages the expense lifecycle. Every mutation publishes
// its domain events after a successful save so register balances are
// recomputed in the background.
type ExpenseService struct {
	expenseRepo    expenses.ExpenseRepository
	registerRepo   treasury.CashRegisterRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenseRepo expenses.ExpenseRepository,
	registerRepo treasury.CashRegisterRepository,
	logger *zap.Logger,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		registerRepo: registerRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ExpenseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// RecordExpenseRequest carries the fields for recording an expense
type RecordExpenseRequest struct {
	Label        string
	Category     string
	Amount       decimal.Decimal
	Currency     string
	RegisterID   *uuid.UUID
	SupplierName string
	IncurredAt   time.Time
}

// Record registers a new expense in pending status
func (s *ExpenseService) Record(ctx context.Context, req RecordExpenseRequest) (*ExpenseResponse, error) {
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

	number, err := s.expenseRepo.NextExpenseNumber(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := expenses.NewExpense(
		number,
		req.Label,
		expenses.ExpenseCategory(req.Category),
		amount,
		req.RegisterID,
		req.SupplierName,
		req.IncurredAt,
	)
	if err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, expense)

	s.logger.Info("expense recorded",
		zap.String("expense_id", expense.ID.String()),
		zap.String("expense_number", expense.ExpenseNumber),
		zap.String("amount", expense.Amount.String()),
	)

	response := ToExpenseResponse(expense)
	return &response, nil
}

// Approve approves a pending expense. From this point its full amount
// deducts from the register's balance.
func (s *ExpenseService) Approve(ctx context.Context, id, approvedBy uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := expense.Approve(approvedBy); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, expense)

	response := ToExpenseResponse(expense)
	return &response, nil
}

// MarkPaid marks an approved expense as paid out
func (s *ExpenseService) MarkPaid(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := expense.MarkPaid(); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, expense)

	response := ToExpenseResponse(expense)
	return &response, nil
}

// Reject rejects a pending expense
func (s *ExpenseService) Reject(ctx context.Context, id uuid.UUID, reason string) (*ExpenseResponse, error) {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := expense.Reject(reason); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, expense)

	response := ToExpenseResponse(expense)
	return &response, nil
}

// UpdateExpenseRequest carries the editable expense fields
type UpdateExpenseRequest struct {
	Label        string
	Category     string
	Amount       decimal.Decimal
	Currency     string
	SupplierName string
	IncurredAt   time.Time
}

// Update edits a pending expense
func (s *ExpenseService) Update(ctx context.Context, id uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	currency := valueobject.Currency(req.Currency)
	if req.Currency == "" {
		currency = expense.Currency
	}
	if expense.RegisterID != nil && currency != expense.Currency {
		return nil, shared.NewDomainError("CURRENCY_MISMATCH",
			"Transaction currency does not match the register currency")
	}
	amount, err := valueobject.NewMoney(req.Amount, currency)
	if err != nil {
		return nil, err
	}

	if err := expense.Update(req.Label, expenses.ExpenseCategory(req.Category), amount, req.SupplierName, req.IncurredAt); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, expense)

	response := ToExpenseResponse(expense)
	return &response, nil
}

// Reassign moves an expense to another register. Both registers'
// balances are recomputed via the published event.
func (s *ExpenseService) Reassign(ctx context.Context, id uuid.UUID, registerID *uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkRegister(ctx, registerID, expense.Currency); err != nil {
		return nil, err
	}

	if err := expense.ReassignRegister(registerID); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, expense)

	response := ToExpenseResponse(expense)
	return &response, nil
}

// Delete removes an expense and queues a recomputation for its register
func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return err
	}

	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, expenses.NewExpenseDeletedEvent(expense))
	}

	return nil
}

// GetByID retrieves an expense by ID
func (s *ExpenseService) GetByID(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToExpenseResponse(expense)
	return &response, nil
}

// List returns expenses matching the filter with pagination
func (s *ExpenseService) List(ctx context.Context, filter expenses.ExpenseFilter) (*shared.Paginated[ExpenseResponse], error) {
	filter.Normalize()
	items, err := s.expenseRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.expenseRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ExpenseResponse, 0, len(items))
	for _, e := range items {
		responses = append(responses, ToExpenseResponse(e))
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

func (s *ExpenseService) findExpense(ctx context.Context, id uuid.UUID) (*expenses.Expense, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, shared.NewDomainError("EXPENSE_NOT_FOUND", "Expense not found")
	}
	return expense, nil
}

// checkRegister verifies the target register exists, takes transactions
// and holds the same currency as the record being attached
func (s *ExpenseService) checkRegister(ctx context.Context, registerID *uuid.UUID, currency valueobject.Currency) error {
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

// publishDomainEvents publishes all domain events from the expense
func (s *ExpenseService) publishDomainEvents(ctx context.Context, expense *expenses.Expense) {
	if s.eventPublisher == nil {
		return
	}
	events := expense.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	expense.ClearDomainEvents()
}
