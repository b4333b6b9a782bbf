package treasury

import (
	"context"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/shared"
	"github.com/hotelier/backend/internal/domain/shared/valueobject"
	"github.com/hotelier/backend/internal/domain/treasury"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CashRegisterService manages the cash register lifecycle and serves
// register views with freshly recomputed balances.
type CashRegisterService struct {
	registerRepo   treasury.CashRegisterRepository
	balanceService *BalanceService
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCashRegisterService creates a new CashRegisterService
func NewCashRegisterService(
	registerRepo treasury.CashRegisterRepository,
	balanceService *BalanceService,
	logger *zap.Logger,
) *CashRegisterService {
	return &CashRegisterService{
		registerRepo:   registerRepo,
		balanceService: balanceService,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CashRegisterService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateCashRegisterRequest carries the fields for opening a register
type CreateCashRegisterRequest struct {
	Name           string
	Code           string
	Currency       string
	InitialBalance decimal.Decimal
	ManagerID      *uuid.UUID
	Description    string
}

// Create opens a new cash register
func (s *CashRegisterService) Create(ctx context.Context, req CreateCashRegisterRequest) (*CashRegisterResponse, error) {
	taken, err := s.registerRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("CODE_TAKEN", "A cash register with this code already exists")
	}

	currency := valueobject.Currency(req.Currency)
	if req.Currency == "" {
		currency = valueobject.DefaultCurrency
	}

	register, err := treasury.NewCashRegister(req.Name, req.Code, currency, req.InitialBalance)
	if err != nil {
		return nil, err
	}
	register.Description = req.Description
	if req.ManagerID != nil {
		if err := register.AssignManager(*req.ManagerID); err != nil {
			return nil, err
		}
	}

	if err := s.registerRepo.Save(ctx, register); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, register)

	s.logger.Info("cash register created",
		zap.String("register_id", register.ID.String()),
		zap.String("code", register.Code),
	)

	response := ToCashRegisterResponse(register)
	return &response, nil
}

// UpdateCashRegisterRequest carries the editable register fields
type UpdateCashRegisterRequest struct {
	Name        string
	Description string
	ManagerID   *uuid.UUID
}

// Update edits a register's descriptive fields
func (s *CashRegisterService) Update(ctx context.Context, id uuid.UUID, req UpdateCashRegisterRequest) (*CashRegisterResponse, error) {
	register, err := s.findRegister(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := register.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if req.ManagerID != nil {
		if err := register.AssignManager(*req.ManagerID); err != nil {
			return nil, err
		}
	}

	if err := s.registerRepo.Save(ctx, register); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, register)

	response := ToCashRegisterResponse(register)
	return &response, nil
}

// AdjustInitialBalance changes a register's opening float and recomputes
// the derived balance right away so the cache never lags the adjustment.
func (s *CashRegisterService) AdjustInitialBalance(ctx context.Context, id uuid.UUID, newInitial decimal.Decimal) (*CashRegisterResponse, error) {
	register, err := s.findRegister(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := register.AdjustInitialBalance(newInitial); err != nil {
		return nil, err
	}

	if err := s.registerRepo.Save(ctx, register); err != nil {
		return nil, err
	}

	if _, err := s.balanceService.Recalculate(ctx, register); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, register)

	response := ToCashRegisterResponse(register)
	return &response, nil
}

// ChangeStatus transitions a register through its lifecycle
func (s *CashRegisterService) ChangeStatus(ctx context.Context, id uuid.UUID, status treasury.CashRegisterStatus) (*CashRegisterResponse, error) {
	register, err := s.findRegister(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := register.ChangeStatus(status); err != nil {
		return nil, err
	}

	if err := s.registerRepo.Save(ctx, register); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, register)

	response := ToCashRegisterResponse(register)
	return &response, nil
}

// Delete removes a closed register
func (s *CashRegisterService) Delete(ctx context.Context, id uuid.UUID) error {
	register, err := s.findRegister(ctx, id)
	if err != nil {
		return err
	}

	if !register.IsClosed() {
		return shared.NewDomainError("INVALID_STATE", "Only closed registers can be deleted")
	}

	return s.registerRepo.Delete(ctx, id)
}

// List returns registers matching the filter with pagination
func (s *CashRegisterService) List(ctx context.Context, filter treasury.CashRegisterFilter) (*shared.Paginated[CashRegisterResponse], error) {
	filter.Normalize()
	registers, err := s.registerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.registerRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]CashRegisterResponse, 0, len(registers))
	for i := range registers {
		responses = append(responses, ToCashRegisterResponse(&registers[i]))
	}

	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// GetDetail returns one register after synchronously refreshing its
// balance. If the refresh fails the cached balance is served instead,
// flagged stale, so a flaky source never blanks the register view.
func (s *CashRegisterService) GetDetail(ctx context.Context, id uuid.UUID) (*CashRegisterDetailResponse, error) {
	register, err := s.findRegister(ctx, id)
	if err != nil {
		return nil, err
	}

	stale := false
	if _, err := s.balanceService.Recalculate(ctx, register); err != nil {
		stale = true
		s.logger.Warn("balance refresh failed, serving cached balance",
			zap.String("register_id", register.ID.String()),
			zap.Error(err),
		)
	}

	return &CashRegisterDetailResponse{
		CashRegisterResponse: ToCashRegisterResponse(register),
		BalanceStale:         stale,
	}, nil
}

// ForceRecalculate recomputes a register's balance on demand and returns
// the full breakdown. Unlike GetDetail this propagates recompute errors.
func (s *CashRegisterService) ForceRecalculate(ctx context.Context, id uuid.UUID) (*treasury.BalanceBreakdown, error) {
	return s.balanceService.RecalculateByID(ctx, id)
}

func (s *CashRegisterService) findRegister(ctx context.Context, id uuid.UUID) (*treasury.CashRegister, error) {
	register, err := s.registerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if register == nil {
		return nil, shared.NewDomainError("CASH_REGISTER_NOT_FOUND", "Cash register not found")
	}
	return register, nil
}

// publishDomainEvents publishes all domain events from the register
func (s *CashRegisterService) publishDomainEvents(ctx context.Context, register *treasury.CashRegister) {
	if s.eventPublisher == nil {
		return
	}
	events := register.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	register.ClearDomainEvents()
}
