package treasury

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/expenses"
	"github.com/hotelier/backend/internal/domain/payments"
	"github.com/hotelier/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RegisterScopedEvent is implemented by every source-mutation event that
// can invalidate cached register balances. Reassignment events report
// both the previous and the new register.
type RegisterScopedEvent interface {
	shared.DomainEvent
	AffectedRegisterIDs() []uuid.UUID
}

// BalanceRecalculationHandler keeps cached register balances consistent
// with the source tables. It listens to every mutation of the three
// sources and recomputes each affected register. Recomputation failures
// are logged and swallowed: the trigger must never fail the mutation
// that caused it, and a stale cache heals on the next successful pass.
type BalanceRecalculationHandler struct {
	balanceService *BalanceService
	timeout        time.Duration
	logger         *zap.Logger
}

// NewBalanceRecalculationHandler creates a new BalanceRecalculationHandler.
// Each register's recomputation is bounded by timeout; zero disables the bound.
func NewBalanceRecalculationHandler(
	balanceService *BalanceService,
	timeout time.Duration,
	logger *zap.Logger,
) *BalanceRecalculationHandler {
	return &BalanceRecalculationHandler{
		balanceService: balanceService,
		timeout:        timeout,
		logger:         logger,
	}
}

// EventTypes returns every source-mutation event type that can change a
// register's settled set
func (h *BalanceRecalculationHandler) EventTypes() []string {
	return []string{
		payments.EventTypePaymentRecorded,
		payments.EventTypePaymentValidated,
		payments.EventTypePaymentRejected,
		payments.EventTypePaymentCancelled,
		payments.EventTypePaymentReassigned,
		payments.EventTypePaymentDeleted,
		expenses.EventTypeExpenseRecorded,
		expenses.EventTypeExpenseApproved,
		expenses.EventTypeExpensePaid,
		expenses.EventTypeExpenseRejected,
		expenses.EventTypeExpenseReassigned,
		expenses.EventTypeExpenseDeleted,
		expenses.EventTypeExpensePaymentRecorded,
		expenses.EventTypeExpensePaymentUpdated,
		expenses.EventTypeExpensePaymentReassigned,
		expenses.EventTypeExpensePaymentDeleted,
	}
}

// Handle recomputes the balance of every register the event touches
func (h *BalanceRecalculationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	scoped, ok := event.(RegisterScopedEvent)
	if !ok {
		h.logger.Error("event does not report affected registers",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
		)
		return nil
	}

	for _, registerID := range scoped.AffectedRegisterIDs() {
		if err := h.recalculate(ctx, registerID); err != nil {
			h.logger.Error("balance recomputation failed",
				zap.String("register_id", registerID.String()),
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Error(err),
			)
		}
	}

	return nil
}

func (h *BalanceRecalculationHandler) recalculate(ctx context.Context, registerID uuid.UUID) error {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	_, err := h.balanceService.RecalculateByID(ctx, registerID)
	return err
}
