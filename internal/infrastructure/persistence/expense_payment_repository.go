package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/expenses"
	"github.com/hotelier/backend/internal/domain/shared/valueobject"
	"github.com/hotelier/backend/internal/domain/treasury"
	"github.com/hotelier/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormExpensePaymentRepository implements ExpensePaymentRepository using GORM.
// It also implements treasury.TransactionSource, projecting partial
// disbursements as a debit side of a register's ledger.
type GormExpensePaymentRepository struct {
	db *gorm.DB
}

// NewGormExpensePaymentRepository creates a new GormExpensePaymentRepository
func NewGormExpensePaymentRepository(db *gorm.DB) *GormExpensePaymentRepository {
	return &GormExpensePaymentRepository{db: db}
}

// FindByID finds a disbursement by its ID
func (r *GormExpensePaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*expenses.ExpensePayment, error) {
	var model models.ExpensePaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExpense lists all disbursements recorded against an expense, newest first
func (r *GormExpensePaymentRepository) FindByExpense(ctx context.Context, expenseID uuid.UUID) ([]*expenses.ExpensePayment, error) {
	var paymentModels []models.ExpensePaymentModel
	if err := r.db.WithContext(ctx).
		Where("expense_id = ?", expenseID).
		Order("paid_at DESC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	result := make([]*expenses.ExpensePayment, len(paymentModels))
	for i := range paymentModels {
		result[i] = paymentModels[i].ToDomain()
	}
	return result, nil
}

// Save creates or updates a disbursement
func (r *GormExpensePaymentRepository) Save(ctx context.Context, payment *expenses.ExpensePayment) error {
	model := models.ExpensePaymentModelFromDomain(payment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a disbursement
func (r *GormExpensePaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ExpensePaymentModel{}, "id = ?", id).Error
}

// SourceType identifies this source in merged ledgers
func (r *GormExpensePaymentRepository) SourceType() treasury.LedgerSourceType {
	return treasury.LedgerSourceExpensePayment
}

// settledExpensePaymentRow carries a disbursement row joined with its parent
// expense's number and label, so ledger entries can reference the expense.
type settledExpensePaymentRow struct {
	ID       uuid.UUID
	Amount   decimal.Decimal
	Currency valueobject.Currency
	PaidAt   time.Time
	Note     string
	Number   string
	Label    string
}

// ListSettledByRegister returns every disbursement drawn from the register,
// newest first, unpaginated. A disbursement with no register is a deferred
// payment and is excluded until it is assigned one.
func (r *GormExpensePaymentRepository) ListSettledByRegister(ctx context.Context, registerID uuid.UUID) ([]treasury.LedgerEntry, error) {
	var rows []settledExpensePaymentRow
	if err := r.db.WithContext(ctx).
		Table("expense_payments").
		Select("expense_payments.id, expense_payments.amount, expense_payments.currency, expense_payments.paid_at, expense_payments.note, expenses.expense_number AS number, expenses.label AS label").
		Joins("JOIN expenses ON expenses.id = expense_payments.expense_id").
		Where("expense_payments.register_id = ?", registerID).
		Order("expense_payments.paid_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]treasury.LedgerEntry, len(rows))
	for i, row := range rows {
		description := row.Label
		if row.Note != "" {
			description = row.Note
		}
		entries[i] = treasury.LedgerEntry{
			SourceType:  treasury.LedgerSourceExpensePayment,
			SourceID:    row.ID,
			Amount:      row.Amount,
			Currency:    row.Currency,
			OccurredAt:  row.PaidAt,
			Reference:   row.Number,
			Description: description,
		}
	}
	return entries, nil
}

// SumSettledByRegister returns the total disbursed amount for the register
func (r *GormExpensePaymentRepository) SumSettledByRegister(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.ExpensePaymentModel{}).
		Where("register_id = ?", registerID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
