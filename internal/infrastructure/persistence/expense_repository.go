package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/expenses"
	"github.com/hotelier/backend/internal/domain/treasury"
	"github.com/hotelier/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// settledExpenseStatuses are the statuses under which an expense counts
// against its register's balance. A pending or rejected expense never does.
var settledExpenseStatuses = []expenses.ExpenseStatus{
	expenses.ExpenseStatusApproved,
	expenses.ExpenseStatusPaid,
}

// GormExpenseRepository implements ExpenseRepository using GORM.
// It also implements treasury.TransactionSource, projecting approved and
// paid expenses as a debit side of a register's ledger.
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByID finds an expense by its ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*expenses.Expense, error) {
	var model models.ExpenseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an expense by its expense number
func (r *GormExpenseRepository) FindByNumber(ctx context.Context, number string) (*expenses.Expense, error) {
	var model models.ExpenseModel
	if err := r.db.WithContext(ctx).Where("expense_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds expenses matching the filter
func (r *GormExpenseRepository) FindAll(ctx context.Context, filter expenses.ExpenseFilter) ([]*expenses.Expense, error) {
	var expenseModels []models.ExpenseModel
	query := r.db.WithContext(ctx).Model(&models.ExpenseModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	result := make([]*expenses.Expense, len(expenseModels))
	for i := range expenseModels {
		result[i] = expenseModels[i].ToDomain()
	}
	return result, nil
}

// Count counts expenses matching the filter
func (r *GormExpenseRepository) Count(ctx context.Context, filter expenses.ExpenseFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ExpenseModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an expense
func (r *GormExpenseRepository) Save(ctx context.Context, expense *expenses.Expense) error {
	model := models.ExpenseModelFromDomain(expense)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes an expense
func (r *GormExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ExpenseModel{}, "id = ?", id).Error
}

// NextExpenseNumber allocates the next sequential expense number for the current month
func (r *GormExpenseRepository) NextExpenseNumber(ctx context.Context) (string, error) {
	var count int64
	yearMonth := time.Now().Format("200601")

	if err := r.db.WithContext(ctx).Model(&models.ExpenseModel{}).
		Where("expense_number LIKE ?", fmt.Sprintf("EXP-%s-%%", yearMonth)).
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("EXP-%s-%05d", yearMonth, count+1), nil
}

// SourceType identifies this source in merged ledgers
func (r *GormExpenseRepository) SourceType() treasury.LedgerSourceType {
	return treasury.LedgerSourceExpense
}

// ListSettledByRegister returns every approved or paid expense assigned to
// the register, newest first, unpaginated.
func (r *GormExpenseRepository) ListSettledByRegister(ctx context.Context, registerID uuid.UUID) ([]treasury.LedgerEntry, error) {
	var expenseModels []models.ExpenseModel
	if err := r.db.WithContext(ctx).
		Where("register_id = ? AND status IN ?", registerID, settledExpenseStatuses).
		Order("incurred_at DESC").
		Find(&expenseModels).Error; err != nil {
		return nil, err
	}

	entries := make([]treasury.LedgerEntry, len(expenseModels))
	for i, model := range expenseModels {
		entries[i] = treasury.LedgerEntry{
			SourceType:  treasury.LedgerSourceExpense,
			SourceID:    model.ID,
			Amount:      model.Amount,
			Currency:    model.Currency,
			OccurredAt:  model.IncurredAt,
			Reference:   model.ExpenseNumber,
			Description: model.Label,
		}
	}
	return entries, nil
}

// SumSettledByRegister returns the total approved and paid expense amount for the register
func (r *GormExpenseRepository) SumSettledByRegister(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.ExpenseModel{}).
		Where("register_id = ? AND status IN ?", registerID, settledExpenseStatuses).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// applyFilter applies filter conditions to query
func (r *GormExpenseRepository) applyFilter(query *gorm.DB, filter expenses.ExpenseFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, ExpenseSortFields, "incurred_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	// Apply pagination
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormExpenseRepository) applyFilterWithoutPagination(query *gorm.DB, filter expenses.ExpenseFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(expense_number ILIKE ? OR label ILIKE ? OR supplier_name ILIKE ?)", searchPattern, searchPattern, searchPattern)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	if filter.RegisterID != nil {
		query = query.Where("register_id = ?", *filter.RegisterID)
	}

	return query
}
