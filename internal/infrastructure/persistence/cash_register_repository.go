package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/treasury"
	"github.com/hotelier/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCashRegisterRepository implements CashRegisterRepository using GORM
type GormCashRegisterRepository struct {
	db *gorm.DB
}

// NewGormCashRegisterRepository creates a new GormCashRegisterRepository
func NewGormCashRegisterRepository(db *gorm.DB) *GormCashRegisterRepository {
	return &GormCashRegisterRepository{db: db}
}

// FindByID finds a cash register by its ID
func (r *GormCashRegisterRepository) FindByID(ctx context.Context, id uuid.UUID) (*treasury.CashRegister, error) {
	var model models.CashRegisterModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a cash register by its unique code
func (r *GormCashRegisterRepository) FindByCode(ctx context.Context, code string) (*treasury.CashRegister, error) {
	var model models.CashRegisterModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds cash registers matching the filter
func (r *GormCashRegisterRepository) FindAll(ctx context.Context, filter treasury.CashRegisterFilter) ([]treasury.CashRegister, error) {
	var registerModels []models.CashRegisterModel
	query := r.db.WithContext(ctx).Model(&models.CashRegisterModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&registerModels).Error; err != nil {
		return nil, err
	}
	registers := make([]treasury.CashRegister, len(registerModels))
	for i, model := range registerModels {
		registers[i] = *model.ToDomain()
	}
	return registers, nil
}

// Count counts cash registers matching the filter
func (r *GormCashRegisterRepository) Count(ctx context.Context, filter treasury.CashRegisterFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.CashRegisterModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a cash register
func (r *GormCashRegisterRepository) Save(ctx context.Context, register *treasury.CashRegister) error {
	model := models.CashRegisterModelFromDomain(register)
	return r.db.WithContext(ctx).Save(model).Error
}

// UpdateCurrentBalance overwrites only the cached current balance column.
// Last writer wins; concurrent recomputations converge because each one
// recomputes from the full source tables, not from the previous cache value.
func (r *GormCashRegisterRepository) UpdateCurrentBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&models.CashRegisterModel{}).
		Where("id = ?", id).
		UpdateColumn("current_balance", balance)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a cash register
func (r *GormCashRegisterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CashRegisterModel{}, "id = ?", id).Error
}

// ExistsByCode checks whether a register code is already taken
func (r *GormCashRegisterRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CashRegisterModel{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to query
func (r *GormCashRegisterRepository) applyFilter(query *gorm.DB, filter treasury.CashRegisterFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, CashRegisterSortFields, "created_at")
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
func (r *GormCashRegisterRepository) applyFilterWithoutPagination(query *gorm.DB, filter treasury.CashRegisterFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(code ILIKE ? OR name ILIKE ?)", searchPattern, searchPattern)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if filter.Currency != nil {
		query = query.Where("currency = ?", *filter.Currency)
	}

	return query
}
