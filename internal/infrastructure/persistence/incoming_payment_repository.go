package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/payments"
	"github.com/hotelier/backend/internal/domain/treasury"
	"github.com/hotelier/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormIncomingPaymentRepository implements IncomingPaymentRepository using GORM.
// It also implements treasury.TransactionSource, projecting validated payments
// as the credit side of a register's ledger.
type GormIncomingPaymentRepository struct {
	db *gorm.DB
}

// NewGormIncomingPaymentRepository creates a new GormIncomingPaymentRepository
func NewGormIncomingPaymentRepository(db *gorm.DB) *GormIncomingPaymentRepository {
	return &GormIncomingPaymentRepository{db: db}
}

// FindByID finds an incoming payment by its ID
func (r *GormIncomingPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payments.IncomingPayment, error) {
	var model models.IncomingPaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an incoming payment by its payment number
func (r *GormIncomingPaymentRepository) FindByNumber(ctx context.Context, number string) (*payments.IncomingPayment, error) {
	var model models.IncomingPaymentModel
	if err := r.db.WithContext(ctx).Where("payment_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds incoming payments matching the filter
func (r *GormIncomingPaymentRepository) FindAll(ctx context.Context, filter payments.PaymentFilter) ([]*payments.IncomingPayment, error) {
	var paymentModels []models.IncomingPaymentModel
	query := r.db.WithContext(ctx).Model(&models.IncomingPaymentModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	result := make([]*payments.IncomingPayment, len(paymentModels))
	for i := range paymentModels {
		result[i] = paymentModels[i].ToDomain()
	}
	return result, nil
}

// Count counts incoming payments matching the filter
func (r *GormIncomingPaymentRepository) Count(ctx context.Context, filter payments.PaymentFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.IncomingPaymentModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an incoming payment
func (r *GormIncomingPaymentRepository) Save(ctx context.Context, payment *payments.IncomingPayment) error {
	model := models.IncomingPaymentModelFromDomain(payment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes an incoming payment
func (r *GormIncomingPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.IncomingPaymentModel{}, "id = ?", id).Error
}

// NextPaymentNumber allocates the next sequential payment number for the current month
func (r *GormIncomingPaymentRepository) NextPaymentNumber(ctx context.Context) (string, error) {
	var count int64
	yearMonth := time.Now().Format("200601")

	if err := r.db.WithContext(ctx).Model(&models.IncomingPaymentModel{}).
		Where("payment_number LIKE ?", fmt.Sprintf("PAY-%s-%%", yearMonth)).
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("PAY-%s-%05d", yearMonth, count+1), nil
}

// SourceType identifies this source in merged ledgers
func (r *GormIncomingPaymentRepository) SourceType() treasury.LedgerSourceType {
	return treasury.LedgerSourcePayment
}

// ListSettledByRegister returns every validated payment assigned to the
// register, newest first. The list is intentionally unpaginated: the merge
// layer slices pages only after interleaving all three sources.
func (r *GormIncomingPaymentRepository) ListSettledByRegister(ctx context.Context, registerID uuid.UUID) ([]treasury.LedgerEntry, error) {
	var paymentModels []models.IncomingPaymentModel
	if err := r.db.WithContext(ctx).
		Where("register_id = ? AND status = ?", registerID, payments.PaymentStatusValidated).
		Order("received_at DESC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	entries := make([]treasury.LedgerEntry, len(paymentModels))
	for i, model := range paymentModels {
		entries[i] = treasury.LedgerEntry{
			SourceType:  treasury.LedgerSourcePayment,
			SourceID:    model.ID,
			Amount:      model.Amount,
			Currency:    model.Currency,
			OccurredAt:  model.ReceivedAt,
			Reference:   model.PaymentNumber,
			Description: model.Description,
		}
	}
	return entries, nil
}

// SumSettledByRegister returns the total validated payment amount for the register
func (r *GormIncomingPaymentRepository) SumSettledByRegister(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.IncomingPaymentModel{}).
		Where("register_id = ? AND status = ?", registerID, payments.PaymentStatusValidated).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// applyFilter applies filter conditions to query
func (r *GormIncomingPaymentRepository) applyFilter(query *gorm.DB, filter payments.PaymentFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, PaymentSortFields, "received_at")
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
func (r *GormIncomingPaymentRepository) applyFilterWithoutPagination(query *gorm.DB, filter payments.PaymentFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(payment_number ILIKE ? OR payer_name ILIKE ? OR description ILIKE ?)", searchPattern, searchPattern, searchPattern)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.Method != "" {
		query = query.Where("method = ?", filter.Method)
	}

	if filter.RegisterID != nil {
		query = query.Where("register_id = ?", *filter.RegisterID)
	}

	return query
}
