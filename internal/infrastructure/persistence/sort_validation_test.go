package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"uppercase asc", "ASC", "ASC"},
		{"lowercase asc", "asc", "ASC"},
		{"asc with spaces", "  asc  ", "ASC"},
		{"uppercase desc", "DESC", "DESC"},
		{"lowercase desc", "desc", "DESC"},
		{"empty defaults to desc", "", "DESC"},
		{"garbage defaults to desc", "sideways", "DESC"},
		{"injection attempt defaults to desc", "ASC; DROP TABLE cash_registers", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		allowed  map[string]bool
		expected string
	}{
		{"allowed field", "code", CashRegisterSortFields, "code"},
		{"allowed balance field", "current_balance", CashRegisterSortFields, "current_balance"},
		{"empty falls back", "", CashRegisterSortFields, "created_at"},
		{"unknown falls back", "secret_column", CashRegisterSortFields, "created_at"},
		{"injection falls back", "name; DELETE FROM expenses", ExpenseSortFields, "created_at"},
		{"payment field", "received_at", PaymentSortFields, "received_at"},
		{"expense field", "incurred_at", ExpenseSortFields, "incurred_at"},
		{"common field", "updated_at", CommonSortFields, "updated_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, tt.allowed, "created_at"))
		})
	}
}
