package models

import (
	"github.com/google/uuid"
	"github.com/hotelier/backend/internal/domain/shared/valueobject"
	"github.com/hotelier/backend/internal/domain/treasury"
	"github.com/shopspring/decimal"
)

// CashRegisterModel is the persistence model for the CashRegister aggregate root.
type CashRegisterModel struct {
	AggregateModel
	Name           string                      `gorm:"type:varchar(200);not null"`
	Code           string                      `gorm:"type:varchar(50);not null;uniqueIndex"`
	Currency       valueobject.Currency        `gorm:"type:varchar(3);not null;default:'XOF'"`
	InitialBalance decimal.Decimal             `gorm:"type:decimal(18,2);not null"`
	CurrentBalance decimal.Decimal             `gorm:"type:decimal(18,2);not null"`
	Status         treasury.CashRegisterStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	ManagerID      *uuid.UUID                  `gorm:"type:uuid;index"`
	Description    string                      `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CashRegisterModel) TableName() string {
	return "cash_registers"
}

// ToDomain converts the persistence model to a domain CashRegister entity.
func (m *CashRegisterModel) ToDomain() *treasury.CashRegister {
	register := &treasury.CashRegister{
		Name:           m.Name,
		Code:           m.Code,
		Currency:       m.Currency,
		InitialBalance: m.InitialBalance,
		CurrentBalance: m.CurrentBalance,
		Status:         m.Status,
		ManagerID:      m.ManagerID,
		Description:    m.Description,
	}
	m.PopulateAggregateRoot(&register.BaseAggregateRoot)
	return register
}

// FromDomain populates the persistence model from a domain CashRegister entity.
func (m *CashRegisterModel) FromDomain(register *treasury.CashRegister) {
	m.FromDomainAggregateRoot(register.BaseAggregateRoot)
	m.Name = register.Name
	m.Code = register.Code
	m.Currency = register.Currency
	m.InitialBalance = register.InitialBalance
	m.CurrentBalance = register.CurrentBalance
	m.Status = register.Status
	m.ManagerID = register.ManagerID
	m.Description = register.Description
}

// CashRegisterModelFromDomain creates a new persistence model from a domain CashRegister.
func CashRegisterModelFromDomain(register *treasury.CashRegister) *CashRegisterModel {
	m := &CashRegisterModel{}
	m.FromDomain(register)
	return m
}
