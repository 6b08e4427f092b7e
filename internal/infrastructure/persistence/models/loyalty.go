package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/washpoint/backend/internal/domain/loyalty"
	"github.com/washpoint/backend/internal/domain/shared"
)

// LoyaltyProgramModel is the persistence model for the LoyaltyProgram domain entity.
type LoyaltyProgramModel struct {
	TenantAggregateModel
	Name              string          `gorm:"type:varchar(200);not null"`
	PointsPerCurrency decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CurrencyPerPoint  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MinPointsRedeem   int64           `gorm:"not null;default:0"`
	ExpirationDays    int             `gorm:"not null;default:0"`
	IsActive          bool            `gorm:"not null;default:false;index"`
	Description       string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LoyaltyProgramModel) TableName() string {
	return "loyalty_programs"
}

// ToDomain converts the persistence model to a domain LoyaltyProgram entity.
func (m *LoyaltyProgramModel) ToDomain() *loyalty.LoyaltyProgram {
	program := &loyalty.LoyaltyProgram{
		Name:              m.Name,
		PointsPerCurrency: m.PointsPerCurrency,
		CurrencyPerPoint:  m.CurrencyPerPoint,
		MinPointsRedeem:   m.MinPointsRedeem,
		ExpirationDays:    m.ExpirationDays,
		IsActive:          m.IsActive,
		Description:       m.Description,
	}
	m.PopulateTenantAggregateRoot(&program.TenantAggregateRoot)
	return program
}

// FromDomain populates the persistence model from a domain LoyaltyProgram entity.
func (m *LoyaltyProgramModel) FromDomain(p *loyalty.LoyaltyProgram) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.PointsPerCurrency = p.PointsPerCurrency
	m.CurrencyPerPoint = p.CurrencyPerPoint
	m.MinPointsRedeem = p.MinPointsRedeem
	m.ExpirationDays = p.ExpirationDays
	m.IsActive = p.IsActive
	m.Description = p.Description
}

// LoyaltyProgramModelFromDomain creates a new persistence model from a domain LoyaltyProgram entity.
func LoyaltyProgramModelFromDomain(p *loyalty.LoyaltyProgram) *LoyaltyProgramModel {
	m := &LoyaltyProgramModel{}
	m.FromDomain(p)
	return m
}

// WalletModel is the persistence model for the Wallet domain entity.
type WalletModel struct {
	TenantAggregateModel
	CustomerID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wallet_tenant_customer,priority:2"`
	AvailablePoints int64     `gorm:"not null;default:0"`
	LifetimePoints  int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (WalletModel) TableName() string {
	return "wallets"
}

// ToDomain converts the persistence model to a domain Wallet entity.
func (m *WalletModel) ToDomain() *loyalty.Wallet {
	wallet := &loyalty.Wallet{
		CustomerID:      m.CustomerID,
		AvailablePoints: m.AvailablePoints,
		LifetimePoints:  m.LifetimePoints,
	}
	m.PopulateTenantAggregateRoot(&wallet.TenantAggregateRoot)
	return wallet
}

// FromDomain populates the persistence model from a domain Wallet entity.
func (m *WalletModel) FromDomain(w *loyalty.Wallet) {
	m.FromDomainTenantAggregateRoot(w.TenantAggregateRoot)
	m.CustomerID = w.CustomerID
	m.AvailablePoints = w.AvailablePoints
	m.LifetimePoints = w.LifetimePoints
}

// WalletModelFromDomain creates a new persistence model from a domain Wallet entity.
func WalletModelFromDomain(w *loyalty.Wallet) *WalletModel {
	m := &WalletModel{}
	m.FromDomain(w)
	return m
}

// WalletTransactionModel is the persistence model for the WalletTransaction ledger entry.
// Ledger rows are append-only and carry no version column.
type WalletTransactionModel struct {
	BaseModel
	TenantID        uuid.UUID                           `gorm:"type:uuid;not null;index:idx_wallet_tx_tenant_date"`
	WalletID        uuid.UUID                           `gorm:"type:uuid;not null;index"`
	CustomerID      uuid.UUID                           `gorm:"type:uuid;not null;index"`
	TransactionType loyalty.WalletTransactionType       `gorm:"type:varchar(20);not null;index"`
	PointsDelta     int64                               `gorm:"not null"`
	BalanceAfter    int64                               `gorm:"not null"`
	SourceType      loyalty.WalletTransactionSourceType `gorm:"type:varchar(20);not null"`
	SourceID        *string                             `gorm:"type:varchar(100)"`
	Reference       string                              `gorm:"type:varchar(200);index"`
	Description     string                              `gorm:"type:text"`
	OperatorID      *uuid.UUID                          `gorm:"type:uuid"`
	ExpiresAt       *time.Time                          `gorm:"index"`
	TransactionDate time.Time                           `gorm:"not null;index:idx_wallet_tx_tenant_date"`
}

// TableName returns the table name for GORM
func (WalletTransactionModel) TableName() string {
	return "wallet_transactions"
}

// ToDomain converts the persistence model to a domain WalletTransaction entity.
func (m *WalletTransactionModel) ToDomain() *loyalty.WalletTransaction {
	return &loyalty.WalletTransaction{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		TenantID:        m.TenantID,
		WalletID:        m.WalletID,
		CustomerID:      m.CustomerID,
		TransactionType: m.TransactionType,
		PointsDelta:     m.PointsDelta,
		BalanceAfter:    m.BalanceAfter,
		SourceType:      m.SourceType,
		SourceID:        m.SourceID,
		Reference:       m.Reference,
		Description:     m.Description,
		OperatorID:      m.OperatorID,
		ExpiresAt:       m.ExpiresAt,
		TransactionDate: m.TransactionDate,
	}
}

// FromDomain populates the persistence model from a domain WalletTransaction entity.
func (m *WalletTransactionModel) FromDomain(t *loyalty.WalletTransaction) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.TenantID = t.TenantID
	m.WalletID = t.WalletID
	m.CustomerID = t.CustomerID
	m.TransactionType = t.TransactionType
	m.PointsDelta = t.PointsDelta
	m.BalanceAfter = t.BalanceAfter
	m.SourceType = t.SourceType
	m.SourceID = t.SourceID
	m.Reference = t.Reference
	m.Description = t.Description
	m.OperatorID = t.OperatorID
	m.ExpiresAt = t.ExpiresAt
	m.TransactionDate = t.TransactionDate
}

// WalletTransactionModelFromDomain creates a new persistence model from a domain WalletTransaction entity.
func WalletTransactionModelFromDomain(t *loyalty.WalletTransaction) *WalletTransactionModel {
	m := &WalletTransactionModel{}
	m.FromDomain(t)
	return m
}
