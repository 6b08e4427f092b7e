// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWalletMetricsProvider implements WalletMetricsProvider using GORM.
// It queries the wallets table directly for aggregated liability metrics.
type GormWalletMetricsProvider struct {
	db *gorm.DB
}

// NewGormWalletMetricsProvider creates a new GormWalletMetricsProvider.
func NewGormWalletMetricsProvider(db *gorm.DB) *GormWalletMetricsProvider {
	return &GormWalletMetricsProvider{db: db}
}

// GetOutstandingPoints returns the sum of available points across a tenant's wallets.
func (p *GormWalletMetricsProvider) GetOutstandingPoints(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var total int64
	err := p.db.WithContext(ctx).
		Table("wallets").
		Where("tenant_id = ?", tenantID).
		Select("COALESCE(SUM(available_points), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// GetWalletCount returns the number of wallets holding a positive balance.
func (p *GormWalletMetricsProvider) GetWalletCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("wallets").
		Where("tenant_id = ? AND available_points > 0", tenantID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetActiveTenantIDs returns the IDs of all active tenants, satisfying TenantProvider.
func (p *GormWalletMetricsProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("tenants").
		Where("status = ?", "active").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
