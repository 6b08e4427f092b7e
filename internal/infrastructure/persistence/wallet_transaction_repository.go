package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/washpoint/backend/internal/domain/loyalty"
	"github.com/washpoint/backend/internal/domain/shared"
	"github.com/washpoint/backend/internal/infrastructure/persistence/models"
)

// GormWalletTransactionRepository implements WalletTransactionRepository using GORM.
// Ledger rows are append-only; the repository exposes no update or delete.
type GormWalletTransactionRepository struct {
	db *gorm.DB
}

var _ loyalty.WalletTransactionRepository = (*GormWalletTransactionRepository)(nil)

// NewGormWalletTransactionRepository creates a new GormWalletTransactionRepository
func NewGormWalletTransactionRepository(db *gorm.DB) *GormWalletTransactionRepository {
	return &GormWalletTransactionRepository{db: db}
}

// Create appends a new ledger entry
func (r *GormWalletTransactionRepository) Create(ctx context.Context, tx *loyalty.WalletTransaction) error {
	model := models.WalletTransactionModelFromDomain(tx)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a ledger entry by ID
func (r *GormWalletTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*loyalty.WalletTransaction, error) {
	var model models.WalletTransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByWalletID returns a wallet's ledger entries matching the filter, newest first
func (r *GormWalletTransactionRepository) FindByWalletID(ctx context.Context, tenantID, walletID uuid.UUID, filter loyalty.WalletTransactionFilter) ([]loyalty.WalletTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WalletTransactionModel{}).
		Where("tenant_id = ?", tenantID).
		Where("wallet_id = ?", walletID)

	return r.findEntries(query, filter)
}

// FindByCustomerID returns a customer's ledger entries matching the filter, newest first
func (r *GormWalletTransactionRepository) FindByCustomerID(ctx context.Context, tenantID, customerID uuid.UUID, filter loyalty.WalletTransactionFilter) ([]loyalty.WalletTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WalletTransactionModel{}).
		Where("tenant_id = ?", tenantID).
		Where("customer_id = ?", customerID)

	return r.findEntries(query, filter)
}

// FindByReference finds ledger entries carrying a client reference
func (r *GormWalletTransactionRepository) FindByReference(ctx context.Context, tenantID uuid.UUID, reference string) ([]loyalty.WalletTransaction, error) {
	if reference == "" {
		return []loyalty.WalletTransaction{}, nil
	}

	var txModels []models.WalletTransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("reference = ?", reference).
		Order("transaction_date DESC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}

	return transactionModelsToDomain(txModels), nil
}

// GetLatestByWalletID returns the most recent entry for a wallet
func (r *GormWalletTransactionRepository) GetLatestByWalletID(ctx context.Context, tenantID, walletID uuid.UUID) (*loyalty.WalletTransaction, error) {
	var model models.WalletTransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("wallet_id = ?", walletID).
		Order("transaction_date DESC, created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SumByWalletIDAndType sums the absolute points moved by entries of a type
func (r *GormWalletTransactionRepository) SumByWalletIDAndType(ctx context.Context, tenantID, walletID uuid.UUID, txType loyalty.WalletTransactionType) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.WalletTransactionModel{}).
		Where("tenant_id = ?", tenantID).
		Where("wallet_id = ?", walletID).
		Where("transaction_type = ?", txType).
		Select("COALESCE(SUM(ABS(points_delta)), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// SumByTenantAndTypeInPeriod sums the absolute points moved by entries of a
// type across the tenant within a period
func (r *GormWalletTransactionRepository) SumByTenantAndTypeInPeriod(ctx context.Context, tenantID uuid.UUID, txType loyalty.WalletTransactionType, from, to time.Time) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.WalletTransactionModel{}).
		Where("tenant_id = ?", tenantID).
		Where("transaction_type = ?", txType).
		Where("transaction_date >= ?", from).
		Where("transaction_date < ?", to).
		Select("COALESCE(SUM(ABS(points_delta)), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// SumDebited sums the absolute points of all debit entries for a wallet
func (r *GormWalletTransactionRepository) SumDebited(ctx context.Context, tenantID, walletID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.WalletTransactionModel{}).
		Where("tenant_id = ?", tenantID).
		Where("wallet_id = ?", walletID).
		Where("points_delta < 0").
		Select("COALESCE(SUM(-points_delta), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// SumEarnedExpiringBefore sums earn points whose expiry falls before the given time
func (r *GormWalletTransactionRepository) SumEarnedExpiringBefore(ctx context.Context, tenantID, walletID uuid.UUID, asOf time.Time) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.WalletTransactionModel{}).
		Where("tenant_id = ?", tenantID).
		Where("wallet_id = ?", walletID).
		Where("transaction_type = ?", loyalty.WalletTransactionTypeEarn).
		Where("expires_at IS NOT NULL").
		Where("expires_at <= ?", asOf).
		Select("COALESCE(SUM(points_delta), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// FindWalletsWithExpiringPoints returns wallets holding earn entries whose
// expiry falls before the given time, up to limit
func (r *GormWalletTransactionRepository) FindWalletsWithExpiringPoints(ctx context.Context, asOf time.Time, limit int) ([]loyalty.ExpiryCandidate, error) {
	if limit <= 0 {
		limit = 100
	}

	var candidates []loyalty.ExpiryCandidate
	if err := r.db.WithContext(ctx).Model(&models.WalletTransactionModel{}).
		Select("tenant_id, wallet_id, customer_id").
		Where("transaction_type = ?", loyalty.WalletTransactionTypeEarn).
		Where("expires_at IS NOT NULL").
		Where("expires_at <= ?", asOf).
		Group("tenant_id, wallet_id, customer_id").
		Limit(limit).
		Scan(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

// CountActiveCustomersInPeriod counts distinct customers with ledger activity in a period
func (r *GormWalletTransactionRepository) CountActiveCustomersInPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.WalletTransactionModel{}).
		Where("tenant_id = ?", tenantID).
		Where("transaction_date >= ?", from).
		Where("transaction_date < ?", to).
		Distinct("customer_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormWalletTransactionRepository) findEntries(query *gorm.DB, filter loyalty.WalletTransactionFilter) ([]loyalty.WalletTransaction, int64, error) {
	if filter.TransactionType != nil {
		query = query.Where("transaction_type = ?", *filter.TransactionType)
	}
	if filter.SourceType != nil {
		query = query.Where("source_type = ?", *filter.SourceType)
	}
	if filter.DateFrom != nil {
		query = query.Where("transaction_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("transaction_date < ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txModels []models.WalletTransactionModel
	if err := query.
		Order("transaction_date DESC, created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&txModels).Error; err != nil {
		return nil, 0, err
	}

	return transactionModelsToDomain(txModels), total, nil
}

func transactionModelsToDomain(txModels []models.WalletTransactionModel) []loyalty.WalletTransaction {
	entries := make([]loyalty.WalletTransaction, len(txModels))
	for i, model := range txModels {
		entries[i] = *model.ToDomain()
	}
	return entries
}
