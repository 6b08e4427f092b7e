package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/washpoint/backend/internal/domain/loyalty"
	"github.com/washpoint/backend/internal/domain/shared"
	"github.com/washpoint/backend/internal/infrastructure/persistence/models"
)

// GormWalletRepository implements WalletRepository using GORM
type GormWalletRepository struct {
	db *gorm.DB
}

var _ loyalty.WalletRepository = (*GormWalletRepository)(nil)

// NewGormWalletRepository creates a new GormWalletRepository
func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

// FindByID finds a wallet by its ID
func (r *GormWalletRepository) FindByID(ctx context.Context, id uuid.UUID) (*loyalty.Wallet, error) {
	var model models.WalletModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a wallet by ID within a tenant
func (r *GormWalletRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*loyalty.Wallet, error) {
	var model models.WalletModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomerID finds a customer's wallet within a tenant
func (r *GormWalletRepository) FindByCustomerID(ctx context.Context, tenantID, customerID uuid.UUID) (*loyalty.Wallet, error) {
	var model models.WalletModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("customer_id = ?", customerID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all wallets for a tenant
func (r *GormWalletRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]loyalty.Wallet, error) {
	query := r.db.WithContext(ctx).Model(&models.WalletModel{}).
		Where("tenant_id = ?", tenantID)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, WalletSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	query = applyPagination(query, filter)

	var walletModels []models.WalletModel
	if err := query.Find(&walletModels).Error; err != nil {
		return nil, err
	}

	return walletModelsToDomain(walletModels), nil
}

// Save creates or updates a wallet without a version check
func (r *GormWalletRepository) Save(ctx context.Context, wallet *loyalty.Wallet) error {
	model := models.WalletModelFromDomain(wallet)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a wallet guarded by an optimistic version check.
// The domain increments Version before save, so the row must still hold
// the previous version. Zero rows affected means another writer got there
// first and the caller should reload and retry.
func (r *GormWalletRepository) SaveWithLock(ctx context.Context, wallet *loyalty.Wallet) error {
	return saveWalletWithLock(r.db.WithContext(ctx), wallet)
}

// TopByLifetimePoints returns the tenant's wallets ranked by lifetime points
func (r *GormWalletRepository) TopByLifetimePoints(ctx context.Context, tenantID uuid.UUID, limit int) ([]loyalty.Wallet, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var walletModels []models.WalletModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("lifetime_points DESC").
		Limit(limit).
		Find(&walletModels).Error; err != nil {
		return nil, err
	}

	return walletModelsToDomain(walletModels), nil
}

// CountForTenant counts wallets for a tenant
func (r *GormWalletRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.WalletModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// saveWalletWithLock performs the version-checked update shared by the
// repository and the transactional ledger.
func saveWalletWithLock(db *gorm.DB, wallet *loyalty.Wallet) error {
	model := models.WalletModelFromDomain(wallet)

	result := db.Model(&models.WalletModel{}).
		Where("id = ?", wallet.ID).
		Where("version = ?", wallet.Version-1).
		Updates(map[string]interface{}{
			"available_points": model.AvailablePoints,
			"lifetime_points":  model.LifetimePoints,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func walletModelsToDomain(walletModels []models.WalletModel) []loyalty.Wallet {
	wallets := make([]loyalty.Wallet, len(walletModels))
	for i, model := range walletModels {
		wallets[i] = *model.ToDomain()
	}
	return wallets
}
