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

// GormLoyaltyProgramRepository implements LoyaltyProgramRepository using GORM
type GormLoyaltyProgramRepository struct {
	db *gorm.DB
}

var _ loyalty.LoyaltyProgramRepository = (*GormLoyaltyProgramRepository)(nil)

// NewGormLoyaltyProgramRepository creates a new GormLoyaltyProgramRepository
func NewGormLoyaltyProgramRepository(db *gorm.DB) *GormLoyaltyProgramRepository {
	return &GormLoyaltyProgramRepository{db: db}
}

// FindByID finds a program by its ID
func (r *GormLoyaltyProgramRepository) FindByID(ctx context.Context, id uuid.UUID) (*loyalty.LoyaltyProgram, error) {
	var model models.LoyaltyProgramModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a program by ID within a tenant
func (r *GormLoyaltyProgramRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*loyalty.LoyaltyProgram, error) {
	var model models.LoyaltyProgramModel
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

// FindActiveForTenant returns the tenant's single active program
func (r *GormLoyaltyProgramRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) (*loyalty.LoyaltyProgram, error) {
	var model models.LoyaltyProgramModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("is_active = ?", true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all programs for a tenant
func (r *GormLoyaltyProgramRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]loyalty.LoyaltyProgram, error) {
	query := r.db.WithContext(ctx).Model(&models.LoyaltyProgramModel{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ?", keyword)
	}

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, ProgramSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	query = applyPagination(query, filter)

	var programModels []models.LoyaltyProgramModel
	if err := query.Find(&programModels).Error; err != nil {
		return nil, err
	}

	programs := make([]loyalty.LoyaltyProgram, len(programModels))
	for i, model := range programModels {
		programs[i] = *model.ToDomain()
	}
	return programs, nil
}

// Save creates or updates a program
func (r *GormLoyaltyProgramRepository) Save(ctx context.Context, program *loyalty.LoyaltyProgram) error {
	model := models.LoyaltyProgramModelFromDomain(program)
	return r.db.WithContext(ctx).Save(model).Error
}

// Activate atomically deactivates the tenant's current active program (if any)
// and activates the given one. Both updates run in one transaction so the
// partial unique index on (tenant_id) WHERE is_active never sees two rows.
func (r *GormLoyaltyProgramRepository) Activate(ctx context.Context, tenantID, programID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.LoyaltyProgramModel{}).
			Where("tenant_id = ?", tenantID).
			Where("is_active = ?", true).
			Where("id <> ?", programID).
			Updates(map[string]interface{}{
				"is_active":  false,
				"updated_at": time.Now(),
				"version":    gorm.Expr("version + 1"),
			}).Error; err != nil {
			return err
		}

		result := tx.Model(&models.LoyaltyProgramModel{}).
			Where("tenant_id = ?", tenantID).
			Where("id = ?", programID).
			Updates(map[string]interface{}{
				"is_active":  true,
				"updated_at": time.Now(),
				"version":    gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForTenant counts programs for a tenant
func (r *GormLoyaltyProgramRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.LoyaltyProgramModel{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ?", keyword)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
