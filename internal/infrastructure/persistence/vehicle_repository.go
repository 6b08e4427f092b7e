package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/washpoint/backend/internal/domain/partner"
	"github.com/washpoint/backend/internal/domain/shared"
	"github.com/washpoint/backend/internal/infrastructure/persistence/models"
)

// GormVehicleRepository implements VehicleRepository using GORM
type GormVehicleRepository struct {
	db *gorm.DB
}

var _ partner.VehicleRepository = (*GormVehicleRepository)(nil)

// NewGormVehicleRepository creates a new GormVehicleRepository
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindByID finds a vehicle by its ID
func (r *GormVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Vehicle, error) {
	var model models.VehicleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a vehicle by ID within a tenant
func (r *GormVehicleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Vehicle, error) {
	var model models.VehicleModel
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

// FindByPlate finds a vehicle by plate number within a tenant
func (r *GormVehicleRepository) FindByPlate(ctx context.Context, tenantID uuid.UUID, plate string) (*partner.Vehicle, error) {
	var model models.VehicleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("plate = ?", normalizeStoredPlate(plate)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomerID finds all vehicles registered to a customer
func (r *GormVehicleRepository) FindByCustomerID(ctx context.Context, tenantID, customerID uuid.UUID) ([]partner.Vehicle, error) {
	var vehicleModels []models.VehicleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&vehicleModels).Error; err != nil {
		return nil, err
	}

	vehicles := make([]partner.Vehicle, len(vehicleModels))
	for i, model := range vehicleModels {
		vehicles[i] = *model.ToDomain()
	}
	return vehicles, nil
}

// Save creates or updates a vehicle
func (r *GormVehicleRepository) Save(ctx context.Context, vehicle *partner.Vehicle) error {
	model := models.VehicleModelFromDomain(vehicle)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForTenant deletes a vehicle within a tenant
func (r *GormVehicleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("id = ?", id).
		Delete(&models.VehicleModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByPlate checks if a vehicle with the given plate exists in the tenant
func (r *GormVehicleRepository) ExistsByPlate(ctx context.Context, tenantID uuid.UUID, plate string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.VehicleModel{}).
		Where("tenant_id = ?", tenantID).
		Where("plate = ?", normalizeStoredPlate(plate)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// normalizeStoredPlate matches the normalization applied by the domain before save
func normalizeStoredPlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), ""))
}
