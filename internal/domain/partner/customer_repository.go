package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/washpoint/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByIDForTenant finds a customer by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)

	// FindByPhone finds a customer by phone number within a tenant
	FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*Customer, error)

	// FindAllForTenant finds all customers for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, error)

	// FindByStatus finds customers by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status CustomerStatus, filter shared.Filter) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// Delete deletes a customer within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts customers for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts customers by status for a tenant
	CountByStatus(ctx context.Context, tenantID uuid.UUID, status CustomerStatus) (int64, error)

	// ExistsByPhone checks if a customer with the given phone exists in the tenant
	ExistsByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (bool, error)
}

// VehicleRepository defines the interface for vehicle persistence
type VehicleRepository interface {
	// FindByID finds a vehicle by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)

	// FindByIDForTenant finds a vehicle by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Vehicle, error)

	// FindByPlate finds a vehicle by plate number within a tenant
	FindByPlate(ctx context.Context, tenantID uuid.UUID, plate string) (*Vehicle, error)

	// FindByCustomerID finds all vehicles registered to a customer
	FindByCustomerID(ctx context.Context, tenantID, customerID uuid.UUID) ([]Vehicle, error)

	// Save creates or updates a vehicle
	Save(ctx context.Context, vehicle *Vehicle) error

	// DeleteForTenant deletes a vehicle within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// ExistsByPlate checks if a vehicle with the given plate exists in the tenant
	ExistsByPlate(ctx context.Context, tenantID uuid.UUID, plate string) (bool, error)
}
