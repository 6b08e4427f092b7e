package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/washpoint/backend/internal/domain/shared"
)

// Vehicle represents a vehicle registered to a customer
type Vehicle struct {
	shared.TenantAggregateRoot
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Plate      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_vehicle_tenant_plate,priority:2"`
	Make       string    `gorm:"type:varchar(100)"`
	Model      string    `gorm:"type:varchar(100)"`
	Color      string    `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (Vehicle) TableName() string {
	return "vehicles"
}

// NewVehicle registers a new vehicle for a customer
func NewVehicle(tenantID, customerID uuid.UUID, plate string) (*Vehicle, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_ID", "Customer ID cannot be empty")
	}
	if err := validatePlate(plate); err != nil {
		return nil, err
	}

	return &Vehicle{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		Plate:               normalizePlate(plate),
	}, nil
}

// SetDetails sets the vehicle's make, model, and color
func (v *Vehicle) SetDetails(make, model, color string) error {
	if make != "" && len(make) > 100 {
		return shared.NewDomainError("INVALID_MAKE", "Make cannot exceed 100 characters")
	}
	if model != "" && len(model) > 100 {
		return shared.NewDomainError("INVALID_MODEL", "Model cannot exceed 100 characters")
	}
	if color != "" && len(color) > 50 {
		return shared.NewDomainError("INVALID_COLOR", "Color cannot exceed 50 characters")
	}

	v.Make = make
	v.Model = model
	v.Color = color
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return nil
}

// UpdatePlate changes the vehicle's plate number
func (v *Vehicle) UpdatePlate(plate string) error {
	if err := validatePlate(plate); err != nil {
		return err
	}

	v.Plate = normalizePlate(plate)
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return nil
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), ""))
}

func validatePlate(plate string) error {
	plate = normalizePlate(plate)
	if plate == "" {
		return shared.NewDomainError("INVALID_PLATE", "Plate number cannot be empty")
	}
	if len(plate) > 20 {
		return shared.NewDomainError("INVALID_PLATE", "Plate number cannot exceed 20 characters")
	}
	validPlate := regexp.MustCompile(`^[A-Z0-9\-]+$`)
	if !validPlate.MatchString(plate) {
		return shared.NewDomainError("INVALID_PLATE", "Plate number can only contain letters, numbers, and hyphens")
	}
	return nil
}
