package models

import (
	"github.com/google/uuid"
	"github.com/washpoint/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	TenantAggregateModel
	Name   string                 `gorm:"type:varchar(200);not null"`
	Phone  string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_customer_tenant_phone,priority:2"`
	Email  string                 `gorm:"type:varchar(200);index"`
	Status partner.CustomerStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes  string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	customer := &partner.Customer{
		Name:   m.Name,
		Phone:  m.Phone,
		Email:  m.Email,
		Status: m.Status,
		Notes:  m.Notes,
	}
	m.PopulateTenantAggregateRoot(&customer.TenantAggregateRoot)
	return customer
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Phone = c.Phone
	m.Email = c.Email
	m.Status = c.Status
	m.Notes = c.Notes
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// VehicleModel is the persistence model for the Vehicle domain entity.
type VehicleModel struct {
	TenantAggregateModel
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Plate      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_vehicle_tenant_plate,priority:2"`
	Make       string    `gorm:"type:varchar(100)"`
	Model      string    `gorm:"type:varchar(100)"`
	Color      string    `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (VehicleModel) TableName() string {
	return "vehicles"
}

// ToDomain converts the persistence model to a domain Vehicle entity.
func (m *VehicleModel) ToDomain() *partner.Vehicle {
	vehicle := &partner.Vehicle{
		CustomerID: m.CustomerID,
		Plate:      m.Plate,
		Make:       m.Make,
		Model:      m.Model,
		Color:      m.Color,
	}
	m.PopulateTenantAggregateRoot(&vehicle.TenantAggregateRoot)
	return vehicle
}

// FromDomain populates the persistence model from a domain Vehicle entity.
func (m *VehicleModel) FromDomain(v *partner.Vehicle) {
	m.FromDomainTenantAggregateRoot(v.TenantAggregateRoot)
	m.CustomerID = v.CustomerID
	m.Plate = v.Plate
	m.Make = v.Make
	m.Model = v.Model
	m.Color = v.Color
}

// VehicleModelFromDomain creates a new persistence model from a domain Vehicle entity.
func VehicleModelFromDomain(v *partner.Vehicle) *VehicleModel {
	m := &VehicleModel{}
	m.FromDomain(v)
	return m
}
