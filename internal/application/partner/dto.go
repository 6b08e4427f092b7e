package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/washpoint/backend/internal/domain/partner"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// RegisterCustomerRequest represents a request to register a new customer
type RegisterCustomerRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Phone string `json:"phone" binding:"required,min=1,max=50"`
	Email string `json:"email" binding:"omitempty,email,max=200"`
	Notes string `json:"notes"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=200"`
	Phone *string `json:"phone" binding:"omitempty,min=1,max=50"`
	Email *string `json:"email" binding:"omitempty,email,max=200"`
	Notes *string `json:"notes"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		TenantID:  c.TenantID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Status:    string(c.Status),
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}

// ToCustomerResponses converts a slice of customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}

// =============================================================================
// Vehicle DTOs
// =============================================================================

// RegisterVehicleRequest represents a request to register a vehicle
type RegisterVehicleRequest struct {
	Plate string `json:"plate" binding:"required,min=1,max=20"`
	Make  string `json:"make" binding:"max=100"`
	Model string `json:"model" binding:"max=100"`
	Color string `json:"color" binding:"max=50"`
}

// VehicleResponse represents a vehicle in API responses
type VehicleResponse struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Plate      string    `json:"plate"`
	Make       string    `json:"make"`
	Model      string    `json:"model"`
	Color      string    `json:"color"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToVehicleResponse converts a domain Vehicle to VehicleResponse
func ToVehicleResponse(v *partner.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:         v.ID,
		CustomerID: v.CustomerID,
		Plate:      v.Plate,
		Make:       v.Make,
		Model:      v.Model,
		Color:      v.Color,
		CreatedAt:  v.CreatedAt,
	}
}

// ToVehicleResponses converts a slice of vehicles
func ToVehicleResponses(vehicles []partner.Vehicle) []VehicleResponse {
	responses := make([]VehicleResponse, len(vehicles))
	for i := range vehicles {
		responses[i] = ToVehicleResponse(&vehicles[i])
	}
	return responses
}
