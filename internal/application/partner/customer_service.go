package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/washpoint/backend/internal/domain/partner"
	"github.com/washpoint/backend/internal/domain/shared"
)

// CustomerService handles customer registry operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	vehicleRepo  partner.VehicleRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo partner.CustomerRepository,
	vehicleRepo partner.VehicleRepository,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		vehicleRepo:  vehicleRepo,
	}
}

// Register registers a new customer for the actor's tenant
func (s *CustomerService) Register(ctx context.Context, actor shared.Actor, req RegisterCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.customerRepo.ExistsByPhone(ctx, actor.TenantID, req.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("PHONE_EXISTS", "A customer with this phone number already exists")
	}

	customer, err := partner.NewCustomer(actor.TenantID, req.Name, req.Phone)
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		if err := customer.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		customer.SetNotes(req.Notes)
	}
	customer.SetCreatedBy(actor.UserID)

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Update updates a customer's profile
func (s *CustomerService) Update(ctx context.Context, actor shared.Actor, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, actor.TenantID, customerID)
	if err != nil {
		return nil, err
	}

	name := customer.Name
	if req.Name != nil {
		name = *req.Name
	}
	phone := customer.Phone
	if req.Phone != nil {
		phone = *req.Phone
	}

	if phone != customer.Phone {
		exists, err := s.customerRepo.ExistsByPhone(ctx, actor.TenantID, phone)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("PHONE_EXISTS", "A customer with this phone number already exists")
		}
	}

	if err := customer.Update(name, phone); err != nil {
		return nil, err
	}
	if req.Email != nil {
		if err := customer.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		customer.SetNotes(*req.Notes)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, actor shared.Actor, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, actor.TenantID, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByPhone retrieves a customer by phone number
func (s *CustomerService) GetByPhone(ctx context.Context, actor shared.Actor, phone string) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByPhone(ctx, actor.TenantID, phone)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers matching the filter
func (s *CustomerService) List(ctx context.Context, actor shared.Actor, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	var customers []partner.Customer
	var err error
	if filter.Status != "" {
		customers, err = s.customerRepo.FindByStatus(ctx, actor.TenantID, partner.CustomerStatus(filter.Status), domainFilter)
	} else {
		customers, err = s.customerRepo.FindAllForTenant(ctx, actor.TenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.customerRepo.CountForTenant(ctx, actor.TenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCustomerResponses(customers), total, nil
}

// Deactivate deactivates a customer
func (s *CustomerService) Deactivate(ctx context.Context, actor shared.Actor, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, actor.TenantID, customerID)
	if err != nil {
		return nil, err
	}

	if err := customer.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Reactivate reactivates a customer
func (s *CustomerService) Reactivate(ctx context.Context, actor shared.Actor, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, actor.TenantID, customerID)
	if err != nil {
		return nil, err
	}

	if err := customer.Activate(); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// RegisterVehicle registers a vehicle for a customer
func (s *CustomerService) RegisterVehicle(ctx context.Context, actor shared.Actor, customerID uuid.UUID, req RegisterVehicleRequest) (*VehicleResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, actor.TenantID, customerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, shared.NewDomainError("CUSTOMER_INACTIVE", "Customer is not active")
	}

	exists, err := s.vehicleRepo.ExistsByPlate(ctx, actor.TenantID, req.Plate)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("PLATE_EXISTS", "A vehicle with this plate is already registered")
	}

	vehicle, err := partner.NewVehicle(actor.TenantID, customerID, req.Plate)
	if err != nil {
		return nil, err
	}
	if err := vehicle.SetDetails(req.Make, req.Model, req.Color); err != nil {
		return nil, err
	}
	vehicle.SetCreatedBy(actor.UserID)

	if err := s.vehicleRepo.Save(ctx, vehicle); err != nil {
		return nil, err
	}

	response := ToVehicleResponse(vehicle)
	return &response, nil
}

// ListVehicles retrieves a customer's registered vehicles
func (s *CustomerService) ListVehicles(ctx context.Context, actor shared.Actor, customerID uuid.UUID) ([]VehicleResponse, error) {
	if _, err := s.customerRepo.FindByIDForTenant(ctx, actor.TenantID, customerID); err != nil {
		return nil, err
	}

	vehicles, err := s.vehicleRepo.FindByCustomerID(ctx, actor.TenantID, customerID)
	if err != nil {
		return nil, err
	}

	return ToVehicleResponses(vehicles), nil
}

// RemoveVehicle deletes a vehicle registration
func (s *CustomerService) RemoveVehicle(ctx context.Context, actor shared.Actor, vehicleID uuid.UUID) error {
	if _, err := s.vehicleRepo.FindByIDForTenant(ctx, actor.TenantID, vehicleID); err != nil {
		return err
	}

	return s.vehicleRepo.DeleteForTenant(ctx, actor.TenantID, vehicleID)
}
