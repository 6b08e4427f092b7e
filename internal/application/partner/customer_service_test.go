package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/washpoint/backend/internal/domain/partner"
	"github.com/washpoint/backend/internal/domain/shared"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status partner.CustomerStatus, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, tenantID, status, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, status partner.CustomerStatus) (int64, error) {
	args := m.Called(ctx, tenantID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (bool, error) {
	args := m.Called(ctx, tenantID, phone)
	return args.Bool(0), args.Error(1)
}

// MockVehicleRepository is a mock implementation of VehicleRepository
type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Vehicle, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) FindByPlate(ctx context.Context, tenantID uuid.UUID, plate string) (*partner.Vehicle, error) {
	args := m.Called(ctx, tenantID, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) FindByCustomerID(ctx context.Context, tenantID, customerID uuid.UUID) ([]partner.Vehicle, error) {
	args := m.Called(ctx, tenantID, customerID)
	return args.Get(0).([]partner.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) Save(ctx context.Context, vehicle *partner.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockVehicleRepository) ExistsByPlate(ctx context.Context, tenantID uuid.UUID, plate string) (bool, error) {
	args := m.Called(ctx, tenantID, plate)
	return args.Bool(0), args.Error(1)
}

// =============================================================================
// Test Helpers
// =============================================================================

func newTestActor(tenantID uuid.UUID) shared.Actor {
	return shared.Actor{
		UserID:   uuid.New(),
		TenantID: tenantID,
		Role:     shared.RoleOperator,
	}
}

// =============================================================================
// Tests
// =============================================================================

func TestCustomerService_Register(t *testing.T) {
	tenantID := uuid.New()
	actor := newTestActor(tenantID)

	t.Run("registers a new customer", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		vehicleRepo := new(MockVehicleRepository)
		service := NewCustomerService(customerRepo, vehicleRepo)

		customerRepo.On("ExistsByPhone", mock.Anything, tenantID, "13800138000").Return(false, nil)
		customerRepo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil)

		resp, err := service.Register(context.Background(), actor, RegisterCustomerRequest{
			Name:  "Alice Zhang",
			Phone: "13800138000",
			Email: "alice@example.com",
		})

		require.NoError(t, err)
		assert.Equal(t, "Alice Zhang", resp.Name)
		assert.Equal(t, "13800138000", resp.Phone)
		assert.Equal(t, "alice@example.com", resp.Email)
		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, tenantID, resp.TenantID)
		customerRepo.AssertExpectations(t)
	})

	t.Run("rejects duplicate phone", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		vehicleRepo := new(MockVehicleRepository)
		service := NewCustomerService(customerRepo, vehicleRepo)

		customerRepo.On("ExistsByPhone", mock.Anything, tenantID, "13800138000").Return(true, nil)

		_, err := service.Register(context.Background(), actor, RegisterCustomerRequest{
			Name:  "Alice Zhang",
			Phone: "13800138000",
		})

		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "PHONE_EXISTS", domainErr.Code)
		customerRepo.AssertNotCalled(t, "Save")
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		vehicleRepo := new(MockVehicleRepository)
		service := NewCustomerService(customerRepo, vehicleRepo)

		customerRepo.On("ExistsByPhone", mock.Anything, tenantID, "13800138000").Return(false, nil)

		_, err := service.Register(context.Background(), actor, RegisterCustomerRequest{
			Name:  "Alice Zhang",
			Phone: "13800138000",
			Email: "not-an-email",
		})

		require.Error(t, err)
		customerRepo.AssertNotCalled(t, "Save")
	})
}

func TestCustomerService_Update(t *testing.T) {
	tenantID := uuid.New()
	actor := newTestActor(tenantID)

	t.Run("updates name without re-checking unchanged phone", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		vehicleRepo := new(MockVehicleRepository)
		service := NewCustomerService(customerRepo, vehicleRepo)

		customer, err := partner.NewCustomer(tenantID, "Alice Zhang", "13800138000")
		require.NoError(t, err)

		customerRepo.On("FindByIDForTenant", mock.Anything, tenantID, customer.ID).Return(customer, nil)
		customerRepo.On("Save", mock.Anything, customer).Return(nil)

		newName := "Alice Wang"
		resp, err := service.Update(context.Background(), actor, customer.ID, UpdateCustomerRequest{Name: &newName})

		require.NoError(t, err)
		assert.Equal(t, "Alice Wang", resp.Name)
		assert.Equal(t, "13800138000", resp.Phone)
		customerRepo.AssertNotCalled(t, "ExistsByPhone")
	})

	t.Run("rejects phone change to an existing number", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		vehicleRepo := new(MockVehicleRepository)
		service := NewCustomerService(customerRepo, vehicleRepo)

		customer, err := partner.NewCustomer(tenantID, "Alice Zhang", "13800138000")
		require.NoError(t, err)

		customerRepo.On("FindByIDForTenant", mock.Anything, tenantID, customer.ID).Return(customer, nil)
		customerRepo.On("ExistsByPhone", mock.Anything, tenantID, "13900139000").Return(true, nil)

		newPhone := "13900139000"
		_, err = service.Update(context.Background(), actor, customer.ID, UpdateCustomerRequest{Phone: &newPhone})

		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "PHONE_EXISTS", domainErr.Code)
	})

	t.Run("returns not found for missing customer", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		vehicleRepo := new(MockVehicleRepository)
		service := NewCustomerService(customerRepo, vehicleRepo)

		missingID := uuid.New()
		customerRepo.On("FindByIDForTenant", mock.Anything, tenantID, missingID).Return(nil, shared.ErrNotFound)

		_, err := service.Update(context.Background(), actor, missingID, UpdateCustomerRequest{})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCustomerService_DeactivateReactivate(t *testing.T) {
	tenantID := uuid.New()
	actor := newTestActor(tenantID)

	t.Run("deactivates an active customer", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		vehicleRepo := new(MockVehicleRepository)
		service := NewCustomerService(customerRepo, vehicleRepo)

		customer, err := partner.NewCustomer(tenantID, "Alice Zhang", "13800138000")
		require.NoError(t, err)

		customerRepo.On("FindByIDForTenant", mock.Anything, tenantID, customer.ID).Return(customer, nil)
		customerRepo.On("Save", mock.Anything, customer).Return(nil)

		resp, err := service.Deactivate(context.Background(), actor, customer.ID)

		require.NoError(t, err)
		assert.Equal(t, "inactive", resp.Status)
	})

	t.Run("reactivates an inactive customer", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		vehicleRepo := new(MockVehicleRepository)
		service := NewCustomerService(customerRepo, vehicleRepo)

		customer, err := partner.NewCustomer(tenantID, "Alice Zhang", "13800138000")
		require.NoError(t, err)
		require.NoError(t, customer.Deactivate())

		customerRepo.On("FindByIDForTenant", mock.Anything, tenantID, customer.ID).Return(customer, nil)
		customerRepo.On("Save", mock.Anything, customer).Return(nil)

		resp, err := service.Reactivate(context.Background(), actor, customer.ID)

		require.NoError(t, err)
		assert.Equal(t, "active", resp.Status)
	})
}

func TestCustomerService_List(t *testing.T) {
	tenantID := uuid.New()
	actor := newTestActor(tenantID)

	t.Run("lists customers with pagination", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		vehicleRepo := new(MockVehicleRepository)
		service := NewCustomerService(customerRepo, vehicleRepo)

		c1, err := partner.NewCustomer(tenantID, "Alice Zhang", "13800138000")
		require.NoError(t, err)
		c2, err := partner.NewCustomer(tenantID, "Bob Li", "13900139000")
		require.NoError(t, err)

		customerRepo.On("FindAllForTenant", mock.Anything, tenantID, mock.AnythingOfType("shared.Filter")).
			Return([]partner.Customer{*c1, *c2}, nil)
		customerRepo.On("CountForTenant", mock.Anything, tenantID, mock.AnythingOfType("shared.Filter")).
			Return(int64(2), nil)

		responses, total, err := service.List(context.Background(), actor, CustomerListFilter{Page: 1, PageSize: 20})

		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, responses, 2)
	})

	t.Run("filters by status", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		vehicleRepo := new(MockVehicleRepository)
		service := NewCustomerService(customerRepo, vehicleRepo)

		customerRepo.On("FindByStatus", mock.Anything, tenantID, partner.CustomerStatusInactive, mock.AnythingOfType("shared.Filter")).
			Return([]partner.Customer{}, nil)
		customerRepo.On("CountForTenant", mock.Anything, tenantID, mock.AnythingOfType("shared.Filter")).
			Return(int64(0), nil)

		responses, total, err := service.List(context.Background(), actor, CustomerListFilter{Status: "inactive"})

		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, responses)
		customerRepo.AssertNotCalled(t, "FindAllForTenant")
	})
}

func TestCustomerService_Vehicles(t *testing.T) {
	tenantID := uuid.New()
	actor := newTestActor(tenantID)

	t.Run("registers a vehicle with normalized plate", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		vehicleRepo := new(MockVehicleRepository)
		service := NewCustomerService(customerRepo, vehicleRepo)

		customer, err := partner.NewCustomer(tenantID, "Alice Zhang", "13800138000")
		require.NoError(t, err)

		customerRepo.On("FindByIDForTenant", mock.Anything, tenantID, customer.ID).Return(customer, nil)
		vehicleRepo.On("ExistsByPlate", mock.Anything, tenantID, "ab 1234").Return(false, nil)
		vehicleRepo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Vehicle")).Return(nil)

		resp, err := service.RegisterVehicle(context.Background(), actor, customer.ID, RegisterVehicleRequest{
			Plate: "ab 1234",
			Make:  "Toyota",
			Model: "Corolla",
			Color: "White",
		})

		require.NoError(t, err)
		assert.Equal(t, "AB1234", resp.Plate)
		assert.Equal(t, customer.ID, resp.CustomerID)
	})

	t.Run("rejects vehicle for inactive customer", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		vehicleRepo := new(MockVehicleRepository)
		service := NewCustomerService(customerRepo, vehicleRepo)

		customer, err := partner.NewCustomer(tenantID, "Alice Zhang", "13800138000")
		require.NoError(t, err)
		require.NoError(t, customer.Deactivate())

		customerRepo.On("FindByIDForTenant", mock.Anything, tenantID, customer.ID).Return(customer, nil)

		_, err = service.RegisterVehicle(context.Background(), actor, customer.ID, RegisterVehicleRequest{Plate: "AB1234"})

		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "CUSTOMER_INACTIVE", domainErr.Code)
		vehicleRepo.AssertNotCalled(t, "Save")
	})

	t.Run("rejects duplicate plate", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		vehicleRepo := new(MockVehicleRepository)
		service := NewCustomerService(customerRepo, vehicleRepo)

		customer, err := partner.NewCustomer(tenantID, "Alice Zhang", "13800138000")
		require.NoError(t, err)

		customerRepo.On("FindByIDForTenant", mock.Anything, tenantID, customer.ID).Return(customer, nil)
		vehicleRepo.On("ExistsByPlate", mock.Anything, tenantID, "AB1234").Return(true, nil)

		_, err = service.RegisterVehicle(context.Background(), actor, customer.ID, RegisterVehicleRequest{Plate: "AB1234"})

		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "PLATE_EXISTS", domainErr.Code)
	})

	t.Run("lists vehicles for a customer", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		vehicleRepo := new(MockVehicleRepository)
		service := NewCustomerService(customerRepo, vehicleRepo)

		customer, err := partner.NewCustomer(tenantID, "Alice Zhang", "13800138000")
		require.NoError(t, err)

		v1, err := partner.NewVehicle(tenantID, customer.ID, "AB1234")
		require.NoError(t, err)

		customerRepo.On("FindByIDForTenant", mock.Anything, tenantID, customer.ID).Return(customer, nil)
		vehicleRepo.On("FindByCustomerID", mock.Anything, tenantID, customer.ID).Return([]partner.Vehicle{*v1}, nil)

		responses, err := service.ListVehicles(context.Background(), actor, customer.ID)

		require.NoError(t, err)
		require.Len(t, responses, 1)
		assert.Equal(t, "AB1234", responses[0].Plate)
	})

	t.Run("removes a vehicle", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		vehicleRepo := new(MockVehicleRepository)
		service := NewCustomerService(customerRepo, vehicleRepo)

		v1, err := partner.NewVehicle(tenantID, uuid.New(), "AB1234")
		require.NoError(t, err)

		vehicleRepo.On("FindByIDForTenant", mock.Anything, tenantID, v1.ID).Return(v1, nil)
		vehicleRepo.On("DeleteForTenant", mock.Anything, tenantID, v1.ID).Return(nil)

		err = service.RemoveVehicle(context.Background(), actor, v1.ID)

		require.NoError(t, err)
		vehicleRepo.AssertExpectations(t)
	})
}
