package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/washpoint/backend/internal/domain/identity"
	"github.com/washpoint/backend/internal/domain/shared"
)

// defaultTrialDays is the trial period granted on signup
const defaultTrialDays = 14

// TenantService handles tenant management operations
type TenantService struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	logger     *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// Signup creates a new trial tenant with its first admin account
func (s *TenantService) Signup(ctx context.Context, input SignupInput) (*SignupResult, error) {
	exists, err := s.tenantRepo.ExistsBySlug(ctx, input.TenantSlug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("SLUG_EXISTS", "A business with this identifier already exists")
	}

	tenant, err := identity.NewTrialTenant(input.TenantSlug, input.TenantName, defaultTrialDays)
	if err != nil {
		return nil, err
	}
	if err := tenant.SetContact(input.ContactName, input.ContactPhone, input.ContactEmail); err != nil {
		return nil, err
	}

	admin, err := identity.NewActiveUser(tenant.ID, input.AdminEmail, input.AdminPassword, identity.UserRoleAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		// Roll back the tenant so a failed signup can be retried with the same slug
		if delErr := s.tenantRepo.Delete(ctx, tenant.ID); delErr != nil {
			s.logger.Error("Failed to roll back tenant after user creation failure",
				zap.String("tenant_id", tenant.ID.String()),
				zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("Tenant signed up",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("slug", tenant.Slug))

	return &SignupResult{
		Tenant: ToTenantDTO(tenant),
		Admin:  ToUserDTO(admin),
	}, nil
}

// Get retrieves the actor's tenant
func (s *TenantService) Get(ctx context.Context, actor shared.Actor) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}

	dto := ToTenantDTO(tenant)
	return &dto, nil
}

// Update updates the actor's tenant profile
func (s *TenantService) Update(ctx context.Context, actor shared.Actor, input UpdateTenantInput) (*TenantDTO, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	tenant, err := s.tenantRepo.FindByID(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := tenant.Update(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.ContactName != nil || input.ContactPhone != nil || input.ContactEmail != nil {
		contactName := tenant.ContactName
		if input.ContactName != nil {
			contactName = *input.ContactName
		}
		contactPhone := tenant.ContactPhone
		if input.ContactPhone != nil {
			contactPhone = *input.ContactPhone
		}
		contactEmail := tenant.ContactEmail
		if input.ContactEmail != nil {
			contactEmail = *input.ContactEmail
		}
		if err := tenant.SetContact(contactName, contactPhone, contactEmail); err != nil {
			return nil, err
		}
	}
	if input.Address != nil {
		if err := tenant.SetAddress(*input.Address); err != nil {
			return nil, err
		}
	}
	if input.Notes != nil {
		tenant.SetNotes(*input.Notes)
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	dto := ToTenantDTO(tenant)
	return &dto, nil
}

// List retrieves all tenants. Root only.
func (s *TenantService) List(ctx context.Context, actor shared.Actor, filter shared.Filter) ([]TenantDTO, int64, error) {
	if actor.Role != shared.RoleRoot {
		return nil, 0, shared.ErrForbidden
	}

	tenants, err := s.tenantRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.tenantRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]TenantDTO, len(tenants))
	for i := range tenants {
		dtos[i] = ToTenantDTO(&tenants[i])
	}

	return dtos, total, nil
}

// Suspend suspends a tenant. Root only.
func (s *TenantService) Suspend(ctx context.Context, actor shared.Actor, tenantID uuid.UUID) error {
	if actor.Role != shared.RoleRoot {
		return shared.ErrForbidden
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return err
	}

	if err := tenant.Suspend(); err != nil {
		return err
	}

	s.logger.Warn("Tenant suspended", zap.String("tenant_id", tenantID.String()))

	return s.tenantRepo.Save(ctx, tenant)
}

// Reactivate reactivates a suspended or inactive tenant. Root only.
func (s *TenantService) Reactivate(ctx context.Context, actor shared.Actor, tenantID uuid.UUID) error {
	if actor.Role != shared.RoleRoot {
		return shared.ErrForbidden
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return err
	}

	if err := tenant.Activate(); err != nil {
		return err
	}

	s.logger.Info("Tenant reactivated", zap.String("tenant_id", tenantID.String()))

	return s.tenantRepo.Save(ctx, tenant)
}
