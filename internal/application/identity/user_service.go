package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/washpoint/backend/internal/domain/identity"
	"github.com/washpoint/backend/internal/domain/shared"
)

// UserService handles staff account management within a tenant
type UserService struct {
	userRepo   identity.UserRepository
	tenantRepo identity.TenantRepository
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	tenantRepo identity.TenantRepository,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		logger:     logger,
	}
}

// Create creates a new staff account in the actor's tenant
func (s *UserService) Create(ctx context.Context, actor shared.Actor, input CreateUserInput) (*UserDTO, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	tenant, err := s.tenantRepo.FindByID(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}

	count, err := s.userRepo.CountByTenant(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.CanAddUser(int(count)) {
		return nil, shared.NewDomainError("USER_LIMIT_REACHED", "The plan's staff account limit has been reached")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, actor.TenantID, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_EXISTS", "A staff account with this email already exists")
	}

	role := identity.UserRole(input.Role)
	if role == identity.UserRoleRoot {
		return nil, shared.NewDomainError("INVALID_ROLE", "Cannot create root accounts")
	}

	user, err := identity.NewActiveUser(actor.TenantID, input.Email, input.Password, role)
	if err != nil {
		return nil, err
	}
	if input.DisplayName != "" {
		if err := user.SetDisplayName(input.DisplayName); err != nil {
			return nil, err
		}
	}
	user.SetCreatedBy(actor.UserID)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Staff account created",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	dto := ToUserDTO(user)
	return &dto, nil
}

// Get retrieves a staff account by ID
func (s *UserService) Get(ctx context.Context, actor shared.Actor, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.findInTenant(ctx, actor, userID)
	if err != nil {
		return nil, err
	}

	dto := ToUserDTO(user)
	return &dto, nil
}

// List retrieves staff accounts for the actor's tenant
func (s *UserService) List(ctx context.Context, actor shared.Actor, input ListUsersInput) ([]UserDTO, int64, error) {
	filter := identity.NewUserFilter()
	if input.Keyword != "" {
		filter = filter.WithKeyword(input.Keyword)
	}
	if input.Status != "" {
		filter = filter.WithStatus(identity.UserStatus(input.Status))
	}
	if input.Role != "" {
		filter = filter.WithRole(identity.UserRole(input.Role))
	}
	if input.Page > 0 && input.PageSize > 0 {
		filter = filter.WithPagination(input.Page, input.PageSize)
	}

	users, total, err := s.userRepo.FindAll(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}

	return dtos, total, nil
}

// Update updates a staff account's profile
func (s *UserService) Update(ctx context.Context, actor shared.Actor, userID uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	if !actor.IsAdmin() && actor.UserID != userID {
		return nil, shared.ErrForbidden
	}

	user, err := s.findInTenant(ctx, actor, userID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		if err := user.SetDisplayName(*input.DisplayName); err != nil {
			return nil, err
		}
	}
	if input.Notes != nil {
		user.SetNotes(*input.Notes)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	dto := ToUserDTO(user)
	return &dto, nil
}

// SetRole changes a staff account's role
func (s *UserService) SetRole(ctx context.Context, actor shared.Actor, userID uuid.UUID, role string) (*UserDTO, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	if identity.UserRole(role) == identity.UserRoleRoot {
		return nil, shared.NewDomainError("INVALID_ROLE", "Cannot grant the root role")
	}

	user, err := s.findInTenant(ctx, actor, userID)
	if err != nil {
		return nil, err
	}

	if err := user.SetRole(identity.UserRole(role)); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Staff role changed",
		zap.String("user_id", userID.String()),
		zap.String("role", role))

	dto := ToUserDTO(user)
	return &dto, nil
}

// Deactivate deactivates a staff account
func (s *UserService) Deactivate(ctx context.Context, actor shared.Actor, userID uuid.UUID) error {
	if !actor.IsAdmin() {
		return shared.ErrForbidden
	}
	if actor.UserID == userID {
		return shared.NewDomainError("CANNOT_DEACTIVATE_SELF", "Cannot deactivate your own account")
	}

	user, err := s.findInTenant(ctx, actor, userID)
	if err != nil {
		return err
	}

	if err := user.Deactivate(); err != nil {
		return err
	}

	return s.userRepo.Update(ctx, user)
}

// Reactivate reactivates a deactivated staff account
func (s *UserService) Reactivate(ctx context.Context, actor shared.Actor, userID uuid.UUID) error {
	if !actor.IsAdmin() {
		return shared.ErrForbidden
	}

	user, err := s.findInTenant(ctx, actor, userID)
	if err != nil {
		return err
	}

	if err := user.Activate(); err != nil {
		return err
	}

	return s.userRepo.Update(ctx, user)
}

// Unlock unlocks a locked staff account
func (s *UserService) Unlock(ctx context.Context, actor shared.Actor, userID uuid.UUID) error {
	if !actor.IsAdmin() {
		return shared.ErrForbidden
	}

	user, err := s.findInTenant(ctx, actor, userID)
	if err != nil {
		return err
	}

	if err := user.Unlock(); err != nil {
		return err
	}

	return s.userRepo.Update(ctx, user)
}

// ResetPassword sets a new password for a staff account without the old one
func (s *UserService) ResetPassword(ctx context.Context, actor shared.Actor, userID uuid.UUID, newPassword string) error {
	if !actor.IsAdmin() {
		return shared.ErrForbidden
	}

	user, err := s.findInTenant(ctx, actor, userID)
	if err != nil {
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}

	s.logger.Info("Staff password reset",
		zap.String("user_id", userID.String()),
		zap.String("reset_by", actor.UserID.String()))

	return s.userRepo.Update(ctx, user)
}

// findInTenant loads a user and verifies it belongs to the actor's tenant
func (s *UserService) findInTenant(ctx context.Context, actor shared.Actor, userID uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TenantID != actor.TenantID && actor.Role != shared.RoleRoot {
		return nil, shared.ErrNotFound
	}
	return user, nil
}
