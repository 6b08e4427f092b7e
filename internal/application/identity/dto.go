package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/washpoint/backend/internal/domain/identity"
)

// LoginInput contains the input for user login
type LoginInput struct {
	TenantSlug string
	Email      string
	Password   string
	IP         string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Email       string
	DisplayName string
	Role        string
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID         uuid.UUID
	TenantID       uuid.UUID
	TokenJTI       string
	TokenExpiresAt time.Time
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// GetCurrentUserInput contains the input for getting current user info
type GetCurrentUserInput struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
}

// CurrentUserResult contains the current user's information
type CurrentUserResult struct {
	User UserInfo
}

// SignupInput contains input for creating a new tenant with its first admin
type SignupInput struct {
	TenantSlug    string
	TenantName    string
	ContactName   string
	ContactPhone  string
	ContactEmail  string
	AdminEmail    string
	AdminPassword string
}

// SignupResult contains the result of a tenant signup
type SignupResult struct {
	Tenant TenantDTO
	Admin  UserDTO
}

// UpdateTenantInput contains input for updating a tenant
type UpdateTenantInput struct {
	Name         *string
	ContactName  *string
	ContactPhone *string
	ContactEmail *string
	Address      *string
	Notes        *string
}

// TenantDTO represents tenant data returned by the API
type TenantDTO struct {
	ID           uuid.UUID  `json:"id"`
	Slug         string     `json:"slug"`
	Name         string     `json:"name"`
	Status       string     `json:"status"`
	Plan         string     `json:"plan"`
	ContactName  string     `json:"contact_name,omitempty"`
	ContactPhone string     `json:"contact_phone,omitempty"`
	ContactEmail string     `json:"contact_email,omitempty"`
	Address      string     `json:"address,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	TrialEndsAt  *time.Time `json:"trial_ends_at,omitempty"`
	MaxUsers     int        `json:"max_users"`
	MaxCustomers int        `json:"max_customers"`
	Currency     string     `json:"currency"`
	Timezone     string     `json:"timezone"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ToTenantDTO converts a domain Tenant to a TenantDTO
func ToTenantDTO(t *identity.Tenant) TenantDTO {
	return TenantDTO{
		ID:           t.ID,
		Slug:         t.Slug,
		Name:         t.Name,
		Status:       string(t.Status),
		Plan:         string(t.Plan),
		ContactName:  t.ContactName,
		ContactPhone: t.ContactPhone,
		ContactEmail: t.ContactEmail,
		Address:      t.Address,
		ExpiresAt:    t.ExpiresAt,
		TrialEndsAt:  t.TrialEndsAt,
		MaxUsers:     t.Config.MaxUsers,
		MaxCustomers: t.Config.MaxCustomers,
		Currency:     t.Config.Currency,
		Timezone:     t.Config.Timezone,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// CreateUserInput contains input for creating a staff account
type CreateUserInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
}

// UpdateUserInput contains input for updating a staff account
type UpdateUserInput struct {
	DisplayName *string
	Notes       *string
}

// ListUsersInput contains input for listing staff accounts
type ListUsersInput struct {
	Keyword  string
	Status   string
	Role     string
	Page     int
	PageSize int
}

// UserDTO represents staff account data returned by the API
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToUserDTO converts a domain User to a UserDTO
func ToUserDTO(u *identity.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToUserInfo converts a domain User to UserInfo
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Email:       u.Email,
		DisplayName: u.GetDisplayNameOrEmail(),
		Role:        string(u.Role),
	}
}
