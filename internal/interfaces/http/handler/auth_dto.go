package handler

import (
	"time"

	"github.com/google/uuid"
)

// LoginRequest represents a login request
// @Description Login credentials
type LoginRequest struct {
	TenantSlug string `json:"tenant_slug" binding:"required,min=1,max=50" example:"sparkle-wash"`
	Email      string `json:"email" binding:"required,email,max=200" example:"admin@sparklewash.com"`
	Password   string `json:"password" binding:"required,min=1,max=200" example:"secret"`
}

// RefreshTokenRequest represents a token refresh request
// @Description Refresh token payload
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest represents a password change request
// @Description Old and new password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=200"`
}

// TokenResponse represents issued tokens
// @Description Access and refresh token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type" example:"Bearer"`
}

// AuthUserResponse represents the authenticated user
// @Description Authenticated staff account
type AuthUserResponse struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	Role        string    `json:"role" enums:"root,admin,operator"`
}

// LoginResponse represents a successful login
// @Description Tokens plus the authenticated user
type LoginResponse struct {
	Token TokenResponse    `json:"token"`
	User  AuthUserResponse `json:"user"`
}

// RefreshTokenResponse represents a successful token refresh
// @Description New token pair
type RefreshTokenResponse struct {
	Token TokenResponse `json:"token"`
}
