package shared

import (
	"github.com/google/uuid"
)

// Actor identifies who performs an operation. It is passed explicitly through
// every application service call instead of being read from ambient state.
type Actor struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Role     string
}

// Actor roles. These mirror the staff roles in the identity context.
const (
	RoleRoot     = "root"
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// NewActor creates an actor for the given user, tenant, and role
func NewActor(userID, tenantID uuid.UUID, role string) Actor {
	return Actor{
		UserID:   userID,
		TenantID: tenantID,
		Role:     role,
	}
}

// SystemActor returns the actor used by background jobs acting on a tenant
func SystemActor(tenantID uuid.UUID) Actor {
	return Actor{
		UserID:   uuid.Nil,
		TenantID: tenantID,
		Role:     RoleRoot,
	}
}

// IsSystem returns true for background-job actors
func (a Actor) IsSystem() bool {
	return a.UserID == uuid.Nil
}

// IsAdmin returns true for roles allowed to manage configuration and adjustments
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RoleRoot
}

// CanAccessTenant returns true if the actor may act on the given tenant
func (a Actor) CanAccessTenant(tenantID uuid.UUID) bool {
	if a.Role == RoleRoot {
		return true
	}
	return a.TenantID == tenantID
}
