package middleware

import (
	"net/http"

	"github.com/washpoint/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when the role check fails (optional)
	OnDenied func(c *gin.Context, requiredRoles []string)
}

// RequireRole creates middleware that requires one of the listed roles.
// Root always passes regardless of the listed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return RequireRoleWithConfig(RoleConfig{}, roles...)
}

// RequireRoleWithConfig creates role middleware with custom config
func RequireRoleWithConfig(cfg RoleConfig, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleRoleDenied(c, cfg, roles, "No authentication claims found")
			return
		}

		if !roleAllowed(claims.Role, roles) {
			handleRoleDenied(c, cfg, roles, "User lacks required role")
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Role check passed",
				zap.String("user_id", claims.UserID),
				zap.String("role", claims.Role),
				zap.Strings("required_roles", roles),
			)
		}

		c.Next()
	}
}

// RequireAdmin creates middleware for routes limited to admins.
// Program configuration, manual adjustments, and staff management go here.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(shared.RoleAdmin)
}

// RequireRoot creates middleware for platform-level routes
func RequireRoot() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil || claims.Role != shared.RoleRoot {
			handleRoleDenied(c, RoleConfig{}, []string{shared.RoleRoot}, "Root role required")
			return
		}
		c.Next()
	}
}

// roleAllowed reports whether role satisfies any of the required roles.
// Root satisfies everything.
func roleAllowed(role string, required []string) bool {
	if role == shared.RoleRoot {
		return true
	}
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}

// handleRoleDenied handles role check failures
func handleRoleDenied(c *gin.Context, cfg RoleConfig, requiredRoles []string, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, requiredRoles)
		return
	}

	if cfg.Logger != nil {
		claims := GetJWTClaims(c)
		userID := ""
		role := ""
		if claims != nil {
			userID = claims.UserID
			role = claims.Role
		}

		cfg.Logger.Warn("Role check denied",
			zap.String("reason", reason),
			zap.String("user_id", userID),
			zap.String("role", role),
			zap.Strings("required_roles", requiredRoles),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_FORBIDDEN",
			"message": "Access denied: insufficient role",
		},
	})
}
