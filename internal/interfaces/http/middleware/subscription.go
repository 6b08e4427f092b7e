package middleware

import (
	"context"
	"net/http"

	"github.com/washpoint/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantLookup is the narrow read interface the subscription gate needs.
// identity.TenantRepository satisfies it.
type TenantLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error)
}

// tenantLookupFunc adapts a bare function to TenantLookup
type tenantLookupFunc func(ctx context.Context, id uuid.UUID) (*identity.Tenant, error)

func (f tenantLookupFunc) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	return f(ctx, id)
}

// SubscriptionGateConfig holds configuration for the subscription gate
type SubscriptionGateConfig struct {
	// Lookup resolves the authenticated tenant
	Lookup TenantLookup
	// GateAllMethods gates reads as well as writes when true.
	// By default only mutating methods are gated so suspended tenants
	// can still inspect their data.
	GateAllMethods bool
	// SkipPaths are paths exempt from the gate (billing endpoints must
	// stay reachable so a lapsed tenant can fix its subscription)
	SkipPaths []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultSubscriptionGateConfig returns the default gate configuration
func DefaultSubscriptionGateConfig(lookup TenantLookup) SubscriptionGateConfig {
	return SubscriptionGateConfig{
		Lookup: lookup,
		SkipPaths: []string{
			"/api/v1/billing/checkout",
			"/api/v1/billing/portal",
			"/api/v1/billing/subscription",
		},
	}
}

// SubscriptionGate returns middleware that rejects mutating requests from
// tenants whose subscription has lapsed. It must run after JWT auth.
func SubscriptionGate(cfg SubscriptionGateConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.GateAllMethods && !isMutatingMethod(c.Request.Method) {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}

		actor, ok := GetActor(c)
		if !ok {
			// Unauthenticated routes are not the gate's concern
			c.Next()
			return
		}

		tenant, err := cfg.Lookup.FindByID(c.Request.Context(), actor.TenantID)
		if err != nil {
			// Fail open: a lookup failure should not take tenants offline
			if cfg.Logger != nil {
				cfg.Logger.Error("Subscription gate tenant lookup failed",
					zap.String("tenant_id", actor.TenantID.String()),
					zap.Error(err))
			}
			c.Next()
			return
		}

		if !tenant.CanOperate() {
			if cfg.Logger != nil {
				cfg.Logger.Warn("Request blocked by subscription gate",
					zap.String("tenant_id", actor.TenantID.String()),
					zap.String("tenant_status", string(tenant.Status)),
					zap.String("path", path),
					zap.String("method", c.Request.Method),
				)
			}
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_SUBSCRIPTION_EXPIRED",
					"message": "Subscription is not active. Update billing to continue.",
				},
			})
			return
		}

		c.Next()
	}
}

// SubscriptionGateWithLookup builds a gate from a bare lookup function
func SubscriptionGateWithLookup(lookup func(ctx context.Context, id uuid.UUID) (*identity.Tenant, error)) gin.HandlerFunc {
	return SubscriptionGate(DefaultSubscriptionGateConfig(tenantLookupFunc(lookup)))
}

func isMutatingMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
