package billing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/washpoint/backend/internal/domain/identity"
	"github.com/washpoint/backend/internal/domain/shared"
	"github.com/washpoint/backend/internal/infrastructure/billing"
)

// SubscriptionService manages tenant subscriptions through Stripe
type SubscriptionService struct {
	adapter    *billing.StripeAdapter
	config     *billing.StripeConfig
	tenantRepo identity.TenantRepository
	logger     *zap.Logger
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	adapter *billing.StripeAdapter,
	config *billing.StripeConfig,
	tenantRepo identity.TenantRepository,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		adapter:    adapter,
		config:     config,
		tenantRepo: tenantRepo,
		logger:     logger,
	}
}

// SubscribeInput contains input for starting a paid subscription
type SubscribeInput struct {
	Plan          string // basic or pro
	PaymentMethod string // Stripe payment method ID
}

// SubscribeResult contains the result of starting a subscription
type SubscribeResult struct {
	SubscriptionID   string     `json:"subscription_id"`
	Status           string     `json:"status"`
	ClientSecret     string     `json:"client_secret,omitempty"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}

// Subscribe starts a paid subscription for the actor's tenant
func (s *SubscriptionService) Subscribe(ctx context.Context, actor shared.Actor, input SubscribeInput) (*SubscribeResult, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	plan := identity.TenantPlan(input.Plan)
	if plan != identity.TenantPlanBasic && plan != identity.TenantPlanPro {
		return nil, shared.NewDomainError("INVALID_PLAN", "Plan must be basic or pro")
	}

	tenant, err := s.tenantRepo.FindByID(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	if tenant.StripeSubscriptionID != "" {
		return nil, shared.NewDomainError("ALREADY_SUBSCRIBED", "Tenant already has an active subscription. Use the change plan operation instead")
	}

	customerID, err := s.ensureStripeCustomer(ctx, tenant)
	if err != nil {
		return nil, err
	}

	out, err := s.adapter.CreateSubscription(ctx, billing.CreateSubscriptionInput{
		TenantID:      tenant.ID,
		CustomerID:    customerID,
		PlanID:        string(plan),
		PaymentMethod: input.PaymentMethod,
		Metadata: map[string]string{
			"plan_id": string(plan),
		},
	})
	if err != nil {
		s.logger.Error("Failed to create Stripe subscription",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("BILLING_ERROR", "Failed to create subscription")
	}

	tenant.SetStripeSubscriptionID(out.SubscriptionID)
	if out.Status.IsActive() {
		if err := tenant.SetPlan(plan); err != nil {
			s.logger.Warn("Failed to set tenant plan after subscribe", zap.Error(err))
		}
		tenant.SetExpiration(out.CurrentPeriodEnd)
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	s.logger.Info("Subscription created",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("subscription_id", out.SubscriptionID),
		zap.String("plan", string(plan)))

	periodEnd := out.CurrentPeriodEnd
	return &SubscribeResult{
		SubscriptionID:   out.SubscriptionID,
		Status:           out.Status.String(),
		ClientSecret:     out.ClientSecret,
		CurrentPeriodEnd: &periodEnd,
	}, nil
}

// ChangePlan moves the tenant's subscription to a different plan
func (s *SubscriptionService) ChangePlan(ctx context.Context, actor shared.Actor, plan string) (*SubscribeResult, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	newPlan := identity.TenantPlan(plan)
	if newPlan != identity.TenantPlanBasic && newPlan != identity.TenantPlanPro {
		return nil, shared.NewDomainError("INVALID_PLAN", "Plan must be basic or pro")
	}

	tenant, err := s.tenantRepo.FindByID(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	if tenant.StripeSubscriptionID == "" {
		return nil, shared.NewDomainError("NOT_SUBSCRIBED", "Tenant has no active subscription")
	}

	out, err := s.adapter.UpdateSubscription(ctx, billing.UpdateSubscriptionInput{
		TenantID:       tenant.ID,
		SubscriptionID: tenant.StripeSubscriptionID,
		NewPlanID:      string(newPlan),
		Metadata: map[string]string{
			"plan_id": string(newPlan),
		},
	})
	if err != nil {
		s.logger.Error("Failed to update Stripe subscription",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("BILLING_ERROR", "Failed to change plan")
	}

	// The webhook confirms the change; apply it locally as well so the UI
	// reflects the new plan immediately
	if err := tenant.SetPlan(newPlan); err != nil {
		s.logger.Warn("Failed to set tenant plan after plan change", zap.Error(err))
	}
	tenant.SetExpiration(out.CurrentPeriodEnd)
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	s.logger.Info("Subscription plan changed",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("plan", string(newPlan)))

	periodEnd := out.CurrentPeriodEnd
	return &SubscribeResult{
		SubscriptionID:   out.SubscriptionID,
		Status:           out.Status.String(),
		CurrentPeriodEnd: &periodEnd,
	}, nil
}

// Cancel cancels the tenant's subscription at the end of the billing period
func (s *SubscriptionService) Cancel(ctx context.Context, actor shared.Actor) error {
	if !actor.IsAdmin() {
		return shared.ErrForbidden
	}

	tenant, err := s.tenantRepo.FindByID(ctx, actor.TenantID)
	if err != nil {
		return err
	}
	if tenant.StripeSubscriptionID == "" {
		return shared.NewDomainError("NOT_SUBSCRIBED", "Tenant has no active subscription")
	}

	_, err = s.adapter.CancelSubscription(ctx, billing.CancelSubscriptionInput{
		TenantID:          tenant.ID,
		SubscriptionID:    tenant.StripeSubscriptionID,
		CancelAtPeriodEnd: true,
		Reason:            "requested_by_customer",
	})
	if err != nil {
		s.logger.Error("Failed to cancel Stripe subscription",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Error(err))
		return shared.NewDomainError("BILLING_ERROR", "Failed to cancel subscription")
	}

	s.logger.Info("Subscription cancellation scheduled",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("subscription_id", tenant.StripeSubscriptionID))

	return nil
}

// StatusResult describes the tenant's current subscription state
type StatusResult struct {
	Plan              string     `json:"plan"`
	Status            string     `json:"status"`
	TrialEndsAt       *time.Time `json:"trial_ends_at,omitempty"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancel_at_period_end"`
}

// Status returns the tenant's subscription state, refreshed from Stripe when linked
func (s *SubscriptionService) Status(ctx context.Context, actor shared.Actor) (*StatusResult, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}

	result := &StatusResult{
		Plan:        string(tenant.Plan),
		Status:      string(tenant.Status),
		TrialEndsAt: tenant.TrialEndsAt,
		ExpiresAt:   tenant.ExpiresAt,
	}

	if tenant.StripeSubscriptionID == "" {
		return result, nil
	}

	out, err := s.adapter.GetSubscriptionStatus(ctx, billing.GetSubscriptionStatusInput{
		TenantID:       tenant.ID,
		SubscriptionID: tenant.StripeSubscriptionID,
	})
	if err != nil {
		// Stripe being unreachable should not break the status endpoint
		s.logger.Warn("Failed to fetch subscription status from Stripe",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Error(err))
		return result, nil
	}

	result.Status = out.Status.String()
	result.CancelAtPeriodEnd = out.CancelAtPeriodEnd
	periodEnd := out.CurrentPeriodEnd
	result.ExpiresAt = &periodEnd

	return result, nil
}

// ensureStripeCustomer returns the tenant's Stripe customer ID, creating one if needed
func (s *SubscriptionService) ensureStripeCustomer(ctx context.Context, tenant *identity.Tenant) (string, error) {
	if tenant.StripeCustomerID != "" {
		return tenant.StripeCustomerID, nil
	}

	out, err := s.adapter.CreateCustomer(ctx, billing.CreateCustomerInput{
		TenantID:    tenant.ID,
		Email:       tenant.ContactEmail,
		Name:        tenant.Name,
		Phone:       tenant.ContactPhone,
		Description: "washpoint tenant " + tenant.Slug,
	})
	if err != nil {
		s.logger.Error("Failed to create Stripe customer",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Error(err))
		return "", shared.NewDomainError("BILLING_ERROR", "Failed to create billing account")
	}

	tenant.SetStripeCustomerID(out.CustomerID)
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return "", err
	}

	return out.CustomerID, nil
}
