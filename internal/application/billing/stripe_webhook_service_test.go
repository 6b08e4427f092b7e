package billing

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"go.uber.org/zap"

	"github.com/washpoint/backend/internal/domain/identity"
	"github.com/washpoint/backend/internal/domain/shared"
	"github.com/washpoint/backend/internal/infrastructure/billing"
)

// MockTenantRepository is a mock implementation of identity.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindBySlug(ctx context.Context, slug string) (*identity.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByStripeCustomerID(ctx context.Context, customerID string) (*identity.Tenant, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByStripeSubscriptionID(ctx context.Context, subscriptionID string) (*identity.Tenant, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Tenant, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByStatus(ctx context.Context, status identity.TenantStatus, filter shared.Filter) ([]identity.Tenant, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindTrialExpiring(ctx context.Context, withinDays int) ([]identity.Tenant, error) {
	args := m.Called(ctx, withinDays)
	return args.Get(0).([]identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTenantRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTenantRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

// createWebhookTestTenant creates a tenant already linked to Stripe
func createWebhookTestTenant(t *testing.T) *identity.Tenant {
	t.Helper()
	tenant, err := identity.NewTenant("sparkle-wash", "Sparkle Wash")
	require.NoError(t, err)
	tenant.SetStripeCustomerID("cus_test123")
	tenant.SetStripeSubscriptionID("sub_test123")
	return tenant
}

func createWebhookTestService(mockRepo *MockTenantRepository) *StripeWebhookService {
	config := &billing.StripeConfig{
		SecretKey:       "sk_test_xxx",
		WebhookSecret:   "whsec_test_xxx",
		IsTestMode:      true,
		DefaultCurrency: "usd",
		PriceIDs: map[string]string{
			"free":  "",
			"basic": "price_basic",
			"pro":   "price_pro",
		},
	}

	return NewStripeWebhookService(StripeWebhookServiceConfig{
		Config:     config,
		TenantRepo: mockRepo,
		EventBus:   nil,
		Logger:     zap.NewNop(),
	})
}

func subscriptionEvent(t *testing.T, eventType string, subscription stripe.Subscription) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(subscription)
	require.NoError(t, err)
	return stripe.Event{
		ID:   "evt_test123",
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func invoiceEvent(t *testing.T, eventType string, invoice stripe.Invoice) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(invoice)
	require.NoError(t, err)
	return stripe.Event{
		ID:   "evt_test123",
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestStripeWebhookService_ProcessWebhook_InvalidSignature(t *testing.T) {
	mockRepo := new(MockTenantRepository)
	service := createWebhookTestService(mockRepo)

	payload := []byte(`{"type": "customer.subscription.created"}`)
	result, err := service.ProcessWebhook(context.Background(), payload, "invalid_signature")

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "webhook signature verification failed")
}

func TestStripeWebhookService_handleSubscriptionCreated(t *testing.T) {
	mockRepo := new(MockTenantRepository)
	service := createWebhookTestService(mockRepo)
	ctx := context.Background()

	tenant := createWebhookTestTenant(t)

	event := subscriptionEvent(t, "customer.subscription.created", stripe.Subscription{
		ID:                 "sub_new123",
		Customer:           &stripe.Customer{ID: "cus_test123"},
		Status:             stripe.SubscriptionStatusActive,
		CurrentPeriodStart: time.Now().Unix(),
		CurrentPeriodEnd:   time.Now().Add(30 * 24 * time.Hour).Unix(),
		Metadata:           map[string]string{"plan_id": "pro"},
	})

	mockRepo.On("FindByStripeCustomerID", ctx, "cus_test123").Return(tenant, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*identity.Tenant")).Return(nil)

	err := service.handleSubscriptionCreated(ctx, event)

	require.NoError(t, err)
	assert.Equal(t, "sub_new123", tenant.StripeSubscriptionID)
	assert.Equal(t, identity.TenantPlanPro, tenant.Plan)
	assert.NotNil(t, tenant.ExpiresAt)
	mockRepo.AssertExpectations(t)
}

func TestStripeWebhookService_handleSubscriptionCreated_TenantNotFound(t *testing.T) {
	mockRepo := new(MockTenantRepository)
	service := createWebhookTestService(mockRepo)
	ctx := context.Background()

	event := subscriptionEvent(t, "customer.subscription.created", stripe.Subscription{
		ID:       "sub_new123",
		Customer: &stripe.Customer{ID: "cus_unknown"},
		Status:   stripe.SubscriptionStatusActive,
	})

	mockRepo.On("FindByStripeCustomerID", ctx, "cus_unknown").Return(nil, shared.ErrNotFound)

	// Webhook acknowledges receipt to prevent Stripe retries
	err := service.handleSubscriptionCreated(ctx, event)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestStripeWebhookService_handleSubscriptionUpdated(t *testing.T) {
	mockRepo := new(MockTenantRepository)
	service := createWebhookTestService(mockRepo)
	ctx := context.Background()

	tenant := createWebhookTestTenant(t)

	event := subscriptionEvent(t, "customer.subscription.updated", stripe.Subscription{
		ID:                 "sub_test123",
		Customer:           &stripe.Customer{ID: "cus_test123"},
		Status:             stripe.SubscriptionStatusActive,
		CurrentPeriodStart: time.Now().Unix(),
		CurrentPeriodEnd:   time.Now().Add(30 * 24 * time.Hour).Unix(),
		Metadata:           map[string]string{"plan_id": "basic"},
	})

	mockRepo.On("FindByStripeSubscriptionID", ctx, "sub_test123").Return(tenant, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*identity.Tenant")).Return(nil)

	err := service.handleSubscriptionUpdated(ctx, event)

	require.NoError(t, err)
	assert.Equal(t, identity.TenantPlanBasic, tenant.Plan)
	mockRepo.AssertExpectations(t)
}

func TestStripeWebhookService_handleSubscriptionUpdated_FallbackToCustomerID(t *testing.T) {
	mockRepo := new(MockTenantRepository)
	service := createWebhookTestService(mockRepo)
	ctx := context.Background()

	tenant := createWebhookTestTenant(t)

	event := subscriptionEvent(t, "customer.subscription.updated", stripe.Subscription{
		ID:       "sub_other456",
		Customer: &stripe.Customer{ID: "cus_test123"},
		Status:   stripe.SubscriptionStatusActive,
	})

	mockRepo.On("FindByStripeSubscriptionID", ctx, "sub_other456").Return(nil, shared.ErrNotFound)
	mockRepo.On("FindByStripeCustomerID", ctx, "cus_test123").Return(tenant, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*identity.Tenant")).Return(nil)

	err := service.handleSubscriptionUpdated(ctx, event)

	require.NoError(t, err)
	assert.Equal(t, "sub_other456", tenant.StripeSubscriptionID)
	mockRepo.AssertExpectations(t)
}

func TestStripeWebhookService_handleSubscriptionDeleted(t *testing.T) {
	mockRepo := new(MockTenantRepository)
	service := createWebhookTestService(mockRepo)
	ctx := context.Background()

	tenant := createWebhookTestTenant(t)
	require.NoError(t, tenant.SetPlan(identity.TenantPlanPro))

	event := subscriptionEvent(t, "customer.subscription.deleted", stripe.Subscription{
		ID:       "sub_test123",
		Customer: &stripe.Customer{ID: "cus_test123"},
		Status:   stripe.SubscriptionStatusCanceled,
	})

	mockRepo.On("FindByStripeSubscriptionID", ctx, "sub_test123").Return(tenant, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*identity.Tenant")).Return(nil)

	err := service.handleSubscriptionDeleted(ctx, event)

	require.NoError(t, err)
	assert.Empty(t, tenant.StripeSubscriptionID)
	assert.Equal(t, identity.TenantPlanFree, tenant.Plan)
	assert.Nil(t, tenant.ExpiresAt)
	mockRepo.AssertExpectations(t)
}

func TestStripeWebhookService_handleInvoicePaid(t *testing.T) {
	mockRepo := new(MockTenantRepository)
	service := createWebhookTestService(mockRepo)
	ctx := context.Background()

	tenant := createWebhookTestTenant(t)
	require.NoError(t, tenant.Suspend())

	event := invoiceEvent(t, "invoice.paid", stripe.Invoice{
		ID:           "in_test123",
		Customer:     &stripe.Customer{ID: "cus_test123"},
		Subscription: &stripe.Subscription{ID: "sub_test123"},
		PeriodEnd:    time.Now().Add(30 * 24 * time.Hour).Unix(),
	})

	mockRepo.On("FindByStripeCustomerID", ctx, "cus_test123").Return(tenant, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*identity.Tenant")).Return(nil)

	err := service.handleInvoicePaid(ctx, event)

	require.NoError(t, err)
	assert.True(t, tenant.IsActive())
	mockRepo.AssertExpectations(t)
}

func TestStripeWebhookService_handleInvoicePaid_NonSubscriptionInvoice(t *testing.T) {
	mockRepo := new(MockTenantRepository)
	service := createWebhookTestService(mockRepo)
	ctx := context.Background()

	event := invoiceEvent(t, "invoice.paid", stripe.Invoice{
		ID:           "in_test123",
		Customer:     &stripe.Customer{ID: "cus_test123"},
		Subscription: nil,
	})

	err := service.handleInvoicePaid(ctx, event)

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "FindByStripeCustomerID")
}

func TestStripeWebhookService_handleInvoicePaymentFailed(t *testing.T) {
	mockRepo := new(MockTenantRepository)
	service := createWebhookTestService(mockRepo)
	ctx := context.Background()

	tenant := createWebhookTestTenant(t)

	event := invoiceEvent(t, "invoice.payment_failed", stripe.Invoice{
		ID:           "in_test123",
		Customer:     &stripe.Customer{ID: "cus_test123"},
		Subscription: &stripe.Subscription{ID: "sub_test123"},
	})

	mockRepo.On("FindByStripeCustomerID", ctx, "cus_test123").Return(tenant, nil)
	mockRepo.On("Save", ctx, mock.AnythingOfType("*identity.Tenant")).Return(nil)

	err := service.handleInvoicePaymentFailed(ctx, event)

	require.NoError(t, err)
	assert.True(t, tenant.IsSuspended())
	mockRepo.AssertExpectations(t)
}

func TestStripeSubscriptionEvent(t *testing.T) {
	tenantID := uuid.New()

	event := NewStripeSubscriptionEvent(tenantID, "subscription_created", "sub_123")

	assert.Equal(t, EventTypeStripeSubscriptionCreated, event.EventType())
	assert.Equal(t, tenantID, event.TenantID())
	assert.Equal(t, "sub_123", event.SubscriptionID)
}

func TestStripePaymentEvent(t *testing.T) {
	tenantID := uuid.New()

	event := NewStripePaymentEvent(tenantID, "invoice_paid", "in_123")

	assert.Equal(t, EventTypeStripeInvoicePaid, event.EventType())
	assert.Equal(t, tenantID, event.TenantID())
	assert.Equal(t, "in_123", event.InvoiceID)
}
