package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/washpoint/backend/internal/domain/shared"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusTrial     TenantStatus = "trial"     // Trial period
	TenantStatusActive    TenantStatus = "active"    // Paying or free tenant in good standing
	TenantStatusSuspended TenantStatus = "suspended" // Suspended due to payment issues
	TenantStatusInactive  TenantStatus = "inactive"  // Closed by the tenant or operator
)

// TenantPlan represents the subscription plan of a tenant
type TenantPlan string

const (
	TenantPlanFree  TenantPlan = "free"
	TenantPlanBasic TenantPlan = "basic"
	TenantPlanPro   TenantPlan = "pro"
)

// TenantConfig holds configurable settings for a tenant
type TenantConfig struct {
	MaxUsers     int    `json:"max_users"`     // Maximum number of staff accounts
	MaxCustomers int    `json:"max_customers"` // Maximum number of registered customers
	Currency     string `json:"currency"`      // ISO currency code used for point conversion
	Timezone     string `json:"timezone"`      // Tenant timezone
}

// DefaultTenantConfig returns the default configuration for a new tenant
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{
		MaxUsers:     3,
		MaxCustomers: 500,
		Currency:     "USD",
		Timezone:     "UTC",
	}
}

// Tenant represents a carwash business in the multi-tenant system
// It is the aggregate root for tenant-related operations
type Tenant struct {
	shared.BaseAggregateRoot
	Slug                 string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name                 string       `gorm:"type:varchar(200);not null"`
	Status               TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Plan                 TenantPlan   `gorm:"type:varchar(20);not null;default:'free'"`
	ContactName          string       `gorm:"type:varchar(100)"`
	ContactPhone         string       `gorm:"type:varchar(50)"`
	ContactEmail         string       `gorm:"type:varchar(200)"`
	Address              string       `gorm:"type:text"`
	StripeCustomerID     string       `gorm:"type:varchar(100);index"`
	StripeSubscriptionID string       `gorm:"type:varchar(100);index"`
	ExpiresAt            *time.Time   `gorm:"index"` // Subscription period end
	TrialEndsAt          *time.Time   // Trial period end date
	Config               TenantConfig `gorm:"embedded;embeddedPrefix:config_"`
	Notes                string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new tenant with required fields
func NewTenant(slug, name string) (*Tenant, error) {
	if err := validateTenantSlug(slug); err != nil {
		return nil, err
	}
	if err := validateTenantName(name); err != nil {
		return nil, err
	}

	tenant := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Slug:              strings.ToLower(slug),
		Name:              name,
		Status:            TenantStatusActive,
		Plan:              TenantPlanFree,
		Config:            DefaultTenantConfig(),
	}

	tenant.AddDomainEvent(NewTenantCreatedEvent(tenant))

	return tenant, nil
}

// NewTrialTenant creates a new tenant in trial status
func NewTrialTenant(slug, name string, trialDays int) (*Tenant, error) {
	if trialDays <= 0 {
		return nil, shared.NewDomainError("INVALID_TRIAL_DAYS", "Trial days must be positive")
	}

	tenant, err := NewTenant(slug, name)
	if err != nil {
		return nil, err
	}

	tenant.Status = TenantStatusTrial
	trialEnds := time.Now().AddDate(0, 0, trialDays)
	tenant.TrialEndsAt = &trialEnds

	return tenant, nil
}

// Update updates the tenant's basic information
func (t *Tenant) Update(name string) error {
	if err := validateTenantName(name); err != nil {
		return err
	}

	t.Name = name
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantUpdatedEvent(t))

	return nil
}

// SetContact sets the tenant's contact information
func (t *Tenant) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if email != "" && len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	t.ContactName = contactName
	t.ContactPhone = phone
	t.ContactEmail = email
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetAddress sets the tenant's address
func (t *Tenant) SetAddress(address string) error {
	if address != "" && len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}

	t.Address = address
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetStripeCustomerID links the tenant to a Stripe customer
func (t *Tenant) SetStripeCustomerID(customerID string) {
	t.StripeCustomerID = customerID
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// SetStripeSubscriptionID links the tenant to a Stripe subscription
func (t *Tenant) SetStripeSubscriptionID(subscriptionID string) {
	t.StripeSubscriptionID = subscriptionID
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// ClearStripeSubscription unlinks the tenant from its Stripe subscription
func (t *Tenant) ClearStripeSubscription() {
	t.StripeSubscriptionID = ""
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// SetPlan sets the tenant's subscription plan
func (t *Tenant) SetPlan(plan TenantPlan) error {
	if err := validateTenantPlan(plan); err != nil {
		return err
	}

	oldPlan := t.Plan
	t.Plan = plan
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	// If upgrading from trial, clear trial status
	if t.Status == TenantStatusTrial && plan != TenantPlanFree {
		t.Status = TenantStatusActive
		t.TrialEndsAt = nil
	}

	t.updateConfigForPlan(plan)

	t.AddDomainEvent(NewTenantPlanChangedEvent(t, oldPlan, plan))

	return nil
}

// updateConfigForPlan updates configuration limits based on the plan
func (t *Tenant) updateConfigForPlan(plan TenantPlan) {
	switch plan {
	case TenantPlanFree:
		t.Config.MaxUsers = 3
		t.Config.MaxCustomers = 500
	case TenantPlanBasic:
		t.Config.MaxUsers = 10
		t.Config.MaxCustomers = 5000
	case TenantPlanPro:
		t.Config.MaxUsers = 50
		t.Config.MaxCustomers = 100000
	}
}

// SetExpiration sets the subscription period end
func (t *Tenant) SetExpiration(expiresAt time.Time) {
	t.ExpiresAt = &expiresAt
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// ClearExpiration clears the expiration date
func (t *Tenant) ClearExpiration() {
	t.ExpiresAt = nil
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// UpdateConfig updates the tenant's configuration
func (t *Tenant) UpdateConfig(config TenantConfig) error {
	if config.MaxUsers < 0 {
		return shared.NewDomainError("INVALID_MAX_USERS", "Max users cannot be negative")
	}
	if config.MaxCustomers < 0 {
		return shared.NewDomainError("INVALID_MAX_CUSTOMERS", "Max customers cannot be negative")
	}

	t.Config = config
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetNotes sets the tenant's notes
func (t *Tenant) SetNotes(notes string) {
	t.Notes = notes
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// Activate activates the tenant
func (t *Tenant) Activate() error {
	if t.Status == TenantStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Tenant is already active")
	}

	oldStatus := t.Status
	t.Status = TenantStatusActive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantStatusChangedEvent(t, oldStatus, TenantStatusActive))

	return nil
}

// Deactivate deactivates the tenant
func (t *Tenant) Deactivate() error {
	if t.Status == TenantStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Tenant is already inactive")
	}

	oldStatus := t.Status
	t.Status = TenantStatusInactive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantStatusChangedEvent(t, oldStatus, TenantStatusInactive))

	return nil
}

// Suspend suspends the tenant (e.g., after repeated payment failures)
func (t *Tenant) Suspend() error {
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Tenant is already suspended")
	}

	oldStatus := t.Status
	t.Status = TenantStatusSuspended
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantStatusChangedEvent(t, oldStatus, TenantStatusSuspended))

	return nil
}

// ConvertFromTrial converts a trial tenant to a paid tenant
func (t *Tenant) ConvertFromTrial(plan TenantPlan) error {
	if t.Status != TenantStatusTrial {
		return shared.NewDomainError("NOT_TRIAL", "Tenant is not in trial status")
	}
	if plan == TenantPlanFree {
		return shared.NewDomainError("INVALID_PLAN", "Cannot convert to free plan from trial")
	}

	return t.SetPlan(plan)
}

// IsActive returns true if the tenant is active
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// IsSuspended returns true if the tenant is suspended
func (t *Tenant) IsSuspended() bool {
	return t.Status == TenantStatusSuspended
}

// IsInactive returns true if the tenant has been closed
func (t *Tenant) IsInactive() bool {
	return t.Status == TenantStatusInactive
}

// IsTrial returns true if the tenant is in trial period
func (t *Tenant) IsTrial() bool {
	return t.Status == TenantStatusTrial
}

// IsTrialExpired returns true if the trial has expired
func (t *Tenant) IsTrialExpired() bool {
	if t.Status != TenantStatusTrial {
		return false
	}
	if t.TrialEndsAt == nil {
		return false
	}
	return time.Now().After(*t.TrialEndsAt)
}

// IsSubscriptionExpired returns true if the subscription has expired
func (t *Tenant) IsSubscriptionExpired() bool {
	if t.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*t.ExpiresAt)
}

// CanOperate returns true if the tenant may perform mutating loyalty operations
func (t *Tenant) CanOperate() bool {
	switch t.Status {
	case TenantStatusSuspended, TenantStatusInactive:
		return false
	case TenantStatusTrial:
		return !t.IsTrialExpired()
	}
	return !t.IsSubscriptionExpired()
}

// CanAddUser returns true if the tenant can add more staff accounts
func (t *Tenant) CanAddUser(currentUserCount int) bool {
	return currentUserCount < t.Config.MaxUsers
}

// CanAddCustomer returns true if the tenant can register more customers
func (t *Tenant) CanAddCustomer(currentCustomerCount int) bool {
	return currentCustomerCount < t.Config.MaxCustomers
}

// GetTenantID returns the tenant ID
func (t *Tenant) GetTenantID() uuid.UUID {
	return t.ID
}

// Validation functions

func validateTenantSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Tenant slug cannot be empty")
	}
	if len(slug) > 50 {
		return shared.NewDomainError("INVALID_SLUG", "Tenant slug cannot exceed 50 characters")
	}
	for _, r := range slug {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_SLUG", "Tenant slug can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateTenantName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot exceed 200 characters")
	}
	return nil
}

func validateTenantPlan(plan TenantPlan) error {
	switch plan {
	case TenantPlanFree, TenantPlanBasic, TenantPlanPro:
		return nil
	default:
		return shared.NewDomainError("INVALID_PLAN", "Invalid tenant plan")
	}
}
