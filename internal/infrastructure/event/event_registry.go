package event

import (
	"github.com/washpoint/backend/internal/domain/identity"
	"github.com/washpoint/backend/internal/domain/loyalty"
	"github.com/washpoint/backend/internal/domain/partner"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer Serializer) {
	// Identity domain - Tenant events
	serializer.Register(identity.EventTypeTenantCreated, &identity.TenantCreatedEvent{})
	serializer.Register(identity.EventTypeTenantUpdated, &identity.TenantUpdatedEvent{})
	serializer.Register(identity.EventTypeTenantStatusChanged, &identity.TenantStatusChangedEvent{})
	serializer.Register(identity.EventTypeTenantPlanChanged, &identity.TenantPlanChangedEvent{})

	// Identity domain - User events
	serializer.Register(identity.EventTypeUserCreated, &identity.UserCreatedEvent{})
	serializer.Register(identity.EventTypeUserPasswordChanged, &identity.UserPasswordChangedEvent{})
	serializer.Register(identity.EventTypeUserRoleChanged, &identity.UserRoleChangedEvent{})
	serializer.Register(identity.EventTypeUserStatusChanged, &identity.UserStatusChangedEvent{})

	// Partner domain - Customer events
	serializer.Register(partner.EventTypeCustomerCreated, &partner.CustomerCreatedEvent{})
	serializer.Register(partner.EventTypeCustomerUpdated, &partner.CustomerUpdatedEvent{})
	serializer.Register(partner.EventTypeCustomerStatusChanged, &partner.CustomerStatusChangedEvent{})

	// Loyalty domain - Program events
	serializer.Register(loyalty.EventTypeProgramCreated, &loyalty.ProgramCreatedEvent{})
	serializer.Register(loyalty.EventTypeProgramUpdated, &loyalty.ProgramUpdatedEvent{})
	serializer.Register(loyalty.EventTypeProgramActivated, &loyalty.ProgramActivatedEvent{})
	serializer.Register(loyalty.EventTypeProgramDeactivated, &loyalty.ProgramDeactivatedEvent{})

	// Loyalty domain - Wallet ledger events
	serializer.Register(loyalty.EventTypePointsEarned, &loyalty.PointsEarnedEvent{})
	serializer.Register(loyalty.EventTypePointsRedeemed, &loyalty.PointsRedeemedEvent{})
	serializer.Register(loyalty.EventTypePointsAdjusted, &loyalty.PointsAdjustedEvent{})
	serializer.Register(loyalty.EventTypePointsExpired, &loyalty.PointsExpiredEvent{})
}
