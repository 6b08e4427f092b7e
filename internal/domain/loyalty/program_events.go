package loyalty

import (
	"github.com/washpoint/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeProgram = "LoyaltyProgram"
	AggregateTypeWallet  = "Wallet"
)

// Event type constants
const (
	EventTypeProgramCreated     = "LoyaltyProgramCreated"
	EventTypeProgramUpdated     = "LoyaltyProgramUpdated"
	EventTypeProgramActivated   = "LoyaltyProgramActivated"
	EventTypeProgramDeactivated = "LoyaltyProgramDeactivated"
)

// ProgramCreatedEvent is published when a new loyalty program is created
type ProgramCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProgramCreatedEvent creates a new ProgramCreatedEvent
func NewProgramCreatedEvent(program *LoyaltyProgram) *ProgramCreatedEvent {
	return &ProgramCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProgramCreated, AggregateTypeProgram, program.ID, program.TenantID),
		Name:            program.Name,
	}
}

// ProgramUpdatedEvent is published when a loyalty program's configuration changes
type ProgramUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProgramUpdatedEvent creates a new ProgramUpdatedEvent
func NewProgramUpdatedEvent(program *LoyaltyProgram) *ProgramUpdatedEvent {
	return &ProgramUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProgramUpdated, AggregateTypeProgram, program.ID, program.TenantID),
		Name:            program.Name,
	}
}

// ProgramActivatedEvent is published when a program becomes the tenant's active program
type ProgramActivatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProgramActivatedEvent creates a new ProgramActivatedEvent
func NewProgramActivatedEvent(program *LoyaltyProgram) *ProgramActivatedEvent {
	return &ProgramActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProgramActivated, AggregateTypeProgram, program.ID, program.TenantID),
		Name:            program.Name,
	}
}

// ProgramDeactivatedEvent is published when a program is deactivated
type ProgramDeactivatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProgramDeactivatedEvent creates a new ProgramDeactivatedEvent
func NewProgramDeactivatedEvent(program *LoyaltyProgram) *ProgramDeactivatedEvent {
	return &ProgramDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProgramDeactivated, AggregateTypeProgram, program.ID, program.TenantID),
		Name:            program.Name,
	}
}
