package loyalty

import (
	"context"

	"github.com/google/uuid"
	"github.com/washpoint/backend/internal/domain/loyalty"
	"github.com/washpoint/backend/internal/domain/shared"
)

// ProgramService handles loyalty program configuration
type ProgramService struct {
	programRepo loyalty.LoyaltyProgramRepository
}

// NewProgramService creates a new ProgramService
func NewProgramService(programRepo loyalty.LoyaltyProgramRepository) *ProgramService {
	return &ProgramService{
		programRepo: programRepo,
	}
}

// Create creates a new (inactive) loyalty program for the actor's tenant
func (s *ProgramService) Create(ctx context.Context, actor shared.Actor, req CreateProgramRequest) (*ProgramResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	program, err := loyalty.NewLoyaltyProgram(
		actor.TenantID,
		req.Name,
		req.PointsPerCurrency,
		req.CurrencyPerPoint,
		req.MinPointsRedeem,
		req.ExpirationDays,
	)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		program.SetDescription(req.Description)
	}
	program.SetCreatedBy(actor.UserID)

	if err := s.programRepo.Save(ctx, program); err != nil {
		return nil, err
	}

	response := ToProgramResponse(program)
	return &response, nil
}

// Update updates a program's configuration
func (s *ProgramService) Update(ctx context.Context, actor shared.Actor, programID uuid.UUID, req UpdateProgramRequest) (*ProgramResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	program, err := s.programRepo.FindByIDForTenant(ctx, actor.TenantID, programID)
	if err != nil {
		return nil, err
	}

	name := program.Name
	if req.Name != nil {
		name = *req.Name
	}
	pointsPerCurrency := program.PointsPerCurrency
	if req.PointsPerCurrency != nil {
		pointsPerCurrency = *req.PointsPerCurrency
	}
	currencyPerPoint := program.CurrencyPerPoint
	if req.CurrencyPerPoint != nil {
		currencyPerPoint = *req.CurrencyPerPoint
	}
	minRedeem := program.MinPointsRedeem
	if req.MinPointsRedeem != nil {
		minRedeem = *req.MinPointsRedeem
	}
	expirationDays := program.ExpirationDays
	if req.ExpirationDays != nil {
		expirationDays = *req.ExpirationDays
	}

	if err := program.Update(name, pointsPerCurrency, currencyPerPoint, minRedeem, expirationDays); err != nil {
		return nil, err
	}
	if req.Description != nil {
		program.SetDescription(*req.Description)
	}

	if err := s.programRepo.Save(ctx, program); err != nil {
		return nil, err
	}

	response := ToProgramResponse(program)
	return &response, nil
}

// Activate makes the program the tenant's single active program
func (s *ProgramService) Activate(ctx context.Context, actor shared.Actor, programID uuid.UUID) (*ProgramResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	// Ensure the program exists within the tenant before flipping flags
	if _, err := s.programRepo.FindByIDForTenant(ctx, actor.TenantID, programID); err != nil {
		return nil, err
	}

	if err := s.programRepo.Activate(ctx, actor.TenantID, programID); err != nil {
		return nil, err
	}

	program, err := s.programRepo.FindByIDForTenant(ctx, actor.TenantID, programID)
	if err != nil {
		return nil, err
	}

	response := ToProgramResponse(program)
	return &response, nil
}

// Deactivate deactivates a program, leaving the tenant with no active program
func (s *ProgramService) Deactivate(ctx context.Context, actor shared.Actor, programID uuid.UUID) (*ProgramResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	program, err := s.programRepo.FindByIDForTenant(ctx, actor.TenantID, programID)
	if err != nil {
		return nil, err
	}

	if err := program.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.programRepo.Save(ctx, program); err != nil {
		return nil, err
	}

	response := ToProgramResponse(program)
	return &response, nil
}

// GetByID retrieves a program by ID
func (s *ProgramService) GetByID(ctx context.Context, actor shared.Actor, programID uuid.UUID) (*ProgramResponse, error) {
	program, err := s.programRepo.FindByIDForTenant(ctx, actor.TenantID, programID)
	if err != nil {
		return nil, err
	}

	response := ToProgramResponse(program)
	return &response, nil
}

// GetActive retrieves the tenant's active program
func (s *ProgramService) GetActive(ctx context.Context, actor shared.Actor) (*ProgramResponse, error) {
	program, err := s.programRepo.FindActiveForTenant(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}

	response := ToProgramResponse(program)
	return &response, nil
}

// List retrieves all programs for the tenant
func (s *ProgramService) List(ctx context.Context, actor shared.Actor, filter shared.Filter) ([]ProgramResponse, int64, error) {
	programs, err := s.programRepo.FindAllForTenant(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.programRepo.CountForTenant(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToProgramResponses(programs), total, nil
}
