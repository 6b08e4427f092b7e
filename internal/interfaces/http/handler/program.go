package handler

import (
	loyaltyapp "github.com/washpoint/backend/internal/application/loyalty"
	"github.com/washpoint/backend/internal/domain/shared"
	"github.com/washpoint/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProgramHandler handles loyalty program configuration endpoints
type ProgramHandler struct {
	BaseHandler
	programService *loyaltyapp.ProgramService
}

// NewProgramHandler creates a new ProgramHandler
func NewProgramHandler(programService *loyaltyapp.ProgramService) *ProgramHandler {
	return &ProgramHandler{
		programService: programService,
	}
}

// Create godoc
// @ID           createProgram
// @Summary      Create a loyalty program
// @Description  Programs are created inactive; activate one to start earning
// @Tags         programs
// @Accept       json
// @Produce      json
// @Param        request body loyaltyapp.CreateProgramRequest true "Program creation request"
// @Success      201 {object} APIResponse[loyaltyapp.ProgramResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /programs [post]
func (h *ProgramHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req loyaltyapp.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	program, err := h.programService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, program)
}

// Update godoc
// @ID           updateProgram
// @Summary      Update a loyalty program
// @Description  Rate changes only affect entries recorded after the change
// @Tags         programs
// @Accept       json
// @Produce      json
// @Param        id path string true "Program ID" format(uuid)
// @Param        request body loyaltyapp.UpdateProgramRequest true "Program update request"
// @Success      200 {object} APIResponse[loyaltyapp.ProgramResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /programs/{id} [put]
func (h *ProgramHandler) Update(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid program ID")
		return
	}

	var req loyaltyapp.UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	program, err := h.programService.Update(c.Request.Context(), actor, programID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, program)
}

// Activate godoc
// @ID           activateProgram
// @Summary      Activate a loyalty program
// @Description  Deactivates the currently active program in the same
// @Description  transaction so at most one program is live per tenant
// @Tags         programs
// @Produce      json
// @Param        id path string true "Program ID" format(uuid)
// @Success      200 {object} APIResponse[loyaltyapp.ProgramResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /programs/{id}/activate [post]
func (h *ProgramHandler) Activate(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid program ID")
		return
	}

	program, err := h.programService.Activate(c.Request.Context(), actor, programID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, program)
}

// Deactivate godoc
// @ID           deactivateProgram
// @Summary      Deactivate a loyalty program
// @Description  With no active program, earning pauses but redemption and
// @Description  history remain available
// @Tags         programs
// @Produce      json
// @Param        id path string true "Program ID" format(uuid)
// @Success      200 {object} APIResponse[loyaltyapp.ProgramResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /programs/{id}/deactivate [post]
func (h *ProgramHandler) Deactivate(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid program ID")
		return
	}

	program, err := h.programService.Deactivate(c.Request.Context(), actor, programID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, program)
}

// GetActive godoc
// @ID           getActiveProgram
// @Summary      Get the tenant's active program
// @Tags         programs
// @Produce      json
// @Success      200 {object} APIResponse[loyaltyapp.ProgramResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /programs/active [get]
func (h *ProgramHandler) GetActive(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	program, err := h.programService.GetActive(c.Request.Context(), actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, program)
}

// GetByID godoc
// @ID           getProgramById
// @Summary      Get a program by ID
// @Tags         programs
// @Produce      json
// @Param        id path string true "Program ID" format(uuid)
// @Success      200 {object} APIResponse[loyaltyapp.ProgramResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /programs/{id} [get]
func (h *ProgramHandler) GetByID(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid program ID")
		return
	}

	program, err := h.programService.GetByID(c.Request.Context(), actor, programID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, program)
}

// List godoc
// @ID           listPrograms
// @Summary      List the tenant's programs
// @Tags         programs
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search by name"
// @Success      200 {object} APIResponse[[]loyaltyapp.ProgramResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /programs [get]
func (h *ProgramHandler) List(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.Filter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Search:   listReq.Search,
	}

	programs, total, err := h.programService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, programs, total, filter.Page, filter.PageSize)
}
