package handler

import (
	"github.com/washpoint/backend/internal/application/identity"
	"github.com/washpoint/backend/internal/domain/shared"
	"github.com/washpoint/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantHandler handles tenant API endpoints
type TenantHandler struct {
	BaseHandler
	tenantService *identity.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *identity.TenantService) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
	}
}

// SignupRequest represents a tenant signup request
// @Description New carwash signup with its first admin account
type SignupRequest struct {
	TenantSlug    string `json:"tenant_slug" binding:"required,min=2,max=50" example:"sparkle-wash"`
	TenantName    string `json:"tenant_name" binding:"required,min=1,max=200" example:"Sparkle Wash"`
	ContactName   string `json:"contact_name" binding:"max=100"`
	ContactPhone  string `json:"contact_phone" binding:"max=50"`
	ContactEmail  string `json:"contact_email" binding:"omitempty,email,max=200"`
	AdminEmail    string `json:"admin_email" binding:"required,email,max=200"`
	AdminPassword string `json:"admin_password" binding:"required,min=8,max=200"`
}

// UpdateTenantRequest represents a tenant profile update
// @Description Tenant profile fields; omitted fields are left unchanged
type UpdateTenantRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=200"`
	ContactName  *string `json:"contact_name" binding:"omitempty,max=100"`
	ContactPhone *string `json:"contact_phone" binding:"omitempty,max=50"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email,max=200"`
	Address      *string `json:"address" binding:"omitempty,max=500"`
	Notes        *string `json:"notes"`
}

// Signup godoc
// @Summary      Sign up a new carwash
// @Description  Creates the tenant and its first admin account
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup request"
// @Success      201 {object} APIResponse[identity.SignupResult]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /tenants/signup [post]
func (h *TenantHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.tenantService.Signup(c.Request.Context(), identity.SignupInput{
		TenantSlug:    req.TenantSlug,
		TenantName:    req.TenantName,
		ContactName:   req.ContactName,
		ContactPhone:  req.ContactPhone,
		ContactEmail:  req.ContactEmail,
		AdminEmail:    req.AdminEmail,
		AdminPassword: req.AdminPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get the current tenant
// @Tags         tenants
// @Produce      json
// @Success      200 {object} APIResponse[identity.TenantDTO]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenant [get]
func (h *TenantHandler) Get(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tenant, err := h.tenantService.Get(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// Update godoc
// @Summary      Update the current tenant's profile
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body UpdateTenantRequest true "Tenant update request"
// @Success      200 {object} APIResponse[identity.TenantDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenant [put]
func (h *TenantHandler) Update(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tenant, err := h.tenantService.Update(c.Request.Context(), actor, identity.UpdateTenantInput{
		Name:         req.Name,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		Address:      req.Address,
		Notes:        req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// List godoc
// @Summary      List tenants (platform only)
// @Tags         tenants
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search by slug or name"
// @Success      200 {object} APIResponse[[]identity.TenantDTO]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
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

	tenants, total, err := h.tenantService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, tenants, total, filter.Page, filter.PageSize)
}

// Suspend godoc
// @Summary      Suspend a tenant (platform only)
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenants/{id}/suspend [post]
func (h *TenantHandler) Suspend(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	if err := h.tenantService.Suspend(c.Request.Context(), actor, tenantID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Reactivate godoc
// @Summary      Reactivate a suspended tenant (platform only)
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenants/{id}/reactivate [post]
func (h *TenantHandler) Reactivate(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	if err := h.tenantService.Reactivate(c.Request.Context(), actor, tenantID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
