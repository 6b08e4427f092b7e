package handler

import (
	"context"

	billingapp "github.com/washpoint/backend/internal/application/billing"
	"github.com/washpoint/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// SubscriptionManager is the narrow interface the handler needs from the
// billing subscription service
type SubscriptionManager interface {
	Subscribe(ctx context.Context, actor shared.Actor, input billingapp.SubscribeInput) (*billingapp.SubscribeResult, error)
	ChangePlan(ctx context.Context, actor shared.Actor, plan string) (*billingapp.SubscribeResult, error)
	Cancel(ctx context.Context, actor shared.Actor) error
	Status(ctx context.Context, actor shared.Actor) (*billingapp.StatusResult, error)
}

// SubscriptionHandler handles subscription billing endpoints
type SubscriptionHandler struct {
	BaseHandler
	subscriptions SubscriptionManager
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptions SubscriptionManager) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptions: subscriptions,
	}
}

// SubscribeRequest represents a request to start a paid subscription
// @Description Plan and Stripe payment method
type SubscribeRequest struct {
	Plan          string `json:"plan" binding:"required,oneof=basic pro" example:"basic"`
	PaymentMethod string `json:"payment_method" binding:"required" example:"pm_1234567890"`
}

// ChangePlanRequest represents a plan change request
// @Description Target plan
type ChangePlanRequest struct {
	Plan string `json:"plan" binding:"required,oneof=basic pro" example:"pro"`
}

// Subscribe godoc
// @ID           subscribe
// @Summary      Start a paid subscription
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        request body SubscribeRequest true "Subscription request"
// @Success      200 {object} APIResponse[billingapp.SubscribeResult]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/subscription [post]
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.subscriptions.Subscribe(c.Request.Context(), actor, billingapp.SubscribeInput{
		Plan:          req.Plan,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ChangePlan godoc
// @ID           changePlan
// @Summary      Change the subscription plan
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        request body ChangePlanRequest true "Plan change request"
// @Success      200 {object} APIResponse[billingapp.SubscribeResult]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/subscription/plan [put]
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.subscriptions.ChangePlan(c.Request.Context(), actor, req.Plan)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel godoc
// @ID           cancelSubscription
// @Summary      Cancel the subscription at period end
// @Tags         billing
// @Produce      json
// @Success      204 "No Content"
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/subscription [delete]
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.subscriptions.Cancel(c.Request.Context(), actor); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Status godoc
// @ID           subscriptionStatus
// @Summary      Get the subscription status
// @Description  Refreshed from Stripe when the tenant has a linked subscription
// @Tags         billing
// @Produce      json
// @Success      200 {object} APIResponse[billingapp.StatusResult]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /billing/subscription [get]
func (h *SubscriptionHandler) Status(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.subscriptions.Status(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
