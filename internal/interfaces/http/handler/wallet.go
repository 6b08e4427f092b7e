package handler

import (
	loyaltyapp "github.com/washpoint/backend/internal/application/loyalty"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler handles wallet ledger API endpoints
type WalletHandler struct {
	BaseHandler
	walletService *loyaltyapp.WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService *loyaltyapp.WalletService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// Earn godoc
// @ID           earnPoints
// @Summary      Credit points for a paid wash
// @Description  Converts the paid amount to points using the active program's
// @Description  earn rate and appends an EARN entry to the ledger. Requests
// @Description  carrying a reference already seen by the tenant return the
// @Description  original entry instead of crediting twice.
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        request body loyaltyapp.EarnPointsRequest true "Earn request"
// @Success      200 {object} APIResponse[loyaltyapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /wallets/earn [post]
func (h *WalletHandler) Earn(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req loyaltyapp.EarnPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.walletService.Earn(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// Redeem godoc
// @ID           redeemPoints
// @Summary      Spend points on a discount
// @Description  Debits points at the active program's redeem rate. Fails with
// @Description  422 when the wallet balance is insufficient or the amount is
// @Description  below the program's redemption minimum.
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        request body loyaltyapp.RedeemPointsRequest true "Redeem request"
// @Success      200 {object} APIResponse[loyaltyapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /wallets/redeem [post]
func (h *WalletHandler) Redeem(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req loyaltyapp.RedeemPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.walletService.Redeem(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// Adjust godoc
// @ID           adjustPoints
// @Summary      Manually adjust a wallet
// @Description  Admin-only correction with an explicit credit or debit
// @Description  direction and a mandatory reason.
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        request body loyaltyapp.AdjustPointsRequest true "Adjust request"
// @Success      200 {object} APIResponse[loyaltyapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /wallets/adjust [post]
func (h *WalletHandler) Adjust(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req loyaltyapp.AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.walletService.Adjust(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// GetWallet godoc
// @ID           getWallet
// @Summary      Get a customer's wallet balance
// @Tags         wallets
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[loyaltyapp.WalletResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id}/wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	wallet, err := h.walletService.GetWallet(c.Request.Context(), actor, customerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, wallet)
}

// GetSummary godoc
// @ID           getWalletSummary
// @Summary      Get a customer's wallet lifetime totals
// @Tags         wallets
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[loyaltyapp.WalletSummaryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id}/wallet/summary [get]
func (h *WalletHandler) GetSummary(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	summary, err := h.walletService.GetSummary(c.Request.Context(), actor, customerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// ListTransactions godoc
// @ID           listWalletTransactions
// @Summary      List a customer's ledger history
// @Description  Newest first, filterable by entry type, source, and date range
// @Tags         wallets
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        transaction_type query string false "Entry type" Enums(EARN, REDEEM, ADJUST, EXPIRE)
// @Param        source_type query string false "Source type" Enums(WASH_ORDER, REDEMPTION, MANUAL, SYSTEM)
// @Param        date_from query string false "Start date (YYYY-MM-DD)"
// @Param        date_to query string false "End date (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]loyaltyapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id}/wallet/transactions [get]
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var filter loyaltyapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entries, total, err := h.walletService.ListTransactions(c.Request.Context(), actor, customerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	h.SuccessWithMeta(c, entries, total, page, filter.PageSize)
}
