package handler

import (
	"time"

	loyaltyapp "github.com/washpoint/backend/internal/application/loyalty"
	"github.com/washpoint/backend/internal/infrastructure/scheduler"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles loyalty reporting and expiration admin endpoints
type ReportHandler struct {
	BaseHandler
	reportService *loyaltyapp.ReportService
	sweeper       *scheduler.ExpirationSweeper
}

// NewReportHandler creates a new ReportHandler. The sweeper may be nil when
// expiration is disabled.
func NewReportHandler(reportService *loyaltyapp.ReportService, sweeper *scheduler.ExpirationSweeper) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		sweeper:       sweeper,
	}
}

// TenantReport godoc
// @ID           tenantReport
// @Summary      Tenant loyalty activity report
// @Description  Points earned, redeemed, expired, and adjusted over a period,
// @Description  plus active customer counts and the lifetime-points ranking
// @Tags         reports
// @Produce      json
// @Param        date_from query string true "Start date (YYYY-MM-DD)"
// @Param        date_to query string true "End date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[loyaltyapp.TenantReportResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/loyalty [get]
func (h *ReportHandler) TenantReport(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req loyaltyapp.TenantReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	report, err := h.reportService.TenantReport(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// SweepResultData represents a completed expiration sweep
// @Description Result of a manual expiration sweep
type SweepResultData struct {
	WalletsExamined int       `json:"wallets_examined"`
	WalletsExpired  int       `json:"wallets_expired"`
	PointsExpired   int64     `json:"points_expired"`
	Errors          int       `json:"errors"`
	CompletedAt     time.Time `json:"completed_at"`
}

// TriggerExpiration godoc
// @ID           triggerExpiration
// @Summary      Run an expiration sweep now
// @Description  Runs the background expiration sweep immediately instead of
// @Description  waiting for the next scheduled pass
// @Tags         reports
// @Produce      json
// @Success      200 {object} APIResponse[SweepResultData]
// @Failure      409 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/expiration/sweep [post]
func (h *ReportHandler) TriggerExpiration(c *gin.Context) {
	if h.sweeper == nil {
		h.ErrorWithCode(c, "ERR_INVALID_STATE", "Point expiration is not enabled")
		return
	}

	result, err := h.sweeper.TriggerNow(c.Request.Context())
	if err != nil {
		switch err {
		case scheduler.ErrSweepInProgress:
			h.Conflict(c, "An expiration sweep is already running")
		case scheduler.ErrSweeperNotRunning:
			h.ErrorWithCode(c, "ERR_INVALID_STATE", "The expiration sweeper is not running")
		default:
			h.HandleDomainError(c, err)
		}
		return
	}

	h.Success(c, SweepResultData{
		WalletsExamined: result.WalletsExamined,
		WalletsExpired:  result.WalletsExpired,
		PointsExpired:   result.PointsExpired,
		Errors:          result.Errors,
		CompletedAt:     time.Now(),
	})
}
