package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hrportal/finance_ledger/internal/core/ports/services"
	"github.com/hrportal/finance_ledger/internal/dto"
	"github.com/hrportal/finance_ledger/internal/middleware"
)

// periodHandler handles HTTP requests related to period summaries.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

// newPeriodHandler creates a new periodHandler.
func newPeriodHandler(periodService portssvc.PeriodSvcFacade) *periodHandler {
	return &periodHandler{
		periodService: periodService,
	}
}

// listPeriods godoc
// @Summary List period summaries
// @Description Retrieves a paginated list of period summaries, newest first
// @Tags periods
// @Produce  json
// @Param   year query int false "Filter by year"
// @Param   month query int false "Filter by month (1-12)"
// @Param   departmentID query string false "Filter by department"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous response"
// @Success 200 {object} dto.ListPeriodsResponse
// @Router /periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListPeriodsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listPeriods", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.periodService.ListPeriods(c.Request.Context(), params)
	if err != nil {
		respondWithServiceError(c, err, "Failed to list periods")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getPeriod godoc
// @Summary Get a period summary
// @Description Retrieves a period summary by its ID
// @Tags periods
// @Produce  json
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodSummaryResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Router /periods/{periodID} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	periodID := c.Param("periodID")

	period, err := h.periodService.GetPeriodByID(c.Request.Context(), periodID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve period")
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodSummaryResponse(period))
}

// closePeriod godoc
// @Summary Close a period
// @Description Moves a period to CLOSED; closed periods reject new transactions, amendments and deletions
// @Tags periods
// @Produce  json
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodSummaryResponse
// @Failure 400 {object} map[string]string "Period is not closable"
// @Failure 404 {object} map[string]string "Period not found"
// @Router /periods/{periodID}/close [post]
func (h *periodHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	period, err := h.periodService.ClosePeriod(c.Request.Context(), periodID, requestingUserID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to close period")
		return
	}

	logger.Info("Period closed", slog.String("period_id", periodID))
	c.JSON(http.StatusOK, dto.ToPeriodSummaryResponse(period))
}

// reopenPeriod godoc
// @Summary Reopen a period
// @Description Moves a closed period back to OPEN so it accepts changes again
// @Tags periods
// @Produce  json
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodSummaryResponse
// @Failure 400 {object} map[string]string "Period is not closed"
// @Failure 404 {object} map[string]string "Period not found"
// @Router /periods/{periodID}/reopen [post]
func (h *periodHandler) reopenPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	period, err := h.periodService.ReopenPeriod(c.Request.Context(), periodID, requestingUserID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to reopen period")
		return
	}

	logger.Info("Period reopened", slog.String("period_id", periodID))
	c.JSON(http.StatusOK, dto.ToPeriodSummaryResponse(period))
}

// registerPeriodRoutes registers period specific routes
func registerPeriodRoutes(group *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := newPeriodHandler(periodService)

	periods := group.Group("/periods")
	{
		periods.GET("", h.listPeriods)
		periods.GET("/:periodID", h.getPeriod)
		periods.POST("/:periodID/close", h.closePeriod)
		periods.POST("/:periodID/reopen", h.reopenPeriod)
	}
}
