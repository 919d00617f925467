package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hrportal/finance_ledger/internal/core/ports/services"
	"github.com/hrportal/finance_ledger/internal/dto"
	"github.com/hrportal/finance_ledger/internal/middleware"
)

// recurringHandler handles HTTP requests that trigger recurring rule
// materialization.
type recurringHandler struct {
	recurringService portssvc.RecurringSvc
}

// newRecurringHandler creates a new recurringHandler.
func newRecurringHandler(recurringService portssvc.RecurringSvc) *recurringHandler {
	return &recurringHandler{
		recurringService: recurringService,
	}
}

// runMaterialization godoc
// @Summary Run a recurring materialization pass
// @Description Creates transactions for every recurring rule occurrence due as of the given time (defaults to now)
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   request body dto.RunRecurringRequest false "Optional asOf override"
// @Success 200 {object} dto.MaterializationReport
// @Router /recurring/run [post]
func (h *recurringHandler) runMaterialization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RunRecurringRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for runMaterialization", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	runAsUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	asOf := time.Now().UTC()
	if req.AsOf != nil {
		asOf = req.AsOf.UTC()
	}

	report, err := h.recurringService.MaterializeDueRules(c.Request.Context(), asOf, runAsUserID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to run materialization pass")
		return
	}

	logger.Info("Materialization pass finished",
		slog.Int("created", report.Created),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
	)
	c.JSON(http.StatusOK, report)
}

// registerRecurringRoutes registers recurring materialization routes
func registerRecurringRoutes(group *gin.RouterGroup, recurringService portssvc.RecurringSvc) {
	h := newRecurringHandler(recurringService)

	recurring := group.Group("/recurring")
	{
		recurring.POST("/run", h.runMaterialization)
	}
}
