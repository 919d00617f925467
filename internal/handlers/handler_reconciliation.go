package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hrportal/finance_ledger/internal/core/ports/services"
	"github.com/hrportal/finance_ledger/internal/dto"
	"github.com/hrportal/finance_ledger/internal/middleware"
)

// reconciliationHandler handles HTTP requests that trigger aggregate
// reconciliation.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvc
}

// newReconciliationHandler creates a new reconciliationHandler.
func newReconciliationHandler(reconciliationService portssvc.ReconciliationSvc) *reconciliationHandler {
	return &reconciliationHandler{
		reconciliationService: reconciliationService,
	}
}

// runReconciliation godoc
// @Summary Run a reconciliation pass
// @Description Recomputes owner and period totals from transaction rows and reports drift; with repair set, drifted totals are rewritten
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   request body dto.RunReconciliationRequest false "Set repair to rewrite drifted totals"
// @Success 200 {object} dto.ReconciliationReport
// @Router /reconciliation/run [post]
func (h *reconciliationHandler) runReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RunReconciliationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for runReconciliation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	runAsUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	report, err := h.reconciliationService.Reconcile(c.Request.Context(), req.Repair, runAsUserID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to run reconciliation pass")
		return
	}

	logger.Info("Reconciliation pass finished",
		slog.Int("checked", report.Checked),
		slog.Int("drifted", report.Drifted),
		slog.Int("repaired", report.Repaired),
	)
	c.JSON(http.StatusOK, report)
}

// registerReconciliationRoutes registers reconciliation routes
func registerReconciliationRoutes(group *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvc) {
	h := newReconciliationHandler(reconciliationService)

	reconciliation := group.Group("/reconciliation")
	{
		reconciliation.POST("/run", h.runReconciliation)
	}
}
