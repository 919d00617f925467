package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hrportal/finance_ledger/internal/core/ports/services"
	"github.com/hrportal/finance_ledger/internal/dto"
	"github.com/hrportal/finance_ledger/internal/middleware"
)

// transactionHandler handles HTTP requests related to ledger transactions.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ledgerService portssvc.LedgerSvcFacade) *transactionHandler {
	return &transactionHandler{
		ledgerService: ledgerService,
	}
}

// createTransaction godoc
// @Summary Record a new transaction
// @Description Validates the transaction, routes it to its owner aggregate and period summary, and persists all three atomically
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.CreateTransactionResponse "Allocation result for the created transaction"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 422 {object} map[string]string "Owner configuration error"
// @Failure 409 {object} map[string]string "Period closed or concurrent write"
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	record, err := h.ledgerService.CreateTransaction(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to create transaction")
		return
	}

	logger.Info("Transaction created successfully", slog.String("transaction_id", record.TransactionID))
	c.JSON(http.StatusCreated, dto.ToCreateTransactionResponse(record))
}

// getTransaction godoc
// @Summary Get a transaction
// @Description Retrieves a transaction by its ID, including its allocation snapshot
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	transactionID := c.Param("transactionID")

	record, err := h.ledgerService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(record))
}

// listTransactions godoc
// @Summary List transactions
// @Description Retrieves a paginated, filtered list of transactions, newest first
// @Tags transactions
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous response"
// @Param   kind query string false "Filter by kind (REVENUE or EXPENSE)"
// @Param   status query string false "Filter by status"
// @Param   ownerType query string false "Filter by allocated owner type"
// @Param   ownerID query string false "Filter by allocated owner ID"
// @Param   periodID query string false "Filter by period"
// @Success 200 {object} dto.ListTransactionsResponse
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.ledgerService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		respondWithServiceError(c, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// amendTransaction godoc
// @Summary Amend a transaction
// @Description Applies field changes and settles the amount difference against the original allocation
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Param   amendment body dto.AmendTransactionRequest true "Fields to change plus the expected version"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Stale version, closed period or concurrent write"
// @Router /transactions/{transactionID} [patch]
func (h *transactionHandler) amendTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	var req dto.AmendTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for amendTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	record, err := h.ledgerService.AmendTransaction(c.Request.Context(), transactionID, req, requestingUserID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to amend transaction")
		return
	}

	logger.Info("Transaction amended successfully", slog.String("transaction_id", transactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(record))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Removes a transaction and reverses its amount against the owner and period it was charged to
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.DeleteTransactionResponse "Reversal applied by the deletion"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Period closed"
// @Router /transactions/{transactionID} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	record, err := h.ledgerService.DeleteTransaction(c.Request.Context(), transactionID, requestingUserID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to delete transaction")
		return
	}

	logger.Info("Transaction deleted successfully", slog.String("transaction_id", transactionID))
	c.JSON(http.StatusOK, dto.DeleteTransactionResponse{
		TransactionID:  record.TransactionID,
		ReversedAmount: record.Amount,
		OwnerType:      string(record.Owner.Type),
		OwnerID:        record.Owner.ID,
		PeriodID:       record.PeriodID,
	})
}

// decideTransaction godoc
// @Summary Decide a pending expense
// @Description Approves or rejects a pending expense transaction
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Param   decision body dto.DecideTransactionRequest true "APPROVED or REJECTED"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Transaction is not a pending expense"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /transactions/{transactionID}/decision [post]
func (h *transactionHandler) decideTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	var req dto.DecideTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for decideTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	deciderUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	record, err := h.ledgerService.DecideTransaction(c.Request.Context(), transactionID, req, deciderUserID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to decide transaction")
		return
	}

	logger.Info("Transaction decision recorded", slog.String("transaction_id", transactionID), slog.String("decision", req.Decision))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(record))
}

// registerTransactionRoutes registers transaction specific routes
func registerTransactionRoutes(group *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newTransactionHandler(ledgerService)

	transactions := group.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:transactionID", h.getTransaction)
		transactions.PATCH("/:transactionID", h.amendTransaction)
		transactions.DELETE("/:transactionID", h.deleteTransaction)
		transactions.POST("/:transactionID/decision", h.decideTransaction)
	}
}
