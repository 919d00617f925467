package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrportal/finance_ledger/internal/apperrors"
	"github.com/hrportal/finance_ledger/internal/core/domain"
	portsrepo "github.com/hrportal/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/hrportal/finance_ledger/internal/core/ports/services"
	"github.com/hrportal/finance_ledger/internal/dto"
)

var (
	ErrAmountNegative         = fmt.Errorf("%w: transaction amount must not be negative", apperrors.ErrValidation)
	ErrDescriptionTooShort    = fmt.Errorf("%w: description must contain at least %d words", apperrors.ErrValidation, domain.MinDescriptionWords)
	ErrInvalidCategory        = fmt.Errorf("%w: category is not valid for this transaction kind", apperrors.ErrValidation)
	ErrInvalidStatus          = fmt.Errorf("%w: status is not valid for this transaction kind", apperrors.ErrValidation)
	ErrReceivedMethodRequired = fmt.Errorf("%w: a received method is required for received statuses", apperrors.ErrValidation)
	ErrRecurrenceInvalid      = fmt.Errorf("%w: recurring rules need a valid frequency and start date", apperrors.ErrValidation)
	ErrPeriodReallocation     = fmt.Errorf("%w: amendment may not move the transaction into another period", apperrors.ErrValidation)
	ErrDecisionViaAmend       = fmt.Errorf("%w: approval decisions go through the decision operation, not amendment", apperrors.ErrValidation)
	ErrNotPendingExpense      = fmt.Errorf("%w: only pending expenses can be decided", apperrors.ErrValidation)
)

// ledgerService provides the core transaction recording, amendment and
// reversal operations.
type ledgerService struct {
	BaseService
	txnRepo portsrepo.TransactionRepositoryFacade
	router  allocationRouter
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(txnRepo portsrepo.TransactionRepositoryFacade, ownerRepo portsrepo.OwnerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		txnRepo: txnRepo,
		router:  allocationRouter{ownerRepo: ownerRepo},
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// kindDeltas splits a signed amount change into the revenue/expense delta pair
// applied to aggregates.
func kindDeltas(kind domain.TransactionKind, amountDelta decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if kind == domain.Revenue {
		return amountDelta, decimal.Zero
	}
	return decimal.Zero, amountDelta
}

// CreateTransaction validates, allocates and persists a new transaction.
// Implements portssvc.LedgerSvcFacade
func (s *ledgerService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*domain.TransactionRecord, error) {
	logger := s.GetLogger(ctx)

	kind := domain.TransactionKind(req.Kind)
	if req.Amount.IsNegative() {
		return nil, ErrAmountNegative
	}
	if domain.DescriptionWordCount(req.Description) < domain.MinDescriptionWords {
		return nil, ErrDescriptionTooShort
	}
	if !kind.ValidCategory(domain.Category(req.Category)) {
		return nil, ErrInvalidCategory
	}

	var recurrence *domain.Recurrence
	if req.Recurrence != nil && req.Recurrence.IsRecurring {
		freq := domain.RecurrenceFrequency(req.Recurrence.Frequency)
		if !domain.ValidFrequency(freq) {
			return nil, ErrRecurrenceInvalid
		}
		startDate := req.Date
		if req.Recurrence.StartDate != nil {
			startDate = *req.Recurrence.StartDate
		}
		if req.Recurrence.EndDate != nil && req.Recurrence.EndDate.Before(startDate) {
			return nil, ErrRecurrenceInvalid
		}
		recurrence = &domain.Recurrence{
			IsRecurring: true,
			Frequency:   freq,
			StartDate:   startDate,
			EndDate:     req.Recurrence.EndDate,
		}
	}

	// Route the transaction to the single owner aggregate it charges.
	owner, periodDept, err := s.router.Resolve(ctx, req.ProjectID, req.ClientID, req.DepartmentID)
	if err != nil {
		logger.Warn("Owner allocation failed", slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now().UTC()
	record := domain.TransactionRecord{
		TransactionID: uuid.NewString(),
		Kind:          kind,
		Category:      domain.Category(req.Category),
		Amount:        req.Amount,
		Date:          req.Date,
		Description:   req.Description,
		Status:        kind.InitialStatus(),
		CurrencyCode:  req.CurrencyCode,
		ProjectID:     req.ProjectID,
		ClientID:      req.ClientID,
		DepartmentID:  req.DepartmentID,
		Owner:         owner,
		Recurrence:    recurrence,
		Version:       1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if req.Tax != nil {
		record.Tax = domain.Tax{Amount: req.Tax.Amount, Rate: req.Tax.Rate, Type: req.Tax.Type}
	}

	revenueDelta, expenseDelta := kindDeltas(kind, req.Amount)
	key := domain.PeriodKeyFor(req.Date, periodDept)

	err = s.RetryOnConflict(ctx, func() error {
		periodID, saveErr := s.txnRepo.SaveTransaction(ctx, record, key, revenueDelta, expenseDelta)
		if saveErr != nil {
			return saveErr
		}
		record.PeriodID = periodID
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("transaction_id", record.TransactionID))
		return nil, err
	}

	logger.Info("Transaction created",
		slog.String("transaction_id", record.TransactionID),
		slog.String("owner_type", string(record.Owner.Type)),
		slog.String("period_id", record.PeriodID),
	)
	return &record, nil
}

// AmendTransaction applies field changes to an existing transaction and settles
// the amount difference against the original allocation snapshot.
// Implements portssvc.LedgerSvcFacade
func (s *ledgerService) AmendTransaction(ctx context.Context, transactionID string, req dto.AmendTransactionRequest, requestingUserID string) (*domain.TransactionRecord, error) {
	existing, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if req.Version != existing.Version {
		return nil, apperrors.NewAppError(409, "transaction "+transactionID+" was modified concurrently", apperrors.ErrConflict)
	}

	updated := *existing

	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, ErrAmountNegative
		}
		updated.Amount = *req.Amount
	}
	if req.Date != nil {
		// The period allocated at create time is immutable; the date may only
		// move within the same month.
		if req.Date.UTC().Year() != existing.Date.UTC().Year() || req.Date.UTC().Month() != existing.Date.UTC().Month() {
			return nil, ErrPeriodReallocation
		}
		updated.Date = *req.Date
	}
	if req.Description != nil {
		if domain.DescriptionWordCount(*req.Description) < domain.MinDescriptionWords {
			return nil, ErrDescriptionTooShort
		}
		updated.Description = *req.Description
	}
	if req.Category != nil {
		if !existing.Kind.ValidCategory(domain.Category(*req.Category)) {
			return nil, ErrInvalidCategory
		}
		updated.Category = domain.Category(*req.Category)
	}
	if req.ReceivedMethod != nil {
		updated.ReceivedMethod = *req.ReceivedMethod
	}
	if req.Status != nil {
		status := domain.TransactionStatus(*req.Status)
		if !existing.Kind.ValidStatus(status) {
			return nil, ErrInvalidStatus
		}
		if status == domain.StatusApproved || status == domain.StatusRejected {
			return nil, ErrDecisionViaAmend
		}
		if domain.RequiresReceivedMethod(status) && updated.ReceivedMethod == "" {
			return nil, ErrReceivedMethodRequired
		}
		updated.Status = status
	}
	if req.Tax != nil {
		updated.Tax = domain.Tax{Amount: req.Tax.Amount, Rate: req.Tax.Rate, Type: req.Tax.Type}
	}

	now := time.Now().UTC()
	updated.Version = existing.Version + 1
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = requestingUserID

	amountDelta := updated.Amount.Sub(existing.Amount)
	revenueDelta, expenseDelta := kindDeltas(existing.Kind, amountDelta)

	if err := s.txnRepo.AmendTransaction(ctx, updated, existing.Version, revenueDelta, expenseDelta); err != nil {
		s.LogError(ctx, err, "Failed to amend transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction amended",
		slog.String("transaction_id", transactionID),
		slog.String("amount_delta", amountDelta.String()),
	)
	return &updated, nil
}

// DeleteTransaction removes a transaction and reverses its allocation.
// Implements portssvc.LedgerSvcFacade
func (s *ledgerService) DeleteTransaction(ctx context.Context, transactionID string, requestingUserID string) (*domain.TransactionRecord, error) {
	now := time.Now().UTC()
	record, err := s.txnRepo.DeleteTransaction(ctx, transactionID, requestingUserID, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction deleted",
		slog.String("transaction_id", transactionID),
		slog.String("reversed_amount", record.Amount.String()),
		slog.String("period_id", record.PeriodID),
	)
	return record, nil
}

// DecideTransaction approves or rejects a pending expense.
// Implements portssvc.LedgerSvcFacade
func (s *ledgerService) DecideTransaction(ctx context.Context, transactionID string, req dto.DecideTransactionRequest, deciderUserID string) (*domain.TransactionRecord, error) {
	existing, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if existing.Kind != domain.Expense || existing.Status != domain.StatusPending {
		return nil, ErrNotPendingExpense
	}

	now := time.Now().UTC()
	updated := *existing
	updated.Status = domain.TransactionStatus(req.Decision)
	updated.ApprovedBy = &deciderUserID
	updated.ApprovalDate = &now
	updated.Version = existing.Version + 1
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = deciderUserID

	// A decision changes lifecycle state only; aggregates are untouched.
	if err := s.txnRepo.AmendTransaction(ctx, updated, existing.Version, decimal.Zero, decimal.Zero); err != nil {
		s.LogError(ctx, err, "Failed to record decision", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction decided",
		slog.String("transaction_id", transactionID),
		slog.String("decision", req.Decision),
	)
	return &updated, nil
}

// GetTransactionByID retrieves a transaction by its ID.
// Implements portssvc.LedgerSvcFacade
func (s *ledgerService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.TransactionRecord, error) {
	return s.txnRepo.FindTransactionByID(ctx, transactionID)
}

// ListTransactions retrieves a paginated, filtered list of transactions.
// Implements portssvc.LedgerSvcFacade
func (s *ledgerService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	filter := portsrepo.TransactionFilter{
		OwnerID:  params.OwnerID,
		PeriodID: params.PeriodID,
	}
	if params.Kind != nil {
		kind := domain.TransactionKind(*params.Kind)
		filter.Kind = &kind
	}
	if params.Status != nil {
		status := domain.TransactionStatus(*params.Status)
		filter.Status = &status
	}
	if params.OwnerType != nil {
		ownerType := domain.OwnerType(*params.OwnerType)
		filter.OwnerType = &ownerType
	}

	records, nextToken, err := s.txnRepo.ListTransactions(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return dto.ToListTransactionsResponse(records, nextToken), nil
}
