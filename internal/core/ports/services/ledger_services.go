package services

import (
	"context"

	"github.com/hrportal/finance_ledger/internal/core/domain"
	"github.com/hrportal/finance_ledger/internal/dto"
)

// LedgerReaderSvc defines read operations for ledger records
type LedgerReaderSvc interface {
	// GetTransactionByID retrieves a specific transaction by its ID.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.TransactionRecord, error)

	// ListTransactions retrieves a paginated, filtered list of transactions.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// LedgerWriterSvc defines write operations for ledger records
type LedgerWriterSvc interface {
	// CreateTransaction validates, allocates and persists a new transaction,
	// charging its owner aggregate and period summary atomically.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*domain.TransactionRecord, error)

	// AmendTransaction applies field changes to an existing transaction and
	// settles the amount difference against the original allocation.
	AmendTransaction(ctx context.Context, transactionID string, req dto.AmendTransactionRequest, requestingUserID string) (*domain.TransactionRecord, error)

	// DeleteTransaction removes a transaction and reverses its allocation.
	DeleteTransaction(ctx context.Context, transactionID string, requestingUserID string) (*domain.TransactionRecord, error)

	// DecideTransaction approves or rejects a pending expense.
	DecideTransaction(ctx context.Context, transactionID string, req dto.DecideTransactionRequest, deciderUserID string) (*domain.TransactionRecord, error)
}

// LedgerSvcFacade combines all ledger service interfaces
// This is a facade for clients that need access to all operations
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
