package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hrportal/finance_ledger/internal/core/domain"
)

// TransactionFilter narrows a transaction listing. Nil fields are ignored.
type TransactionFilter struct {
	Kind      *domain.TransactionKind
	Status    *domain.TransactionStatus
	OwnerType *domain.OwnerType
	OwnerID   *string
	PeriodID  *string
}

// TransactionReader defines read operations for ledger records
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.TransactionRecord, error)

	// ListTransactions retrieves a paginated list of transactions using token-based pagination.
	// It returns the records, a token for the next page, and an error.
	ListTransactions(ctx context.Context, filter TransactionFilter, limit int, nextToken *string) ([]domain.TransactionRecord, *string, error)
}

// TransactionWriter defines write operations for ledger records. Every write
// settles the record row, its owner aggregate and its period summary in a
// single database transaction.
type TransactionWriter interface {
	// SaveTransaction persists a new record, resolving (or creating) the period
	// for key inside the same transaction and applying the revenue/expense
	// deltas to the allocated owner and the period. It returns the resolved
	// period ID written into the record's allocation snapshot.
	SaveTransaction(ctx context.Context, txn domain.TransactionRecord, key domain.PeriodKey, revenueDelta, expenseDelta decimal.Decimal) (string, error)

	// AmendTransaction locks the record row, verifies the expected version,
	// rewrites the amendable fields and applies the amount delta against the
	// record's snapshotted owner and period.
	AmendTransaction(ctx context.Context, txn domain.TransactionRecord, expectedVersion int64, revenueDelta, expenseDelta decimal.Decimal) error

	// DeleteTransaction removes the record row and reverses its full amount
	// against the snapshotted owner and period. It returns the deleted record.
	DeleteTransaction(ctx context.Context, transactionID string, deletedBy string, now time.Time) (*domain.TransactionRecord, error)
}

// RecurringRuleReader defines read operations for recurring rule records
type RecurringRuleReader interface {
	// ListActiveRecurringRules retrieves recurring templates whose window
	// contains or precedes asOf and that are not cancelled or rejected.
	ListActiveRecurringRules(ctx context.Context, asOf time.Time) ([]domain.TransactionRecord, error)

	// FindMaterializedForRule looks for a record already materialized from the
	// rule with a date inside [from, to).
	FindMaterializedForRule(ctx context.Context, ruleID string, from, to time.Time) (*domain.TransactionRecord, error)
}

// RecurringRuleWriter defines write operations for recurring rule bookkeeping
type RecurringRuleWriter interface {
	// MarkRuleProcessed advances the rule's last processed date.
	MarkRuleProcessed(ctx context.Context, ruleID string, processedDate time.Time, updatedBy string, updatedAt time.Time) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
// This is a facade for clients that need access to all operations
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	RecurringRuleReader
	RecurringRuleWriter
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with transaction capabilities
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
