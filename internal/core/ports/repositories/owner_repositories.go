package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hrportal/finance_ledger/internal/core/domain"
)

// OwnerTotals pairs an owner with totals recomputed from transaction rows.
type OwnerTotals struct {
	OwnerID string
	Revenue decimal.Decimal
	Expense decimal.Decimal
}

// OwnerReader defines read operations for owner aggregate documents
type OwnerReader interface {
	// FindProjectByID retrieves a project by its unique identifier.
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)

	// FindClientByID retrieves a client by its unique identifier.
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)

	// FindDepartmentByID retrieves a department by its unique identifier.
	FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error)
}

// OwnerAggregateWriter defines the in-transaction delta application used by
// the transaction writer. Callers pass the surrounding pgx.Tx.
type OwnerAggregateWriter interface {
	// LockOwnerForUpdate acquires a row lock on the owner aggregate so
	// concurrent deltas serialize.
	LockOwnerForUpdate(ctx context.Context, tx pgx.Tx, ownerType domain.OwnerType, ownerID string) error

	// ApplyOwnerDeltaInTx atomically increments the owner's revenue and
	// expense totals within the given transaction.
	ApplyOwnerDeltaInTx(ctx context.Context, tx pgx.Tx, ownerType domain.OwnerType, ownerID string, revenueDelta, expenseDelta decimal.Decimal, updatedBy string, updatedAt time.Time) error
}

// OwnerReconciler defines the recompute/repair operations used by reconciliation
type OwnerReconciler interface {
	// ListOwnerStoredTotals retrieves the stored totals of every owner of the
	// given type.
	ListOwnerStoredTotals(ctx context.Context, ownerType domain.OwnerType) ([]OwnerTotals, error)

	// ComputeOwnerTotals recomputes totals per owner of the given type from
	// the transaction rows.
	ComputeOwnerTotals(ctx context.Context, ownerType domain.OwnerType) ([]OwnerTotals, error)

	// RepairOwnerTotals overwrites an owner's stored totals with recomputed values.
	RepairOwnerTotals(ctx context.Context, ownerType domain.OwnerType, ownerID string, revenue, expense decimal.Decimal, updatedBy string, updatedAt time.Time) error
}

// OwnerRepositoryFacade combines all owner-related repository interfaces
type OwnerRepositoryFacade interface {
	OwnerReader
	OwnerAggregateWriter
	OwnerReconciler
}
