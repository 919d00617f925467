package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hrportal/finance_ledger/internal/core/domain"
)

// PeriodFilter narrows a period listing. Nil fields are ignored.
type PeriodFilter struct {
	Year         *int
	Month        *int
	DepartmentID *string
}

// PeriodTotals pairs a period with totals recomputed from transaction rows.
type PeriodTotals struct {
	PeriodID string
	Revenue  decimal.Decimal
	Expense  decimal.Decimal
}

// PeriodReader defines read operations for period summaries
type PeriodReader interface {
	// FindPeriodByID retrieves a period summary by its unique identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.PeriodSummary, error)

	// FindPeriodByKey retrieves the period summary for a (year, month, department) key.
	FindPeriodByKey(ctx context.Context, key domain.PeriodKey) (*domain.PeriodSummary, error)

	// ListPeriods retrieves a paginated list of period summaries.
	ListPeriods(ctx context.Context, filter PeriodFilter, limit int, nextToken *string) ([]domain.PeriodSummary, *string, error)
}

// PeriodWriter defines write operations on period summaries. The in-tx
// variants run inside a caller-owned pgx.Tx so record writes and period
// deltas commit together.
type PeriodWriter interface {
	// ResolvePeriodInTx finds the period row for key, creating an empty OPEN
	// one if missing, and locks it for the remainder of the transaction.
	ResolvePeriodInTx(ctx context.Context, tx pgx.Tx, key domain.PeriodKey, createdBy string, now time.Time) (*domain.PeriodSummary, error)

	// ApplyPeriodDeltaInTx atomically increments the period's totals and
	// recomputes net result within the given transaction.
	ApplyPeriodDeltaInTx(ctx context.Context, tx pgx.Tx, periodID string, revenueDelta, expenseDelta decimal.Decimal, updatedBy string, updatedAt time.Time) error

	// UpdatePeriodStatus moves a period between administrative states.
	UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, updatedBy string, updatedAt time.Time) error
}

// PeriodReconciler defines the recompute/repair operations used by reconciliation
type PeriodReconciler interface {
	// ListPeriodStoredTotals retrieves the stored totals of every period summary.
	ListPeriodStoredTotals(ctx context.Context) ([]PeriodTotals, error)

	// ComputePeriodTotals recomputes totals per period from the transaction rows.
	ComputePeriodTotals(ctx context.Context) ([]PeriodTotals, error)

	// RepairPeriodTotals overwrites a period's stored totals with recomputed values.
	RepairPeriodTotals(ctx context.Context, periodID string, revenue, expense decimal.Decimal, updatedBy string, updatedAt time.Time) error
}

// PeriodRepositoryFacade combines all period-related repository interfaces
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
	PeriodReconciler
}
