package services

import (
	"context"
	"time"

	"github.com/hrportal/finance_ledger/internal/dto"
)

// RecurringSvc materializes due occurrences of recurring rules into concrete
// transactions.
type RecurringSvc interface {
	// MaterializeDueRules runs one pass over active recurring rules as of the
	// given time, creating a transaction for each due occurrence that has not
	// already been materialized.
	MaterializeDueRules(ctx context.Context, asOf time.Time, runAsUserID string) (*dto.MaterializationReport, error)
}
