package services

import (
	"context"

	"github.com/hrportal/finance_ledger/internal/dto"
)

// ReconciliationSvc cross-checks stored owner and period totals against the
// transaction rows they were derived from.
type ReconciliationSvc interface {
	// Reconcile recomputes every aggregate from transaction rows and reports
	// drift. With repair set, drifted stored totals are rewritten.
	Reconcile(ctx context.Context, repair bool, runAsUserID string) (*dto.ReconciliationReport, error)
}
