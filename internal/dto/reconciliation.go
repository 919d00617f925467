package dto

import "github.com/shopspring/decimal"

// RunReconciliationRequest triggers a drift check across owner aggregates and
// period summaries. With Repair set, drifted totals are rewritten from the
// transaction rows.
type RunReconciliationRequest struct {
	Repair bool `json:"repair"`
}

// ReconciliationDrift records one stored total that disagrees with the value
// recomputed from transaction rows.
type ReconciliationDrift struct {
	EntityType string          `json:"entityType"` // PROJECT, CLIENT, DEPARTMENT or PERIOD
	EntityID   string          `json:"entityID"`
	Field      string          `json:"field"` // revenue_total, expense_total, total_revenue, total_expenses
	Stored     decimal.Decimal `json:"stored"`
	Computed   decimal.Decimal `json:"computed"`
	Repaired   bool            `json:"repaired"`
}

// ReconciliationReport summarizes one reconciliation pass.
type ReconciliationReport struct {
	Checked  int                   `json:"checked"`
	Drifted  int                   `json:"drifted"`
	Repaired int                   `json:"repaired"`
	Drifts   []ReconciliationDrift `json:"drifts,omitempty"`
}
