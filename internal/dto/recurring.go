package dto

import "time"

// RunRecurringRequest triggers a materialization pass. AsOf defaults to now.
type RunRecurringRequest struct {
	AsOf *time.Time `json:"asOf"`
}

// MaterializationFailure records a rule that could not be materialized.
type MaterializationFailure struct {
	RuleID string `json:"ruleID"`
	Reason string `json:"reason"`
}

// MaterializationReport summarizes one recurring materialization pass.
type MaterializationReport struct {
	Created  int                      `json:"created"`
	Skipped  int                      `json:"skipped"`
	Failed   int                      `json:"failed"`
	Failures []MaterializationFailure `json:"failures,omitempty"`
}
