package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodStatus is the administrative state of a financial period.
type PeriodStatus string

const (
	PeriodOpen          PeriodStatus = "OPEN"
	PeriodReviewPending PeriodStatus = "REVIEW_PENDING"
	PeriodClosed        PeriodStatus = "CLOSED"
	PeriodArchived      PeriodStatus = "ARCHIVED"
)

// AcceptsChanges reports whether new deltas may be applied to the period.
func (s PeriodStatus) AcceptsChanges() bool {
	return s == PeriodOpen || s == PeriodReviewPending
}

// PeriodKey is the unique identity of a period summary. A nil DepartmentID
// is the company-wide row for that month.
type PeriodKey struct {
	Year         int
	Month        int // 1..12
	DepartmentID *string
}

// PeriodKeyFor derives the key a transaction dated at date belongs to.
func PeriodKeyFor(date time.Time, departmentID *string) PeriodKey {
	return PeriodKey{
		Year:         date.UTC().Year(),
		Month:        int(date.UTC().Month()),
		DepartmentID: departmentID,
	}
}

// PeriodSummary is the per (year, month, department) rollup. NetResult is
// recomputed whenever either total changes, never read stale.
type PeriodSummary struct {
	PeriodID      string          `json:"periodID"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	DepartmentID  *string         `json:"departmentID,omitempty"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetResult     decimal.Decimal `json:"netResult"`
	Status        PeriodStatus    `json:"status"`
	AuditFields
}
