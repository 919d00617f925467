package models

import "github.com/shopspring/decimal"

// PeriodSummary is the DB shape of a financial period rollup. DepartmentID
// uses '' (not NULL) for the company-wide row so the (year, month,
// department_id) unique constraint covers it.
type PeriodSummary struct {
	PeriodID      string          `db:"period_id"`
	Year          int             `db:"year"`
	Month         int             `db:"month"`
	DepartmentID  string          `db:"department_id"`
	TotalRevenue  decimal.Decimal `db:"total_revenue"`
	TotalExpenses decimal.Decimal `db:"total_expenses"`
	NetResult     decimal.Decimal `db:"net_result"`
	Status        string          `db:"status"`
	AuditFields
}
