package models

import "github.com/shopspring/decimal"

// Project is the DB shape of a project owner document.
type Project struct {
	ProjectID    string          `db:"project_id"`
	Name         string          `db:"name"`
	IsInternal   bool            `db:"is_internal"`
	ClientID     *string         `db:"client_id"`
	DepartmentID *string         `db:"department_id"`
	RevenueTotal decimal.Decimal `db:"revenue_total"`
	ExpenseTotal decimal.Decimal `db:"expense_total"`
	AuditFields
}

// Client is the DB shape of a client owner document.
type Client struct {
	ClientID     string          `db:"client_id"`
	Name         string          `db:"name"`
	RevenueTotal decimal.Decimal `db:"revenue_total"`
	ExpenseTotal decimal.Decimal `db:"expense_total"`
	AuditFields
}

// Department is the DB shape of a department owner document.
type Department struct {
	DepartmentID string          `db:"department_id"`
	Name         string          `db:"name"`
	RevenueTotal decimal.Decimal `db:"revenue_total"`
	ExpenseTotal decimal.Decimal `db:"expense_total"`
	AuditFields
}
