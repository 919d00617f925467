package domain

import "github.com/shopspring/decimal"

// OwnerType identifies which aggregate a transaction is charged against.
type OwnerType string

const (
	OwnerProject    OwnerType = "PROJECT"
	OwnerClient     OwnerType = "CLIENT"
	OwnerDepartment OwnerType = "DEPARTMENT"
	// OwnerNone marks a transaction recorded in the period summary only.
	OwnerNone OwnerType = "NONE"
)

// OwnerRef points at the aggregate charged by a transaction.
type OwnerRef struct {
	Type OwnerType `json:"type"`
	ID   string    `json:"id,omitempty"`
}

// None reports whether the reference charges no owner aggregate.
func (r OwnerRef) None() bool {
	return r.Type == OwnerNone || r.Type == ""
}

// ProjectOwnership is the explicit variant behind the isInternal flag:
// a project is either internal (charged itself) or client-billed (its
// client is charged). The invalid state — client-billed with no client —
// is not representable; constructing it fails at the router.
type ProjectOwnership struct {
	Internal bool
	ClientID string // set iff !Internal
}

// Project is an owner document. RevenueTotal/ExpenseTotal are maintained
// exclusively by the ledger engine.
type Project struct {
	ProjectID    string          `json:"projectID"`
	Name         string          `json:"name"`
	IsInternal   bool            `json:"isInternal"`
	ClientID     *string         `json:"clientID,omitempty"`
	DepartmentID *string         `json:"departmentID,omitempty"`
	RevenueTotal decimal.Decimal `json:"revenueTotal"`
	ExpenseTotal decimal.Decimal `json:"expenseTotal"`
	AuditFields
}

// Client is an owner document.
type Client struct {
	ClientID     string          `json:"clientID"`
	Name         string          `json:"name"`
	RevenueTotal decimal.Decimal `json:"revenueTotal"`
	ExpenseTotal decimal.Decimal `json:"expenseTotal"`
	AuditFields
}

// Department is an owner document.
type Department struct {
	DepartmentID string          `json:"departmentID"`
	Name         string          `json:"name"`
	RevenueTotal decimal.Decimal `json:"revenueTotal"`
	ExpenseTotal decimal.Decimal `json:"expenseTotal"`
	AuditFields
}
