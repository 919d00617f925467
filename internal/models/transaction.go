package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind mirrors domain.TransactionKind for DB storage.
type TransactionKind string

const (
	Revenue TransactionKind = "REVENUE"
	Expense TransactionKind = "EXPENSE"
)

// TransactionRecord is the DB shape of a ledger record. Owner and period
// columns are the allocation snapshot written at create time.
type TransactionRecord struct {
	TransactionID string          `db:"transaction_id"`
	Kind          TransactionKind `db:"kind"`
	Category      string          `db:"category"`
	Amount        decimal.Decimal `db:"amount"`
	Date          time.Time       `db:"date"`
	Description   string          `db:"description"`
	Status        string          `db:"status"`
	CurrencyCode  string          `db:"currency_code"`

	TaxAmount decimal.Decimal `db:"tax_amount"`
	TaxRate   decimal.Decimal `db:"tax_rate"`
	TaxType   string          `db:"tax_type"`

	ReceivedMethod string `db:"received_method"`

	ProjectID    *string `db:"project_id"`
	ClientID     *string `db:"client_id"`
	DepartmentID *string `db:"department_id"`

	OwnerType string `db:"owner_type"`
	OwnerID   string `db:"owner_id"` // empty when owner_type = NONE
	PeriodID  string `db:"period_id"`

	IsRecurring        bool       `db:"is_recurring"`
	RecurringFrequency string     `db:"recurring_frequency"`
	RecurringStartDate *time.Time `db:"recurring_start_date"`
	RecurringEndDate   *time.Time `db:"recurring_end_date"`
	LastProcessedDate  *time.Time `db:"last_processed_date"`
	SourceRuleID       *string    `db:"source_rule_id"`

	ApprovedBy   *string    `db:"approved_by"`
	ApprovalDate *time.Time `db:"approval_date"`

	Version int64 `db:"version"`
	AuditFields
}
