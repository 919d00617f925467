package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes the two variants of a ledger record.
type TransactionKind string

const (
	Revenue TransactionKind = "REVENUE"
	Expense TransactionKind = "EXPENSE"
)

// TransactionStatus is the lifecycle state of a TransactionRecord. The valid
// set depends on the kind: revenue tracks settlement, expense tracks approval.
type TransactionStatus string

const (
	// Revenue statuses
	StatusExpected          TransactionStatus = "EXPECTED"
	StatusReceived          TransactionStatus = "RECEIVED"
	StatusPartiallyReceived TransactionStatus = "PARTIALLY_RECEIVED"
	StatusOverdue           TransactionStatus = "OVERDUE"
	StatusCancelled         TransactionStatus = "CANCELLED"

	// Expense statuses
	StatusPending  TransactionStatus = "PENDING"
	StatusApproved TransactionStatus = "APPROVED"
	StatusRejected TransactionStatus = "REJECTED"
)

var revenueStatuses = map[TransactionStatus]struct{}{
	StatusExpected:          {},
	StatusReceived:          {},
	StatusPartiallyReceived: {},
	StatusOverdue:           {},
	StatusCancelled:         {},
}

var expenseStatuses = map[TransactionStatus]struct{}{
	StatusPending:  {},
	StatusApproved: {},
	StatusRejected: {},
}

// InitialStatus returns the status a freshly created record starts in.
func (k TransactionKind) InitialStatus() TransactionStatus {
	if k == Revenue {
		return StatusExpected
	}
	return StatusPending
}

// ValidStatus reports whether s belongs to the status set of this kind.
func (k TransactionKind) ValidStatus(s TransactionStatus) bool {
	if k == Revenue {
		_, ok := revenueStatuses[s]
		return ok
	}
	_, ok := expenseStatuses[s]
	return ok
}

// RequiresReceivedMethod reports whether a revenue status needs a settlement
// method recorded before it can be entered.
func RequiresReceivedMethod(s TransactionStatus) bool {
	return s == StatusReceived || s == StatusPartiallyReceived
}

// Category classifies a transaction within its kind. The sets are closed.
type Category string

const (
	// Revenue categories
	CategoryProjectPayment  Category = "Project Payment"
	CategoryConsultingFees  Category = "Consulting Fees"
	CategoryServiceContract Category = "Service Contract"
	CategoryProductSales    Category = "Product Sales"
	CategoryLicenseRevenue  Category = "License Revenue"
	CategoryOtherIncome     Category = "Other Income"

	// Expense categories
	CategorySalaries         Category = "Salaries"
	CategoryOfficeRent       Category = "Office Rent"
	CategoryUtilities        Category = "Utilities"
	CategoryEquipment        Category = "Equipment"
	CategorySoftwareLicenses Category = "Software Licenses"
	CategoryTravel           Category = "Travel"
	CategoryMarketing        Category = "Marketing"
	CategoryProjectExpenses  Category = "Project Expenses"
	CategoryTraining         Category = "Training"
	CategoryMiscellaneous    Category = "Miscellaneous"
)

var revenueCategories = map[Category]struct{}{
	CategoryProjectPayment:  {},
	CategoryConsultingFees:  {},
	CategoryServiceContract: {},
	CategoryProductSales:    {},
	CategoryLicenseRevenue:  {},
	CategoryOtherIncome:     {},
}

var expenseCategories = map[Category]struct{}{
	CategorySalaries:         {},
	CategoryOfficeRent:       {},
	CategoryUtilities:        {},
	CategoryEquipment:        {},
	CategorySoftwareLicenses: {},
	CategoryTravel:           {},
	CategoryMarketing:        {},
	CategoryProjectExpenses:  {},
	CategoryTraining:         {},
	CategoryMiscellaneous:    {},
}

// ValidCategory reports whether c belongs to the category set of this kind.
func (k TransactionKind) ValidCategory(c Category) bool {
	if k == Revenue {
		_, ok := revenueCategories[c]
		return ok
	}
	_, ok := expenseCategories[c]
	return ok
}

// Tax is carried through the ledger unchanged; no computation happens here.
type Tax struct {
	Amount decimal.Decimal `json:"amount"`
	Rate   decimal.Decimal `json:"rate"`
	Type   string          `json:"type"`
}

// RecurrenceFrequency is the cadence of a recurring rule.
type RecurrenceFrequency string

const (
	Daily     RecurrenceFrequency = "DAILY"
	Weekly    RecurrenceFrequency = "WEEKLY"
	Monthly   RecurrenceFrequency = "MONTHLY"
	Quarterly RecurrenceFrequency = "QUARTERLY"
	Yearly    RecurrenceFrequency = "YEARLY"
)

// ValidFrequency reports whether f is a known cadence.
func ValidFrequency(f RecurrenceFrequency) bool {
	switch f {
	case Daily, Weekly, Monthly, Quarterly, Yearly:
		return true
	}
	return false
}

// Recurrence marks a TransactionRecord as a template that materializes new
// records on a schedule. LastProcessedDate tracks the latest occurrence
// already materialized.
type Recurrence struct {
	IsRecurring       bool                `json:"isRecurring"`
	Frequency         RecurrenceFrequency `json:"frequency"`
	StartDate         time.Time           `json:"startDate"`
	EndDate           *time.Time          `json:"endDate,omitempty"`
	LastProcessedDate *time.Time          `json:"lastProcessedDate,omitempty"`
}

// TransactionRecord is an atomic financial fact. Owner and PeriodID are the
// allocation snapshot taken at create time: amendments and deletions reverse
// against exactly these, never against a re-resolved target.
type TransactionRecord struct {
	TransactionID string            `json:"transactionID"`
	Kind          TransactionKind   `json:"kind"`
	Category      Category          `json:"category"`
	Amount        decimal.Decimal   `json:"amount"` // >= 0
	Date          time.Time         `json:"date"`
	Description   string            `json:"description"`
	Status        TransactionStatus `json:"status"`
	CurrencyCode  string            `json:"currencyCode"`
	Tax           Tax               `json:"tax"`

	// ReceivedMethod is required when Status is RECEIVED or PARTIALLY_RECEIVED.
	ReceivedMethod string `json:"receivedMethod,omitempty"`

	// Raw references as submitted; which one counts is the router's decision.
	ProjectID    *string `json:"projectID,omitempty"`
	ClientID     *string `json:"clientID,omitempty"`
	DepartmentID *string `json:"departmentID,omitempty"`

	// Allocation snapshot.
	Owner    OwnerRef `json:"owner"`
	PeriodID string   `json:"periodID"`

	Recurrence   *Recurrence `json:"recurrence,omitempty"`
	SourceRuleID *string     `json:"sourceRuleID,omitempty"` // set on materialized records

	ApprovedBy   *string    `json:"approvedBy,omitempty"`
	ApprovalDate *time.Time `json:"approvalDate,omitempty"`

	// Version increments on every amendment; stale writes are rejected.
	Version int64 `json:"version"`
	AuditFields
}

// MinDescriptionWords is the minimum word count for a transaction description.
const MinDescriptionWords = 3

// DescriptionWordCount counts whitespace-separated words.
func DescriptionWordCount(description string) int {
	return len(strings.Fields(description))
}

// IsRecurringRule reports whether this record acts as a recurring template.
func (t *TransactionRecord) IsRecurringRule() bool {
	return t.Recurrence != nil && t.Recurrence.IsRecurring
}

// RuleActiveAt reports whether the recurring rule is still in its window at
// the given time.
func (t *TransactionRecord) RuleActiveAt(at time.Time) bool {
	if !t.IsRecurringRule() {
		return false
	}
	if at.Before(t.Recurrence.StartDate) {
		return false
	}
	if t.Recurrence.EndDate != nil && at.After(*t.Recurrence.EndDate) {
		return false
	}
	return true
}
