package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hrportal/finance_ledger/internal/core/domain"
)

// TaxDetails carries tax data through requests and responses unchanged.
type TaxDetails struct {
	Amount decimal.Decimal `json:"amount"`
	Rate   decimal.Decimal `json:"rate"`
	Type   string          `json:"type"`
}

// RecurrenceDetails defines the recurring rule fields of a transaction.
type RecurrenceDetails struct {
	IsRecurring bool       `json:"isRecurring"`
	Frequency   string     `json:"frequency" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY QUARTERLY YEARLY"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// CreateTransactionRequest defines the data needed to record a new transaction.
type CreateTransactionRequest struct {
	Kind         string          `json:"kind" binding:"required,oneof=REVENUE EXPENSE"`
	Category     string          `json:"category" binding:"required,category"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Date         time.Time       `json:"date" binding:"required"`
	Description  string          `json:"description" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
	Tax          *TaxDetails     `json:"tax"` // Optional

	ProjectID    *string `json:"projectID"`    // Optional owner reference
	ClientID     *string `json:"clientID"`     // Optional owner reference
	DepartmentID *string `json:"departmentID"` // Optional owner reference

	Recurrence *RecurrenceDetails `json:"recurrence"` // Optional, marks a recurring rule
}

// CreateTransactionResponse reports where a freshly created transaction was
// allocated: which owner aggregate was charged and which period absorbed it.
type CreateTransactionResponse struct {
	TransactionID      string          `json:"transactionID"`
	Amount             decimal.Decimal `json:"amount"`
	Status             string          `json:"status"`
	AllocatedOwnerType string          `json:"allocatedOwnerType"`
	AllocatedOwnerID   string          `json:"allocatedOwnerID,omitempty"`
	PeriodID           string          `json:"periodID"`
}

// AmendTransactionRequest defines the data allowed for amending a transaction.
// Use pointers to distinguish between zero-value updates and fields not provided.
type AmendTransactionRequest struct {
	Amount         *decimal.Decimal `json:"amount"`
	Date           *time.Time       `json:"date"`
	Description    *string          `json:"description"`
	Category       *string          `json:"category" binding:"omitempty,category"`
	Status         *string          `json:"status"`
	ReceivedMethod *string          `json:"receivedMethod"`
	Tax            *TaxDetails      `json:"tax"`
	Version        int64            `json:"version" binding:"required,min=1"`
}

// DecideTransactionRequest carries the approval decision for a pending expense.
type DecideTransactionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
}

// DeleteTransactionResponse reports the reversal a deletion applied.
type DeleteTransactionResponse struct {
	TransactionID  string          `json:"transactionID"`
	ReversedAmount decimal.Decimal `json:"reversedAmount"`
	OwnerType      string          `json:"ownerType"`
	OwnerID        string          `json:"ownerID,omitempty"`
	PeriodID       string          `json:"periodID"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID  string          `json:"transactionID"`
	Kind           string          `json:"kind"`
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	Status         string          `json:"status"`
	CurrencyCode   string          `json:"currencyCode"`
	Tax            TaxDetails      `json:"tax"`
	ReceivedMethod string          `json:"receivedMethod,omitempty"`

	ProjectID    *string `json:"projectID,omitempty"`
	ClientID     *string `json:"clientID,omitempty"`
	DepartmentID *string `json:"departmentID,omitempty"`

	OwnerType string `json:"ownerType"`
	OwnerID   string `json:"ownerID,omitempty"`
	PeriodID  string `json:"periodID"`

	Recurrence   *RecurrenceDetails `json:"recurrence,omitempty"`
	SourceRuleID *string            `json:"sourceRuleID,omitempty"`

	ApprovedBy   *string    `json:"approvedBy,omitempty"`
	ApprovalDate *time.Time `json:"approvalDate,omitempty"`

	Version       int64     `json:"version"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
	Kind      *string `form:"kind" binding:"omitempty,oneof=REVENUE EXPENSE"`
	Status    *string `form:"status"`
	OwnerType *string `form:"ownerType" binding:"omitempty,oneof=PROJECT CLIENT DEPARTMENT NONE"`
	OwnerID   *string `form:"ownerID"`
	PeriodID  *string `form:"periodID"`
}

// ListTransactionsResponse defines the paginated transaction list payload.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.TransactionRecord to TransactionResponse DTO.
func ToTransactionResponse(t *domain.TransactionRecord) TransactionResponse {
	resp := TransactionResponse{
		TransactionID: t.TransactionID,
		Kind:          string(t.Kind),
		Category:      string(t.Category),
		Amount:        t.Amount,
		Date:          t.Date,
		Description:   t.Description,
		Status:        string(t.Status),
		CurrencyCode:  t.CurrencyCode,
		Tax: TaxDetails{
			Amount: t.Tax.Amount,
			Rate:   t.Tax.Rate,
			Type:   t.Tax.Type,
		},
		ReceivedMethod: t.ReceivedMethod,
		ProjectID:      t.ProjectID,
		ClientID:       t.ClientID,
		DepartmentID:   t.DepartmentID,
		OwnerType:      string(t.Owner.Type),
		OwnerID:        t.Owner.ID,
		PeriodID:       t.PeriodID,
		SourceRuleID:   t.SourceRuleID,
		ApprovedBy:     t.ApprovedBy,
		ApprovalDate:   t.ApprovalDate,
		Version:        t.Version,
		CreatedAt:      t.CreatedAt,
		CreatedBy:      t.CreatedBy,
		LastUpdatedAt:  t.LastUpdatedAt,
		LastUpdatedBy:  t.LastUpdatedBy,
	}
	if t.Recurrence != nil {
		start := t.Recurrence.StartDate
		resp.Recurrence = &RecurrenceDetails{
			IsRecurring: t.Recurrence.IsRecurring,
			Frequency:   string(t.Recurrence.Frequency),
			StartDate:   &start,
			EndDate:     t.Recurrence.EndDate,
		}
	}
	return resp
}

// ToCreateTransactionResponse builds the allocation report for a new transaction.
func ToCreateTransactionResponse(t *domain.TransactionRecord) CreateTransactionResponse {
	return CreateTransactionResponse{
		TransactionID:      t.TransactionID,
		Amount:             t.Amount,
		Status:             string(t.Status),
		AllocatedOwnerType: string(t.Owner.Type),
		AllocatedOwnerID:   t.Owner.ID,
		PeriodID:           t.PeriodID,
	}
}

// ToListTransactionsResponse converts a domain slice plus next token into the list payload.
func ToListTransactionsResponse(txns []domain.TransactionRecord, nextToken *string) *ListTransactionsResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return &ListTransactionsResponse{
		Transactions: responses,
		NextToken:    nextToken,
	}
}
