package mapping

import (
	"github.com/hrportal/finance_ledger/internal/core/domain"
	"github.com/hrportal/finance_ledger/internal/models"
)

// ToModelTransaction converts a domain TransactionRecord to a model TransactionRecord
func ToModelTransaction(d domain.TransactionRecord) models.TransactionRecord {
	m := models.TransactionRecord{
		TransactionID:  d.TransactionID,
		Kind:           models.TransactionKind(d.Kind),
		Category:       string(d.Category),
		Amount:         d.Amount,
		Date:           d.Date,
		Description:    d.Description,
		Status:         string(d.Status),
		CurrencyCode:   d.CurrencyCode,
		TaxAmount:      d.Tax.Amount,
		TaxRate:        d.Tax.Rate,
		TaxType:        d.Tax.Type,
		ReceivedMethod: d.ReceivedMethod,
		ProjectID:      d.ProjectID,
		ClientID:       d.ClientID,
		DepartmentID:   d.DepartmentID,
		OwnerType:      string(d.Owner.Type),
		OwnerID:        d.Owner.ID,
		PeriodID:       d.PeriodID,
		SourceRuleID:   d.SourceRuleID,
		ApprovedBy:     d.ApprovedBy,
		ApprovalDate:   d.ApprovalDate,
		Version:        d.Version,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
	if d.Owner.Type == "" {
		m.OwnerType = string(domain.OwnerNone)
	}
	if d.Recurrence != nil {
		m.IsRecurring = d.Recurrence.IsRecurring
		m.RecurringFrequency = string(d.Recurrence.Frequency)
		if !d.Recurrence.StartDate.IsZero() {
			start := d.Recurrence.StartDate
			m.RecurringStartDate = &start
		}
		m.RecurringEndDate = d.Recurrence.EndDate
		m.LastProcessedDate = d.Recurrence.LastProcessedDate
	}
	return m
}

// ToDomainTransaction converts a model TransactionRecord to a domain TransactionRecord
func ToDomainTransaction(m models.TransactionRecord) domain.TransactionRecord {
	d := domain.TransactionRecord{
		TransactionID: m.TransactionID,
		Kind:          domain.TransactionKind(m.Kind),
		Category:      domain.Category(m.Category),
		Amount:        m.Amount,
		Date:          m.Date,
		Description:   m.Description,
		Status:        domain.TransactionStatus(m.Status),
		CurrencyCode:  m.CurrencyCode,
		Tax: domain.Tax{
			Amount: m.TaxAmount,
			Rate:   m.TaxRate,
			Type:   m.TaxType,
		},
		ReceivedMethod: m.ReceivedMethod,
		ProjectID:      m.ProjectID,
		ClientID:       m.ClientID,
		DepartmentID:   m.DepartmentID,
		Owner: domain.OwnerRef{
			Type: domain.OwnerType(m.OwnerType),
			ID:   m.OwnerID,
		},
		PeriodID:     m.PeriodID,
		SourceRuleID: m.SourceRuleID,
		ApprovedBy:   m.ApprovedBy,
		ApprovalDate: m.ApprovalDate,
		Version:      m.Version,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
	if m.IsRecurring {
		rec := domain.Recurrence{
			IsRecurring:       true,
			Frequency:         domain.RecurrenceFrequency(m.RecurringFrequency),
			LastProcessedDate: m.LastProcessedDate,
			EndDate:           m.RecurringEndDate,
		}
		if m.RecurringStartDate != nil {
			rec.StartDate = *m.RecurringStartDate
		}
		d.Recurrence = &rec
	}
	return d
}

// ToDomainTransactionSlice converts a slice of model TransactionRecords to domain
func ToDomainTransactionSlice(ms []models.TransactionRecord) []domain.TransactionRecord {
	ds := make([]domain.TransactionRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
