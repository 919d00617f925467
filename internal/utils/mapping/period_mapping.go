package mapping

import (
	"github.com/hrportal/finance_ledger/internal/core/domain"
	"github.com/hrportal/finance_ledger/internal/models"
)

// ToModelPeriodSummary converts a domain PeriodSummary to a model PeriodSummary.
// A nil department (company-wide) is stored as the empty string.
func ToModelPeriodSummary(d domain.PeriodSummary) models.PeriodSummary {
	m := models.PeriodSummary{
		PeriodID:      d.PeriodID,
		Year:          d.Year,
		Month:         d.Month,
		TotalRevenue:  d.TotalRevenue,
		TotalExpenses: d.TotalExpenses,
		NetResult:     d.NetResult,
		Status:        string(d.Status),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	if d.DepartmentID != nil {
		m.DepartmentID = *d.DepartmentID
	}
	return m
}

// ToDomainPeriodSummary converts a model PeriodSummary to a domain PeriodSummary
func ToDomainPeriodSummary(m models.PeriodSummary) domain.PeriodSummary {
	d := domain.PeriodSummary{
		PeriodID:      m.PeriodID,
		Year:          m.Year,
		Month:         m.Month,
		TotalRevenue:  m.TotalRevenue,
		TotalExpenses: m.TotalExpenses,
		NetResult:     m.NetResult,
		Status:        domain.PeriodStatus(m.Status),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	if m.DepartmentID != "" {
		dept := m.DepartmentID
		d.DepartmentID = &dept
	}
	return d
}

// ToDomainPeriodSummarySlice converts a slice of model PeriodSummaries to domain
func ToDomainPeriodSummarySlice(ms []models.PeriodSummary) []domain.PeriodSummary {
	ds := make([]domain.PeriodSummary, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPeriodSummary(m)
	}
	return ds
}
