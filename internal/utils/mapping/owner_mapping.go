package mapping

import (
	"github.com/hrportal/finance_ledger/internal/core/domain"
	"github.com/hrportal/finance_ledger/internal/models"
)

// ToModelProject converts a domain Project to a model Project
func ToModelProject(d domain.Project) models.Project {
	return models.Project{
		ProjectID:    d.ProjectID,
		Name:         d.Name,
		IsInternal:   d.IsInternal,
		ClientID:     d.ClientID,
		DepartmentID: d.DepartmentID,
		RevenueTotal: d.RevenueTotal,
		ExpenseTotal: d.ExpenseTotal,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProject converts a model Project to a domain Project
func ToDomainProject(m models.Project) domain.Project {
	return domain.Project{
		ProjectID:    m.ProjectID,
		Name:         m.Name,
		IsInternal:   m.IsInternal,
		ClientID:     m.ClientID,
		DepartmentID: m.DepartmentID,
		RevenueTotal: m.RevenueTotal,
		ExpenseTotal: m.ExpenseTotal,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainClient converts a model Client to a domain Client
func ToDomainClient(m models.Client) domain.Client {
	return domain.Client{
		ClientID:     m.ClientID,
		Name:         m.Name,
		RevenueTotal: m.RevenueTotal,
		ExpenseTotal: m.ExpenseTotal,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDepartment converts a model Department to a domain Department
func ToDomainDepartment(m models.Department) domain.Department {
	return domain.Department{
		DepartmentID: m.DepartmentID,
		Name:         m.Name,
		RevenueTotal: m.RevenueTotal,
		ExpenseTotal: m.ExpenseTotal,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
