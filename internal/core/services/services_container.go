package services

import (
	portsrepo "github.com/hrportal/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/hrportal/finance_ledger/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Ledger = NewLedgerService(repos.TransactionRepo, repos.OwnerRepo)
	container.Period = NewPeriodService(repos.PeriodRepo)
	container.Recurring = NewRecurringService(repos.TransactionRepo, repos.PeriodRepo)
	container.Reconciliation = NewReconciliationService(repos.OwnerRepo, repos.PeriodRepo)

	return container
}
