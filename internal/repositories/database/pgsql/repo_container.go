package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/hrportal/finance_ledger/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	ownerRepo := newPgxOwnerRepository(dbPool)
	periodRepo := newPgxPeriodRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool, ownerRepo, periodRepo)

	return portsrepo.RepositoryProvider{
		TransactionRepo: transactionRepo,
		OwnerRepo:       ownerRepo,
		PeriodRepo:      periodRepo,
	}
}
