package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hrportal/finance_ledger/internal/apperrors"
	"github.com/hrportal/finance_ledger/internal/core/domain"
	portsrepo "github.com/hrportal/finance_ledger/internal/core/ports/repositories"
	"github.com/hrportal/finance_ledger/internal/models"
	"github.com/hrportal/finance_ledger/internal/utils/mapping"
	"github.com/hrportal/finance_ledger/internal/utils/pagination"
)

type PgxTransactionRepository struct {
	BaseRepository
	ownerRepo  portsrepo.OwnerRepositoryFacade
	periodRepo portsrepo.PeriodRepositoryFacade
}

// newPgxTransactionRepository creates a new repository for ledger records.
// Owner and period repositories are injected so record writes and aggregate
// deltas share one database transaction.
func newPgxTransactionRepository(pool *pgxpool.Pool, ownerRepo portsrepo.OwnerRepositoryFacade, periodRepo portsrepo.PeriodRepositoryFacade) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		ownerRepo:      ownerRepo,
		periodRepo:     periodRepo,
	}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryWithTx
var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, kind, category, amount, date, description, status, currency_code,
	tax_amount, tax_rate, tax_type, received_method,
	project_id, client_id, department_id, owner_type, owner_id, period_id,
	is_recurring, recurring_frequency, recurring_start_date, recurring_end_date, last_processed_date, source_rule_id,
	approved_by, approval_date, version,
	created_at, created_by, last_updated_at, last_updated_by`

func scanTransactionRow(row pgx.Row) (models.TransactionRecord, error) {
	var m models.TransactionRecord
	err := row.Scan(
		&m.TransactionID,
		&m.Kind,
		&m.Category,
		&m.Amount,
		&m.Date,
		&m.Description,
		&m.Status,
		&m.CurrencyCode,
		&m.TaxAmount,
		&m.TaxRate,
		&m.TaxType,
		&m.ReceivedMethod,
		&m.ProjectID,
		&m.ClientID,
		&m.DepartmentID,
		&m.OwnerType,
		&m.OwnerID,
		&m.PeriodID,
		&m.IsRecurring,
		&m.RecurringFrequency,
		&m.RecurringStartDate,
		&m.RecurringEndDate,
		&m.LastProcessedDate,
		&m.SourceRuleID,
		&m.ApprovedBy,
		&m.ApprovalDate,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveTransaction persists a new record and settles its owner aggregate and
// period summary within a single database transaction. The resolved period ID
// is written into the record's allocation snapshot and returned.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.TransactionRecord, key domain.PeriodKey, revenueDelta, expenseDelta decimal.Decimal) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction commits

	now := txn.CreatedAt
	userID := txn.CreatedBy

	// 1. Lock the owner aggregate so concurrent deltas serialize. Owner locks
	// are always taken before period locks; amend and delete follow the same
	// order, so the paths cannot deadlock against each other.
	if !txn.Owner.None() {
		if err := r.ownerRepo.LockOwnerForUpdate(ctx, tx, txn.Owner.Type, txn.Owner.ID); err != nil {
			return "", err
		}
	}

	// 2. Resolve and lock the period the record lands in.
	period, err := r.periodRepo.ResolvePeriodInTx(ctx, tx, key, userID, now)
	if err != nil {
		return "", err
	}
	if !period.Status.AcceptsChanges() {
		return "", apperrors.NewAppError(409, "period "+period.PeriodID+" is "+string(period.Status), apperrors.ErrPeriodClosed)
	}
	txn.PeriodID = period.PeriodID

	// 3. Insert the record row with its allocation snapshot.
	modelTxn := mapping.ToModelTransaction(txn)
	insertQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
		        $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31);
	`
	_, err = tx.Exec(ctx, insertQuery,
		modelTxn.TransactionID,
		modelTxn.Kind,
		modelTxn.Category,
		modelTxn.Amount,
		modelTxn.Date,
		modelTxn.Description,
		modelTxn.Status,
		modelTxn.CurrencyCode,
		modelTxn.TaxAmount,
		modelTxn.TaxRate,
		modelTxn.TaxType,
		modelTxn.ReceivedMethod,
		modelTxn.ProjectID,
		modelTxn.ClientID,
		modelTxn.DepartmentID,
		modelTxn.OwnerType,
		modelTxn.OwnerID,
		modelTxn.PeriodID,
		modelTxn.IsRecurring,
		modelTxn.RecurringFrequency,
		modelTxn.RecurringStartDate,
		modelTxn.RecurringEndDate,
		modelTxn.LastProcessedDate,
		modelTxn.SourceRuleID,
		modelTxn.ApprovedBy,
		modelTxn.ApprovalDate,
		modelTxn.Version,
		modelTxn.CreatedAt,
		modelTxn.CreatedBy,
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
	)
	if err != nil {
		return "", mapPgWriteError(err, "failed to insert transaction "+modelTxn.TransactionID)
	}

	// 4. Apply the deltas to owner and period.
	if !txn.Owner.None() {
		if err := r.ownerRepo.ApplyOwnerDeltaInTx(ctx, tx, txn.Owner.Type, txn.Owner.ID, revenueDelta, expenseDelta, userID, now); err != nil {
			return "", err
		}
	}
	if err := r.periodRepo.ApplyPeriodDeltaInTx(ctx, tx, period.PeriodID, revenueDelta, expenseDelta, userID, now); err != nil {
		return "", err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return period.PeriodID, nil
}

// AmendTransaction locks the record row, verifies the expected version, rewrites
// the amendable fields and settles the amount delta against the record's
// snapshotted owner and period.
func (r *PgxTransactionRepository) AmendTransaction(ctx context.Context, txn domain.TransactionRecord, expectedVersion int64, revenueDelta, expenseDelta decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := txn.LastUpdatedAt
	userID := txn.LastUpdatedBy

	var currentVersion int64
	err = tx.QueryRow(ctx, `SELECT version FROM transactions WHERE transaction_id = $1 FOR UPDATE;`, txn.TransactionID).Scan(&currentVersion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("transaction " + txn.TransactionID)
		}
		return apperrors.NewAppError(500, "failed to lock transaction "+txn.TransactionID, err)
	}
	if currentVersion != expectedVersion {
		return apperrors.NewAppError(409, "transaction "+txn.TransactionID+" was modified concurrently", apperrors.ErrConflict)
	}

	modelTxn := mapping.ToModelTransaction(txn)
	updateQuery := `
		UPDATE transactions
		SET category = $2, amount = $3, date = $4, description = $5, status = $6, received_method = $7,
		    tax_amount = $8, tax_rate = $9, tax_type = $10,
		    recurring_frequency = $11, recurring_end_date = $12,
		    approved_by = $13, approval_date = $14,
		    version = $15, last_updated_at = $16, last_updated_by = $17
		WHERE transaction_id = $1;
	`
	_, err = tx.Exec(ctx, updateQuery,
		modelTxn.TransactionID,
		modelTxn.Category,
		modelTxn.Amount,
		modelTxn.Date,
		modelTxn.Description,
		modelTxn.Status,
		modelTxn.ReceivedMethod,
		modelTxn.TaxAmount,
		modelTxn.TaxRate,
		modelTxn.TaxType,
		modelTxn.RecurringFrequency,
		modelTxn.RecurringEndDate,
		modelTxn.ApprovedBy,
		modelTxn.ApprovalDate,
		expectedVersion+1,
		now,
		userID,
	)
	if err != nil {
		return mapPgWriteError(err, "failed to update transaction "+txn.TransactionID)
	}

	if !revenueDelta.IsZero() || !expenseDelta.IsZero() {
		if !txn.Owner.None() {
			if err := r.ownerRepo.LockOwnerForUpdate(ctx, tx, txn.Owner.Type, txn.Owner.ID); err != nil {
				return err
			}
			if err := r.ownerRepo.ApplyOwnerDeltaInTx(ctx, tx, txn.Owner.Type, txn.Owner.ID, revenueDelta, expenseDelta, userID, now); err != nil {
				return err
			}
		}
		if err := r.periodRepo.ApplyPeriodDeltaInTx(ctx, tx, txn.PeriodID, revenueDelta, expenseDelta, userID, now); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// DeleteTransaction removes the record row and reverses its full amount against
// the snapshotted owner and period. It returns the deleted record.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string, deletedBy string, now time.Time) (*domain.TransactionRecord, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	selectQuery := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 FOR UPDATE;`
	m, err := scanTransactionRow(tx.QueryRow(ctx, selectQuery, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction " + transactionID)
		}
		return nil, apperrors.NewAppError(500, "failed to lock transaction "+transactionID, err)
	}
	record := mapping.ToDomainTransaction(m)

	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID); err != nil {
		return nil, mapPgWriteError(err, "failed to delete transaction "+transactionID)
	}

	// Reverse the full amount against the allocation snapshot.
	revenueDelta, expenseDelta := decimal.Zero, decimal.Zero
	if record.Kind == domain.Revenue {
		revenueDelta = record.Amount.Neg()
	} else {
		expenseDelta = record.Amount.Neg()
	}

	if !record.Owner.None() {
		if err := r.ownerRepo.LockOwnerForUpdate(ctx, tx, record.Owner.Type, record.Owner.ID); err != nil {
			return nil, err
		}
		if err := r.ownerRepo.ApplyOwnerDeltaInTx(ctx, tx, record.Owner.Type, record.Owner.ID, revenueDelta, expenseDelta, deletedBy, now); err != nil {
			return nil, err
		}
	}
	if err := r.periodRepo.ApplyPeriodDeltaInTx(ctx, tx, record.PeriodID, revenueDelta, expenseDelta, deletedBy, now); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &record, nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.TransactionRecord, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransactionRow(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}
	record := mapping.ToDomainTransaction(m)
	return &record, nil
}

// ListTransactions retrieves a paginated, filtered list of transactions using
// token-based pagination, newest date first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter, limit int, nextToken *string) ([]domain.TransactionRecord, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	args := []interface{}{}

	if filter.Kind != nil {
		args = append(args, string(*filter.Kind))
		query += ` AND kind = $` + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.OwnerType != nil {
		args = append(args, string(*filter.OwnerType))
		query += ` AND owner_type = $` + strconv.Itoa(len(args))
	}
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		query += ` AND owner_id = $` + strconv.Itoa(len(args))
	}
	if filter.PeriodID != nil {
		args = append(args, *filter.PeriodID)
		query += ` AND period_id = $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		n := len(args)
		query += ` AND (date, created_at) < ($` + strconv.Itoa(n-1) + `, $` + strconv.Itoa(n) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	records := []models.TransactionRecord{}
	for rows.Next() {
		m, scanErr := scanTransactionRow(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row", scanErr)
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	var nextTokenVal *string
	if len(records) > limit {
		last := records[limit-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		nextTokenVal = &token
		records = records[:limit]
	}

	return mapping.ToDomainTransactionSlice(records), nextTokenVal, nil
}

// ListActiveRecurringRules retrieves recurring templates that have started by
// asOf and are not cancelled or rejected. Whether an occurrence is actually
// due is the caller's decision.
func (r *PgxTransactionRepository) ListActiveRecurringRules(ctx context.Context, asOf time.Time) ([]domain.TransactionRecord, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE is_recurring = TRUE
		  AND recurring_start_date <= $1
		  AND status NOT IN ($2, $3)
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, asOf, string(domain.StatusCancelled), string(domain.StatusRejected))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query recurring rules", err)
	}
	defer rows.Close()

	records := []models.TransactionRecord{}
	for rows.Next() {
		m, scanErr := scanTransactionRow(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan recurring rule row", scanErr)
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating recurring rule rows", err)
	}

	return mapping.ToDomainTransactionSlice(records), nil
}

// FindMaterializedForRule looks for a record already materialized from the rule
// with a date inside [from, to). Returns ErrNotFound when none exists.
func (r *PgxTransactionRepository) FindMaterializedForRule(ctx context.Context, ruleID string, from, to time.Time) (*domain.TransactionRecord, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE source_rule_id = $1 AND date >= $2 AND date < $3
		LIMIT 1;
	`
	m, err := scanTransactionRow(r.Pool.QueryRow(ctx, query, ruleID, from, to))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find materialized record for rule "+ruleID, err)
	}
	record := mapping.ToDomainTransaction(m)
	return &record, nil
}

// MarkRuleProcessed advances the rule's last processed date.
func (r *PgxTransactionRepository) MarkRuleProcessed(ctx context.Context, ruleID string, processedDate time.Time, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE transactions
		SET last_processed_date = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1 AND is_recurring = TRUE;
	`
	ct, err := r.Pool.Exec(ctx, query, ruleID, processedDate, updatedAt, updatedBy)
	if err != nil {
		return mapPgWriteError(err, "failed to mark rule "+ruleID+" processed")
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("recurring rule " + ruleID)
	}
	return nil
}
