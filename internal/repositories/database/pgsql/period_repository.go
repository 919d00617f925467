package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
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

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new repository for period summaries.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPeriodRepository implements portsrepo.PeriodRepositoryFacade
var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

const periodColumns = `period_id, year, month, department_id, total_revenue, total_expenses, net_result, status,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPeriodRow(row pgx.Row) (models.PeriodSummary, error) {
	var m models.PeriodSummary
	err := row.Scan(
		&m.PeriodID,
		&m.Year,
		&m.Month,
		&m.DepartmentID,
		&m.TotalRevenue,
		&m.TotalExpenses,
		&m.NetResult,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindPeriodByID retrieves a period summary by its ID.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.PeriodSummary, error) {
	query := `SELECT ` + periodColumns + ` FROM period_summaries WHERE period_id = $1;`
	m, err := scanPeriodRow(r.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find period by ID "+periodID, err)
	}
	d := mapping.ToDomainPeriodSummary(m)
	return &d, nil
}

// FindPeriodByKey retrieves the period summary for a (year, month, department) key.
func (r *PgxPeriodRepository) FindPeriodByKey(ctx context.Context, key domain.PeriodKey) (*domain.PeriodSummary, error) {
	query := `SELECT ` + periodColumns + ` FROM period_summaries WHERE year = $1 AND month = $2 AND department_id = $3;`
	m, err := scanPeriodRow(r.Pool.QueryRow(ctx, query, key.Year, key.Month, departmentColumn(key.DepartmentID)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find period by key", err)
	}
	d := mapping.ToDomainPeriodSummary(m)
	return &d, nil
}

// ListPeriods retrieves a paginated list of period summaries, newest first.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, filter portsrepo.PeriodFilter, limit int, nextToken *string) ([]domain.PeriodSummary, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	query := `SELECT ` + periodColumns + ` FROM period_summaries WHERE 1=1`
	args := []interface{}{}

	if filter.Year != nil {
		args = append(args, *filter.Year)
		query += ` AND year = $` + strconv.Itoa(len(args))
	}
	if filter.Month != nil {
		args = append(args, *filter.Month)
		query += ` AND month = $` + strconv.Itoa(len(args))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		query += ` AND department_id = $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		fields, decodeErr := pagination.DecodeMultiFieldToken(*nextToken)
		if decodeErr != nil || len(fields) != 3 {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		lastYear, yErr := strconv.Atoi(fields[0])
		lastMonth, mErr := strconv.Atoi(fields[1])
		if yErr != nil || mErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", nil)
		}
		args = append(args, lastYear, lastMonth, fields[2])
		n := len(args)
		query += ` AND (year, month, department_id) < ($` + strconv.Itoa(n-2) + `, $` + strconv.Itoa(n-1) + `, $` + strconv.Itoa(n) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY year DESC, month DESC, department_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query period summaries", err)
	}
	defer rows.Close()

	summaries := []models.PeriodSummary{}
	for rows.Next() {
		m, scanErr := scanPeriodRow(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan period summary row", scanErr)
		}
		summaries = append(summaries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating period summary rows", err)
	}

	var nextTokenVal *string
	if len(summaries) > limit {
		last := summaries[limit-1]
		token := pagination.EncodeMultiFieldToken(strconv.Itoa(last.Year), strconv.Itoa(last.Month), last.DepartmentID)
		nextTokenVal = &token
		summaries = summaries[:limit]
	}

	return mapping.ToDomainPeriodSummarySlice(summaries), nextTokenVal, nil
}

// ResolvePeriodInTx finds the period row for key, creating an empty OPEN one
// if missing, and locks it for the remainder of the transaction. Concurrent
// first touches of a new key are safe: the unique constraint makes the losing
// insert a no-op and the follow-up select locks the winner's row.
func (r *PgxPeriodRepository) ResolvePeriodInTx(ctx context.Context, tx pgx.Tx, key domain.PeriodKey, createdBy string, now time.Time) (*domain.PeriodSummary, error) {
	insertQuery := `
		INSERT INTO period_summaries (period_id, year, month, department_id, total_revenue, total_expenses, net_result, status,
		                              created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, 0, 0, 0, $5, $6, $7, $6, $7)
		ON CONFLICT (year, month, department_id) DO NOTHING;
	`
	_, err := tx.Exec(ctx, insertQuery,
		uuid.NewString(),
		key.Year,
		key.Month,
		departmentColumn(key.DepartmentID),
		string(domain.PeriodOpen),
		now,
		createdBy,
	)
	if err != nil {
		return nil, mapPgWriteError(err, "failed to upsert period summary")
	}

	selectQuery := `SELECT ` + periodColumns + ` FROM period_summaries WHERE year = $1 AND month = $2 AND department_id = $3 FOR UPDATE;`
	m, err := scanPeriodRow(tx.QueryRow(ctx, selectQuery, key.Year, key.Month, departmentColumn(key.DepartmentID)))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock period summary", err)
	}
	d := mapping.ToDomainPeriodSummary(m)
	return &d, nil
}

// ApplyPeriodDeltaInTx atomically increments the period's totals and recomputes
// net result within a transaction. The update is conditional on the period
// still accepting changes; a closed period yields ErrPeriodClosed.
func (r *PgxPeriodRepository) ApplyPeriodDeltaInTx(ctx context.Context, tx pgx.Tx, periodID string, revenueDelta, expenseDelta decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	if revenueDelta.IsZero() && expenseDelta.IsZero() {
		return nil // Nothing to apply
	}
	query := `
		UPDATE period_summaries
		SET total_revenue = COALESCE(total_revenue, 0) + $2,
		    total_expenses = COALESCE(total_expenses, 0) + $3,
		    net_result = COALESCE(total_revenue, 0) + $2 - (COALESCE(total_expenses, 0) + $3),
		    last_updated_at = $4, last_updated_by = $5
		WHERE period_id = $1 AND status IN ($6, $7);
	`
	ct, err := tx.Exec(ctx, query, periodID, revenueDelta, expenseDelta, updatedAt, updatedBy,
		string(domain.PeriodOpen), string(domain.PeriodReviewPending))
	if err != nil {
		return mapPgWriteError(err, "failed to apply totals delta to period "+periodID)
	}
	if ct.RowsAffected() == 0 {
		// Either missing or no longer accepting changes; distinguish the two.
		var status string
		if scanErr := tx.QueryRow(ctx, `SELECT status FROM period_summaries WHERE period_id = $1;`, periodID).Scan(&status); scanErr != nil {
			if errors.Is(scanErr, pgx.ErrNoRows) {
				return apperrors.NewNotFoundError("period " + periodID)
			}
			return apperrors.NewAppError(500, "failed to check period status for "+periodID, scanErr)
		}
		return apperrors.NewAppError(409, "period "+periodID+" is "+status, apperrors.ErrPeriodClosed)
	}
	return nil
}

// UpdatePeriodStatus moves a period between administrative states.
func (r *PgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE period_summaries
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE period_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query, periodID, string(status), updatedAt, updatedBy)
	if err != nil {
		return mapPgWriteError(err, "failed to update status for period "+periodID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("period " + periodID)
	}
	return nil
}

// ListPeriodStoredTotals retrieves the stored totals of every period summary.
func (r *PgxPeriodRepository) ListPeriodStoredTotals(ctx context.Context) ([]portsrepo.PeriodTotals, error) {
	query := `
		SELECT period_id, COALESCE(total_revenue, 0), COALESCE(total_expenses, 0)
		FROM period_summaries
		ORDER BY period_id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query stored period totals", err)
	}
	defer rows.Close()

	return scanPeriodTotals(rows)
}

// ComputePeriodTotals recomputes totals per period from the transaction rows.
// Periods with no transactions are reported with zero totals.
func (r *PgxPeriodRepository) ComputePeriodTotals(ctx context.Context) ([]portsrepo.PeriodTotals, error) {
	query := `
		SELECT p.period_id,
		       COALESCE(SUM(CASE WHEN t.kind = 'REVENUE' THEN t.amount ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN t.kind = 'EXPENSE' THEN t.amount ELSE 0 END), 0)
		FROM period_summaries p
		LEFT JOIN transactions t ON t.period_id = p.period_id
		GROUP BY p.period_id
		ORDER BY p.period_id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to recompute period totals", err)
	}
	defer rows.Close()

	return scanPeriodTotals(rows)
}

// RepairPeriodTotals overwrites a period's stored totals with recomputed values.
func (r *PgxPeriodRepository) RepairPeriodTotals(ctx context.Context, periodID string, revenue, expense decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE period_summaries
		SET total_revenue = $2, total_expenses = $3, net_result = $2 - $3, last_updated_at = $4, last_updated_by = $5
		WHERE period_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query, periodID, revenue, expense, updatedAt, updatedBy)
	if err != nil {
		return mapPgWriteError(err, "failed to repair totals for period "+periodID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("period " + periodID)
	}
	return nil
}

// departmentColumn maps a nil department (company-wide) to the empty string
// used in the department_id column.
func departmentColumn(departmentID *string) string {
	if departmentID == nil {
		return ""
	}
	return *departmentID
}

func scanPeriodTotals(rows pgx.Rows) ([]portsrepo.PeriodTotals, error) {
	totals := []portsrepo.PeriodTotals{}
	for rows.Next() {
		var t portsrepo.PeriodTotals
		if err := rows.Scan(&t.PeriodID, &t.Revenue, &t.Expense); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan period totals row", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating period totals rows", err)
	}
	return totals, nil
}
