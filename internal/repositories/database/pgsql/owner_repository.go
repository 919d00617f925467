package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hrportal/finance_ledger/internal/apperrors"
	"github.com/hrportal/finance_ledger/internal/core/domain"
	portsrepo "github.com/hrportal/finance_ledger/internal/core/ports/repositories"
	"github.com/hrportal/finance_ledger/internal/models"
	"github.com/hrportal/finance_ledger/internal/utils/mapping"
)

type PgxOwnerRepository struct {
	BaseRepository
}

// newPgxOwnerRepository creates a new repository for owner aggregate documents.
func newPgxOwnerRepository(pool *pgxpool.Pool) portsrepo.OwnerRepositoryFacade {
	return &PgxOwnerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxOwnerRepository implements portsrepo.OwnerRepositoryFacade
var _ portsrepo.OwnerRepositoryFacade = (*PgxOwnerRepository)(nil)

// ownerTable resolves the table and id column for an owner type.
func ownerTable(ownerType domain.OwnerType) (string, string, error) {
	switch ownerType {
	case domain.OwnerProject:
		return "projects", "project_id", nil
	case domain.OwnerClient:
		return "clients", "client_id", nil
	case domain.OwnerDepartment:
		return "departments", "department_id", nil
	default:
		return "", "", fmt.Errorf("%w: owner type %s has no aggregate table", apperrors.ErrValidation, ownerType)
	}
}

// FindProjectByID retrieves a project by its ID.
func (r *PgxOwnerRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	query := `
		SELECT project_id, name, is_internal, client_id, department_id, revenue_total, expense_total,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM projects
		WHERE project_id = $1;
	`
	var m models.Project
	err := r.Pool.QueryRow(ctx, query, projectID).Scan(
		&m.ProjectID,
		&m.Name,
		&m.IsInternal,
		&m.ClientID,
		&m.DepartmentID,
		&m.RevenueTotal,
		&m.ExpenseTotal,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find project by ID "+projectID, err)
	}
	d := mapping.ToDomainProject(m)
	return &d, nil
}

// FindClientByID retrieves a client by its ID.
func (r *PgxOwnerRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	query := `
		SELECT client_id, name, revenue_total, expense_total,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM clients
		WHERE client_id = $1;
	`
	var m models.Client
	err := r.Pool.QueryRow(ctx, query, clientID).Scan(
		&m.ClientID,
		&m.Name,
		&m.RevenueTotal,
		&m.ExpenseTotal,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find client by ID "+clientID, err)
	}
	d := mapping.ToDomainClient(m)
	return &d, nil
}

// FindDepartmentByID retrieves a department by its ID.
func (r *PgxOwnerRepository) FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error) {
	query := `
		SELECT department_id, name, revenue_total, expense_total,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM departments
		WHERE department_id = $1;
	`
	var m models.Department
	err := r.Pool.QueryRow(ctx, query, departmentID).Scan(
		&m.DepartmentID,
		&m.Name,
		&m.RevenueTotal,
		&m.ExpenseTotal,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find department by ID "+departmentID, err)
	}
	d := mapping.ToDomainDepartment(m)
	return &d, nil
}

// LockOwnerForUpdate acquires a row lock on the owner aggregate. Must be
// called within a transaction.
func (r *PgxOwnerRepository) LockOwnerForUpdate(ctx context.Context, tx pgx.Tx, ownerType domain.OwnerType, ownerID string) error {
	table, idCol, err := ownerTable(ownerType)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE;`, idCol, table, idCol)
	var id string
	if err := tx.QueryRow(ctx, query, ownerID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, ownerType, ownerID)
		}
		return apperrors.NewAppError(500, "failed to lock owner "+ownerID+" for update", err)
	}
	return nil
}

// ApplyOwnerDeltaInTx atomically increments the owner's totals within a transaction.
func (r *PgxOwnerRepository) ApplyOwnerDeltaInTx(ctx context.Context, tx pgx.Tx, ownerType domain.OwnerType, ownerID string, revenueDelta, expenseDelta decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	if revenueDelta.IsZero() && expenseDelta.IsZero() {
		return nil // Nothing to apply
	}
	table, idCol, err := ownerTable(ownerType)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET revenue_total = COALESCE(revenue_total, 0) + $2,
		    expense_total = COALESCE(expense_total, 0) + $3,
		    last_updated_at = $4, last_updated_by = $5
		WHERE %s = $1;
	`, table, idCol)

	ct, err := tx.Exec(ctx, query, ownerID, revenueDelta, expenseDelta, updatedAt, updatedBy)
	if err != nil {
		return mapPgWriteError(err, "failed to apply totals delta to "+ownerID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s not found during totals update", apperrors.ErrNotFound, ownerType, ownerID)
	}
	return nil
}

// ListOwnerStoredTotals retrieves the stored totals of every owner of the given type.
func (r *PgxOwnerRepository) ListOwnerStoredTotals(ctx context.Context, ownerType domain.OwnerType) ([]portsrepo.OwnerTotals, error) {
	table, idCol, err := ownerTable(ownerType)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT %s, COALESCE(revenue_total, 0), COALESCE(expense_total, 0)
		FROM %s
		ORDER BY %s;
	`, idCol, table, idCol)

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query stored totals for "+table, err)
	}
	defer rows.Close()

	return scanOwnerTotals(rows, table)
}

// ComputeOwnerTotals recomputes totals per owner of the given type from the
// transaction rows. Owners with no transactions are reported with zero totals.
func (r *PgxOwnerRepository) ComputeOwnerTotals(ctx context.Context, ownerType domain.OwnerType) ([]portsrepo.OwnerTotals, error) {
	table, idCol, err := ownerTable(ownerType)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT o.%s,
		       COALESCE(SUM(CASE WHEN t.kind = 'REVENUE' THEN t.amount ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN t.kind = 'EXPENSE' THEN t.amount ELSE 0 END), 0)
		FROM %s o
		LEFT JOIN transactions t ON t.owner_type = $1 AND t.owner_id = o.%s
		GROUP BY o.%s
		ORDER BY o.%s;
	`, idCol, table, idCol, idCol, idCol)

	rows, err := r.Pool.Query(ctx, query, string(ownerType))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to recompute totals for "+table, err)
	}
	defer rows.Close()

	return scanOwnerTotals(rows, table)
}

// RepairOwnerTotals overwrites an owner's stored totals with recomputed values.
func (r *PgxOwnerRepository) RepairOwnerTotals(ctx context.Context, ownerType domain.OwnerType, ownerID string, revenue, expense decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	table, idCol, err := ownerTable(ownerType)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET revenue_total = $2, expense_total = $3, last_updated_at = $4, last_updated_by = $5
		WHERE %s = $1;
	`, table, idCol)

	ct, err := r.Pool.Exec(ctx, query, ownerID, revenue, expense, updatedAt, updatedBy)
	if err != nil {
		return mapPgWriteError(err, "failed to repair totals for "+ownerID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s not found during repair", apperrors.ErrNotFound, ownerType, ownerID)
	}
	return nil
}

func scanOwnerTotals(rows pgx.Rows, table string) ([]portsrepo.OwnerTotals, error) {
	totals := []portsrepo.OwnerTotals{}
	for rows.Next() {
		var t portsrepo.OwnerTotals
		if err := rows.Scan(&t.OwnerID, &t.Revenue, &t.Expense); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan totals row for "+table, err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating totals rows for "+table, err)
	}
	return totals, nil
}
