package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/hrportal/finance_ledger/internal/core/domain"
	portsrepo "github.com/hrportal/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/hrportal/finance_ledger/internal/core/ports/services"
	"github.com/hrportal/finance_ledger/internal/dto"
)

// reconciliationService cross-checks stored owner and period totals against
// the transaction rows they were derived from.
type reconciliationService struct {
	BaseService
	ownerRepo  portsrepo.OwnerRepositoryFacade
	periodRepo portsrepo.PeriodRepositoryFacade
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(ownerRepo portsrepo.OwnerRepositoryFacade, periodRepo portsrepo.PeriodRepositoryFacade) portssvc.ReconciliationSvc {
	return &reconciliationService{ownerRepo: ownerRepo, periodRepo: periodRepo}
}

// Ensure reconciliationService implements the portssvc.ReconciliationSvc interface
var _ portssvc.ReconciliationSvc = (*reconciliationService)(nil)

// Reconcile recomputes every aggregate from transaction rows and reports
// drift. With repair set, drifted stored totals are rewritten.
func (s *reconciliationService) Reconcile(ctx context.Context, repair bool, runAsUserID string) (*dto.ReconciliationReport, error) {
	report := &dto.ReconciliationReport{}
	now := time.Now().UTC()

	for _, ownerType := range []domain.OwnerType{domain.OwnerProject, domain.OwnerClient, domain.OwnerDepartment} {
		if err := s.reconcileOwners(ctx, ownerType, repair, runAsUserID, now, report); err != nil {
			return nil, err
		}
	}
	if err := s.reconcilePeriods(ctx, repair, runAsUserID, now, report); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Reconciliation pass completed",
		slog.Int("checked", report.Checked),
		slog.Int("drifted", report.Drifted),
		slog.Int("repaired", report.Repaired),
		slog.Bool("repair", repair),
	)
	return report, nil
}

func (s *reconciliationService) reconcileOwners(ctx context.Context, ownerType domain.OwnerType, repair bool, runAsUserID string, now time.Time, report *dto.ReconciliationReport) error {
	stored, err := s.ownerRepo.ListOwnerStoredTotals(ctx, ownerType)
	if err != nil {
		return err
	}
	computed, err := s.ownerRepo.ComputeOwnerTotals(ctx, ownerType)
	if err != nil {
		return err
	}

	computedByID := make(map[string]portsrepo.OwnerTotals, len(computed))
	for _, c := range computed {
		computedByID[c.OwnerID] = c
	}

	for _, st := range stored {
		report.Checked++
		c := computedByID[st.OwnerID] // zero totals when the owner has no transactions

		drifted := !st.Revenue.Equal(c.Revenue) || !st.Expense.Equal(c.Expense)
		if !drifted {
			continue
		}
		report.Drifted++

		repaired := false
		if repair {
			if err := s.ownerRepo.RepairOwnerTotals(ctx, ownerType, st.OwnerID, c.Revenue, c.Expense, runAsUserID, now); err != nil {
				return err
			}
			report.Repaired++
			repaired = true
		}

		appendOwnerDrifts(report, string(ownerType), st, c, repaired)
	}
	return nil
}

func (s *reconciliationService) reconcilePeriods(ctx context.Context, repair bool, runAsUserID string, now time.Time, report *dto.ReconciliationReport) error {
	stored, err := s.periodRepo.ListPeriodStoredTotals(ctx)
	if err != nil {
		return err
	}
	computed, err := s.periodRepo.ComputePeriodTotals(ctx)
	if err != nil {
		return err
	}

	computedByID := make(map[string]portsrepo.PeriodTotals, len(computed))
	for _, c := range computed {
		computedByID[c.PeriodID] = c
	}

	for _, st := range stored {
		report.Checked++
		c := computedByID[st.PeriodID]

		drifted := !st.Revenue.Equal(c.Revenue) || !st.Expense.Equal(c.Expense)
		if !drifted {
			continue
		}
		report.Drifted++

		repaired := false
		if repair {
			if err := s.periodRepo.RepairPeriodTotals(ctx, st.PeriodID, c.Revenue, c.Expense, runAsUserID, now); err != nil {
				return err
			}
			report.Repaired++
			repaired = true
		}

		if !st.Revenue.Equal(c.Revenue) {
			report.Drifts = append(report.Drifts, dto.ReconciliationDrift{
				EntityType: "PERIOD", EntityID: st.PeriodID, Field: "total_revenue",
				Stored: st.Revenue, Computed: c.Revenue, Repaired: repaired,
			})
		}
		if !st.Expense.Equal(c.Expense) {
			report.Drifts = append(report.Drifts, dto.ReconciliationDrift{
				EntityType: "PERIOD", EntityID: st.PeriodID, Field: "total_expenses",
				Stored: st.Expense, Computed: c.Expense, Repaired: repaired,
			})
		}
	}
	return nil
}

func appendOwnerDrifts(report *dto.ReconciliationReport, entityType string, stored, computed portsrepo.OwnerTotals, repaired bool) {
	if !stored.Revenue.Equal(computed.Revenue) {
		report.Drifts = append(report.Drifts, dto.ReconciliationDrift{
			EntityType: entityType, EntityID: stored.OwnerID, Field: "revenue_total",
			Stored: stored.Revenue, Computed: computed.Revenue, Repaired: repaired,
		})
	}
	if !stored.Expense.Equal(computed.Expense) {
		report.Drifts = append(report.Drifts, dto.ReconciliationDrift{
			EntityType: entityType, EntityID: stored.OwnerID, Field: "expense_total",
			Stored: stored.Expense, Computed: computed.Expense, Repaired: repaired,
		})
	}
}
