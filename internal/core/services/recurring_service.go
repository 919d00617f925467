package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hrportal/finance_ledger/internal/apperrors"
	"github.com/hrportal/finance_ledger/internal/core/domain"
	portsrepo "github.com/hrportal/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/hrportal/finance_ledger/internal/core/ports/services"
	"github.com/hrportal/finance_ledger/internal/dto"
	"github.com/hrportal/finance_ledger/internal/utils/recurrence"
)

// maxRuleConcurrency bounds how many rules materialize in parallel per pass.
const maxRuleConcurrency = 4

// recurringService materializes due occurrences of recurring rules into
// concrete transactions. A failing rule never blocks the others.
type recurringService struct {
	BaseService
	txnRepo    portsrepo.TransactionRepositoryFacade
	periodRepo portsrepo.PeriodRepositoryFacade
}

// NewRecurringService creates a new recurring materialization service.
func NewRecurringService(txnRepo portsrepo.TransactionRepositoryFacade, periodRepo portsrepo.PeriodRepositoryFacade) portssvc.RecurringSvc {
	return &recurringService{txnRepo: txnRepo, periodRepo: periodRepo}
}

// Ensure recurringService implements the portssvc.RecurringSvc interface
var _ portssvc.RecurringSvc = (*recurringService)(nil)

// MaterializeDueRules runs one pass over active recurring rules as of the
// given time, creating a transaction for each due occurrence that has not
// already been materialized.
func (s *recurringService) MaterializeDueRules(ctx context.Context, asOf time.Time, runAsUserID string) (*dto.MaterializationReport, error) {
	logger := s.GetLogger(ctx)

	rules, err := s.txnRepo.ListActiveRecurringRules(ctx, asOf)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	report := &dto.MaterializationReport{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxRuleConcurrency)

	for i := range rules {
		rule := rules[i]
		g.Go(func() error {
			created, skipped, ruleErr := s.materializeRule(gctx, rule, asOf, runAsUserID)
			mu.Lock()
			defer mu.Unlock()
			report.Created += created
			report.Skipped += skipped
			if ruleErr != nil {
				report.Failed++
				report.Failures = append(report.Failures, dto.MaterializationFailure{
					RuleID: rule.TransactionID,
					Reason: ruleErr.Error(),
				})
				logger.Warn("Recurring rule failed to materialize",
					slog.String("rule_id", rule.TransactionID),
					slog.String("error", ruleErr.Error()),
				)
			}
			// Per-rule failures are reported, never propagated.
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("Recurring materialization pass completed",
		slog.Int("rules", len(rules)),
		slog.Int("created", report.Created),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
	)
	return report, nil
}

// materializeRule walks the rule's due occurrences up to asOf, creating one
// transaction per occurrence window that has none yet.
func (s *recurringService) materializeRule(ctx context.Context, rule domain.TransactionRecord, asOf time.Time, runAsUserID string) (created, skipped int, err error) {
	if rule.Recurrence == nil {
		return 0, 0, nil
	}
	rec := *rule.Recurrence

	// Occurrences must land in periods keyed the same way the rule's own
	// record was, so the department is read from the rule's period snapshot.
	var periodDept *string
	deptResolved := false

	for {
		occurrence, due := recurrence.Due(&rec, asOf)
		if !due {
			return created, skipped, nil
		}

		if !deptResolved {
			rulePeriod, periodErr := s.periodRepo.FindPeriodByID(ctx, rule.PeriodID)
			if periodErr != nil {
				return created, skipped, periodErr
			}
			periodDept = rulePeriod.DepartmentID
			deptResolved = true
		}

		from, to := recurrence.PeriodBounds(rec.Frequency, occurrence)
		_, findErr := s.txnRepo.FindMaterializedForRule(ctx, rule.TransactionID, from, to)
		switch {
		case findErr == nil:
			// Already materialized inside this window; advance past it.
			skipped++
		case errors.Is(findErr, apperrors.ErrNotFound):
			if saveErr := s.createFromRule(ctx, rule, occurrence, periodDept, runAsUserID); saveErr != nil {
				if errors.Is(saveErr, apperrors.ErrDuplicate) {
					// A concurrent pass won the race; same as already materialized.
					skipped++
				} else {
					return created, skipped, saveErr
				}
			} else {
				created++
			}
		default:
			return created, skipped, findErr
		}

		now := time.Now().UTC()
		if markErr := s.txnRepo.MarkRuleProcessed(ctx, rule.TransactionID, occurrence, runAsUserID, now); markErr != nil {
			return created, skipped, markErr
		}
		rec.LastProcessedDate = &occurrence
	}
}

// createFromRule persists one materialized occurrence, inheriting the rule's
// allocation snapshot so every occurrence charges the same owner and is keyed
// by the same period department.
func (s *recurringService) createFromRule(ctx context.Context, rule domain.TransactionRecord, occurrence time.Time, periodDept *string, runAsUserID string) error {
	now := time.Now().UTC()
	ruleID := rule.TransactionID

	record := domain.TransactionRecord{
		TransactionID: uuid.NewString(),
		Kind:          rule.Kind,
		Category:      rule.Category,
		Amount:        rule.Amount,
		Date:          occurrence,
		Description:   rule.Description,
		Status:        rule.Kind.InitialStatus(),
		CurrencyCode:  rule.CurrencyCode,
		Tax:           rule.Tax,
		ProjectID:     rule.ProjectID,
		ClientID:      rule.ClientID,
		DepartmentID:  rule.DepartmentID,
		Owner:         rule.Owner,
		SourceRuleID:  &ruleID,
		Version:       1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     runAsUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: runAsUserID,
		},
	}

	revenueDelta, expenseDelta := kindDeltas(rule.Kind, rule.Amount)
	key := domain.PeriodKeyFor(occurrence, periodDept)

	return s.RetryOnConflict(ctx, func() error {
		_, saveErr := s.txnRepo.SaveTransaction(ctx, record, key, revenueDelta, expenseDelta)
		return saveErr
	})
}
