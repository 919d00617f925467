package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrportal/finance_ledger/internal/apperrors"
	"github.com/hrportal/finance_ledger/internal/core/domain"
	portsrepo "github.com/hrportal/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/hrportal/finance_ledger/internal/core/ports/services"
	"github.com/hrportal/finance_ledger/internal/dto"
)

var (
	ErrPeriodNotClosable = fmt.Errorf("%w: only open or review-pending periods can be closed", apperrors.ErrValidation)
	ErrPeriodNotReopable = fmt.Errorf("%w: only closed periods can be reopened", apperrors.ErrValidation)
)

// periodService provides read access and administrative state changes for
// period summaries.
type periodService struct {
	BaseService
	periodRepo portsrepo.PeriodRepositoryFacade
}

// NewPeriodService creates a new period service.
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryFacade) portssvc.PeriodSvcFacade {
	return &periodService{periodRepo: periodRepo}
}

// Ensure periodService implements the portssvc.PeriodSvcFacade interface
var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// GetPeriodByID retrieves a period summary by its ID.
func (s *periodService) GetPeriodByID(ctx context.Context, periodID string) (*domain.PeriodSummary, error) {
	return s.periodRepo.FindPeriodByID(ctx, periodID)
}

// ListPeriods retrieves a paginated, filtered list of period summaries.
func (s *periodService) ListPeriods(ctx context.Context, params dto.ListPeriodsParams) (*dto.ListPeriodsResponse, error) {
	filter := portsrepo.PeriodFilter{
		Year:         params.Year,
		Month:        params.Month,
		DepartmentID: params.DepartmentID,
	}
	periods, nextToken, err := s.periodRepo.ListPeriods(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return dto.ToListPeriodsResponse(periods, nextToken), nil
}

// ClosePeriod moves an open period to CLOSED, freezing its totals.
func (s *periodService) ClosePeriod(ctx context.Context, periodID string, requestingUserID string) (*domain.PeriodSummary, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if !period.Status.AcceptsChanges() {
		return nil, ErrPeriodNotClosable
	}

	now := time.Now().UTC()
	if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, domain.PeriodClosed, requestingUserID, now); err != nil {
		s.LogError(ctx, err, "Failed to close period", slog.String("period_id", periodID))
		return nil, err
	}

	period.Status = domain.PeriodClosed
	period.LastUpdatedAt = now
	period.LastUpdatedBy = requestingUserID
	s.LogInfo(ctx, "Period closed", slog.String("period_id", periodID))
	return period, nil
}

// ReopenPeriod moves a closed period back to OPEN.
func (s *periodService) ReopenPeriod(ctx context.Context, periodID string, requestingUserID string) (*domain.PeriodSummary, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.Status != domain.PeriodClosed {
		return nil, ErrPeriodNotReopable
	}

	now := time.Now().UTC()
	if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, domain.PeriodOpen, requestingUserID, now); err != nil {
		s.LogError(ctx, err, "Failed to reopen period", slog.String("period_id", periodID))
		return nil, err
	}

	period.Status = domain.PeriodOpen
	period.LastUpdatedAt = now
	period.LastUpdatedBy = requestingUserID
	s.LogInfo(ctx, "Period reopened", slog.String("period_id", periodID))
	return period, nil
}
