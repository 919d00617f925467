package services

import (
	"context"

	"github.com/hrportal/finance_ledger/internal/core/domain"
	"github.com/hrportal/finance_ledger/internal/dto"
)

// PeriodReaderSvc defines read operations for period summaries
type PeriodReaderSvc interface {
	// GetPeriodByID retrieves a specific period summary by its ID.
	GetPeriodByID(ctx context.Context, periodID string) (*domain.PeriodSummary, error)

	// ListPeriods retrieves a paginated, filtered list of period summaries.
	ListPeriods(ctx context.Context, params dto.ListPeriodsParams) (*dto.ListPeriodsResponse, error)
}

// PeriodWriterSvc defines administrative state changes on period summaries
type PeriodWriterSvc interface {
	// ClosePeriod moves an open period to CLOSED, freezing its totals.
	ClosePeriod(ctx context.Context, periodID string, requestingUserID string) (*domain.PeriodSummary, error)

	// ReopenPeriod moves a closed period back to OPEN.
	ReopenPeriod(ctx context.Context, periodID string, requestingUserID string) (*domain.PeriodSummary, error)
}

// PeriodSvcFacade combines all period service interfaces
type PeriodSvcFacade interface {
	PeriodReaderSvc
	PeriodWriterSvc
}
