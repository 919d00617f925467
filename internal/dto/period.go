package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hrportal/finance_ledger/internal/core/domain"
)

// PeriodSummaryResponse defines the data returned for a financial period.
type PeriodSummaryResponse struct {
	PeriodID      string          `json:"periodID"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	DepartmentID  *string         `json:"departmentID,omitempty"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetResult     decimal.Decimal `json:"netResult"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ListPeriodsParams defines query parameters for listing period summaries.
type ListPeriodsParams struct {
	Year         *int    `form:"year"`
	Month        *int    `form:"month" binding:"omitempty,min=1,max=12"`
	DepartmentID *string `form:"departmentID"`
	Limit        int     `form:"limit,default=20"`
	NextToken    *string `form:"nextToken"`
}

// ListPeriodsResponse defines the paginated period list payload.
type ListPeriodsResponse struct {
	Periods   []PeriodSummaryResponse `json:"periods"`
	NextToken *string                 `json:"nextToken,omitempty"`
}

// ToPeriodSummaryResponse converts a domain.PeriodSummary to its response DTO.
func ToPeriodSummaryResponse(p *domain.PeriodSummary) PeriodSummaryResponse {
	return PeriodSummaryResponse{
		PeriodID:      p.PeriodID,
		Year:          p.Year,
		Month:         p.Month,
		DepartmentID:  p.DepartmentID,
		TotalRevenue:  p.TotalRevenue,
		TotalExpenses: p.TotalExpenses,
		NetResult:     p.NetResult,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		LastUpdatedAt: p.LastUpdatedAt,
	}
}

// ToListPeriodsResponse converts a domain slice plus next token into the list payload.
func ToListPeriodsResponse(periods []domain.PeriodSummary, nextToken *string) *ListPeriodsResponse {
	responses := make([]PeriodSummaryResponse, len(periods))
	for i := range periods {
		responses[i] = ToPeriodSummaryResponse(&periods[i])
	}
	return &ListPeriodsResponse{
		Periods:   responses,
		NextToken: nextToken,
	}
}
