package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hrportal/finance_ledger/internal/core/domain"
)

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, domain.StatusExpected, domain.Revenue.InitialStatus())
	assert.Equal(t, domain.StatusPending, domain.Expense.InitialStatus())
}

func TestValidStatus_SetsAreDisjoint(t *testing.T) {
	assert.True(t, domain.Revenue.ValidStatus(domain.StatusReceived))
	assert.True(t, domain.Revenue.ValidStatus(domain.StatusCancelled))
	assert.False(t, domain.Revenue.ValidStatus(domain.StatusPending))
	assert.False(t, domain.Revenue.ValidStatus(domain.StatusApproved))

	assert.True(t, domain.Expense.ValidStatus(domain.StatusPending))
	assert.True(t, domain.Expense.ValidStatus(domain.StatusRejected))
	assert.False(t, domain.Expense.ValidStatus(domain.StatusExpected))
	assert.False(t, domain.Expense.ValidStatus(domain.StatusOverdue))
}

func TestValidCategory_SetsAreDisjoint(t *testing.T) {
	assert.True(t, domain.Revenue.ValidCategory(domain.CategoryProjectPayment))
	assert.False(t, domain.Revenue.ValidCategory(domain.CategorySalaries))

	assert.True(t, domain.Expense.ValidCategory(domain.CategorySalaries))
	assert.False(t, domain.Expense.ValidCategory(domain.CategoryProjectPayment))

	assert.False(t, domain.Revenue.ValidCategory(domain.Category("Nonsense")))
}

func TestRequiresReceivedMethod(t *testing.T) {
	assert.True(t, domain.RequiresReceivedMethod(domain.StatusReceived))
	assert.True(t, domain.RequiresReceivedMethod(domain.StatusPartiallyReceived))
	assert.False(t, domain.RequiresReceivedMethod(domain.StatusExpected))
	assert.False(t, domain.RequiresReceivedMethod(domain.StatusPending))
}

func TestDescriptionWordCount(t *testing.T) {
	assert.Equal(t, 0, domain.DescriptionWordCount(""))
	assert.Equal(t, 0, domain.DescriptionWordCount("   "))
	assert.Equal(t, 3, domain.DescriptionWordCount("monthly office rent"))
	assert.Equal(t, 3, domain.DescriptionWordCount("  monthly   office  rent "))
}

func TestOwnerRefNone(t *testing.T) {
	assert.True(t, domain.OwnerRef{}.None())
	assert.True(t, domain.OwnerRef{Type: domain.OwnerNone}.None())
	assert.False(t, domain.OwnerRef{Type: domain.OwnerProject, ID: "p1"}.None())
}

func TestRuleActiveAt(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	rule := domain.TransactionRecord{
		Recurrence: &domain.Recurrence{
			IsRecurring: true,
			Frequency:   domain.Monthly,
			StartDate:   start,
			EndDate:     &end,
		},
	}

	assert.False(t, rule.RuleActiveAt(start.AddDate(0, 0, -1)))
	assert.True(t, rule.RuleActiveAt(start))
	assert.True(t, rule.RuleActiveAt(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, rule.RuleActiveAt(end))
	assert.False(t, rule.RuleActiveAt(end.AddDate(0, 0, 1)))

	plain := domain.TransactionRecord{}
	assert.False(t, plain.RuleActiveAt(start))
	assert.False(t, plain.IsRecurringRule())
}

func TestPeriodStatusAcceptsChanges(t *testing.T) {
	assert.True(t, domain.PeriodOpen.AcceptsChanges())
	assert.True(t, domain.PeriodReviewPending.AcceptsChanges())
	assert.False(t, domain.PeriodClosed.AcceptsChanges())
	assert.False(t, domain.PeriodArchived.AcceptsChanges())
}

func TestPeriodKeyFor(t *testing.T) {
	dept := "dept-1"
	// Date in a non-UTC zone must key by its UTC month.
	loc := time.FixedZone("UTC+13", 13*60*60)
	date := time.Date(2025, 4, 1, 5, 0, 0, 0, loc) // 2025-03-31T16:00Z

	key := domain.PeriodKeyFor(date, &dept)
	assert.Equal(t, 2025, key.Year)
	assert.Equal(t, 3, key.Month)
	assert.Equal(t, &dept, key.DepartmentID)

	companyWide := domain.PeriodKeyFor(date, nil)
	assert.Nil(t, companyWide.DepartmentID)
}
