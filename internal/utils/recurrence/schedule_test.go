package recurrence_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hrportal/finance_ledger/internal/core/domain"
	"github.com/hrportal/finance_ledger/internal/utils/recurrence"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStep(t *testing.T) {
	tests := []struct {
		name string
		freq domain.RecurrenceFrequency
		from time.Time
		want time.Time
	}{
		{"daily", domain.Daily, date(2025, 3, 14), date(2025, 3, 15)},
		{"weekly", domain.Weekly, date(2025, 3, 14), date(2025, 3, 21)},
		{"monthly", domain.Monthly, date(2025, 3, 14), date(2025, 4, 14)},
		{"monthly end of month", domain.Monthly, date(2025, 1, 31), date(2025, 3, 3)}, // Go AddDate normalizes Feb 31
		{"quarterly", domain.Quarterly, date(2025, 1, 1), date(2025, 4, 1)},
		{"yearly", domain.Yearly, date(2025, 3, 14), date(2026, 3, 14)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recurrence.Step(tt.freq, tt.from))
		})
	}
}

func TestNextOccurrence(t *testing.T) {
	start := date(2025, 1, 1)
	rec := &domain.Recurrence{IsRecurring: true, Frequency: domain.Monthly, StartDate: start}

	// Never processed: the rule record covers its own start window, so the
	// first materialization is one interval later.
	assert.Equal(t, date(2025, 2, 1), recurrence.NextOccurrence(rec))

	last := date(2025, 2, 1)
	rec.LastProcessedDate = &last
	assert.Equal(t, date(2025, 3, 1), recurrence.NextOccurrence(rec))
}

func TestDue(t *testing.T) {
	start := date(2025, 3, 1)
	rec := &domain.Recurrence{IsRecurring: true, Frequency: domain.Monthly, StartDate: start}

	occ, due := recurrence.Due(rec, date(2025, 4, 15))
	assert.True(t, due)
	assert.Equal(t, date(2025, 4, 1), occ)

	// Inside the start window nothing is due: the rule record itself already
	// charged that window, a materialized copy would double-count it.
	_, due = recurrence.Due(rec, date(2025, 3, 15))
	assert.False(t, due)

	_, due = recurrence.Due(rec, date(2025, 2, 15))
	assert.False(t, due)

	// Past the end date nothing comes due, even if the cadence says so.
	end := date(2025, 3, 31)
	last := start
	rec.LastProcessedDate = &last
	rec.EndDate = &end
	_, due = recurrence.Due(rec, date(2025, 5, 1))
	assert.False(t, due)

	// A non-recurring record is never due.
	_, due = recurrence.Due(&domain.Recurrence{StartDate: start}, date(2025, 4, 1))
	assert.False(t, due)
}

func TestPeriodBounds(t *testing.T) {
	occ := time.Date(2025, 3, 14, 17, 30, 0, 0, time.UTC)

	from, to := recurrence.PeriodBounds(domain.Daily, occ)
	assert.Equal(t, date(2025, 3, 14), from)
	assert.Equal(t, date(2025, 3, 15), to)

	// 2025-03-14 is a Friday; the week starts Monday 2025-03-10.
	from, to = recurrence.PeriodBounds(domain.Weekly, occ)
	assert.Equal(t, date(2025, 3, 10), from)
	assert.Equal(t, date(2025, 3, 17), to)

	from, to = recurrence.PeriodBounds(domain.Monthly, occ)
	assert.Equal(t, date(2025, 3, 1), from)
	assert.Equal(t, date(2025, 4, 1), to)

	from, to = recurrence.PeriodBounds(domain.Quarterly, occ)
	assert.Equal(t, date(2025, 1, 1), from)
	assert.Equal(t, date(2025, 4, 1), to)

	from, to = recurrence.PeriodBounds(domain.Yearly, occ)
	assert.Equal(t, date(2025, 1, 1), from)
	assert.Equal(t, date(2026, 1, 1), to)
}
