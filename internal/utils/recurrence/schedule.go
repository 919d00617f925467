// Package recurrence holds the calendar math for recurring rule
// materialization: stepping occurrences by frequency and computing the
// dedup window an occurrence falls into.
package recurrence

import (
	"time"

	"github.com/hrportal/finance_ledger/internal/core/domain"
)

// Step advances an occurrence date by one frequency interval.
func Step(freq domain.RecurrenceFrequency, from time.Time) time.Time {
	switch freq {
	case domain.Daily:
		return from.AddDate(0, 0, 1)
	case domain.Weekly:
		return from.AddDate(0, 0, 7)
	case domain.Monthly:
		return from.AddDate(0, 1, 0)
	case domain.Quarterly:
		return from.AddDate(0, 3, 0)
	case domain.Yearly:
		return from.AddDate(1, 0, 0)
	default:
		// Unknown frequencies never come due.
		return from.AddDate(100, 0, 0)
	}
}

// NextOccurrence returns the next date a rule should materialize. The rule
// record is itself a live transaction already counted in its start window, so
// a never-processed rule's first occurrence is one interval past its start
// date, not the start date itself.
func NextOccurrence(rec *domain.Recurrence) time.Time {
	if rec.LastProcessedDate == nil {
		return Step(rec.Frequency, rec.StartDate)
	}
	return Step(rec.Frequency, *rec.LastProcessedDate)
}

// Due reports whether the rule has an occurrence at or before asOf that is
// still inside the rule's [StartDate, EndDate] window, and returns it.
func Due(rec *domain.Recurrence, asOf time.Time) (time.Time, bool) {
	if !rec.IsRecurring {
		return time.Time{}, false
	}
	next := NextOccurrence(rec)
	if next.After(asOf) {
		return time.Time{}, false
	}
	if rec.EndDate != nil && next.After(*rec.EndDate) {
		return time.Time{}, false
	}
	return next, true
}

// PeriodBounds returns the half-open [start, end) window that contains the
// occurrence for dedup purposes: at most one materialized record per rule
// may exist inside it.
func PeriodBounds(freq domain.RecurrenceFrequency, occurrence time.Time) (time.Time, time.Time) {
	t := occurrence.UTC()
	switch freq {
	case domain.Daily:
		start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 0, 1)
	case domain.Weekly:
		// Week starts Monday.
		offset := (int(t.Weekday()) + 6) % 7
		start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	case domain.Quarterly:
		qMonth := time.Month(((int(t.Month())-1)/3)*3 + 1)
		start := time.Date(t.Year(), qMonth, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 3, 0)
	case domain.Yearly:
		start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	default: // Monthly is the common case and the fallback.
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	}
}
