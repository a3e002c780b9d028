package rules

import (
	"math"
	"time"

	"rentledger/internal/domain"
)

// IncrementRent applies a percentage increment and rounds to the
// nearest integer currency unit (half away from zero, matching the
// behavior the rent history was built with).
func IncrementRent(rent int64, percent int) int64 {
	return int64(math.Round(float64(rent) + float64(rent)*float64(percent)/100))
}

// InitialDueDate computes the first due date for a newly onboarded
// tenant: the rent due day in the current month, or in the next month
// if that day has already passed.
func InitialDueDate(rentDueDay int, now time.Time) time.Time {
	due := time.Date(now.Year(), now.Month(), rentDueDay, 0, 0, 0, 0, now.Location())
	if now.Day() > rentDueDay {
		due = time.Date(now.Year(), now.Month()+1, rentDueDay, 0, 0, 0, 0, now.Location())
	}
	return due
}

// NextDueDate advances a due date to the same rent due day in the
// following month, clamped to the last day of that month when the day
// does not exist (e.g. day 31 in a 30-day month).
func NextDueDate(current time.Time, rentDueDay int) time.Time {
	year, month := current.Year(), current.Month()+1
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, current.Location()).Day()
	day := rentDueDay
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, current.Location())
}

// PreviousDueDate rolls a due date back by one month; used when a
// verified payment is deleted and its cycle advance must be reversed.
func PreviousDueDate(current time.Time) time.Time {
	return current.AddDate(0, -1, 0)
}

// DueIncrements walks the rent-increment anniversary forward from the
// most recent history entry (or the anniversary itself when history is
// empty) and returns every increment that has fallen due, compounding
// the rent per step. A tenant record left unevaluated for several years
// catches up in one pass. The tenant is not mutated; the caller appends
// the entries and adopts the returned rent.
func DueIncrements(t domain.Tenant, now time.Time) ([]domain.RentHistoryEntry, int64) {
	if t.RentIncrementDate == nil || t.Increment <= 0 {
		return nil, t.Rent
	}

	today := Day(now)
	anniversary := Day(*t.RentIncrementDate)

	lastIncrement := anniversary
	for _, e := range t.RentHistory {
		if e.DateApplied.After(lastIncrement) {
			lastIncrement = Day(e.DateApplied)
		}
	}

	nextYear := lastIncrement.Year()
	if lastIncrement.Month() > anniversary.Month() ||
		(lastIncrement.Month() == anniversary.Month() && lastIncrement.Day() >= anniversary.Day()) {
		nextYear++
	}
	next := time.Date(nextYear, anniversary.Month(), anniversary.Day(), 0, 0, 0, 0, today.Location())

	rent := t.Rent
	var entries []domain.RentHistoryEntry
	for !today.Before(next) {
		rent = IncrementRent(rent, t.Increment)
		entries = append(entries, domain.RentHistoryEntry{
			Year:             len(t.RentHistory) + len(entries) + 1,
			Rent:             rent,
			IncrementPercent: t.Increment,
			DateApplied:      next,
		})
		next = next.AddDate(1, 0, 0)
	}
	return entries, rent
}

// ManualIncrement applies exactly one increment step dated now,
// bypassing the anniversary check. Used for out-of-cycle administrative
// correction.
func ManualIncrement(t domain.Tenant, now time.Time) (domain.RentHistoryEntry, int64) {
	percent := t.Increment
	if percent <= 0 {
		percent = 10
	}
	rent := IncrementRent(t.Rent, percent)
	return domain.RentHistoryEntry{
		Year:             len(t.RentHistory) + 1,
		Rent:             rent,
		IncrementPercent: percent,
		DateApplied:      now,
	}, rent
}
