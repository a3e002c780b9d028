package rules

import (
	"time"

	"rentledger/internal/domain"
)

// Day truncates a timestamp to midnight in its own location. All due
// date comparisons happen at day granularity.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EvaluateStatus derives a tenant's payment status from its due date
// and the configured pre-due window:
//
//	Paid -> Due     once today >= dueDate - paymentWindowDaysBefore
//	Due  -> Overdue once today >= dueDate
//
// Overdue never auto-reverts and Archived is terminal. A tenant with no
// due date is skipped. The second return value reports whether the
// status actually changed, so re-evaluating unchanged inputs is a
// no-op for the caller.
func EvaluateStatus(t domain.Tenant, cfg domain.PaymentRules, now time.Time) (string, bool) {
	if t.Archived() || t.DueDate == nil {
		return t.Status, false
	}

	today := Day(now)
	dueDate := Day(*t.DueDate)
	windowOpen := dueDate.AddDate(0, 0, -cfg.PaymentWindowDaysBefore)

	newStatus := t.Status
	if newStatus == domain.StatusPaid && !today.Before(windowOpen) {
		newStatus = domain.StatusDue
	} else if newStatus == domain.StatusDue && !today.Before(dueDate) {
		newStatus = domain.StatusOverdue
	}

	return newStatus, newStatus != t.Status
}
