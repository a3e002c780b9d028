package rules

import (
	"fmt"
	"math"
	"time"

	"rentledger/internal/domain"
)

// Statement is the amount owed for the current billing cycle, shown to
// the tenant before payment and re-derived at verification time.
type Statement struct {
	Rent        int64 `json:"rent"`
	Unbilled    int64 `json:"unbilled"`
	DaysOverdue int   `json:"daysOverdue"`
	LateFee     int64 `json:"lateFee"`
	TotalDue    int64 `json:"totalDue"`
}

// DaysOverdue counts whole days between the due date and now, both
// truncated to midnight. Never negative.
func DaysOverdue(dueDate, now time.Time) int {
	days := int(Day(now).Sub(Day(dueDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// LateFee accrues per day past the grace period. Day gracePeriodDays+1
// is the first chargeable day.
func LateFee(daysOverdue int, cfg domain.PaymentRules) int64 {
	if daysOverdue <= cfg.GracePeriodDays {
		return 0
	}
	return int64(daysOverdue-cfg.GracePeriodDays) * cfg.LateFeePerDay
}

// ComputeStatement builds the amount-due statement for a tenant:
// current rent plus unbilled charges, plus the late fee once the grace
// period is exhausted.
func ComputeStatement(t domain.Tenant, unbilled int64, cfg domain.PaymentRules, now time.Time) Statement {
	s := Statement{Rent: t.Rent, Unbilled: unbilled}
	if t.DueDate != nil {
		s.DaysOverdue = DaysOverdue(*t.DueDate, now)
	}
	s.LateFee = LateFee(s.DaysOverdue, cfg)
	s.TotalDue = s.Rent + s.Unbilled + s.LateFee
	return s
}

// InstallmentAmount is the per-installment amount when a tenant elects
// to pay in n parts. Rounding may make n installments sum to slightly
// more or less than the total; the final "pay remainder" option settles
// the exact difference, so the rounding is left uncorrected here.
func InstallmentAmount(totalDue int64, n int) int64 {
	if n <= 1 {
		return totalDue
	}
	return int64(math.Round(float64(totalDue) / float64(n)))
}

// Settled reports whether the payments received since the cycle's due
// date cover the total due.
func Settled(totalPaid, totalDue int64) bool {
	return totalPaid >= totalDue
}

// VerificationBreakdown splits a verified amount into its portions: the
// unbilled electricity/other totals and the accrued late fee are
// attributed first and the remainder is rent, floored at zero.
func VerificationBreakdown(amount, electricity, other, lateFee int64) domain.Breakdown {
	rent := amount - electricity - other - lateFee
	if rent < 0 {
		rent = 0
	}
	return domain.Breakdown{Rent: rent, Electricity: electricity, LateFee: lateFee, Other: other}
}

// MonthKey renders the calendar-month document key ("YYYY-MM") used by
// the charge ledger.
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// ReversalChargeMonth identifies the single charge month unbilled when
// a payment is deleted: the month of the rolled-back due date. A
// payment that folded several months of charges is only partially
// reversed; that matches the recorded behavior of payment deletion.
func ReversalChargeMonth(previousDueDate time.Time) string {
	return MonthKey(previousDueDate)
}
