package service

import (
	"context"
	"time"

	"rentledger/internal/domain"
	"rentledger/internal/repository"
	"rentledger/internal/rules"
)

// PaymentSummary is the dashboard headline block.
type PaymentSummary struct {
	MonthCollection  int64 `json:"monthCollection"`
	TotalOutstanding int64 `json:"totalOutstanding"`
	PaidCount        int   `json:"paidCount"`
	DueCount         int   `json:"dueCount"`
	OverdueCount     int   `json:"overdueCount"`
	PendingCount     int   `json:"pendingCount"`
}

type SummaryService struct {
	tenants  *repository.TenantRepository
	payments *repository.PaymentRepository
	pendings *repository.PendingPaymentRepository
	charges  *repository.ChargeRepository
	settings *SettingsService
}

func NewSummaryService(
	tenants *repository.TenantRepository,
	payments *repository.PaymentRepository,
	pendings *repository.PendingPaymentRepository,
	charges *repository.ChargeRepository,
	settings *SettingsService,
) *SummaryService {
	return &SummaryService{
		tenants:  tenants,
		payments: payments,
		pendings: pendings,
		charges:  charges,
		settings: settings,
	}
}

// Summary aggregates the current month's collection, the outstanding
// total across Due and Overdue tenants, and the status counts.
func (s *SummaryService) Summary(ctx context.Context, now time.Time) (*PaymentSummary, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	collected, err := s.payments.SumSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	tenants, err := s.tenants.List(ctx, repository.TenantsFilter{})
	if err != nil {
		return nil, err
	}

	pendings, err := s.pendings.List(ctx)
	if err != nil {
		return nil, err
	}

	cfg := s.settings.PaymentRules(ctx)
	summary := &PaymentSummary{
		MonthCollection: collected,
		PendingCount:    len(pendings),
	}

	for _, t := range tenants {
		switch t.Status {
		case domain.StatusPaid:
			summary.PaidCount++
		case domain.StatusDue, domain.StatusOverdue:
			if t.Status == domain.StatusDue {
				summary.DueCount++
			} else {
				summary.OverdueCount++
			}
			unbilled, err := s.charges.ListUnbilled(ctx, t.ID)
			if err != nil {
				return nil, err
			}
			statement := rules.ComputeStatement(t, domain.UnbilledTotal(unbilled), cfg, now)
			summary.TotalOutstanding += statement.TotalDue
		}
	}

	return summary, nil
}

// RecentActivity is the latest verified payments, newest first.
func (s *SummaryService) RecentActivity(ctx context.Context, limit int) ([]domain.Payment, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.payments.List(ctx, repository.PaymentsFilter{Limit: limit})
}
