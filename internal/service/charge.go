package service

import (
	"context"
	"regexp"

	"rentledger/internal/clients"
	"rentledger/internal/domain"
	"rentledger/internal/repository"
)

var monthKeyPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ChargeService is the monthly charge ledger: ad-hoc electricity and
// other charges keyed by tenant and calendar month.
type ChargeService struct {
	charges *repository.ChargeRepository
	tenants *repository.TenantRepository
	events  *clients.EventsClient
}

func NewChargeService(charges *repository.ChargeRepository, tenants *repository.TenantRepository, events *clients.EventsClient) *ChargeService {
	return &ChargeService{charges: charges, tenants: tenants, events: events}
}

// Record upserts the charge for a tenant-month. Adding an unbilled
// charge to a Paid tenant moves them to Due immediately; they owe money
// again even though rent was settled.
func (s *ChargeService) Record(ctx context.Context, c domain.MonthlyCharge) error {
	if !monthKeyPattern.MatchString(c.Month) {
		return &domain.ValidationError{Field: "month", Message: "month must be in YYYY-MM format"}
	}
	if c.ElectricityBill < 0 {
		return &domain.ValidationError{Field: "electricityBill", Message: "electricity bill must not be negative"}
	}
	if c.OtherCharges < 0 {
		return &domain.ValidationError{Field: "otherCharges", Message: "other charges must not be negative"}
	}

	t, err := s.tenants.Get(ctx, c.TenantID)
	if err != nil {
		return err
	}
	if t.Archived() {
		return &domain.ValidationError{Field: "tenantId", Message: "cannot record charges for an archived tenant"}
	}

	if err := s.charges.Upsert(ctx, c); err != nil {
		return err
	}

	if !c.IsBilled && t.Status == domain.StatusPaid {
		if err := s.tenants.UpdateStatus(ctx, t.ID, domain.StatusDue); err != nil {
			return err
		}
		if s.events != nil {
			_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionTenants, "updated", t.ID)
		}
	}

	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionCharges, "updated", c.TenantID+"/"+c.Month)
	}
	return nil
}

func (s *ChargeService) ListByTenant(ctx context.Context, tenantID string) ([]domain.MonthlyCharge, error) {
	return s.charges.ListByTenant(ctx, tenantID)
}

func (s *ChargeService) ListAll(ctx context.Context) ([]domain.MonthlyCharge, error) {
	return s.charges.ListAll(ctx)
}

// UnbilledTotal is the charge component of a tenant's amount due.
func (s *ChargeService) UnbilledTotal(ctx context.Context, tenantID string) (int64, error) {
	charges, err := s.charges.ListUnbilled(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	return domain.UnbilledTotal(charges), nil
}

// Delete removes a charge month outright. Historical payments that
// already folded the charge in are untouched.
func (s *ChargeService) Delete(ctx context.Context, tenantID, month string) error {
	if err := s.charges.Delete(ctx, tenantID, month); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionCharges, "deleted", tenantID+"/"+month)
	}
	return nil
}
