package service

import (
	"context"
	"time"

	"rentledger/internal/clients"
	"rentledger/internal/domain"
	"rentledger/internal/repository"
	"rentledger/internal/rules"

	"github.com/google/uuid"
)

// TenantService owns the tenant lifecycle from onboarding to archive.
type TenantService struct {
	tenants    *repository.TenantRepository
	properties *repository.PropertyRepository
	charges    *repository.ChargeRepository
	payments   *repository.PaymentRepository
	settings   *SettingsService
	events     *clients.EventsClient
}

func NewTenantService(
	tenants *repository.TenantRepository,
	properties *repository.PropertyRepository,
	charges *repository.ChargeRepository,
	payments *repository.PaymentRepository,
	settings *SettingsService,
	events *clients.EventsClient,
) *TenantService {
	return &TenantService{
		tenants:    tenants,
		properties: properties,
		charges:    charges,
		payments:   payments,
		settings:   settings,
		events:     events,
	}
}

func (s *TenantService) Get(ctx context.Context, id string) (*domain.Tenant, error) {
	return s.tenants.Get(ctx, id)
}

func (s *TenantService) List(ctx context.Context, f repository.TenantsFilter) ([]domain.Tenant, error) {
	return s.tenants.List(ctx, f)
}

// Create onboards a tenant. The first due date is the rent due day in
// the current month, or the next month if that day has already passed.
// The initial status is then derived from that due date, so a tenant
// onboarded inside the payment window starts as Due, not Paid.
func (s *TenantService) Create(ctx context.Context, t *domain.Tenant, now time.Time) error {
	if err := s.validate(ctx, t); err != nil {
		return err
	}

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	due := rules.InitialDueDate(t.RentDueDay, now)
	t.DueDate = &due
	t.Status = domain.StatusPaid
	if t.DepositStatus == "" {
		t.DepositStatus = domain.DepositPending
	}

	cfg := s.settings.PaymentRules(ctx)
	if status, changed := rules.EvaluateStatus(*t, cfg, now); changed {
		t.Status = status
	}

	if err := s.tenants.Create(ctx, t); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionTenants, "created", t.ID)
	}
	return nil
}

// Update rewrites the editable profile fields. Status, due date and
// rent history are owned by the rule engine and cannot be set here.
func (s *TenantService) Update(ctx context.Context, t *domain.Tenant) error {
	if err := s.validate(ctx, t); err != nil {
		return err
	}
	if err := s.tenants.Update(ctx, t); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionTenants, "updated", t.ID)
	}
	return nil
}

// Archive is terminal: the tenant drops out of status evaluation, rent
// increments and reminders, but the record and payment history remain.
func (s *TenantService) Archive(ctx context.Context, id string, now time.Time) error {
	t, err := s.tenants.Get(ctx, id)
	if err != nil {
		return err
	}
	if t.Archived() {
		return &domain.ValidationError{Field: "status", Message: "tenant is already archived"}
	}
	if err := s.tenants.Archive(ctx, id, now); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionTenants, "updated", id)
	}
	return nil
}

// Delete permanently removes a tenant record. Only archived tenants can
// be deleted; active tenants must be archived first.
func (s *TenantService) Delete(ctx context.Context, id string) error {
	t, err := s.tenants.Get(ctx, id)
	if err != nil {
		return err
	}
	if !t.Archived() {
		return &domain.ValidationError{Field: "status", Message: "only archived tenants can be deleted"}
	}
	if err := s.tenants.Delete(ctx, id); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionTenants, "deleted", id)
	}
	return nil
}

// InstallmentOption is one way to split the remaining due. The last
// installment pays whatever remains after the rounded ones.
type InstallmentOption struct {
	Count  int   `json:"count"`
	Amount int64 `json:"amount"`
	Final  int64 `json:"finalAmount"`
}

// DueView is the tenant-facing payment page: the statement, what has
// already been paid this cycle and the installment split options.
type DueView struct {
	Statement           rules.Statement     `json:"statement"`
	AmountPaidThisCycle int64               `json:"amountPaidThisCycle"`
	RemainingDue        int64               `json:"remainingDue"`
	Installments        []InstallmentOption `json:"installments"`
}

func (s *TenantService) DueView(ctx context.Context, id string, now time.Time) (*DueView, error) {
	t, err := s.tenants.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	unbilled, err := s.charges.ListUnbilled(ctx, id)
	if err != nil {
		return nil, err
	}
	cfg := s.settings.PaymentRules(ctx)
	statement := rules.ComputeStatement(*t, domain.UnbilledTotal(unbilled), cfg, now)

	var paid int64
	if t.DueDate != nil {
		paid, err = s.payments.SumVerifiedSince(ctx, id, *t.DueDate)
		if err != nil {
			return nil, err
		}
	}

	remaining := statement.TotalDue - paid
	if remaining < 0 {
		remaining = 0
	}

	return &DueView{
		Statement:           statement,
		AmountPaidThisCycle: paid,
		RemainingDue:        remaining,
		Installments:        installmentOptions(statement.TotalDue, remaining),
	}, nil
}

// installmentOptions derives the split choices from the cycle's total
// due, not from what is left: after a partial payment the rounded
// installment stays the same and only the remainder shrinks. A rounded
// installment larger than the remainder is capped at it.
func installmentOptions(totalDue, remaining int64) []InstallmentOption {
	opts := make([]InstallmentOption, 0, 3)
	for n := 1; n <= 3; n++ {
		amount := rules.InstallmentAmount(totalDue, n)
		if amount > remaining {
			amount = remaining
		}
		final := remaining - int64(n-1)*amount
		if final < 0 {
			final = 0
		}
		opts = append(opts, InstallmentOption{Count: n, Amount: amount, Final: final})
	}
	return opts
}

func (s *TenantService) validate(ctx context.Context, t *domain.Tenant) error {
	if t.Name == "" {
		return &domain.ValidationError{Field: "name", Message: "name is required"}
	}
	if t.Rent <= 0 {
		return &domain.ValidationError{Field: "rent", Message: "rent must be positive"}
	}
	if t.RentDueDay < 1 || t.RentDueDay > 31 {
		return &domain.ValidationError{Field: "rentDueDay", Message: "rent due day must be between 1 and 31"}
	}
	if t.Increment < 0 {
		return &domain.ValidationError{Field: "increment", Message: "increment percent must not be negative"}
	}
	if t.PropertyID != "" {
		if _, err := s.properties.Get(ctx, t.PropertyID); err != nil {
			return &domain.ValidationError{Field: "propertyId", Message: "property does not exist"}
		}
	}
	return nil
}
