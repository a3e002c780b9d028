package service

import (
	"context"
	"log"
	"time"

	"rentledger/internal/clients"
	"rentledger/internal/domain"
	"rentledger/internal/repository"
	"rentledger/internal/rules"
)

// StatusService runs the automatic tenant status evaluation. The pass
// is idempotent: re-running it on the same day writes nothing new.
type StatusService struct {
	tenants  *repository.TenantRepository
	settings *SettingsService
	events   *clients.EventsClient
}

func NewStatusService(tenants *repository.TenantRepository, settings *SettingsService, events *clients.EventsClient) *StatusService {
	return &StatusService{tenants: tenants, settings: settings, events: events}
}

// EvaluateAll derives the status of every active tenant from its due
// date and writes only the ones that changed. Returns the number of
// tenants updated. Archived tenants and tenants without a due date are
// skipped.
func (s *StatusService) EvaluateAll(ctx context.Context, now time.Time) (int, error) {
	cfg := s.settings.PaymentRules(ctx)

	tenants, err := s.tenants.List(ctx, repository.TenantsFilter{})
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, t := range tenants {
		status, dirty := rules.EvaluateStatus(t, cfg, now)
		if !dirty {
			continue
		}
		if err := s.tenants.UpdateStatus(ctx, t.ID, status); err != nil {
			log.Printf("[STATUS] tenant %s: update to %s failed: %v", t.ID, status, err)
			continue
		}
		changed++
	}

	if changed > 0 && s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionTenants, "updated", "")
	}
	return changed, nil
}

// EvaluateTenant re-derives one tenant's status on demand and returns
// the tenant with the fresh status applied.
func (s *StatusService) EvaluateTenant(ctx context.Context, id string, now time.Time) (*domain.Tenant, error) {
	t, err := s.tenants.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cfg := s.settings.PaymentRules(ctx)
	status, dirty := rules.EvaluateStatus(*t, cfg, now)
	if dirty {
		if err := s.tenants.UpdateStatus(ctx, t.ID, status); err != nil {
			return nil, err
		}
		t.Status = status
		if s.events != nil {
			_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionTenants, "updated", t.ID)
		}
	}
	return t, nil
}
