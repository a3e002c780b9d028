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

// SchedulerService applies annual rent increments. Increments compound
// per anniversary year; a tenant that was not evaluated for several
// years catches up in a single pass.
type SchedulerService struct {
	tenants *repository.TenantRepository
	events  *clients.EventsClient
}

func NewSchedulerService(tenants *repository.TenantRepository, events *clients.EventsClient) *SchedulerService {
	return &SchedulerService{tenants: tenants, events: events}
}

// ApplyDueIncrements walks every active tenant and applies any
// increments whose anniversary has passed. Returns the number of
// tenants whose rent changed.
func (s *SchedulerService) ApplyDueIncrements(ctx context.Context, now time.Time) (int, error) {
	tenants, err := s.tenants.List(ctx, repository.TenantsFilter{})
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, t := range tenants {
		entries, rent := rules.DueIncrements(t, now)
		if len(entries) == 0 {
			continue
		}
		history := append(t.RentHistory, entries...)
		if err := s.tenants.SaveRent(ctx, t.ID, rent, history); err != nil {
			log.Printf("[SCHEDULER] tenant %s: rent increment save failed: %v", t.ID, err)
			continue
		}
		changed++
	}

	if changed > 0 && s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionTenants, "updated", "")
	}
	return changed, nil
}

// ApplyTenantIncrements catches one tenant up and returns it with the
// new rent and history applied.
func (s *SchedulerService) ApplyTenantIncrements(ctx context.Context, id string, now time.Time) (*domain.Tenant, error) {
	t, err := s.tenants.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	entries, rent := rules.DueIncrements(*t, now)
	if len(entries) == 0 {
		return t, nil
	}

	t.RentHistory = append(t.RentHistory, entries...)
	t.Rent = rent
	if err := s.tenants.SaveRent(ctx, t.ID, rent, t.RentHistory); err != nil {
		return nil, err
	}
	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionTenants, "updated", t.ID)
	}
	return t, nil
}

// ApplyManualIncrement applies exactly one increment step dated now,
// regardless of the anniversary. Tenants without a configured increment
// percentage get the 10% default.
func (s *SchedulerService) ApplyManualIncrement(ctx context.Context, id string, now time.Time) (*domain.Tenant, error) {
	t, err := s.tenants.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Archived() {
		return nil, &domain.ValidationError{Field: "status", Message: "cannot increment rent of an archived tenant"}
	}

	entry, rent := rules.ManualIncrement(*t, now)
	t.RentHistory = append(t.RentHistory, entry)
	t.Rent = rent
	if err := s.tenants.SaveRent(ctx, t.ID, rent, t.RentHistory); err != nil {
		return nil, err
	}
	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionTenants, "updated", t.ID)
	}
	return t, nil
}
