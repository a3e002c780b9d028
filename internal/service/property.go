package service

import (
	"context"

	"rentledger/internal/clients"
	"rentledger/internal/domain"
	"rentledger/internal/repository"

	"github.com/google/uuid"
)

// PropertyWithOccupancy augments a property with its active tenant
// count and the rent those tenants bring in per month.
type PropertyWithOccupancy struct {
	domain.Property
	TenantCount int   `json:"tenantCount"`
	MonthlyRent int64 `json:"monthlyRent"`
}

type PropertyService struct {
	properties *repository.PropertyRepository
	tenants    *repository.TenantRepository
	events     *clients.EventsClient
}

func NewPropertyService(properties *repository.PropertyRepository, tenants *repository.TenantRepository, events *clients.EventsClient) *PropertyService {
	return &PropertyService{properties: properties, tenants: tenants, events: events}
}

func (s *PropertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	return s.properties.Get(ctx, id)
}

func (s *PropertyService) List(ctx context.Context) ([]PropertyWithOccupancy, error) {
	props, err := s.properties.List(ctx)
	if err != nil {
		return nil, err
	}

	tenants, err := s.tenants.List(ctx, repository.TenantsFilter{})
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	rents := map[string]int64{}
	for _, t := range tenants {
		counts[t.PropertyID]++
		rents[t.PropertyID] += t.Rent
	}

	out := make([]PropertyWithOccupancy, 0, len(props))
	for _, p := range props {
		out = append(out, PropertyWithOccupancy{
			Property:    p,
			TenantCount: counts[p.ID],
			MonthlyRent: rents[p.ID],
		})
	}
	return out, nil
}

func (s *PropertyService) Create(ctx context.Context, p *domain.Property) error {
	if p.Name == "" {
		return &domain.ValidationError{Field: "name", Message: "name is required"}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := s.properties.Create(ctx, p); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionProperties, "created", p.ID)
	}
	return nil
}

func (s *PropertyService) Update(ctx context.Context, p *domain.Property) error {
	if p.Name == "" {
		return &domain.ValidationError{Field: "name", Message: "name is required"}
	}
	if err := s.properties.Update(ctx, p); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionProperties, "updated", p.ID)
	}
	return nil
}

// Delete refuses while any active tenant still lives there.
func (s *PropertyService) Delete(ctx context.Context, id string) error {
	tenants, err := s.tenants.List(ctx, repository.TenantsFilter{PropertyID: &id})
	if err != nil {
		return err
	}
	if len(tenants) > 0 {
		return &domain.ValidationError{Field: "id", Message: "property still has active tenants"}
	}
	if err := s.properties.Delete(ctx, id); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionProperties, "deleted", id)
	}
	return nil
}
