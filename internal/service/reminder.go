package service

import (
	"context"

	"rentledger/internal/domain"
	"rentledger/internal/repository"
	"rentledger/internal/rules"
)

// Reminder is a rendered message ready to be copied into WhatsApp or
// SMS by the admin. Sending is manual; the system only prepares text.
type Reminder struct {
	TenantID string `json:"tenantId"`
	Phone    string `json:"phone,omitempty"`
	Message  string `json:"message"`
}

type ReminderService struct {
	tenants    *repository.TenantRepository
	properties *repository.PropertyRepository
	settings   *SettingsService
}

func NewReminderService(tenants *repository.TenantRepository, properties *repository.PropertyRepository, settings *SettingsService) *ReminderService {
	return &ReminderService{tenants: tenants, properties: properties, settings: settings}
}

// Render builds the reminder for one tenant. Only Due and Overdue
// tenants are reminder-eligible.
func (s *ReminderService) Render(ctx context.Context, tenantID string) (*Reminder, error) {
	t, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	msgs, err := s.settings.ReminderMessages(ctx)
	if err != nil {
		return nil, err
	}

	template, ok := rules.ReminderTemplate(t.Status, msgs)
	if !ok {
		return nil, &domain.ValidationError{Field: "status", Message: "tenant is not due for a reminder"}
	}

	propertyName := ""
	if t.PropertyID != "" {
		if p, err := s.properties.Get(ctx, t.PropertyID); err == nil {
			propertyName = p.Name
		}
	}

	r := &Reminder{
		TenantID: t.ID,
		Message:  rules.RenderReminder(template, *t, propertyName),
	}
	if t.Phone != nil {
		r.Phone = *t.Phone
	}
	return r, nil
}

// RenderAll prepares reminders for every Due and Overdue tenant,
// skipping the rest silently.
func (s *ReminderService) RenderAll(ctx context.Context) ([]Reminder, error) {
	msgs, err := s.settings.ReminderMessages(ctx)
	if err != nil {
		return nil, err
	}

	tenants, err := s.tenants.List(ctx, repository.TenantsFilter{})
	if err != nil {
		return nil, err
	}

	names := map[string]string{}
	if props, err := s.properties.List(ctx); err == nil {
		for _, p := range props {
			names[p.ID] = p.Name
		}
	}

	var out []Reminder
	for _, t := range tenants {
		template, ok := rules.ReminderTemplate(t.Status, msgs)
		if !ok {
			continue
		}
		r := Reminder{
			TenantID: t.ID,
			Message:  rules.RenderReminder(template, t, names[t.PropertyID]),
		}
		if t.Phone != nil {
			r.Phone = *t.Phone
		}
		out = append(out, r)
	}
	return out, nil
}
