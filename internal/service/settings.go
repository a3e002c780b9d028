package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"rentledger/internal/clients"
	"rentledger/internal/domain"
	"rentledger/internal/repository"
)

const (
	paymentRulesCacheKey = "settings:paymentRules"
	settingsCacheTTL     = 5 * time.Minute
)

// SettingsService serves the configuration documents. Payment rules are
// read on every status evaluation and every verification, so they are
// cached in redis; saves invalidate the cache before notifying clients.
type SettingsService struct {
	repo   *repository.SettingsRepository
	redis  *clients.RedisClient
	events *clients.EventsClient
}

func NewSettingsService(repo *repository.SettingsRepository, redis *clients.RedisClient, events *clients.EventsClient) *SettingsService {
	return &SettingsService{repo: repo, redis: redis, events: events}
}

// PaymentRules returns the active rules snapshot. A missing document
// falls back to the defaults; the snapshot is immutable for the
// duration of the operation that fetched it.
func (s *SettingsService) PaymentRules(ctx context.Context) domain.PaymentRules {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, paymentRulesCacheKey); err == nil {
			var rules domain.PaymentRules
			if err := json.Unmarshal([]byte(cached), &rules); err == nil {
				return rules
			}
		}
	}

	rules := domain.DefaultPaymentRules()
	err := s.repo.Get(ctx, repository.SettingsPaymentRules, &rules)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		log.Printf("[SETTINGS] payment rules read error, using defaults: %v", err)
		return domain.DefaultPaymentRules()
	}

	if s.redis != nil {
		if data, err := json.Marshal(rules); err == nil {
			_ = s.redis.Set(ctx, paymentRulesCacheKey, string(data), settingsCacheTTL)
		}
	}
	return rules
}

func (s *SettingsService) SavePaymentRules(ctx context.Context, rules domain.PaymentRules) error {
	if rules.LateFeePerDay < 0 {
		return &domain.ValidationError{Field: "lateFeePerDay", Message: "late fee per day must not be negative"}
	}
	if rules.GracePeriodDays < 0 {
		return &domain.ValidationError{Field: "gracePeriodDays", Message: "grace period must not be negative"}
	}
	if rules.PaymentWindowDaysBefore < 0 {
		return &domain.ValidationError{Field: "paymentWindowDaysBefore", Message: "payment window must not be negative"}
	}

	if err := s.repo.Set(ctx, repository.SettingsPaymentRules, rules); err != nil {
		return err
	}
	if s.redis != nil {
		_ = s.redis.Del(ctx, paymentRulesCacheKey)
	}
	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionSettings, "updated", repository.SettingsPaymentRules)
	}
	return nil
}

func (s *SettingsService) BusinessInfo(ctx context.Context) (domain.BusinessInfo, error) {
	var info domain.BusinessInfo
	err := s.repo.Get(ctx, repository.SettingsBusinessInfo, &info)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.BusinessInfo{}, nil
	}
	return info, err
}

func (s *SettingsService) SaveBusinessInfo(ctx context.Context, info domain.BusinessInfo) error {
	if err := s.repo.Set(ctx, repository.SettingsBusinessInfo, info); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionSettings, "updated", repository.SettingsBusinessInfo)
	}
	return nil
}

func (s *SettingsService) ReminderMessages(ctx context.Context) (domain.ReminderMessages, error) {
	var msgs domain.ReminderMessages
	err := s.repo.Get(ctx, repository.SettingsReminderMessages, &msgs)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ReminderMessages{}, nil
	}
	return msgs, err
}

func (s *SettingsService) SaveReminderMessages(ctx context.Context, msgs domain.ReminderMessages) error {
	if err := s.repo.Set(ctx, repository.SettingsReminderMessages, msgs); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.NotifyCollectionChanged(ctx, clients.CollectionSettings, "updated", repository.SettingsReminderMessages)
	}
	return nil
}
