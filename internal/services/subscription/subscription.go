// Package subscription содержит бизнес-логику управления подписками:
// кэширование, выборку, сводку и выгрузку.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-tracker/internal/events"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/cost"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/services/query"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

// CacheTTL время жизни записи в кэше.
const CacheTTL = time.Hour

// Области выгрузки CSV.
const (
	ExportScopePage = "page"
	ExportScopeAll  = "all"
)

// Repository определяет методы хранилища подписок.
type Repository interface {
	UpsertSubscription(ctx context.Context, userID, id string, in models.SubscriptionInput) (*models.Subscription, error)
	GetSubscription(ctx context.Context, userID, id string) (*models.Subscription, error)
	DeleteSubscription(ctx context.Context, userID, id string) (bool, error)
	ListSubscriptions(ctx context.Context, userID string) ([]models.Subscription, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service реализует операции над подписками конкретного пользователя.
type Service struct {
	repo      Repository
	cache     Cache
	publisher events.Publisher
	log       *slog.Logger
	// кэш и хранилище по одному ключу меняются под общим мьютексом
	locks *keyLocks
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, publisher events.Publisher, log *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
		locks:     newKeyLocks(),
	}
}

func cacheKey(userID, id string) string {
	return fmt.Sprintf("subscription:%s:%s", userID, id)
}

// Create сохраняет новую подписку пользователя.
func (s *Service) Create(ctx context.Context, userID string, in models.SubscriptionInput) (*models.SubscriptionWithCost, error) {
	const op = "services.subscription.Create"

	sub, err := s.repo.UpsertSubscription(ctx, userID, "", in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new subscription", slog.String("id", sub.ID))
	events.Emit(ctx, s.log, s.publisher, events.New(events.SubscriptionCreated, userID, sub))

	res := cost.WithCost(*sub)
	return &res, nil
}

// Update заменяет изменяемые поля подписки и сбрасывает запись кэша.
func (s *Service) Update(ctx context.Context, userID, id string, in models.SubscriptionInput) (*models.SubscriptionWithCost, error) {
	const op = "services.subscription.Update"

	key := cacheKey(userID, id)
	unlock := s.locks.lock(key)
	defer unlock()

	sub, err := s.repo.UpsertSubscription(ctx, userID, id, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
	events.Emit(ctx, s.log, s.publisher, events.New(events.SubscriptionUpdated, userID, sub))

	res := cost.WithCost(*sub)
	return &res, nil
}

// Read возвращает подписку, сначала заглядывая в кэш.
func (s *Service) Read(ctx context.Context, userID, id string) (*models.SubscriptionWithCost, error) {
	const op = "services.subscription.Read"

	key := cacheKey(userID, id)
	unlock := s.locks.lock(key)
	defer unlock()

	var cached models.Subscription
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", key), sl.Err(err))
	}
	if found && err == nil && cached.UserID == userID {
		res := cost.WithCost(cached)
		return &res, nil
	}

	sub, err := s.repo.GetSubscription(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, key, sub, CacheTTL); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
	}

	res := cost.WithCost(*sub)
	return &res, nil
}

// Remove удаляет подписку и после этого инвалидирует кэш.
func (s *Service) Remove(ctx context.Context, userID, id string) error {
	const op = "services.subscription.Remove"

	key := cacheKey(userID, id)
	unlock := s.locks.lock(key)
	defer unlock()

	deleted, err := s.repo.DeleteSubscription(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
	if !deleted {
		return fmt.Errorf("%s: %w", op, storage.ErrSubscriptionNotFound)
	}
	events.Emit(ctx, s.log, s.publisher, events.Event{
		Type:           events.SubscriptionDeleted,
		UserID:         userID,
		SubscriptionID: id,
		OccurredAt:     time.Now().UTC(),
	})
	return nil
}

// List возвращает страницу подписок пользователя.
func (s *Service) List(ctx context.Context, userID string, q models.ListQuery) (models.Page, error) {
	const op = "services.subscription.List"

	items, err := s.repo.ListSubscriptions(ctx, userID)
	if err != nil {
		return models.Page{}, fmt.Errorf("%s: %w", op, err)
	}
	return query.Apply(items, q), nil
}

// Summary считает количество подписок и суммарную стоимость активных
// после фильтров по периоду и имени.
func (s *Service) Summary(ctx context.Context, userID string, q models.ListQuery) (models.Summary, error) {
	const op = "services.subscription.Summary"

	items, err := s.repo.ListSubscriptions(ctx, userID)
	if err != nil {
		return models.Summary{}, fmt.Errorf("%s: %w", op, err)
	}

	filtered := query.Filter(items, q)
	var (
		active  int
		monthly float64
	)
	for _, it := range filtered {
		if !it.IsActive {
			continue
		}
		active++
		monthly += cost.MonthlyCost(it.BaseCost, it.TaxRate, it.BillingCycle)
	}

	return models.Summary{
		Count:        len(filtered),
		ActiveCount:  active,
		MonthlyTotal: cost.Round2(monthly),
		AnnualTotal:  cost.Round2(monthly * 12),
	}, nil
}

// Export возвращает строки для выгрузки: текущую страницу выборки
// или все подходящие записи.
func (s *Service) Export(ctx context.Context, userID string, q models.ListQuery, scope string) ([]models.SubscriptionWithCost, error) {
	const op = "services.subscription.Export"

	items, err := s.repo.ListSubscriptions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if scope == ExportScopeAll {
		return query.Sorted(items, q), nil
	}
	return query.Apply(items, q).Items, nil
}
