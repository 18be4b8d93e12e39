// Package catalog предоставляет каталог тарифных планов с кэшированием.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/commacards/card-subscriptions/internal/cache"
	"github.com/commacards/card-subscriptions/internal/lib/sl"
	"github.com/commacards/card-subscriptions/internal/models"
)

// Repository читает планы из хранилища.
type Repository interface {
	ListPlans(ctx context.Context) ([]models.Plan, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service отдаёт каталог планов: из кэша, а при промахе из хранилища.
type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// New создаёт сервис каталога.
func New(repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// List возвращает каталог для отображения. Если бесплатного плана в каталоге нет,
// он добавляется первым.
func (s *Service) List(ctx context.Context) ([]models.Plan, error) {
	const op = "catalog.List"
	plans, err := s.plans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, p := range plans {
		if p.ID == models.FreePlanID {
			return plans, nil
		}
	}
	res := make([]models.Plan, 0, len(plans)+1)
	res = append(res, models.FreePlan())
	return append(res, plans...), nil
}

// Get возвращает план по идентификатору или models.ErrUnknownPlan.
// Бесплатный план, добавляемый для отображения, здесь не учитывается.
func (s *Service) Get(ctx context.Context, id string) (models.Plan, error) {
	const op = "catalog.Get"
	plans, err := s.plans(ctx)
	if err != nil {
		return models.Plan{}, fmt.Errorf("%s: %w", op, err)
	}
	for _, p := range plans {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Plan{}, fmt.Errorf("%s: %q: %w", op, id, models.ErrUnknownPlan)
}

// Refresh сбрасывает закэшированный каталог.
func (s *Service) Refresh(ctx context.Context) error {
	return s.cache.Invalidate(ctx, cache.PlansKey)
}

func (s *Service) plans(ctx context.Context) ([]models.Plan, error) {
	var cached []models.Plan
	found, err := s.cache.Get(ctx, cache.PlansKey, &cached)
	if err != nil {
		s.log.Warn("failed to read plans from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cache.PlansKey, plans, s.ttl); err != nil {
		s.log.Warn("failed to cache plans", sl.Err(err))
	}
	return plans, nil
}
