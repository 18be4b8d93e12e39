// Package lifecycle содержит бизнес-логику жизненного цикла подписки профиля:
// глобальную настройку пробного периода, назначение плана и цикла оплаты,
// запуск пробного периода и расчёт оставшегося времени.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/commacards/card-subscriptions/internal/cache"
	"github.com/commacards/card-subscriptions/internal/lib/sl"
	"github.com/commacards/card-subscriptions/internal/lib/trial"
	"github.com/commacards/card-subscriptions/internal/models"
)

// TrialControlStore хранит глобальную настройку пробного периода.
type TrialControlStore interface {
	ReadTrialControl(ctx context.Context) (models.TrialControl, error)
	WriteTrialControl(ctx context.Context, next models.TrialControl) (models.TrialControl, error)
}

// SubscriptionStore хранит записи подписок профилей.
type SubscriptionStore interface {
	SaveSubscription(ctx context.Context, rec models.SubscriptionRecord) (models.SubscriptionRecord, error)
	GetSubscription(ctx context.Context, profileID string) (models.SubscriptionRecord, error)
}

// PlanCatalog ищет план по идентификатору.
type PlanCatalog interface {
	Get(ctx context.Context, id string) (models.Plan, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Publisher публикует события жизненного цикла.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// Recorder учитывает изменения в метриках.
type Recorder interface {
	TrialStarted(plan string)
	SubscriptionChanged(cycle string)
	TrialControlUpdated()
	MutationRejected(reason string)
}

// Deps — зависимости сервиса.
type Deps struct {
	Control       TrialControlStore
	Subscriptions SubscriptionStore
	Plans         PlanCatalog
	Cache         Cache
	Publisher     Publisher
	Recorder      Recorder
	CacheTTL      time.Duration
}

// Service реализует операции жизненного цикла.
type Service struct {
	control  TrialControlStore
	subs     SubscriptionStore
	plans    PlanCatalog
	cache    Cache
	pub      Publisher
	rec      Recorder
	cacheTTL time.Duration
	log      *slog.Logger
	now      func() time.Time
}

// New создаёт сервис. Publisher и Recorder необязательны.
func New(deps Deps, log *slog.Logger) *Service {
	s := &Service{
		control:  deps.Control,
		subs:     deps.Subscriptions,
		plans:    deps.Plans,
		cache:    deps.Cache,
		pub:      deps.Publisher,
		rec:      deps.Recorder,
		cacheTTL: deps.CacheTTL,
		log:      log,
		now:      time.Now,
	}
	if s.pub == nil {
		s.pub = noopPublisher{}
	}
	if s.rec == nil {
		s.rec = noopRecorder{}
	}
	return s
}

// WithClock подменяет источник текущего времени.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetTrialControl возвращает глобальную настройку пробного периода.
func (s *Service) GetTrialControl(ctx context.Context) (models.TrialControl, error) {
	const op = "lifecycle.GetTrialControl"

	var tc models.TrialControl
	found, err := s.cache.Get(ctx, cache.TrialControlKey, &tc)
	if err != nil {
		s.log.Warn("failed to read trial control from cache", sl.Op(op), sl.Err(err))
	}
	if found {
		return tc, nil
	}

	tc, err = s.control.ReadTrialControl(ctx)
	if err != nil {
		return models.TrialControl{}, fmt.Errorf("%s: %w", op, err)
	}
	s.cacheSet(ctx, op, cache.TrialControlKey, tc)
	return tc, nil
}

// SetTrialControl полностью заменяет глобальную настройку.
// Записи подписок профилей не изменяются: включение настройки лишь делает
// пробный период доступным, но никому его не выдаёт.
func (s *Service) SetTrialControl(ctx context.Context, next models.TrialControl) (models.TrialControl, error) {
	const op = "lifecycle.SetTrialControl"

	if err := next.Validate(); err != nil {
		return models.TrialControl{}, s.reject(op, err)
	}

	stored, err := s.control.WriteTrialControl(ctx, next)
	if err != nil {
		if models.IsValidation(err) {
			return models.TrialControl{}, s.reject(op, err)
		}
		return models.TrialControl{}, fmt.Errorf("%s: %w", op, err)
	}

	s.cacheInvalidate(ctx, op, cache.TrialControlKey)
	s.rec.TrialControlUpdated()
	s.log.Info("trial control updated",
		slog.Bool("enabled", stored.Enabled),
		slog.Int("default_trial_days", stored.DefaultTrialDays))

	ev := s.newEvent(models.EventTrialControlChanged)
	ev.TrialControl = &stored
	s.publish(ctx, op, ev)
	return stored, nil
}

// SetSubscription назначает профилю план и цикл оплаты.
//
// Для платных циклов запись заменяется целиком: поля пробного периода сбрасываются,
// ActivatedAt сохраняется только если передан. Цикл trial без ExpiresAt
// запускает пробный период так же, как StartTrial. Явно заданное окно
// принимается, только если ExpiresAt позже ActivatedAt не более чем на
// models.MaxTrialDays и пробные периоды включены.
func (s *Service) SetSubscription(ctx context.Context, profileID string, req models.DummySubscription) (models.SubscriptionRecord, error) {
	const op = "lifecycle.SetSubscription"

	cycle, err := models.ParseCycle(req.Cycle)
	if err != nil {
		return models.SubscriptionRecord{}, s.reject(op, fmt.Errorf("%q: %w", req.Cycle, err))
	}

	plan, err := s.plans.Get(ctx, req.Plan)
	if err != nil {
		if errors.Is(err, models.ErrUnknownPlan) {
			return models.SubscriptionRecord{}, s.reject(op, err)
		}
		return models.SubscriptionRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	var activatedAt *time.Time
	if req.ActivatedAt != "" {
		t, err := models.ParseTimestamp(req.ActivatedAt)
		if err != nil {
			return models.SubscriptionRecord{}, s.reject(op, fmt.Errorf("activatedAt %q: %w", req.ActivatedAt, err))
		}
		activatedAt = &t
	}

	if cycle != models.CycleTrial {
		return s.save(ctx, op, models.SubscriptionRecord{
			ProfileID:   profileID,
			Plan:        plan.ID,
			Cycle:       cycle,
			ActivatedAt: activatedAt,
		}, models.EventSubscriptionChanged)
	}

	if req.ExpiresAt == "" {
		return s.startTrial(ctx, op, profileID, plan)
	}

	expiresAt, err := models.ParseTimestamp(req.ExpiresAt)
	if err != nil {
		return models.SubscriptionRecord{}, s.reject(op, fmt.Errorf("expiresAt %q: %w", req.ExpiresAt, err))
	}
	if activatedAt == nil {
		now := s.now().UTC()
		activatedAt = &now
	}
	rec := models.SubscriptionRecord{
		ProfileID:   profileID,
		Plan:        plan.ID,
		Cycle:       models.CycleTrial,
		ActivatedAt: activatedAt,
		ExpiresAt:   &expiresAt,
	}
	if !rec.HasTrialWindow() || expiresAt.Sub(*activatedAt) > models.MaxTrialDays*trial.Day {
		return models.SubscriptionRecord{}, s.reject(op, models.ErrInvalidTrialWindow)
	}
	if err := s.requireTrialsEnabled(ctx, op); err != nil {
		return models.SubscriptionRecord{}, err
	}

	return s.save(ctx, op, rec, models.EventTrialStarted)
}

// StartTrial запускает (или перезапускает) пробный период профиля на плане planID.
// Повторный запуск начинает отсчёт заново, оставшиеся дни не суммируются.
func (s *Service) StartTrial(ctx context.Context, profileID, planID string) (models.SubscriptionRecord, error) {
	const op = "lifecycle.StartTrial"

	plan, err := s.plans.Get(ctx, planID)
	if err != nil {
		if errors.Is(err, models.ErrUnknownPlan) {
			return models.SubscriptionRecord{}, s.reject(op, err)
		}
		return models.SubscriptionRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return s.startTrial(ctx, op, profileID, plan)
}

func (s *Service) startTrial(ctx context.Context, op, profileID string, plan models.Plan) (models.SubscriptionRecord, error) {
	control, err := s.GetTrialControl(ctx)
	if err != nil {
		return models.SubscriptionRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	if !control.Enabled {
		return models.SubscriptionRecord{}, s.reject(op, models.ErrTrialsDisabled)
	}

	days := trial.Days(plan, control)
	if days > models.MaxTrialDays {
		return models.SubscriptionRecord{}, s.reject(op, fmt.Errorf("trial days %d: %w", days, models.ErrInvalidConfig))
	}
	activatedAt, expiresAt := trial.Window(s.now().UTC(), days)
	rec := models.SubscriptionRecord{
		ProfileID:   profileID,
		Plan:        plan.ID,
		Cycle:       models.CycleTrial,
		ActivatedAt: &activatedAt,
		ExpiresAt:   &expiresAt,
	}
	if !rec.HasTrialWindow() {
		return models.SubscriptionRecord{}, s.reject(op, models.ErrInvalidTrialWindow)
	}

	rec, err = s.save(ctx, op, rec, models.EventTrialStarted)
	if err != nil {
		return models.SubscriptionRecord{}, err
	}
	s.log.Info("trial started",
		slog.String("profile_id", profileID),
		slog.String("plan", plan.ID),
		slog.Int("days", days))
	return rec, nil
}

// GetSubscription возвращает запись подписки профиля или models.ErrSubscriptionNotFound.
func (s *Service) GetSubscription(ctx context.Context, profileID string) (models.SubscriptionRecord, error) {
	const op = "lifecycle.GetSubscription"
	key := cache.SubscriptionKey(profileID)

	var rec models.SubscriptionRecord
	found, err := s.cache.Get(ctx, key, &rec)
	if err != nil {
		s.log.Warn("failed to read subscription from cache", sl.Op(op), sl.Err(err))
	}
	if found {
		return rec, nil
	}

	rec, err = s.subs.GetSubscription(ctx, profileID)
	if err != nil {
		return models.SubscriptionRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	s.cacheSet(ctx, op, key, rec)
	return rec, nil
}

// TrialRemaining возвращает статус пробного периода профиля на текущий момент.
// Профиль без записи считается профилем без активного пробного периода.
func (s *Service) TrialRemaining(ctx context.Context, profileID string) (models.TrialRemaining, error) {
	const op = "lifecycle.TrialRemaining"

	rec, err := s.GetSubscription(ctx, profileID)
	if errors.Is(err, models.ErrSubscriptionNotFound) {
		return trial.Remaining(nil, s.now()), nil
	}
	if err != nil {
		return models.TrialRemaining{}, fmt.Errorf("%s: %w", op, err)
	}
	return trial.Remaining(&rec, s.now()), nil
}

func (s *Service) requireTrialsEnabled(ctx context.Context, op string) error {
	control, err := s.GetTrialControl(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !control.Enabled {
		return s.reject(op, models.ErrTrialsDisabled)
	}
	return nil
}

func (s *Service) save(ctx context.Context, op string, rec models.SubscriptionRecord, eventType string) (models.SubscriptionRecord, error) {
	saved, err := s.subs.SaveSubscription(ctx, rec)
	if err != nil {
		return models.SubscriptionRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	s.cacheInvalidate(ctx, op, cache.SubscriptionKey(saved.ProfileID))
	s.rec.SubscriptionChanged(string(saved.Cycle))
	if eventType == models.EventTrialStarted {
		s.rec.TrialStarted(saved.Plan)
	}
	s.log.Info("subscription saved",
		slog.String("profile_id", saved.ProfileID),
		slog.String("plan", saved.Plan),
		slog.String("cycle", string(saved.Cycle)))

	ev := s.newEvent(eventType)
	ev.Subscription = &saved
	s.publish(ctx, op, ev)
	return saved, nil
}

func (s *Service) reject(op string, err error) error {
	s.rec.MutationRejected(rejectReason(err))
	s.log.Info("lifecycle mutation rejected", sl.Op(op), sl.Err(err))
	return fmt.Errorf("%s: %w", op, err)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidConfig):
		return "invalid_config"
	case errors.Is(err, models.ErrUnknownPlan):
		return "unknown_plan"
	case errors.Is(err, models.ErrInvalidCycle):
		return "invalid_cycle"
	case errors.Is(err, models.ErrTrialsDisabled):
		return "trials_disabled"
	case errors.Is(err, models.ErrInvalidTrialWindow):
		return "invalid_trial_window"
	case errors.Is(err, models.ErrInvalidTimestamp):
		return "invalid_timestamp"
	default:
		return "other"
	}
}

func (s *Service) cacheSet(ctx context.Context, op, key string, value any) {
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.log.Warn("failed to update cache", sl.Op(op), slog.String("key", key), sl.Err(err))
	}
}

// cacheInvalidate сбрасывает ключ после записи в хранилище. Следующее чтение
// возьмёт значение из хранилища, поэтому кэш не расходится с победившей записью.
func (s *Service) cacheInvalidate(ctx context.Context, op, key string) {
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to invalidate cache", sl.Op(op), slog.String("key", key), sl.Err(err))
	}
}

func (s *Service) newEvent(eventType string) models.LifecycleEvent {
	return models.LifecycleEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: s.now().UTC(),
	}
}

func (s *Service) publish(ctx context.Context, op string, ev models.LifecycleEvent) {
	if err := s.pub.Publish(ctx, ev.Type, ev); err != nil {
		s.log.Warn("failed to publish lifecycle event",
			sl.Op(op), slog.String("event", ev.Type), sl.Err(err))
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error { return nil }

type noopRecorder struct{}

func (noopRecorder) TrialStarted(string)        {}
func (noopRecorder) SubscriptionChanged(string) {}
func (noopRecorder) TrialControlUpdated()       {}
func (noopRecorder) MutationRejected(string)    {}
