// Package notifier периодически находит пробные периоды, которые скоро закончатся,
// и публикует уведомления trial.expiring. Записи подписок не изменяются.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/commacards/card-subscriptions/internal/lib/sl"
	"github.com/commacards/card-subscriptions/internal/lib/trial"
	"github.com/commacards/card-subscriptions/internal/models"
)

// Repository ищет пробные периоды по времени окончания.
type Repository interface {
	FindTrialsExpiringBetween(ctx context.Context, from, to time.Time) ([]models.SubscriptionRecord, error)
}

// Publisher публикует события.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// Recorder учитывает отправленные уведомления.
type Recorder interface {
	ExpiringNoticePublished()
}

// Service рассылает уведомления об окончании пробного периода.
type Service struct {
	repo     Repository
	pub      Publisher
	rec      Recorder
	interval time.Duration
	window   time.Duration
	log      *slog.Logger
	now      func() time.Time

	// Конец уже просмотренного интервала: каждый пробный период
	// попадает в уведомления один раз за время жизни процесса.
	lastTo time.Time
}

// New создаёт сервис. Уведомления отправляются за window до окончания,
// проверка выполняется каждые interval.
func New(repo Repository, pub Publisher, rec Recorder, interval, window time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		pub:      pub,
		rec:      rec,
		interval: interval,
		window:   window,
		log:      log,
		now:      time.Now,
	}
}

// Run выполняет проверку сразу и затем каждые interval до отмены ctx.
func (s *Service) Run(ctx context.Context) {
	s.Check(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("trial notifier stopped")
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

// Check выполняет одну проверку и пишет её итог в лог.
func (s *Service) Check(ctx context.Context) {
	sent, err := s.Tick(ctx)
	if err != nil {
		s.log.Error("failed to notify expiring trials", sl.Err(err))
		return
	}
	if sent == 0 {
		s.log.Info("no expiring trials found")
		return
	}
	s.log.Info("published expiring trial notices", slog.Int("count", sent))
}

// Tick публикует уведомления для пробных периодов, окончание которых
// вошло в окно с прошлой проверки. Возвращает число отправленных уведомлений.
func (s *Service) Tick(ctx context.Context) (int, error) {
	const op = "notifier.Tick"
	now := s.now().UTC()
	from := s.lastTo
	if from.Before(now) {
		from = now
	}
	to := now.Add(s.window)

	records, err := s.repo.FindTrialsExpiringBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.lastTo = to

	sent := 0
	for _, rec := range records {
		status := trial.Resolve(rec, now)
		if !status.IsActive {
			continue
		}
		subscription := rec
		daysLeft := status.DaysLeft
		ev := models.LifecycleEvent{
			ID:           uuid.NewString(),
			Type:         models.EventTrialExpiring,
			OccurredAt:   now,
			Subscription: &subscription,
			DaysLeft:     &daysLeft,
		}
		if err := s.pub.Publish(ctx, models.EventTrialExpiring, ev); err != nil {
			s.log.Error("failed to publish message", sl.Op(op),
				slog.String("profile_id", rec.ProfileID), sl.Err(err))
			continue
		}
		s.rec.ExpiringNoticePublished()
		sent++
	}
	return sent, nil
}
