package trial

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/commacards/card-subscriptions/internal/models"
)

// ErrInvalidInterval возвращается, если интервал обновления не положителен.
var ErrInvalidInterval = errors.New("countdown interval must be positive")

// Countdown периодически пересчитывает статус пробного периода для отображения.
// Обязательно вызывайте Stop, когда отображение больше не нужно.
type Countdown struct {
	stopCh chan struct{}
	done   chan struct{}
	once   sync.Once
}

// StartCountdown сразу вызывает onTick со статусом на текущий момент,
// а затем повторяет расчёт каждые every. Хранилище не перечитывается:
// пересчёт идёт только по переданной записи.
// Отсчёт останавливается при отмене ctx или вызове Stop.
func StartCountdown(ctx context.Context, rec models.SubscriptionRecord, every time.Duration,
	now func() time.Time, onTick func(models.TrialStatus)) (*Countdown, error) {
	if every <= 0 {
		return nil, ErrInvalidInterval
	}
	if now == nil {
		now = time.Now
	}
	c := &Countdown{
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}

	onTick(Resolve(rec, now()))

	go func() {
		defer close(c.done)
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stopCh:
				return
			case <-ticker.C:
				onTick(Resolve(rec, now()))
			}
		}
	}()

	return c, nil
}

// Stop останавливает отсчёт и дожидается завершения горутины. Повторный вызов безопасен.
func (c *Countdown) Stop() {
	c.once.Do(func() { close(c.stopCh) })
	<-c.done
}

// Done закрывается, когда отсчёт завершён.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}
