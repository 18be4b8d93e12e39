package lifecycle

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/commacards/card-subscriptions/internal/cache"
	"github.com/commacards/card-subscriptions/internal/config"
	"github.com/commacards/card-subscriptions/internal/metrics"
	"github.com/commacards/card-subscriptions/internal/models"
)

type ControlMock struct{ mock.Mock }

func (m *ControlMock) ReadTrialControl(ctx context.Context) (models.TrialControl, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.TrialControl), args.Error(1)
}

func (m *ControlMock) WriteTrialControl(ctx context.Context, next models.TrialControl) (models.TrialControl, error) {
	args := m.Called(ctx, next)
	return args.Get(0).(models.TrialControl), args.Error(1)
}

type SubsMock struct{ mock.Mock }

func (m *SubsMock) SaveSubscription(ctx context.Context, rec models.SubscriptionRecord) (models.SubscriptionRecord, error) {
	args := m.Called(ctx, rec)
	if fn, ok := args.Get(0).(func(models.SubscriptionRecord) models.SubscriptionRecord); ok {
		return fn(rec), args.Error(1)
	}
	return args.Get(0).(models.SubscriptionRecord), args.Error(1)
}

func (m *SubsMock) GetSubscription(ctx context.Context, profileID string) (models.SubscriptionRecord, error) {
	args := m.Called(ctx, profileID)
	if fn, ok := args.Get(0).(func(string) (models.SubscriptionRecord, error)); ok {
		return fn(profileID)
	}
	return args.Get(0).(models.SubscriptionRecord), args.Error(1)
}

type PlansMock struct{ mock.Mock }

func (m *PlansMock) Get(ctx context.Context, id string) (models.Plan, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Plan), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	return m.Called(ctx, routingKey, event).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func ptrInt(i int) *int { return &i }

var (
	novice    = models.Plan{ID: "Novice", Name: "Novice"}
	corporate = models.Plan{ID: "Corporate", Name: "Corporate", TrialDays: ptrInt(7)}
	elite     = models.Plan{ID: "Elite", Name: "Elite"}
)

type testEnv struct {
	control *ControlMock
	subs    *SubsMock
	plans   *PlansMock
	pub     *PublisherMock
	mr      *miniredis.Miniredis
	metrics *metrics.Metrics
	svc     *Service
	now     time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	e := &testEnv{
		control: new(ControlMock),
		subs:    new(SubsMock),
		plans:   new(PlansMock),
		pub:     new(PublisherMock),
		mr:      mr,
		metrics: metrics.New(prometheus.NewRegistry()),
		now:     time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	e.svc = New(Deps{
		Control:       e.control,
		Subscriptions: e.subs,
		Plans:         e.plans,
		Cache:         c,
		Publisher:     e.pub,
		Recorder:      e.metrics,
		CacheTTL:      time.Minute,
	}, newNoopLogger()).WithClock(func() time.Time { return e.now })

	for _, p := range []models.Plan{novice, corporate, elite} {
		e.plans.On("Get", mock.Anything, p.ID).Return(p, nil).Maybe()
	}
	return e
}

func (e *testEnv) withControl(tc models.TrialControl) {
	e.control.On("ReadTrialControl", mock.Anything).Return(tc, nil).Maybe()
}

func (e *testEnv) allowEvents() {
	e.pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
}

// allowSaves разрешает записи и отдаёт последнюю сохранённую запись профиля при чтении.
func (e *testEnv) allowSaves() {
	var mu sync.Mutex
	stored := make(map[string]models.SubscriptionRecord)

	e.subs.On("SaveSubscription", mock.Anything, mock.Anything).Return(func(rec models.SubscriptionRecord) models.SubscriptionRecord {
		mu.Lock()
		defer mu.Unlock()
		stored[rec.ProfileID] = rec
		return rec
	}, nil).Maybe()
	e.subs.On("GetSubscription", mock.Anything, mock.Anything).Return(func(profileID string) (models.SubscriptionRecord, error) {
		mu.Lock()
		defer mu.Unlock()
		rec, ok := stored[profileID]
		if !ok {
			return models.SubscriptionRecord{}, models.ErrSubscriptionNotFound
		}
		return rec, nil
	}, nil).Maybe()
}
