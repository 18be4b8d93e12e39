package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/commacards/card-subscriptions/internal/cache"
	"github.com/commacards/card-subscriptions/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListPlans(ctx context.Context) ([]models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Plan), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func seven() *int { d := 7; return &d }

var dbPlans = []models.Plan{
	{ID: "Novice", Name: "Novice"},
	{ID: "Corporate", Name: "Corporate", TrialDays: seven()},
	{ID: "Elite", Name: "Elite"},
}

func TestService_List(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(r *RepoMock, c *CacheMock)
		wantIDs []string
		wantErr bool
	}{
		{
			name: "cache miss loads from repository and injects free plan",
			setup: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, cache.PlansKey, mock.Anything).Return(false, nil).Once()
				r.On("ListPlans", mock.Anything).Return(dbPlans, nil).Once()
				c.On("Set", mock.Anything, cache.PlansKey, dbPlans, time.Minute).Return(nil).Once()
			},
			wantIDs: []string{"free", "Novice", "Corporate", "Elite"},
		},
		{
			name: "cache hit skips repository",
			setup: func(_ *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, cache.PlansKey, mock.Anything).
					Run(func(args mock.Arguments) {
						out := args.Get(2).(*[]models.Plan)
						*out = []models.Plan{{ID: "Elite"}}
					}).Return(true, nil).Once()
			},
			wantIDs: []string{"free", "Elite"},
		},
		{
			name: "free plan already present is not duplicated",
			setup: func(r *RepoMock, c *CacheMock) {
				withFree := []models.Plan{{ID: "Novice"}, {ID: "free", Name: "Free forever"}}
				c.On("Get", mock.Anything, cache.PlansKey, mock.Anything).Return(false, nil).Once()
				r.On("ListPlans", mock.Anything).Return(withFree, nil).Once()
				c.On("Set", mock.Anything, cache.PlansKey, withFree, time.Minute).Return(nil).Once()
			},
			wantIDs: []string{"Novice", "free"},
		},
		{
			name: "cache failure falls through to repository",
			setup: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, cache.PlansKey, mock.Anything).Return(false, errors.New("redis down")).Once()
				r.On("ListPlans", mock.Anything).Return(dbPlans, nil).Once()
				c.On("Set", mock.Anything, cache.PlansKey, dbPlans, time.Minute).Return(errors.New("redis down")).Once()
			},
			wantIDs: []string{"free", "Novice", "Corporate", "Elite"},
		},
		{
			name: "repository error",
			setup: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, cache.PlansKey, mock.Anything).Return(false, nil).Once()
				r.On("ListPlans", mock.Anything).Return(nil, errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, c := new(RepoMock), new(CacheMock)
			tt.setup(repo, c)
			svc := New(repo, c, time.Minute, newNoopLogger())

			got, err := svc.List(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			repo.AssertExpectations(t)
			c.AssertExpectations(t)
		})
	}
}

func TestService_Get(t *testing.T) {
	repo, c := new(RepoMock), new(CacheMock)
	c.On("Get", mock.Anything, cache.PlansKey, mock.Anything).Return(false, nil)
	c.On("Set", mock.Anything, cache.PlansKey, mock.Anything, time.Minute).Return(nil)
	repo.On("ListPlans", mock.Anything).Return(dbPlans, nil)
	svc := New(repo, c, time.Minute, newNoopLogger())

	p, err := svc.Get(context.Background(), "Corporate")
	require.NoError(t, err)
	days, ok := p.TrialOverride()
	assert.True(t, ok)
	assert.Equal(t, 7, days)

	_, err = svc.Get(context.Background(), "Platinum")
	require.ErrorIs(t, err, models.ErrUnknownPlan)

	_, err = svc.Get(context.Background(), models.FreePlanID)
	require.ErrorIs(t, err, models.ErrUnknownPlan, "free plan is display-only")
}

func TestService_Refresh(t *testing.T) {
	repo, c := new(RepoMock), new(CacheMock)
	c.On("Invalidate", mock.Anything, cache.PlansKey).Return(nil).Once()

	require.NoError(t, New(repo, c, time.Minute, newNoopLogger()).Refresh(context.Background()))
	c.AssertExpectations(t)
}
