package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commacards/card-subscriptions/internal/models"
)

func TestStorage_CheckDatabaseReady(t *testing.T) {
	storage := setupTestDatabase(t)
	require.NoError(t, storage.CheckDatabaseReady(context.Background()))
}

func TestStorage_TrialControl(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()

	got, err := storage.ReadTrialControl(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.TrialControl{Enabled: false, DefaultTrialDays: 0}, got, "first read creates the default")

	tests := []struct {
		name string
		next models.TrialControl
	}{
		{name: "enable with fourteen days", next: models.TrialControl{Enabled: true, DefaultTrialDays: 14}},
		{name: "disable keeps days", next: models.TrialControl{Enabled: false, DefaultTrialDays: 14}},
		{name: "zero days", next: models.TrialControl{Enabled: true, DefaultTrialDays: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored, err := storage.WriteTrialControl(ctx, tt.next)
			require.NoError(t, err)
			assert.Equal(t, tt.next, stored)

			read, err := storage.ReadTrialControl(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.next, read)
		})
	}
}

func TestStorage_WriteTrialControl_RejectsNegative(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()

	_, err := storage.WriteTrialControl(ctx, models.TrialControl{Enabled: true, DefaultTrialDays: 5})
	require.NoError(t, err)

	_, err = storage.WriteTrialControl(ctx, models.TrialControl{Enabled: true, DefaultTrialDays: -1})
	require.ErrorIs(t, err, models.ErrInvalidConfig)

	read, err := storage.ReadTrialControl(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.TrialControl{Enabled: true, DefaultTrialDays: 5}, read)
}

func TestStorage_Subscription(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()

	_, err := storage.GetSubscription(ctx, "p1")
	require.ErrorIs(t, err, models.ErrSubscriptionNotFound)

	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	trialRec := models.SubscriptionRecord{
		ProfileID:   "p1",
		Plan:        "Corporate",
		Cycle:       models.CycleTrial,
		ActivatedAt: ptrTime(start),
		ExpiresAt:   ptrTime(start.Add(7 * 24 * time.Hour)),
	}
	saved, err := storage.SaveSubscription(ctx, trialRec)
	require.NoError(t, err)
	assert.Equal(t, trialRec, saved)

	monthly := models.SubscriptionRecord{ProfileID: "p1", Plan: "Elite", Cycle: models.CycleMonthly}
	saved, err = storage.SaveSubscription(ctx, monthly)
	require.NoError(t, err)

	got, err := storage.GetSubscription(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, saved, got)
	assert.Equal(t, models.CycleMonthly, got.Cycle)
	assert.Nil(t, got.ActivatedAt)
	assert.Nil(t, got.ExpiresAt)
}

func TestStorage_SaveSubscription_UnknownPlanRejected(t *testing.T) {
	storage := setupTestDatabase(t)

	_, err := storage.SaveSubscription(context.Background(), models.SubscriptionRecord{
		ProfileID: "p1",
		Plan:      "Platinum",
		Cycle:     models.CycleMonthly,
	})
	require.Error(t, err)
}

func TestStorage_FindTrialsExpiringBetween(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	records := []models.SubscriptionRecord{
		{ProfileID: "soon", Plan: "Novice", Cycle: models.CycleTrial,
			ActivatedAt: ptrTime(now.Add(-6 * 24 * time.Hour)), ExpiresAt: ptrTime(now.Add(12 * time.Hour))},
		{ProfileID: "later", Plan: "Novice", Cycle: models.CycleTrial,
			ActivatedAt: ptrTime(now), ExpiresAt: ptrTime(now.Add(5 * 24 * time.Hour))},
		{ProfileID: "expired", Plan: "Novice", Cycle: models.CycleTrial,
			ActivatedAt: ptrTime(now.Add(-8 * 24 * time.Hour)), ExpiresAt: ptrTime(now.Add(-time.Hour))},
		{ProfileID: "paid", Plan: "Elite", Cycle: models.CycleQuarterly, ActivatedAt: ptrTime(now)},
	}
	for _, rec := range records {
		_, err := storage.SaveSubscription(ctx, rec)
		require.NoError(t, err)
	}

	got, err := storage.FindTrialsExpiringBetween(ctx, now, now.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "soon", got[0].ProfileID)
}

func TestStorage_Plans(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()

	plans, err := storage.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, []string{"Novice", "Corporate", "Elite"}, []string{plans[0].ID, plans[1].ID, plans[2].ID})

	corporate, err := storage.GetPlan(ctx, "Corporate")
	require.NoError(t, err)
	days, ok := corporate.TrialOverride()
	assert.True(t, ok)
	assert.Equal(t, 7, days)
	assert.NotEmpty(t, corporate.Benefits)
	assert.InDelta(t, 9.99, corporate.Prices.Monthly, 0.001)

	novice, err := storage.GetPlan(ctx, "Novice")
	require.NoError(t, err)
	assert.Nil(t, novice.TrialDays)

	_, err = storage.GetPlan(ctx, "Platinum")
	require.ErrorIs(t, err, models.ErrUnknownPlan)
}

func TestStorage_CancelledContext(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.ReadTrialControl(ctx)
	require.ErrorIs(t, err, context.Canceled)
	_, err = storage.GetSubscription(ctx, "p1")
	require.ErrorIs(t, err, context.Canceled)
	_, err = storage.ListPlans(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
