package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/commacards/card-subscriptions/internal/models"
)

// SaveSubscription целиком заменяет запись подписки профиля и возвращает сохранённое состояние.
// При одновременной записи побеждает последняя.
func (s *Storage) SaveSubscription(ctx context.Context, rec models.SubscriptionRecord) (models.SubscriptionRecord, error) {
	const op = "storage.SaveSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return models.SubscriptionRecord{}, err
	}

	row := s.DB.QueryRowContext(ctx,
		`INSERT INTO profile_subscriptions (profile_id, plan, cycle, activated_at, expires_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (profile_id) DO UPDATE
		 SET plan = EXCLUDED.plan,
		     cycle = EXCLUDED.cycle,
		     activated_at = EXCLUDED.activated_at,
		     expires_at = EXCLUDED.expires_at,
		     updated_at = NOW()
		 RETURNING profile_id, plan, cycle, activated_at, expires_at`,
		rec.ProfileID, rec.Plan, string(rec.Cycle), nullTime(rec.ActivatedAt), nullTime(rec.ExpiresAt))

	saved, err := scanSubscription(row)
	if err != nil {
		return models.SubscriptionRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return saved, nil
}

// GetSubscription возвращает запись подписки профиля или models.ErrSubscriptionNotFound.
func (s *Storage) GetSubscription(ctx context.Context, profileID string) (models.SubscriptionRecord, error) {
	const op = "storage.GetSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return models.SubscriptionRecord{}, err
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT profile_id, plan, cycle, activated_at, expires_at
		 FROM profile_subscriptions WHERE profile_id = $1`, profileID)

	rec, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SubscriptionRecord{}, fmt.Errorf("%s: %w", op, models.ErrSubscriptionNotFound)
	}
	if err != nil {
		return models.SubscriptionRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// FindTrialsExpiringBetween возвращает пробные подписки, которые заканчиваются в интервале (from, to].
func (s *Storage) FindTrialsExpiringBetween(ctx context.Context, from, to time.Time) ([]models.SubscriptionRecord, error) {
	const op = "storage.FindTrialsExpiringBetween"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT profile_id, plan, cycle, activated_at, expires_at
		 FROM profile_subscriptions
		 WHERE cycle = 'trial' AND expires_at > $1 AND expires_at <= $2
		 ORDER BY expires_at`, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var res []models.SubscriptionRecord
	for rows.Next() {
		rec, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res = append(res, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (models.SubscriptionRecord, error) {
	var (
		rec         models.SubscriptionRecord
		cycle       string
		activatedAt sql.NullTime
		expiresAt   sql.NullTime
	)
	if err := row.Scan(&rec.ProfileID, &rec.Plan, &cycle, &activatedAt, &expiresAt); err != nil {
		return models.SubscriptionRecord{}, err
	}
	rec.Cycle = models.Cycle(cycle)
	if activatedAt.Valid {
		t := activatedAt.Time.UTC()
		rec.ActivatedAt = &t
	}
	if expiresAt.Valid {
		t := expiresAt.Time.UTC()
		rec.ExpiresAt = &t
	}
	return rec, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
