package repository

import (
	"context"
	"fmt"

	"github.com/commacards/card-subscriptions/internal/models"
)

// ReadTrialControl возвращает глобальную настройку пробного периода.
// Если строки ещё нет, она создаётся со значением по умолчанию.
func (s *Storage) ReadTrialControl(ctx context.Context) (models.TrialControl, error) {
	const op = "storage.ReadTrialControl"
	if err := checkCtx(ctx, op); err != nil {
		return models.TrialControl{}, err
	}

	def := models.DefaultTrialControl()
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO trial_control (id, enabled, default_trial_days)
		 VALUES (1, $1, $2)
		 ON CONFLICT (id) DO NOTHING`,
		def.Enabled, def.DefaultTrialDays)
	if err != nil {
		return models.TrialControl{}, fmt.Errorf("%s: %w", op, err)
	}

	var tc models.TrialControl
	err = s.DB.QueryRowContext(ctx,
		`SELECT enabled, default_trial_days FROM trial_control WHERE id = 1`).
		Scan(&tc.Enabled, &tc.DefaultTrialDays)
	if err != nil {
		return models.TrialControl{}, fmt.Errorf("%s: %w", op, err)
	}
	return tc, nil
}

// WriteTrialControl полностью заменяет настройку и возвращает сохранённое значение.
// Отрицательная длительность отклоняется без записи.
func (s *Storage) WriteTrialControl(ctx context.Context, next models.TrialControl) (models.TrialControl, error) {
	const op = "storage.WriteTrialControl"
	if err := checkCtx(ctx, op); err != nil {
		return models.TrialControl{}, err
	}
	if err := next.Validate(); err != nil {
		return models.TrialControl{}, fmt.Errorf("%s: %w", op, err)
	}

	var stored models.TrialControl
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO trial_control (id, enabled, default_trial_days, updated_at)
		 VALUES (1, $1, $2, NOW())
		 ON CONFLICT (id) DO UPDATE
		 SET enabled = EXCLUDED.enabled,
		     default_trial_days = EXCLUDED.default_trial_days,
		     updated_at = NOW()
		 RETURNING enabled, default_trial_days`,
		next.Enabled, next.DefaultTrialDays).
		Scan(&stored.Enabled, &stored.DefaultTrialDays)
	if err != nil {
		return models.TrialControl{}, fmt.Errorf("%s: %w", op, err)
	}
	return stored, nil
}
