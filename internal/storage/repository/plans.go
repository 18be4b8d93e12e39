package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/commacards/card-subscriptions/internal/models"
)

const planColumns = `id, name, price_monthly::float8, price_quarterly::float8, trial_days,
	tagline, cost_per_day::float8, benefits`

// ListPlans возвращает каталог планов в порядке отображения.
func (s *Storage) ListPlans(ctx context.Context) ([]models.Plan, error) {
	const op = "storage.ListPlans"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+planColumns+` FROM plans ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var plans []models.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return plans, nil
}

// GetPlan возвращает план по идентификатору или models.ErrUnknownPlan.
func (s *Storage) GetPlan(ctx context.Context, id string) (models.Plan, error) {
	const op = "storage.GetPlan"
	if err := checkCtx(ctx, op); err != nil {
		return models.Plan{}, err
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id)
	p, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Plan{}, fmt.Errorf("%s: %w", op, models.ErrUnknownPlan)
	}
	if err != nil {
		return models.Plan{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func scanPlan(row rowScanner) (models.Plan, error) {
	var (
		p          models.Plan
		trialDays  sql.NullInt64
		costPerDay sql.NullFloat64
		benefits   []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Prices.Monthly, &p.Prices.Quarterly,
		&trialDays, &p.Tagline, &costPerDay, &benefits); err != nil {
		return models.Plan{}, err
	}
	if trialDays.Valid {
		d := int(trialDays.Int64)
		p.TrialDays = &d
	}
	if costPerDay.Valid {
		c := costPerDay.Float64
		p.CostPerDay = &c
	}
	p.Benefits = []models.Benefit{}
	if len(benefits) > 0 {
		if err := json.Unmarshal(benefits, &p.Benefits); err != nil {
			return models.Plan{}, err
		}
	}
	return p, nil
}
