// Package trial содержит чистые функции расчёта пробного периода:
// определение длительности нового пробного периода и вычисление статуса
// (активен ли период и сколько целых дней осталось) по записи подписки и текущему времени.
package trial

import (
	"time"

	"github.com/commacards/card-subscriptions/internal/models"
)

// Day — длительность одних суток, используемая во всех расчётах пробного периода.
const Day = 24 * time.Hour

// FallbackDays — длительность пробного периода, если её не задают ни план, ни глобальная настройка.
const FallbackDays = 7

// Resolve вычисляет статус пробного периода записи на момент now.
//
// DaysLeft округляется вверх, поэтому «остался 1 день» показывается, пока
// до окончания есть хоть сколько-то времени. IsActive определяется строгим
// сравнением now < ExpiresAt; DaysLeft — только отображаемая величина.
func Resolve(rec models.SubscriptionRecord, now time.Time) models.TrialStatus {
	if rec.Cycle != models.CycleTrial || rec.ActivatedAt == nil || rec.ExpiresAt == nil {
		return models.TrialStatus{}
	}

	remaining := rec.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return models.TrialStatus{}
	}

	daysLeft := int(remaining / Day)
	if remaining%Day != 0 {
		daysLeft++
	}

	return models.TrialStatus{
		IsActive: daysLeft > 0 && now.Before(*rec.ExpiresAt),
		DaysLeft: daysLeft,
	}
}

// Remaining собирает ответ trial-remaining для записи.
// Если записи нет (rec == nil), период считается неактивным.
func Remaining(rec *models.SubscriptionRecord, now time.Time) models.TrialRemaining {
	if rec == nil {
		return models.TrialRemaining{}
	}
	status := Resolve(*rec, now)
	res := models.TrialRemaining{
		IsActive:      status.IsActive,
		RemainingDays: status.DaysLeft,
	}
	if rec.Cycle == models.CycleTrial {
		res.StartedAt = rec.ActivatedAt
	}
	return res
}

// Days определяет длительность нового пробного периода:
// переопределение плана, затем глобальное значение, затем FallbackDays.
func Days(plan models.Plan, control models.TrialControl) int {
	if days, ok := plan.TrialOverride(); ok {
		return days
	}
	if control.DefaultTrialDays > 0 {
		return control.DefaultTrialDays
	}
	return FallbackDays
}

// Window возвращает начало и конец пробного периода длиной days, начиная с now.
func Window(now time.Time, days int) (activatedAt, expiresAt time.Time) {
	return now, now.Add(time.Duration(days) * Day)
}
