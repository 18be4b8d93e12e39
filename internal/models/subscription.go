package models

import "time"

// Cycle — режим оплаты подписки профиля.
type Cycle string

const (
	CycleMonthly   Cycle = "monthly"
	CycleQuarterly Cycle = "quarterly"
	CycleTrial     Cycle = "trial"
)

// ParseCycle возвращает цикл по строковому значению или ErrInvalidCycle.
func ParseCycle(s string) (Cycle, error) {
	switch c := Cycle(s); c {
	case CycleMonthly, CycleQuarterly, CycleTrial:
		return c, nil
	default:
		return "", ErrInvalidCycle
	}
}

// SubscriptionRecord — сохранённое состояние подписки одного профиля.
// Для цикла trial обе даты заданы и ExpiresAt позже ActivatedAt;
// для платных циклов ExpiresAt не хранится.
type SubscriptionRecord struct {
	ProfileID   string     `json:"profileId"`
	Plan        string     `json:"plan"`
	Cycle       Cycle      `json:"cycle"`
	ActivatedAt *time.Time `json:"activatedAt,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// HasTrialWindow сообщает, выполняется ли инвариант записи пробного периода.
func (r SubscriptionRecord) HasTrialWindow() bool {
	return r.Cycle == CycleTrial &&
		r.ActivatedAt != nil && r.ExpiresAt != nil &&
		r.ExpiresAt.After(*r.ActivatedAt)
}

// TrialStatus — производный статус пробного периода. Никогда не сохраняется.
type TrialStatus struct {
	IsActive bool `json:"isActive"`
	DaysLeft int  `json:"daysLeft"`
}

// TrialRemaining — ответ публичного эндпоинта trial-remaining.
type TrialRemaining struct {
	IsActive      bool       `json:"isActive"`
	StartedAt     *time.Time `json:"startedAt"`
	RemainingDays int        `json:"remainingDays"`
}

// DummySubscription используется для приёма тела PUT-запроса до разбора дат.
// ActivatedAt принимается в формате RFC 3339 или как дата 2006-01-02.
type DummySubscription struct {
	Plan        string `json:"plan" validate:"required"`
	Cycle       string `json:"cycle" validate:"required"`
	ActivatedAt string `json:"activatedAt,omitempty"`
	ExpiresAt   string `json:"expiresAt,omitempty"`
}

// DummyTrialStart — тело запроса на запуск пробного периода.
type DummyTrialStart struct {
	Plan string `json:"plan" validate:"required"`
}

// DateLayout — формат даты из поля ввода админской страницы.
const DateLayout = "2006-01-02"

// ParseTimestamp разбирает отметку времени в формате RFC 3339 или дату DateLayout (полночь UTC).
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrInvalidTimestamp
}
