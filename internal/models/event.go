package models

import "time"

// Ключи маршрутизации событий жизненного цикла.
const (
	EventTrialStarted        = "trial.started"
	EventSubscriptionChanged = "subscription.changed"
	EventTrialControlChanged = "trial_control.changed"
	EventTrialExpiring       = "trial.expiring"
)

// LifecycleEvent публикуется после успешного изменения состояния.
type LifecycleEvent struct {
	ID           string              `json:"id"`
	Type         string              `json:"type"`
	OccurredAt   time.Time           `json:"occurredAt"`
	Subscription *SubscriptionRecord `json:"subscription,omitempty"`
	TrialControl *TrialControl       `json:"trialControl,omitempty"`
	DaysLeft     *int                `json:"daysLeft,omitempty"`
}
