package rabbitmq

import "github.com/commacards/card-subscriptions/internal/models"

// QueueConfig описывает очередь и ключи, по которым она привязана к обменнику.
type QueueConfig struct {
	QueueName   string
	RoutingKeys []string
}

// LifecycleQueues возвращает очереди, которые объявляются при старте сервисов.
func LifecycleQueues() []QueueConfig {
	return []QueueConfig{
		{
			QueueName: "subscriptions.audit",
			RoutingKeys: []string{
				models.EventTrialStarted,
				models.EventSubscriptionChanged,
				models.EventTrialControlChanged,
			},
		},
		{
			QueueName:   "notifications.trial_expiring",
			RoutingKeys: []string{models.EventTrialExpiring},
		},
	}
}
