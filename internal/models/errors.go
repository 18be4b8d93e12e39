package models

import "errors"

// Ошибки валидации жизненного цикла. Клиент может исправить ввод и повторить запрос.
var (
	ErrInvalidConfig      = errors.New("invalid trial configuration")
	ErrUnknownPlan        = errors.New("unknown plan")
	ErrInvalidCycle       = errors.New("invalid billing cycle")
	ErrTrialsDisabled     = errors.New("free trials are disabled")
	ErrInvalidTrialWindow = errors.New("trial expiry must be after activation")
	ErrInvalidTimestamp   = errors.New("invalid timestamp")
)

// ErrSubscriptionNotFound возвращается, если у профиля ещё нет записи подписки.
var ErrSubscriptionNotFound = errors.New("subscription not found")

// IsValidation сообщает, относится ли ошибка к ошибкам ввода.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrUnknownPlan) ||
		errors.Is(err, ErrInvalidCycle) ||
		errors.Is(err, ErrInvalidTrialWindow) ||
		errors.Is(err, ErrInvalidTimestamp)
}
