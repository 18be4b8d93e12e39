// Package models содержит доменные структуры жизненного цикла подписки профиля:
// тарифные планы, глобальные настройки пробного периода, запись подписки профиля
// и производный статус пробного периода, а также структуры для приёма данных из JSON-запросов.
package models

// FreePlanID — идентификатор синтетического бесплатного плана.
const FreePlanID = "free"

// Prices содержит цены плана для каждого платного цикла оплаты.
type Prices struct {
	Monthly   float64 `json:"monthly"`
	Quarterly float64 `json:"quarterly"`
}

// Benefit — отображаемое преимущество плана. В бизнес-логике не участвует.
type Benefit struct {
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

// Plan представляет запись каталога тарифных планов.
// TrialDays == nil означает, что у плана нет собственной длительности пробного периода
// и используется глобальное значение из TrialControl.
type Plan struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Prices     Prices    `json:"prices"`
	TrialDays  *int      `json:"trialDays,omitempty"`
	Tagline    string    `json:"tagline,omitempty"`
	CostPerDay *float64  `json:"costPerDay,omitempty"`
	Benefits   []Benefit `json:"benefits"`
}

// TrialOverride возвращает длительность пробного периода, заданную планом,
// и false, если план её не переопределяет (нет значения или значение 0).
func (p Plan) TrialOverride() (int, bool) {
	if p.TrialDays == nil || *p.TrialDays <= 0 {
		return 0, false
	}
	return *p.TrialDays, true
}

// FreePlan возвращает бесплатный план, который добавляется в каталог для отображения,
// если бэкенд его не вернул.
func FreePlan() Plan {
	return Plan{
		ID:      FreePlanID,
		Name:    "Free",
		Prices:  Prices{Monthly: 0, Quarterly: 0},
		Tagline: "Basic digital card",
		Benefits: []Benefit{
			{Title: "Basic Comma Profile"},
			{Title: "Share your contact instantly"},
			{Title: "Limited analytics"},
			{Title: "Unlimited scans"},
			{Title: "No credit card required"},
		},
	}
}
