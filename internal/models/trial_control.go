package models

// MaxTrialDays — верхняя граница длительности пробного периода в днях.
const MaxTrialDays = 3650

// TrialControl — глобальная (единственная на процесс) настройка пробного периода.
// Enabled сообщает, предлагаются ли сейчас пробные периоды,
// DefaultTrialDays — длительность нового пробного периода по умолчанию.
type TrialControl struct {
	Enabled          bool `json:"enabled"`
	DefaultTrialDays int  `json:"defaultTrialDays"`
}

// DefaultTrialControl — значение, которое создаётся при первом чтении, если настройки ещё нет.
func DefaultTrialControl() TrialControl {
	return TrialControl{Enabled: false, DefaultTrialDays: 0}
}

// Validate проверяет, что настройку можно сохранить.
func (c TrialControl) Validate() error {
	if c.DefaultTrialDays < 0 || c.DefaultTrialDays > MaxTrialDays {
		return ErrInvalidConfig
	}
	return nil
}

// DummyTrialControl используется для приёма тела PATCH-запроса.
// Поля-указатели позволяют отличить отсутствующее поле от нулевого значения:
// запись полностью заменяет настройку, поэтому оба поля обязательны.
type DummyTrialControl struct {
	Enabled          *bool `json:"enabled" validate:"required"`
	DefaultTrialDays *int  `json:"defaultTrialDays" validate:"required"`
}
