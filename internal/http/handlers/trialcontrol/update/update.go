// Package update реализует HTTP-обработчик изменения глобальной настройки пробного периода.
//
// Тело запроса полностью заменяет настройку, поэтому оба поля обязательны.
// Изменение настройки не затрагивает записи подписок профилей.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/commacards/card-subscriptions/internal/http/response"
	"github.com/commacards/card-subscriptions/internal/lib/sl"
	"github.com/commacards/card-subscriptions/internal/models"
)

// Handler обрабатывает PATCH /api/admin/trial-control.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики изменения настройки.
type Service interface {
	SetTrialControl(ctx context.Context, next models.TrialControl) (models.TrialControl, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменить глобальную настройку пробного периода
// @Tags TrialControl
// @Accept json
// @Produce json
// @Security AdminKey
// @Param request body models.DummyTrialControl true "Новая настройка"
// @Success 200 {object} response.Response{data=models.TrialControl}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /admin/trial-control [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trialcontrol.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyTrialControl
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request"))
			return
		}
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(verrs))
		return
	}

	stored, err := h.service.SetTrialControl(r.Context(), models.TrialControl{
		Enabled:          *req.Enabled,
		DefaultTrialDays: *req.DefaultTrialDays,
	})
	if err != nil {
		log.Error("failed to update trial control", sl.Err(err))
		status, body := response.Lifecycle(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("trial control updated", slog.Bool("enabled", stored.Enabled),
		slog.Int("default_trial_days", stored.DefaultTrialDays))
	render.JSON(w, r, response.StatusOKWithData(stored))
}
