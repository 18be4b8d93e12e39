// Package start реализует HTTP-обработчик запуска пробного периода профиля.
package start

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/commacards/card-subscriptions/internal/http/response"
	"github.com/commacards/card-subscriptions/internal/lib/sl"
	"github.com/commacards/card-subscriptions/internal/models"
)

// Handler обрабатывает POST /api/admin/profile/{id}/trial.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики запуска пробного периода.
type Service interface {
	StartTrial(ctx context.Context, profileID, planID string) (models.SubscriptionRecord, error)
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
// @Summary Запустить пробный период
// @Description Длительность берётся из плана, затем из глобальной настройки.
// @Tags Trial
// @Accept json
// @Produce json
// @Security AdminKey
// @Param id path string true "Идентификатор профиля"
// @Param request body models.DummyTrialStart true "План пробного периода"
// @Success 201 {object} response.Response{data=models.SubscriptionRecord}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Пробные периоды выключены"
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /admin/profile/{id}/trial [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trial.start"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	profileID := chi.URLParam(r, "id")
	if profileID == "" {
		log.Error("empty profile id")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("profile id is required"))
		return
	}

	var req models.DummyTrialStart
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

	rec, err := h.service.StartTrial(r.Context(), profileID, req.Plan)
	if err != nil {
		log.Error("failed to start trial", slog.String("profile_id", profileID), sl.Err(err))
		status, body := response.Lifecycle(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("trial started", slog.String("profile_id", profileID), slog.String("plan", rec.Plan))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(rec))
}
