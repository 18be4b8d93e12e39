// Package remaining реализует публичный HTTP-обработчик статуса пробного периода профиля.
package remaining

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/commacards/card-subscriptions/internal/http/response"
	"github.com/commacards/card-subscriptions/internal/lib/sl"
	"github.com/commacards/card-subscriptions/internal/models"
)

// Handler обрабатывает GET /api/profile/{id}/trial-remaining.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс расчёта оставшегося пробного периода.
type Service interface {
	TrialRemaining(ctx context.Context, profileID string) (models.TrialRemaining, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Оставшийся пробный период профиля
// @Description Профиль без записи подписки получает неактивный статус.
// @Tags Trial
// @Produce json
// @Param id path string true "Идентификатор профиля"
// @Success 200 {object} response.Response{data=models.TrialRemaining}
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /profile/{id}/trial-remaining [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trial.remaining"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	profileID := chi.URLParam(r, "id")
	if profileID == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("profile id is required"))
		return
	}

	res, err := h.service.TrialRemaining(r.Context(), profileID)
	if err != nil {
		log.Error("failed to resolve trial", slog.String("profile_id", profileID), sl.Err(err))
		status, body := response.Lifecycle(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(res))
}
