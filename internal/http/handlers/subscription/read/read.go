// Package read реализует HTTP-обработчик получения записи подписки профиля.
package read

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

// Handler обрабатывает GET /api/admin/profile/{id}/subscription.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения подписки.
type Service interface {
	GetSubscription(ctx context.Context, profileID string) (models.SubscriptionRecord, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Запись подписки профиля
// @Tags Subscription
// @Produce json
// @Security AdminKey
// @Param id path string true "Идентификатор профиля"
// @Success 200 {object} response.Response{data=models.SubscriptionRecord}
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /admin/profile/{id}/subscription [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	profileID := chi.URLParam(r, "id")
	rec, err := h.service.GetSubscription(r.Context(), profileID)
	if err != nil {
		log.Error("failed to read subscription", slog.String("profile_id", profileID), sl.Err(err))
		status, body := response.Lifecycle(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(rec))
}
