// Package assign реализует HTTP-обработчик назначения профилю плана и цикла оплаты.
//
// Цикл trial без expiresAt запускает новый пробный период. activatedAt принимается
// в формате RFC 3339 или как дата 2006-01-02.
package assign

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

// Handler обрабатывает PUT /api/admin/profile/{id}/subscription.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики назначения подписки.
type Service interface {
	SetSubscription(ctx context.Context, profileID string, req models.DummySubscription) (models.SubscriptionRecord, error)
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
// @Summary Назначить план и цикл оплаты профилю
// @Tags Subscription
// @Accept json
// @Produce json
// @Security AdminKey
// @Param id path string true "Идентификатор профиля"
// @Param request body models.DummySubscription true "План, цикл и даты"
// @Success 200 {object} response.Response{data=models.SubscriptionRecord}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Пробные периоды выключены"
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /admin/profile/{id}/subscription [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.assign"

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

	var req models.DummySubscription
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

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

	rec, err := h.service.SetSubscription(r.Context(), profileID, req)
	if err != nil {
		log.Error("failed to set subscription", slog.String("profile_id", profileID), sl.Err(err))
		status, body := response.Lifecycle(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	log.Info("subscription assigned", slog.String("profile_id", profileID),
		slog.String("plan", rec.Plan), slog.String("cycle", string(rec.Cycle)))
	render.JSON(w, r, response.StatusOKWithData(rec))
}
