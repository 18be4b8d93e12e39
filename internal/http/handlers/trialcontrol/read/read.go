// Package read реализует HTTP-обработчик чтения глобальной настройки пробного периода.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/commacards/card-subscriptions/internal/http/response"
	"github.com/commacards/card-subscriptions/internal/lib/sl"
	"github.com/commacards/card-subscriptions/internal/models"
)

// Handler обрабатывает GET /api/admin/trial-control.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения настройки.
type Service interface {
	GetTrialControl(ctx context.Context) (models.TrialControl, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Глобальная настройка пробного периода
// @Tags TrialControl
// @Produce json
// @Security AdminKey
// @Success 200 {object} response.Response{data=models.TrialControl}
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /admin/trial-control [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trialcontrol.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tc, err := h.service.GetTrialControl(r.Context())
	if err != nil {
		log.Error("failed to read trial control", sl.Err(err))
		status, body := response.Lifecycle(err)
		render.Status(r, status)
		render.JSON(w, r, body)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(tc))
}
