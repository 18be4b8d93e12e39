// Package session реализует HTTP-обработчик обмена ключа администратора на токен сессии.
package session

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/commacards/card-subscriptions/internal/http/response"
	"github.com/commacards/card-subscriptions/internal/lib/sl"
	"github.com/commacards/card-subscriptions/internal/services/adminauth"
)

// Handler обрабатывает POST /api/admin/session.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс выдачи токена сессии.
type Service interface {
	OpenSession(key string) (string, time.Time, error)
}

// Request — тело запроса на открытие сессии.
type Request struct {
	Key string `json:"key" validate:"required"`
}

// Session — выданный токен и время его истечения.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
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
// @Summary Открыть административную сессию
// @Description Токен передаётся в заголовке Authorization: Bearer <token> вместо x-admin-key.
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body Request true "Ключ администратора"
// @Success 200 {object} response.Response{data=Session}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /admin/session [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.session"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
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

	token, expiresAt, err := h.service.OpenSession(req.Key)
	if errors.Is(err, adminauth.ErrUnauthorized) {
		log.Warn("admin key rejected")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	if err != nil {
		log.Error("failed to open session", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("admin session opened", slog.Time("expires_at", expiresAt))
	render.JSON(w, r, response.StatusOKWithData(Session{Token: token, ExpiresAt: expiresAt}))
}
