// Package middlewarectx содержит HTTP middleware административных маршрутов:
// проверку ключа или токена администратора и ограничение частоты запросов.
package middlewarectx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/commacards/card-subscriptions/internal/http/response"
	"github.com/commacards/card-subscriptions/internal/lib/sl"
)

// AdminKeyHeader — заголовок с ключом администратора.
const AdminKeyHeader = "x-admin-key"

// Guard проверяет учётные данные администратора.
type Guard interface {
	CheckKey(key string) error
	CheckToken(token string) error
}

// AdminMiddleware пропускает запрос, если в заголовке x-admin-key передан верный ключ
// или в Authorization — токен административной сессии. Иначе возвращает 401.
func AdminMiddleware(guard Guard, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AdminMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if key := r.Header.Get(AdminKeyHeader); key != "" {
				if err := guard.CheckKey(key); err != nil {
					log.Warn("invalid admin key", sl.Err(err))
					unauthorized(w, r)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Warn("missing admin credentials")
				unauthorized(w, r)
				return
			}
			if err := guard.CheckToken(strings.TrimPrefix(authHeader, "Bearer ")); err != nil {
				log.Warn("invalid or expired admin token", sl.Err(err))
				unauthorized(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error("unauthorized"))
}
