// Package lifecycleapi собирает HTTP API жизненного цикла подписок.
package lifecycleapi

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	// Регистрация Swagger-документации.
	_ "github.com/commacards/card-subscriptions/docs"
	"github.com/commacards/card-subscriptions/internal/http/handlers/admin/session"
	"github.com/commacards/card-subscriptions/internal/http/handlers/health"
	"github.com/commacards/card-subscriptions/internal/http/handlers/plans/list"
	"github.com/commacards/card-subscriptions/internal/http/handlers/subscription/assign"
	subread "github.com/commacards/card-subscriptions/internal/http/handlers/subscription/read"
	"github.com/commacards/card-subscriptions/internal/http/handlers/trial/remaining"
	"github.com/commacards/card-subscriptions/internal/http/handlers/trial/start"
	tcread "github.com/commacards/card-subscriptions/internal/http/handlers/trialcontrol/read"
	tcupdate "github.com/commacards/card-subscriptions/internal/http/handlers/trialcontrol/update"
	"github.com/commacards/card-subscriptions/internal/http/middlewarectx"
	"github.com/commacards/card-subscriptions/internal/metrics"
)

// Lifecycle объединяет операции, которые нужны обработчикам API.
type Lifecycle interface {
	tcread.Service
	tcupdate.Service
	assign.Service
	subread.Service
	start.Service
	remaining.Service
}

// AdminAuth проверяет учётные данные и выдаёт токены сессии.
type AdminAuth interface {
	middlewarectx.Guard
	session.Service
}

// Services — зависимости маршрутов.
type Services struct {
	Lifecycle Lifecycle
	Catalog   list.Service
	Auth      AdminAuth
	DB        health.Pinger
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Limiter   *rate.Limiter
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s Services) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		s.Metrics.Middleware,
	)

	r.Route("/api", func(r chi.Router) {
		// Публичные маршруты
		r.Get("/plans", list.New(logger, s.Catalog).ServeHTTP)
		r.Get("/profile/{id}/trial-remaining", remaining.New(logger, s.Lifecycle).ServeHTTP)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(s.Limiter, logger))
			r.Post("/session", session.New(logger, s.Auth).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminMiddleware(s.Auth, logger))
				r.Get("/trial-control", tcread.New(logger, s.Lifecycle).ServeHTTP)
				r.Patch("/trial-control", tcupdate.New(logger, s.Lifecycle).ServeHTTP)
				r.Get("/profile/{id}/subscription", subread.New(logger, s.Lifecycle).ServeHTTP)
				r.Put("/profile/{id}/subscription", assign.New(logger, s.Lifecycle).ServeHTTP)
				r.Post("/profile/{id}/trial", start.New(logger, s.Lifecycle).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, s.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
