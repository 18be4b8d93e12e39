package lifecycleapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"
	"golang.org/x/time/rate"

	"github.com/commacards/card-subscriptions/internal/cache"
	"github.com/commacards/card-subscriptions/internal/config"
	"github.com/commacards/card-subscriptions/internal/lib/jwt"
	"github.com/commacards/card-subscriptions/internal/lib/sl"
	"github.com/commacards/card-subscriptions/internal/metrics"
	"github.com/commacards/card-subscriptions/internal/migrations"
	"github.com/commacards/card-subscriptions/internal/rabbitmq"
	"github.com/commacards/card-subscriptions/internal/services/adminauth"
	"github.com/commacards/card-subscriptions/internal/services/catalog"
	"github.com/commacards/card-subscriptions/internal/services/lifecycle"
	"github.com/commacards/card-subscriptions/internal/storage/repository"
)

// App — HTTP-сервер жизненного цикла подписок со всеми подключениями.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New подключает хранилище, кэш и брокер, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	a := &App{logger: logger, db: db}

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		a.close()
		return nil, err
	}
	if err = waitForDB(ctx, db); err != nil {
		a.close()
		return nil, err
	}

	a.cache, err = cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	a.conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	a.ch, err = rabbitmq.SetupChannel(a.conn, cfg.ExchangeName, rabbitmq.LifecycleQueues())
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	plans := catalog.New(db, a.cache, cfg.CacheTTL, logger)
	if err = plans.Refresh(ctx); err != nil {
		logger.Warn("failed to reset plan catalog cache", sl.Err(err))
	}

	service := lifecycle.New(lifecycle.Deps{
		Control:       db,
		Subscriptions: db,
		Plans:         plans,
		Cache:         a.cache,
		Publisher:     rabbitmq.NewPublisher(a.ch, cfg.ExchangeName),
		Recorder:      m,
		CacheTTL:      cfg.CacheTTL,
	}, logger)

	if cfg.AdminKeyHash == "" {
		logger.Warn("admin key hash is not configured, admin routes will reject every request")
	}
	auth := adminauth.New(cfg.AdminKeyHash, jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL))

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Services{
		Lifecycle: service,
		Catalog:   plans,
		Auth:      auth,
		DB:        db,
		Metrics:   m,
		Gatherer:  prometheus.DefaultGatherer,
		Limiter:   rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
	})

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	for range 10 {
		if err := db.CheckDatabaseReady(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	return fmt.Errorf("database not ready after retries")
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close cache", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
