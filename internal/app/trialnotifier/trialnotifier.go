// Package trialnotifier содержит приложение рассылки уведомлений об окончании пробного периода.
package trialnotifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/streadway/amqp"

	"github.com/commacards/card-subscriptions/internal/config"
	"github.com/commacards/card-subscriptions/internal/http/handlers/health"
	"github.com/commacards/card-subscriptions/internal/lib/sl"
	"github.com/commacards/card-subscriptions/internal/metrics"
	"github.com/commacards/card-subscriptions/internal/rabbitmq"
	notifierservice "github.com/commacards/card-subscriptions/internal/services/notifier"
	"github.com/commacards/card-subscriptions/internal/storage/repository"
)

// App представляет приложение уведомлений.
type App struct {
	notifier *notifierservice.Service
	schedule cron.Schedule
	server   *http.Server
	db       *repository.Storage
	conn     *amqp.Connection
	ch       *amqp.Channel
	logger   *slog.Logger
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

// New создает новый экземпляр приложения уведомлений.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	var schedule cron.Schedule
	if cfg.Schedule != "" {
		var err error
		schedule, err = cron.ParseStandard(cfg.Schedule)
		if err != nil {
			return nil, fmt.Errorf("invalid notifier schedule %q: %w", cfg.Schedule, err)
		}
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.ExchangeName, rabbitmq.LifecycleQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(ctx, db); err != nil {
		closeResources(ch, conn, logger)
		_ = db.Close()
		return nil, err
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	svc := notifierservice.New(db, rabbitmq.NewPublisher(ch, cfg.ExchangeName), m,
		cfg.Interval, cfg.Window, logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID, middleware.Recoverer)
	router.Get("/health", health.New(logger, db).ServeHTTP)
	router.Handle("/metrics", promhttp.Handler())

	return &App{
		notifier: svc,
		schedule: schedule,
		server: &http.Server{
			Addr:         cfg.AddressHTTP,
			Handler:      router,
			ReadTimeout:  cfg.TimeoutHTTP,
			WriteTimeout: cfg.TimeoutHTTP,
			IdleTimeout:  cfg.IdleTimeout,
		},
		db:     db,
		conn:   conn,
		ch:     ch,
		logger: logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
}

// Run запускает рассылку и служебный HTTP-сервер до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	go func() {
		a.logger.Info("metrics server starting", slog.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", sl.Err(err))
		}
	}()

	if a.schedule == nil {
		a.notifier.Run(ctx)
	} else {
		a.runScheduled(ctx)
	}

	a.logger.Info("shutting down trial notifier")

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := a.server.Shutdown(timeoutCtx)

	closeResources(a.ch, a.conn, a.logger)
	if cerr := a.db.Close(); cerr != nil {
		a.logger.Error("failed to close storage", sl.Err(cerr))
	}
	return err
}

// runScheduled выполняет проверку сразу и затем по cron-расписанию до отмены ctx.
// Проверка, ещё не завершившаяся к следующему запуску, не дублируется.
func (a *App) runScheduled(ctx context.Context) {
	a.notifier.Check(ctx)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	c.Schedule(a.schedule, cron.FuncJob(func() { a.notifier.Check(ctx) }))
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
}
