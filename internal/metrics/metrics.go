// Package metrics описывает метрики Prometheus сервиса жизненного цикла подписок.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — набор счётчиков жизненного цикла и длительности HTTP-запросов.
type Metrics struct {
	TrialStarts         *prometheus.CounterVec
	SubscriptionChanges *prometheus.CounterVec
	TrialControlUpdates prometheus.Counter
	RejectedMutations   *prometheus.CounterVec
	ExpiringNotices     prometheus.Counter
	RequestDuration     *prometheus.HistogramVec
}

// New создаёт метрики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TrialStarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cards",
			Name:      "trial_starts_total",
			Help:      "Started free trials by plan.",
		}, []string{"plan"}),
		SubscriptionChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cards",
			Name:      "subscription_changes_total",
			Help:      "Stored subscription records by billing cycle.",
		}, []string{"cycle"}),
		TrialControlUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cards",
			Name:      "trial_control_updates_total",
			Help:      "Updates of the global trial control.",
		}),
		RejectedMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cards",
			Name:      "rejected_mutations_total",
			Help:      "Lifecycle mutations rejected by validation.",
		}, []string{"reason"}),
		ExpiringNotices: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cards",
			Name:      "trial_expiring_notices_total",
			Help:      "Published trial.expiring notices.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cards",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		m.TrialStarts,
		m.SubscriptionChanges,
		m.TrialControlUpdates,
		m.RejectedMutations,
		m.ExpiringNotices,
		m.RequestDuration,
	)
	return m
}

// TrialStarted учитывает запуск пробного периода.
func (m *Metrics) TrialStarted(plan string) {
	m.TrialStarts.WithLabelValues(plan).Inc()
}

// SubscriptionChanged учитывает сохранение записи подписки.
func (m *Metrics) SubscriptionChanged(cycle string) {
	m.SubscriptionChanges.WithLabelValues(cycle).Inc()
}

// TrialControlUpdated учитывает изменение глобальной настройки.
func (m *Metrics) TrialControlUpdated() {
	m.TrialControlUpdates.Inc()
}

// MutationRejected учитывает отклонённое изменение.
func (m *Metrics) MutationRejected(reason string) {
	m.RejectedMutations.WithLabelValues(reason).Inc()
}

// ExpiringNoticePublished учитывает отправленное уведомление.
func (m *Metrics) ExpiringNoticePublished() {
	m.ExpiringNotices.Inc()
}

// Middleware измеряет длительность запросов. Метка route — шаблон маршрута chi,
// а не фактический путь, чтобы идентификаторы профилей не раздували кардинальность.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
