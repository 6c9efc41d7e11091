package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "event_planner"

// Outcomes of a plan generation.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeFallback = "fallback"
)

// Metrics хранит собственный реестр и коллекторы сервиса.
type Metrics struct {
	registry        *prometheus.Registry
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	planGenerations *prometheus.CounterVec
	aiDuration      *prometheus.HistogramVec
	planCost        prometheus.Histogram
	sseDropped      *prometheus.CounterVec
}

// New регистрирует коллекторы в отдельном реестре.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		planGenerations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_generations_total",
			Help:      "Event plan generations by provider and outcome.",
		}, []string{"provider", "outcome"}),
		aiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ai_request_duration_seconds",
			Help:      "Latency of calls to the text-generation provider.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"provider"}),
		planCost: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_estimated_cost",
			Help:      "Estimated total cost of generated plans.",
			Buckets:   prometheus.ExponentialBuckets(50_000, 2, 10),
		}),
		sseDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sse_dropped_events_total",
			Help:      "Notifications dropped because a subscriber buffer was full.",
		}, []string{"type"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.planGenerations,
		m.aiDuration,
		m.planCost,
		m.sseDropped,
	)

	return m
}

// Registry возвращает реестр для тестов и дополнительных коллекторов.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler отдает метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RegisterGauge добавляет gauge, значение которого вычисляется при сборе.
func (m *Metrics) RegisterGauge(name, help string, fn func() float64) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn))
}

// ObservePlan учитывает одну генерацию плана.
func (m *Metrics) ObservePlan(provider, outcome string, duration time.Duration, estimatedCost float64) {
	if m == nil {
		return
	}

	m.planGenerations.WithLabelValues(provider, outcome).Inc()
	if outcome == OutcomeFallback {
		return
	}

	m.aiDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if outcome == OutcomeSuccess {
		m.planCost.Observe(estimatedCost)
	}
}

// DroppedEvent учитывает уведомление, не доставленное подписчику.
func (m *Metrics) DroppedEvent(eventType string) {
	if m == nil {
		return
	}
	m.sseDropped.WithLabelValues(eventType).Inc()
}

// Middleware считает HTTP-запросы по шаблону маршрута, а не по сырому пути.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if httpErr, ok := err.(*echo.HTTPError); ok {
					status = httpErr.Code
				} else if status < http.StatusBadRequest {
					status = http.StatusInternalServerError
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			method := c.Request().Method
			m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
