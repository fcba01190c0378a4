package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics коллекция prometheus метрик сервиса.
// Все методы безопасны для nil получателя: при выключенных метриках можно передавать nil.
type Metrics struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	pipelineOutcomes *prometheus.CounterVec
	availability     *prometheus.CounterVec
	roomProvisioning *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном регистре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в указанном регистре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		pipelineOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "provisioning_pipeline_outcomes_total",
			Help:        "Outcomes of the session provisioning pipeline by entry point",
			ConstLabels: labels,
		}, []string{"entrypoint", "outcome"}),
		availability: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_updates_total",
			Help:        "Outcomes of therapist availability slot updates",
			ConstLabels: labels,
		}, []string{"outcome"}),
		roomProvisioning: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "room_provisioning_total",
			Help:        "Call room provisioning attempts by session type and result",
			ConstLabels: labels,
		}, []string{"session_type", "result"}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.pipelineOutcomes,
		m.availability,
		m.roomProvisioning,
	)

	return m
}

// ObserveHTTPRequest фиксирует HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, statusLabel(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// IncPipelineOutcome фиксирует завершение конвейера с указанным исходом
func (m *Metrics) IncPipelineOutcome(entrypoint, outcome string) {
	if m == nil {
		return
	}
	m.pipelineOutcomes.WithLabelValues(entrypoint, outcome).Inc()
}

// IncAvailabilityOutcome фиксирует результат обновления расписания
func (m *Metrics) IncAvailabilityOutcome(outcome string) {
	if m == nil {
		return
	}
	m.availability.WithLabelValues(outcome).Inc()
}

// IncRoomProvisioning фиксирует попытку создания комнаты
func (m *Metrics) IncRoomProvisioning(sessionType, result string) {
	if m == nil {
		return
	}
	m.roomProvisioning.WithLabelValues(sessionType, result).Inc()
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
