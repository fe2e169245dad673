package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "salon_booking"

// Result labels
const (
	ResultSuccess  = "success"
	ResultConflict = "conflict"
	ResultError    = "error"
)

// Metrics набор prometheus-коллекторов сервиса
// Все методы безопасно вызывать на nil (метрики выключены)
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	dbQueryDuration     *prometheus.HistogramVec
	dbOpenConnections   *prometheus.GaugeVec
	dbInUseConnections  *prometheus.GaugeVec
	dbIdleConnections   *prometheus.GaugeVec
	dbWaitCount         *prometheus.GaugeVec
	slotTransitions     *prometheus.CounterVec
	wizardSteps         *prometheus.CounterVec
	rateLimited         *prometheus.CounterVec
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики в указанном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "result"}),
		dbOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),
		slotTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "slot_transitions_total",
			Help:        "Slot status transitions by outcome",
			ConstLabels: constLabels,
		}, []string{"from", "to", "result"}),
		wizardSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "wizard_steps_total",
			Help:        "Booking wizard operations by step and outcome",
			ConstLabels: constLabels,
		}, []string{"step", "result"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "rate_limited_requests_total",
			Help:        "Requests rejected by the rate limiter",
			ConstLabels: constLabels,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbOpenConnections,
		m.dbInUseConnections,
		m.dbIdleConnections,
		m.dbWaitCount,
		m.slotTransitions,
		m.wizardSteps,
		m.rateLimited,
	)

	return m
}

// ObserveHTTPRequest фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует время выполнения запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation, resultLabel(err)).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(dbName string, stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbOpenConnections.WithLabelValues(dbName).Set(float64(stats.OpenConnections))
	m.dbInUseConnections.WithLabelValues(dbName).Set(float64(stats.InUse))
	m.dbIdleConnections.WithLabelValues(dbName).Set(float64(stats.Idle))
	m.dbWaitCount.WithLabelValues(dbName).Set(float64(stats.WaitCount))
}

// IncSlotTransition фиксирует попытку перехода статуса слота
func (m *Metrics) IncSlotTransition(from, to, result string) {
	if m == nil {
		return
	}
	m.slotTransitions.WithLabelValues(from, to, result).Inc()
}

// IncWizardStep фиксирует операцию мастера бронирования
func (m *Metrics) IncWizardStep(step, result string) {
	if m == nil {
		return
	}
	m.wizardSteps.WithLabelValues(step, result).Inc()
}

// IncRateLimited фиксирует отклоненный лимитером запрос
func (m *Metrics) IncRateLimited(route string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(route).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}
