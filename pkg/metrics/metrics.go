package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus-метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBConnectionsOpen prometheus.Gauge
	DBConnectionsIdle prometheus.Gauge
	DBConnectionsUsed prometheus.Gauge

	// Доменные метрики станций
	StationsOccupied   prometheus.Gauge
	SessionRunningCost *prometheus.GaugeVec
	SessionsStarted    prometheus.Counter
	SessionsEnded      prometheus.Counter
	BookingConflicts   prometheus.Counter
}

// New создает и регистрирует метрики в default registry
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"operation"}),

		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		DBConnectionsOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_open",
			Help:        "Number of open database connections",
			ConstLabels: constLabels,
		}),

		DBConnectionsIdle: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_idle",
			Help:        "Number of idle database connections",
			ConstLabels: constLabels,
		}),

		DBConnectionsUsed: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_in_use",
			Help:        "Number of database connections in use",
			ConstLabels: constLabels,
		}),

		StationsOccupied: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "stations_occupied",
			Help:        "Number of stations with a running session",
			ConstLabels: constLabels,
		}),

		SessionRunningCost: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "session_running_cost",
			Help:        "Current estimated cost of the running session per station",
			ConstLabels: constLabels,
		}, []string{"station_id"}),

		SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "sessions_started_total",
			Help:        "Total number of started play sessions",
			ConstLabels: constLabels,
		}),

		SessionsEnded: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "sessions_ended_total",
			Help:        "Total number of ended play sessions",
			ConstLabels: constLabels,
		}),

		BookingConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "booking_conflicts_total",
			Help:        "Total number of booking attempts rejected due to slot conflicts",
			ConstLabels: constLabels,
		}),
	}
}
