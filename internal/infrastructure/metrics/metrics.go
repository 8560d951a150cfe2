package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	TransfersCreated prometheus.Counter
	TransfersApplied prometheus.Counter
	TransfersFailed  *prometheus.CounterVec
	TransferDuration prometheus.Histogram
	TransferAmount   prometheus.Histogram
	TransfersSwept   prometheus.Counter

	// Customer metrics
	CustomersCreated prometheus.Counter
	CustomersClosed  prometheus.Counter

	// Operation metrics
	OperationsAppended    *prometheus.CounterVec
	OperationsInvalidated prometheus.Counter

	// Consistency check metrics
	ConsistencyChecks   *prometheus.CounterVec
	UnbalancedTransfers prometheus.Gauge

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Outbox metrics
	EventsPublished *prometheus.CounterVec
	OutboxBacklog   prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		TransfersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passbook_transfers_created_total",
			Help: "Total number of transfers created",
		}),
		TransfersApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passbook_transfers_applied_total",
			Help: "Total number of transfers settled as applied",
		}),
		TransfersFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passbook_transfers_failed_total",
				Help: "Total number of transfers settled as failed, by reason",
			},
			[]string{"reason"},
		),
		TransferDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "passbook_transfer_duration_seconds",
			Help:    "Duration of transfer settlement",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "passbook_transfer_amount",
			Help:    "Transfer amounts in minor units",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransfersSwept: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passbook_transfers_swept_total",
			Help: "Total number of stuck transfers re-settled by the recovery sweep",
		}),

		CustomersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passbook_customers_created_total",
			Help: "Total number of customers created",
		}),
		CustomersClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passbook_customers_closed_total",
			Help: "Total number of customers closed",
		}),

		OperationsAppended: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passbook_operations_appended_total",
				Help: "Total balance operations appended, by kind",
			},
			[]string{"kind"},
		),
		OperationsInvalidated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passbook_operations_invalidated_total",
			Help: "Total balance operations invalidated",
		}),

		ConsistencyChecks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passbook_consistency_checks_total",
				Help: "Total ledger consistency checks, by result",
			},
			[]string{"result"},
		),
		UnbalancedTransfers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "passbook_unbalanced_transfers",
			Help: "Unbalanced transfers found by the last consistency check",
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passbook_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "passbook_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passbook_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "passbook_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "passbook_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passbook_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passbook_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passbook_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passbook_events_published_total",
				Help: "Total outbox events published, by type",
			},
			[]string{"event_type"},
		),
		OutboxBacklog: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "passbook_outbox_backlog",
			Help: "Unpublished events seen by the last publisher batch",
		}),

		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passbook_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
