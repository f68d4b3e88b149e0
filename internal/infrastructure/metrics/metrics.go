package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	TransactionsCreated  *prometheus.CounterVec
	TransactionsApproved prometheus.Counter
	TransactionsRejected prometheus.Counter
	AdjustmentsCreated   prometheus.Counter
	TransitionDuration   prometheus.Histogram
	TransactionAmount    prometheus.Histogram

	// User metrics
	UsersRegistered prometheus.Counter

	// Notification metrics
	NotificationsEmitted prometheus.Counter

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Transaction metrics
		TransactionsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinvest_transactions_created_total",
				Help: "Total number of transactions created by type",
			},
			[]string{"type"},
		),
		TransactionsApproved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinvest_transactions_approved_total",
			Help: "Total number of transactions approved",
		}),
		TransactionsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinvest_transactions_rejected_total",
			Help: "Total number of transactions rejected",
		}),
		AdjustmentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinvest_adjustments_created_total",
			Help: "Total number of admin balance adjustments",
		}),
		TransitionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "coinvest_transition_duration_seconds",
			Help:    "Duration of transaction status transitions",
			Buckets: prometheus.DefBuckets,
		}),
		TransactionAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "coinvest_transaction_amount",
			Help:    "Transaction amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		// User metrics
		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinvest_users_registered_total",
			Help: "Total number of users registered",
		}),

		// Notification metrics
		NotificationsEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinvest_notifications_emitted_total",
			Help: "Total number of notifications emitted",
		}),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinvest_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coinvest_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "coinvest_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinvest_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinvest_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinvest_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinvest_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),

		// Audit metrics
		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinvest_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
