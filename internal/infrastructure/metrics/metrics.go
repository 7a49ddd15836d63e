package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	TransfersAuthorized prometheus.Counter
	TransfersRejected   *prometheus.CounterVec
	TransferDuration    prometheus.Histogram
	TransferAmount      prometheus.Histogram
	GatewayErrors       prometheus.Counter

	// Wallet metrics
	WalletsCreated   prometheus.Counter
	WalletRemaining  *prometheus.GaugeVec
	QuotaAdjustments *prometheus.CounterVec
	LimitChanges     prometheus.Counter

	// Beneficiary metrics
	BeneficiariesRegistered prometheus.Counter
	BeneficiariesRemoved    prometheus.Counter

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisErrors *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec

	// Outbox metrics
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter

	// Retention metrics
	EntriesSwept prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Transfer metrics
		TransfersAuthorized: promauto.NewCounter(prometheus.CounterOpts{
			Name: "spendguard_transfers_authorized_total",
			Help: "Total number of transfers authorized",
		}),
		TransfersRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendguard_transfers_rejected_total",
				Help: "Total number of transfers rejected by reason",
			},
			[]string{"reason"},
		),
		TransferDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "spendguard_transfer_duration_seconds",
			Help:    "Duration of transfer authorizations",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "spendguard_transfer_amount",
			Help:    "Authorized transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		GatewayErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "spendguard_gateway_errors_total",
			Help: "Total number of token gateway failures",
		}),

		// Wallet metrics
		WalletsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "spendguard_wallets_created_total",
			Help: "Total number of wallets created",
		}),
		WalletRemaining: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spendguard_wallet_remaining_quota",
				Help: "Remaining in-window quota per wallet",
			},
			[]string{"wallet_id"},
		),
		QuotaAdjustments: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendguard_quota_adjustments_total",
				Help: "Total quota adjustments by scope",
			},
			[]string{"scope"},
		),
		LimitChanges: promauto.NewCounter(prometheus.CounterOpts{
			Name: "spendguard_limit_changes_total",
			Help: "Total limit replacements",
		}),

		// Beneficiary metrics
		BeneficiariesRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "spendguard_beneficiaries_registered_total",
			Help: "Total number of beneficiaries registered",
		}),
		BeneficiariesRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "spendguard_beneficiaries_removed_total",
			Help: "Total number of beneficiaries removed",
		}),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendguard_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spendguard_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "spendguard_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendguard_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendguard_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendguard_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendguard_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendguard_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Audit metrics
		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendguard_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),

		// Outbox metrics
		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "spendguard_events_published_total",
			Help: "Total outbox events published",
		}),
		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "spendguard_publish_errors_total",
			Help: "Total outbox publish failures",
		}),

		// Retention metrics
		EntriesSwept: promauto.NewCounter(prometheus.CounterOpts{
			Name: "spendguard_entries_swept_total",
			Help: "Total expired ledger entries deleted by the sweeper",
		}),
	}
}
