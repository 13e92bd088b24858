package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Customer metrics
	CustomersCreated   prometheus.Counter
	CustomerOperations *prometheus.CounterVec

	// Wallet metrics
	WalletCredits      prometheus.Counter
	WalletDebits       prometheus.Counter
	WalletCreditAmount prometheus.Histogram

	// Booking metrics
	BookingsCreated   prometheus.Counter
	BookingsConfirmed prometheus.Counter
	BookingsCancelled prometheus.Counter
	PaymentsProcessed *prometheus.CounterVec
	PaymentErrors     *prometheus.CounterVec
	PaymentDuration   prometheus.Histogram

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxErrors    prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBRetries *prometheus.CounterVec

	// Cache metrics
	CacheRequests *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates all Prometheus metrics on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CustomersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotel_customers_created_total",
			Help: "Total number of customers created",
		}),
		CustomerOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hotel_customer_operations_total",
				Help: "Total customer operations by type",
			},
			[]string{"operation"},
		),

		WalletCredits: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotel_wallet_credits_total",
			Help: "Total number of wallet credits",
		}),
		WalletDebits: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotel_wallet_debits_total",
			Help: "Total number of wallet debits",
		}),
		WalletCreditAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "hotel_wallet_credit_amount",
			Help:    "Wallet credit amounts in base currency",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 5000, 10000},
		}),

		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotel_bookings_created_total",
			Help: "Total number of bookings created",
		}),
		BookingsConfirmed: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotel_bookings_confirmed_total",
			Help: "Total number of bookings confirmed",
		}),
		BookingsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotel_bookings_cancelled_total",
			Help: "Total number of bookings cancelled",
		}),
		PaymentsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hotel_payments_processed_total",
				Help: "Total booking payments by type",
			},
			[]string{"type"},
		),
		PaymentErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hotel_payment_errors_total",
				Help: "Total booking payment failures by error type",
			},
			[]string{"type", "error_type"},
		),
		PaymentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "hotel_payment_duration_seconds",
			Help:    "Duration of booking payment operations",
			Buckets: prometheus.DefBuckets,
		}),

		OutboxPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotel_outbox_published_total",
			Help: "Total outbox events published",
		}),
		OutboxErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotel_outbox_errors_total",
			Help: "Total outbox publish failures",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hotel_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hotel_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hotel_db_retries_total",
				Help: "Total retried database operations",
			},
			[]string{"reason"},
		),

		CacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hotel_cache_requests_total",
				Help: "Cache lookups by result",
			},
			[]string{"cache", "result"},
		),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hotel_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
