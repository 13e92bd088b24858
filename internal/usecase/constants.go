package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultStatsCacheTTL is how long admin stats stay cached
	DefaultStatsCacheTTL = 30 * time.Second

	// StatsCacheKey is the cache key of the admin stats snapshot
	StatsCacheKey = "hotel:stats"

	// ReasonDepositPayment and ReasonBalancePayment prefix wallet debits made for bookings
	ReasonDepositPayment = "Deposit for booking"
	ReasonBalancePayment = "Balance for booking"
)
