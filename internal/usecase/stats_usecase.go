package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/infrastructure/metrics"
)

// Stats is the hotel-wide admin summary.
type Stats struct {
	Customers          int                          `json:"customers"`
	ActiveCustomers    int                          `json:"active_customers"`
	Wallets            int                          `json:"wallets"`
	TotalWalletBalance decimal.Decimal              `json:"total_wallet_balance"`
	BookingsByStatus   map[domain.BookingStatus]int `json:"bookings_by_status"`
	Revenue            decimal.Decimal              `json:"revenue"`
	GeneratedAt        time.Time                    `json:"generated_at"`
}

// StatsUseCase serves admin statistics and wallet reconciliation.
type StatsUseCase struct {
	ledgerRepo LedgerRepository
	cache      Cache
	cacheTTL   time.Duration
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewStatsUseCase creates a new StatsUseCase. cache may be nil.
func NewStatsUseCase(ledgerRepo LedgerRepository, cache Cache, cacheTTL time.Duration, metrics *metrics.Metrics, logger zerolog.Logger) *StatsUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultStatsCacheTTL
	}
	return &StatsUseCase{
		ledgerRepo: ledgerRepo,
		cache:      cache,
		cacheTTL:   cacheTTL,
		metrics:    metrics,
		logger:     logger.With().Str("component", "stats_usecase").Logger(),
	}
}

// GetStats returns the admin summary, served from cache when fresh.
func (uc *StatsUseCase) GetStats(ctx context.Context) (*Stats, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, StatsCacheKey); err == nil && data != nil {
			var cached Stats
			if err := json.Unmarshal(data, &cached); err == nil {
				uc.countCache("hit")
				return &cached, nil
			}
		}
		uc.countCache("miss")
	}

	stats, err := uc.ledgerRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	stats.GeneratedAt = time.Now().UTC()

	if uc.cache != nil {
		data, err := json.Marshal(stats)
		if err == nil {
			if err := uc.cache.Set(ctx, StatsCacheKey, data, uc.cacheTTL); err != nil {
				uc.logger.Warn().Err(err).Msg("failed to cache stats")
			}
		}
	}

	return stats, nil
}

// ReconciliationResult compares a wallet's balance with the sum of its transactions.
type ReconciliationResult struct {
	WalletID          string
	CustomerID        string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalWallets      int
	ReconciledWallets int
	Discrepancies     []*ReconciliationResult
	CheckedAt         time.Time
}

// ReconcileWallets checks balance == sum of signed transactions for every wallet.
func (uc *StatsUseCase) ReconcileWallets(ctx context.Context) (*ReconciliationReport, error) {
	balances, err := uc.ledgerRepo.WalletBalances(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalWallets:  len(balances),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for _, b := range balances {
		diff := b.RecordedBalance.Sub(b.CalculatedBalance)
		if diff.IsZero() {
			report.ReconciledWallets++
			continue
		}

		report.Discrepancies = append(report.Discrepancies, &ReconciliationResult{
			WalletID:          b.WalletID,
			CustomerID:        b.CustomerID,
			RecordedBalance:   b.RecordedBalance,
			CalculatedBalance: b.CalculatedBalance,
			Difference:        diff,
		})
		uc.logger.Error().
			Str("wallet_id", b.WalletID).
			Str("recorded", b.RecordedBalance.String()).
			Str("calculated", b.CalculatedBalance.String()).
			Msg("wallet ledger discrepancy")
	}

	return report, nil
}

func (uc *StatsUseCase) countCache(result string) {
	if uc.metrics != nil {
		uc.metrics.CacheRequests.WithLabelValues("stats", result).Inc()
	}
}
