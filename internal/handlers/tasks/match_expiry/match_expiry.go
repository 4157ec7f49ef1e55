package match_expiry

import (
	"context"
	"time"

	"freightpool/internal/pkg/metrics"
	"freightpool/pkg/logger"
)

type Service interface {
	CleanupExpiredMatches(ctx context.Context) (int64, error)
}

type MatchExpiry struct {
	log      logger.Logger
	service  Service
	interval time.Duration
}

func NewMatchExpiry(log logger.Logger, service Service, interval time.Duration) *MatchExpiry {
	return &MatchExpiry{
		log:      log,
		service:  service,
		interval: interval,
	}
}

func (m *MatchExpiry) TTL() time.Duration {
	return m.interval
}

func (m *MatchExpiry) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	rowsAffected, err := m.service.CleanupExpiredMatches(ctxWithTimeout)

	if rowsAffected > 0 {
		metrics.MatchesExpiredTotal.Add(float64(rowsAffected))
		m.log.With(
			logger.NewField("expired_matches", rowsAffected),
		).Info("match expiry")
	}

	return err
}

func (m *MatchExpiry) Info() string {
	return "match expiry"
}
