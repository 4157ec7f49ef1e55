//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=pooling_matches_get_test
package pooling_matches_get

import (
	"context"

	"freightpool/internal/entities"
	"freightpool/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	GetMatches(ctx context.Context, filter entities.MatchFilter) ([]entities.PoolingMatch, error)
}
