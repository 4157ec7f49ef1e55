//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=pooling_optimize_post_test
package pooling_optimize_post

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
	Optimize(ctx context.Context, request entities.OptimizeRequest) ([]entities.PoolingMatch, error)
}
