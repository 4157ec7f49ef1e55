//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=quote_get_test
package quote_get

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
	GetQuote(ctx context.Context, id int64) (*entities.Quote, error)
}
