//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=quote_accept_post_test
package quote_accept_post

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
	AcceptQuote(ctx context.Context, id int64) (*entities.QuoteAcceptance, error)
}
