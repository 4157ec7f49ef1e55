//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=quote_test
package quote

import (
	"context"

	"freightpool/internal/entities"
	"freightpool/pkg/keylock"
)

type Repository interface {
	Create(ctx context.Context, quoteEntity entities.Quote) (*entities.Quote, error)
	GetByID(ctx context.Context, id int64) (*entities.Quote, error)
	Update(ctx context.Context, quoteModifyEntity entities.QuoteModify) (*entities.Quote, error)
	SupersedeActiveByShipmentID(ctx context.Context, shipmentID int64) (int64, error)
	UpdateQuotesExpiredWhereDeadlinePassed(ctx context.Context) (int64, error)
}

type ShipmentService interface {
	GetShipment(ctx context.Context, id int64) (*entities.Shipment, error)
	MarkQuoted(ctx context.Context, id int64) (*entities.Shipment, error)
	BookShipment(ctx context.Context, id int64) (*entities.Shipment, error)
	UpdateDistance(ctx context.Context, id int64, distanceMiles float64) (*entities.Shipment, error)
}

type PoolingEstimator interface {
	EstimatePoolingProbability(ctx context.Context, shipmentEntity entities.Shipment) (int, error)
}

type RouteEstimator interface {
	EstimateRoute(ctx context.Context, from, to entities.Location) (*entities.RouteEstimate, error)
}

type Locker interface {
	AcquireAll(ctx context.Context, keys []keylock.Key) (func(), error)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
