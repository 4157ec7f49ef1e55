//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=shipment_test
package shipment

import (
	"context"

	"freightpool/internal/entities"
	"freightpool/pkg/keylock"
)

type Repository interface {
	Create(ctx context.Context, shipmentEntity entities.Shipment) (*entities.Shipment, error)
	GetByID(ctx context.Context, id int64) (*entities.Shipment, error)
	GetAll(ctx context.Context, filter entities.ShipmentFilter) ([]entities.Shipment, error)
	Update(ctx context.Context, shipmentModifyEntity entities.ShipmentModify) (*entities.Shipment, error)
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
