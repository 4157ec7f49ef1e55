//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=pooling_test
package pooling

import (
	"context"
	"time"

	"freightpool/internal/entities"
	"freightpool/pkg/keylock"
)

type Repository interface {
	Create(ctx context.Context, matchEntity entities.PoolingMatch) (*entities.PoolingMatch, error)
	GetByID(ctx context.Context, id int64) (*entities.PoolingMatch, error)
	GetAll(ctx context.Context, filter entities.MatchFilter) ([]entities.PoolingMatch, error)
	Update(ctx context.Context, matchModifyEntity entities.MatchModify) (*entities.PoolingMatch, error)
	GetEligibleShipments(ctx context.Context, filter entities.EligibleShipmentFilter) ([]entities.Shipment, error)
	GetActiveProposed(ctx context.Context) ([]entities.PoolingMatch, error)
	GetProposedExpired(ctx context.Context, now time.Time) ([]entities.PoolingMatch, error)
	GetActiveProposedByShipmentID(ctx context.Context, shipmentID int64) ([]entities.PoolingMatch, error)
	GetStats(ctx context.Context) (*entities.PoolingStats, error)
}

type ShipmentService interface {
	GetShipment(ctx context.Context, id int64) (*entities.Shipment, error)
	MarkPooled(ctx context.Context, id int64) (*entities.Shipment, error)
}

type Pricer interface {
	IndividualPrice(shipmentEntity entities.Shipment) (*entities.PriceBreakdown, error)
	PooledPrice(members []entities.Shipment, combinedMiles float64) (*entities.PooledBreakdown, error)
	SplitPooledCost(members []entities.Shipment, pooledCents int64) []int64
}

type DistanceEstimator interface {
	DistanceMiles(from, to entities.Location) float64
}

type Locker interface {
	AcquireAll(ctx context.Context, keys []keylock.Key) (func(), error)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
