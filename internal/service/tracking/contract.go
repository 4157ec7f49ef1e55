//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=tracking_test
package tracking

import (
	"context"

	"freightpool/internal/entities"
)

type ShipmentService interface {
	UpdateStatus(ctx context.Context, id int64, status entities.ShipmentStatusType) (*entities.Shipment, error)
}

type PoolingService interface {
	CancelMatchesForShipment(ctx context.Context, shipmentID int64) (int64, error)
}

type (
	ExecuteFn      func(ctx context.Context, shipmentID int64) error
	HandlerFactory interface {
		GetHandler(status entities.ShipmentStatusType) (ExecuteFn, error)
	}
)
