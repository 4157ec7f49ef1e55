package tracking_handle

import (
	"context"
	"fmt"

	"freightpool/internal/entities"
	"freightpool/internal/service/tracking"
)

type StatusHandlerFactory struct {
	poolingService tracking.PoolingService
}

func NewStatusHandlerFactory(poolingService tracking.PoolingService) *StatusHandlerFactory {
	return &StatusHandlerFactory{
		poolingService: poolingService,
	}
}

func (f *StatusHandlerFactory) GetHandler(status entities.ShipmentStatusType) (tracking.ExecuteFn, error) {
	switch status {
	case entities.ShipmentInTransit:
		return f.departedHandler, nil
	case entities.ShipmentDelivered:
		return f.deliveredHandler, nil
	case entities.ShipmentCancelled:
		return f.cancelledHandler, nil
	default:
		return nil, fmt.Errorf("%w: %s", tracking.ErrUndefinedStatus, status)
	}
}

func (f *StatusHandlerFactory) departedHandler(ctx context.Context, shipmentID int64) error {
	_, err := f.poolingService.CancelMatchesForShipment(ctx, shipmentID)
	if err != nil {
		return fmt.Errorf("cancel matches for departed shipment %d: %w", shipmentID, err)
	}
	return nil
}

func (f *StatusHandlerFactory) deliveredHandler(ctx context.Context, shipmentID int64) error {
	_, err := f.poolingService.CancelMatchesForShipment(ctx, shipmentID)
	if err != nil {
		return fmt.Errorf("cancel matches for delivered shipment %d: %w", shipmentID, err)
	}
	return nil
}

func (f *StatusHandlerFactory) cancelledHandler(ctx context.Context, shipmentID int64) error {
	_, err := f.poolingService.CancelMatchesForShipment(ctx, shipmentID)
	if err != nil {
		return fmt.Errorf("cancel matches for cancelled shipment %d: %w", shipmentID, err)
	}
	return nil
}
