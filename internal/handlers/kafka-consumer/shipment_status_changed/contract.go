package shipment_status_changed

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
	ProcessShipmentStatusChange(ctx context.Context, shipmentModify entities.ShipmentModify) (*entities.Shipment, error)
}
