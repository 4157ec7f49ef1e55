package tracking

import (
	"context"
	"errors"
	"fmt"

	"freightpool/internal/entities"
)

type Service struct {
	shipmentService ShipmentService
	statusFactory   HandlerFactory
}

func New(shipmentService ShipmentService, statusFactory HandlerFactory) *Service {
	return &Service{
		shipmentService: shipmentService,
		statusFactory:   statusFactory,
	}
}

// ProcessShipmentStatusChange применяет событие трекинга: переводит груз в
// новый статус и выполняет побочные действия этого статуса. Статусы без
// обработчика просто применяются.
func (s *Service) ProcessShipmentStatusChange(ctx context.Context, shipmentModify entities.ShipmentModify) (*entities.Shipment, error) {
	if shipmentModify.ID == nil || shipmentModify.Status == nil {
		return nil, fmt.Errorf("shipment id and status are required")
	}

	shipmentEntity, err := s.shipmentService.UpdateStatus(ctx, *shipmentModify.ID, *shipmentModify.Status)
	if err != nil {
		return nil, fmt.Errorf("update shipment status: %w", err)
	}

	executeFn, err := s.statusFactory.GetHandler(shipmentEntity.Status)
	if err != nil {
		if errors.Is(err, ErrUndefinedStatus) {
			return shipmentEntity, nil
		}
		return shipmentEntity, err
	}

	if err := executeFn(ctx, shipmentEntity.ID); err != nil {
		return nil, err
	}

	return shipmentEntity, nil
}
