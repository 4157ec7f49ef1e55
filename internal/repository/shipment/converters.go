package shipment

import (
	"freightpool/internal/entities"
)

func ToDomain(s *ShipmentDB) *entities.Shipment {
	if s == nil {
		return nil
	}

	return &entities.Shipment{
		ID:        s.ID,
		Reference: s.Reference,
		Origin: entities.Location{
			City:       s.OriginCity,
			State:      s.OriginState,
			PostalCode: s.OriginPostalCode,
			Lat:        s.OriginLat,
			Lon:        s.OriginLon,
		},
		Destination: entities.Location{
			City:       s.DestCity,
			State:      s.DestState,
			PostalCode: s.DestPostalCode,
			Lat:        s.DestLat,
			Lon:        s.DestLon,
		},
		PickupWindow: entities.TimeWindow{
			Start: s.PickupStart,
			End:   s.PickupEnd,
		},
		DeliveryWindow: entities.TimeWindow{
			Start: s.DeliveryStart,
			End:   s.DeliveryEnd,
		},
		Dimensions: entities.Dimensions{
			WeightLbs:   s.WeightLbs,
			LinearFeet:  s.LinearFeet,
			PalletCount: s.PalletCount,
			Stackable:   s.Stackable,
		},
		Equipment:              entities.EquipmentType(s.Equipment),
		RequiresLiftgate:       s.RequiresLiftgate,
		RequiresAppointment:    s.RequiresAppointment,
		RequiresInsideDelivery: s.RequiresInsideDelivery,
		DistanceMiles:          s.DistanceMiles,
		Status:                 entities.ShipmentStatusType(s.Status),
		BookingRef:             s.BookingRef,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}

func FromDomain(shipmentEntity *entities.Shipment) *ShipmentDB {
	if shipmentEntity == nil {
		return nil
	}

	return &ShipmentDB{
		ID:                     shipmentEntity.ID,
		Reference:              shipmentEntity.Reference,
		OriginCity:             shipmentEntity.Origin.City,
		OriginState:            shipmentEntity.Origin.State,
		OriginPostalCode:       shipmentEntity.Origin.PostalCode,
		OriginLat:              shipmentEntity.Origin.Lat,
		OriginLon:              shipmentEntity.Origin.Lon,
		DestCity:               shipmentEntity.Destination.City,
		DestState:              shipmentEntity.Destination.State,
		DestPostalCode:         shipmentEntity.Destination.PostalCode,
		DestLat:                shipmentEntity.Destination.Lat,
		DestLon:                shipmentEntity.Destination.Lon,
		PickupStart:            shipmentEntity.PickupWindow.Start,
		PickupEnd:              shipmentEntity.PickupWindow.End,
		DeliveryStart:          shipmentEntity.DeliveryWindow.Start,
		DeliveryEnd:            shipmentEntity.DeliveryWindow.End,
		WeightLbs:              shipmentEntity.Dimensions.WeightLbs,
		LinearFeet:             shipmentEntity.Dimensions.LinearFeet,
		PalletCount:            shipmentEntity.Dimensions.PalletCount,
		Stackable:              shipmentEntity.Dimensions.Stackable,
		Equipment:              shipmentEntity.Equipment.String(),
		RequiresLiftgate:       shipmentEntity.RequiresLiftgate,
		RequiresAppointment:    shipmentEntity.RequiresAppointment,
		RequiresInsideDelivery: shipmentEntity.RequiresInsideDelivery,
		DistanceMiles:          shipmentEntity.DistanceMiles,
		Status:                 shipmentEntity.Status.String(),
		BookingRef:             shipmentEntity.BookingRef,
	}
}

func FromDomainModify(shipmentModify *entities.ShipmentModify) *ShipmentModifyDB {
	if shipmentModify == nil {
		return nil
	}
	shipmentDB := &ShipmentModifyDB{}

	if shipmentModify.ID != nil {
		shipmentDB.ID = shipmentModify.ID
	}
	if shipmentModify.Status != nil {
		statusType := shipmentModify.Status.String()
		shipmentDB.Status = &statusType
	}
	if shipmentModify.BookingRef != nil {
		shipmentDB.BookingRef = shipmentModify.BookingRef
	}
	if shipmentModify.DistanceMiles != nil {
		shipmentDB.DistanceMiles = shipmentModify.DistanceMiles
	}

	return shipmentDB
}

func ToDomainList(shipmentsDB []ShipmentDB) []entities.Shipment {
	if len(shipmentsDB) == 0 {
		return []entities.Shipment{}
	}

	result := make([]entities.Shipment, len(shipmentsDB))
	for i, shipmentDB := range shipmentsDB {
		result[i] = *ToDomain(&shipmentDB)
	}
	return result
}
