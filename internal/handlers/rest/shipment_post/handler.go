package shipment_post

import (
	"encoding/json"
	"errors"
	"net/http"

	"freightpool/internal/entities"
	"freightpool/internal/generated/dto"
	"freightpool/internal/service/shipment"
	"freightpool/pkg/logger"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var shipmentCreateDTO dto.ShipmentCreate
	err := json.NewDecoder(r.Body).Decode(&shipmentCreateDTO)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	shipmentEntity := entities.Shipment{
		Origin: entities.Location{
			City:       shipmentCreateDTO.Origin.City,
			State:      shipmentCreateDTO.Origin.State,
			PostalCode: shipmentCreateDTO.Origin.ZipCode,
			Lat:        shipmentCreateDTO.Origin.Lat,
			Lon:        shipmentCreateDTO.Origin.Lon,
		},
		Destination: entities.Location{
			City:       shipmentCreateDTO.Destination.City,
			State:      shipmentCreateDTO.Destination.State,
			PostalCode: shipmentCreateDTO.Destination.ZipCode,
			Lat:        shipmentCreateDTO.Destination.Lat,
			Lon:        shipmentCreateDTO.Destination.Lon,
		},
		PickupWindow: entities.TimeWindow{
			Start: shipmentCreateDTO.PickupWindow.Earliest,
			End:   shipmentCreateDTO.PickupWindow.Latest,
		},
		DeliveryWindow: entities.TimeWindow{
			Start: shipmentCreateDTO.DeliveryWindow.Earliest,
			End:   shipmentCreateDTO.DeliveryWindow.Latest,
		},
		Dimensions: entities.Dimensions{
			WeightLbs:   shipmentCreateDTO.Dimensions.WeightLbs,
			LinearFeet:  shipmentCreateDTO.Dimensions.LinearFeet,
			PalletCount: 1,
		},
		Equipment: entities.DefaultEquipmentType,
	}

	// Опциональные параметры
	if shipmentCreateDTO.Dimensions.PalletCount != nil {
		shipmentEntity.Dimensions.PalletCount = *shipmentCreateDTO.Dimensions.PalletCount
	}
	if shipmentCreateDTO.Dimensions.Stackable != nil {
		shipmentEntity.Dimensions.Stackable = *shipmentCreateDTO.Dimensions.Stackable
	}
	if shipmentCreateDTO.Equipment != nil {
		shipmentEntity.Equipment = entities.EquipmentType(*shipmentCreateDTO.Equipment)
	}
	if shipmentCreateDTO.RequiresLiftgate != nil {
		shipmentEntity.RequiresLiftgate = *shipmentCreateDTO.RequiresLiftgate
	}
	if shipmentCreateDTO.RequiresAppointment != nil {
		shipmentEntity.RequiresAppointment = *shipmentCreateDTO.RequiresAppointment
	}
	if shipmentCreateDTO.RequiresInsideDelivery != nil {
		shipmentEntity.RequiresInsideDelivery = *shipmentCreateDTO.RequiresInsideDelivery
	}

	created, err := h.service.CreateShipment(r.Context(), shipmentEntity)
	if err != nil {
		switch {
		case errors.Is(err, shipment.ErrMissingRequiredFields),
			errors.Is(err, shipment.ErrInvalidLocation),
			errors.Is(err, shipment.ErrInvalidWindow),
			errors.Is(err, shipment.ErrInvalidDimensions),
			errors.Is(err, shipment.ErrInvalidEquipment):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, shipment.ErrConflict):
			w.WriteHeader(http.StatusConflict)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	response := dto.ShipmentCreateResponse{
		ID:        created.ID,
		Reference: created.Reference,
		Status:    created.Status.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	err = json.NewEncoder(w).Encode(response)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
