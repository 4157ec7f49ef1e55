package shipment_get

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/AlekSi/pointer"
	"github.com/gorilla/mux"

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
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	shipmentEntity, err := h.service.GetShipment(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, shipment.ErrShipmentNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, shipment.ErrInvalidShipmentID):
			w.WriteHeader(http.StatusBadRequest)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	shipmentDTO := dto.Shipment{
		ID:        shipmentEntity.ID,
		Reference: shipmentEntity.Reference,
		Origin: dto.Location{
			City:    shipmentEntity.Origin.City,
			State:   shipmentEntity.Origin.State,
			ZipCode: shipmentEntity.Origin.PostalCode,
			Lat:     shipmentEntity.Origin.Lat,
			Lon:     shipmentEntity.Origin.Lon,
		},
		Destination: dto.Location{
			City:    shipmentEntity.Destination.City,
			State:   shipmentEntity.Destination.State,
			ZipCode: shipmentEntity.Destination.PostalCode,
			Lat:     shipmentEntity.Destination.Lat,
			Lon:     shipmentEntity.Destination.Lon,
		},
		PickupWindow: dto.TimeWindow{
			Earliest: shipmentEntity.PickupWindow.Start,
			Latest:   shipmentEntity.PickupWindow.End,
		},
		DeliveryWindow: dto.TimeWindow{
			Earliest: shipmentEntity.DeliveryWindow.Start,
			Latest:   shipmentEntity.DeliveryWindow.End,
		},
		Dimensions: dto.Dimensions{
			WeightLbs:   shipmentEntity.Dimensions.WeightLbs,
			LinearFeet:  shipmentEntity.Dimensions.LinearFeet,
			PalletCount: pointer.To(shipmentEntity.Dimensions.PalletCount),
			Stackable:   pointer.To(shipmentEntity.Dimensions.Stackable),
		},
		Equipment:              shipmentEntity.Equipment.String(),
		RequiresLiftgate:       shipmentEntity.RequiresLiftgate,
		RequiresAppointment:    shipmentEntity.RequiresAppointment,
		RequiresInsideDelivery: shipmentEntity.RequiresInsideDelivery,
		DistanceMiles:          shipmentEntity.DistanceMiles,
		Status:                 shipmentEntity.Status.String(),
		BookingRef:             shipmentEntity.BookingRef,
		CreatedAt:              shipmentEntity.CreatedAt,
		UpdatedAt:              shipmentEntity.UpdatedAt,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(shipmentDTO)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
