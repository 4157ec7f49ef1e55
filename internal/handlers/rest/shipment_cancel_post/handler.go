package shipment_cancel_post

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
	log            handlerLogger
	service        Service
	poolingService PoolingService
}

func New(log handlerLogger, service Service, poolingService PoolingService) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:            handlerLog,
		service:        service,
		poolingService: poolingService,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	cancelled, err := h.service.CancelShipment(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, shipment.ErrInvalidShipmentID):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, shipment.ErrShipmentNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, shipment.ErrShipmentPooled):
			w.WriteHeader(http.StatusConflict)
		case errors.Is(err, shipment.ErrStatusTransition):
			w.WriteHeader(http.StatusUnprocessableEntity)
		case errors.Is(err, shipment.ErrBusy):
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	// Груз уже отменен, снятие предложений не должно ронять ответ.
	// Недоснятые предложения доберет фоновая чистка.
	if _, err := h.poolingService.CancelMatchesForShipment(r.Context(), id); err != nil {
		h.log.With(
			logger.NewField("shipment_id", id),
			logger.NewField("error", err),
		).Warn("cancel matches for cancelled shipment")
	}

	shipmentDTO := dto.Shipment{
		ID:        cancelled.ID,
		Reference: cancelled.Reference,
		Origin: dto.Location{
			City:    cancelled.Origin.City,
			State:   cancelled.Origin.State,
			ZipCode: cancelled.Origin.PostalCode,
			Lat:     cancelled.Origin.Lat,
			Lon:     cancelled.Origin.Lon,
		},
		Destination: dto.Location{
			City:    cancelled.Destination.City,
			State:   cancelled.Destination.State,
			ZipCode: cancelled.Destination.PostalCode,
			Lat:     cancelled.Destination.Lat,
			Lon:     cancelled.Destination.Lon,
		},
		PickupWindow: dto.TimeWindow{
			Earliest: cancelled.PickupWindow.Start,
			Latest:   cancelled.PickupWindow.End,
		},
		DeliveryWindow: dto.TimeWindow{
			Earliest: cancelled.DeliveryWindow.Start,
			Latest:   cancelled.DeliveryWindow.End,
		},
		Dimensions: dto.Dimensions{
			WeightLbs:   cancelled.Dimensions.WeightLbs,
			LinearFeet:  cancelled.Dimensions.LinearFeet,
			PalletCount: pointer.To(cancelled.Dimensions.PalletCount),
			Stackable:   pointer.To(cancelled.Dimensions.Stackable),
		},
		Equipment:              cancelled.Equipment.String(),
		RequiresLiftgate:       cancelled.RequiresLiftgate,
		RequiresAppointment:    cancelled.RequiresAppointment,
		RequiresInsideDelivery: cancelled.RequiresInsideDelivery,
		DistanceMiles:          cancelled.DistanceMiles,
		Status:                 cancelled.Status.String(),
		BookingRef:             cancelled.BookingRef,
		CreatedAt:              cancelled.CreatedAt,
		UpdatedAt:              cancelled.UpdatedAt,
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
