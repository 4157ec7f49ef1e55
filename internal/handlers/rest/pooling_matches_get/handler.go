package pooling_matches_get

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"freightpool/internal/entities"
	"freightpool/internal/generated/dto"
	"freightpool/internal/service/pooling"
	"freightpool/pkg/logger"
	"freightpool/pkg/money"
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
	query := r.URL.Query()

	filter := entities.MatchFilter{}

	// Опциональные фильтры
	if status := query.Get("status"); status != "" {
		statusType := entities.MatchStatusType(status)
		filter.Status = &statusType
	}
	if minSavingsStr := query.Get("min_savings_percent"); minSavingsStr != "" {
		minSavings, err := strconv.ParseFloat(minSavingsStr, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		filter.MinSavingsPct = &minSavings
	}
	if shipmentIDStr := query.Get("shipment_id"); shipmentIDStr != "" {
		shipmentID, err := strconv.ParseInt(shipmentIDStr, 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		filter.ShipmentID = &shipmentID
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.ParseUint(limitStr, 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		offset, err := strconv.ParseUint(offsetStr, 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		filter.Offset = offset
	}

	matchEntities, err := h.service.GetMatches(r.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, pooling.ErrInvalidStatus),
			errors.Is(err, pooling.ErrInvalidSavingsFilter),
			errors.Is(err, pooling.ErrInvalidShipmentID):
			w.WriteHeader(http.StatusBadRequest)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	matchDTOs := make([]dto.PoolingMatch, len(matchEntities))
	for i, matchEntity := range matchEntities {
		matchDTOs[i] = dto.PoolingMatch{
			ID:                   matchEntity.ID,
			ShipmentIDs:          matchEntity.ShipmentIDs,
			NumShipments:         len(matchEntity.ShipmentIDs),
			GeographicScore:      matchEntity.GeoScore,
			TemporalScore:        matchEntity.TemporalScore,
			CapacityScore:        matchEntity.CapacityScore,
			OverallScore:         matchEntity.OverallScore,
			IndividualCostTotal:  money.Dollars(matchEntity.IndividualCostCents),
			PooledCost:           money.Dollars(matchEntity.PooledCostCents),
			TotalSavings:         money.Dollars(matchEntity.SavingsCents),
			SavingsPercent:       matchEntity.SavingsPercent,
			TotalDistanceMiles:   matchEntity.CombinedMiles,
			TotalDurationHours:   matchEntity.CombinedHours,
			EstimatedUtilization: matchEntity.EstimatedUtilization,
			Status:               matchEntity.Status.String(),
			ExpiresAt:            matchEntity.ExpiresAt,
			ExecutedAt:           matchEntity.ExecutedAt,
			CreatedAt:            matchEntity.CreatedAt,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(matchDTOs)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
