package pooling_optimize_post

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"freightpool/internal/entities"
	"freightpool/internal/generated/dto"
	"freightpool/internal/pkg/metrics"
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
	var optimizeDTO dto.OptimizeRequest
	err := json.NewDecoder(r.Body).Decode(&optimizeDTO)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	optimizeRequest := entities.OptimizeRequest{}

	// Опциональные параметры
	if optimizeDTO.ShipmentIDs != nil {
		optimizeRequest.ShipmentIDs = *optimizeDTO.ShipmentIDs
	}
	if optimizeDTO.OriginState != nil {
		optimizeRequest.OriginState = optimizeDTO.OriginState
	}
	if optimizeDTO.DestState != nil {
		optimizeRequest.DestState = optimizeDTO.DestState
	}
	if optimizeDTO.Equipment != nil {
		equipmentType := entities.EquipmentType(*optimizeDTO.Equipment)
		optimizeRequest.Equipment = &equipmentType
	}
	if optimizeDTO.MaxPoolSize != nil {
		optimizeRequest.MaxPoolSize = *optimizeDTO.MaxPoolSize
	}
	if optimizeDTO.MinSavingsPercent != nil {
		optimizeRequest.MinSavingsPercent = optimizeDTO.MinSavingsPercent
	}

	start := time.Now()
	matchEntities, err := h.service.Optimize(r.Context(), optimizeRequest)
	if err != nil {
		switch {
		case errors.Is(err, pooling.ErrInvalidPoolSize),
			errors.Is(err, pooling.ErrInvalidSavingsFilter),
			errors.Is(err, pooling.ErrInvalidShipmentID):
			w.WriteHeader(http.StatusBadRequest)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	metrics.OptimizeDuration.Observe(time.Since(start).Seconds())
	metrics.MatchesProposedTotal.Add(float64(len(matchEntities)))

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
