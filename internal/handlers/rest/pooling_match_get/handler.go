package pooling_match_get

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

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
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	matchEntity, err := h.service.GetMatch(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, pooling.ErrInvalidMatchID):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, pooling.ErrMatchNotFound):
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	matchDTO := dto.PoolingMatch{
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

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(matchDTO)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
