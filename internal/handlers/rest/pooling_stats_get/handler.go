package pooling_stats_get

import (
	"encoding/json"
	"net/http"

	"freightpool/internal/generated/dto"
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
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	statsDTO := dto.PoolingStats{
		TotalMatchesFound:     stats.TotalFound,
		MatchesActive:         stats.Active,
		MatchesExecuted:       stats.Executed,
		MatchesExpired:        stats.Expired,
		MatchesCancelled:      stats.Cancelled,
		TotalSavings:          money.Dollars(stats.TotalSavingsCents),
		AverageSavingsPercent: stats.AvgSavingsPercent,
		AverageMatchScore:     stats.AvgMatchScore,
		PoolingSuccessRate:    stats.SuccessRatePct,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(statsDTO)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
