package pooling_match_execute_post

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

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
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var executeDTO dto.MatchExecuteRequest
	err = json.NewDecoder(r.Body).Decode(&executeDTO)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	execution, err := h.service.Execute(r.Context(), id, executeDTO.Confirm)
	if err != nil {
		switch {
		case errors.Is(err, pooling.ErrInvalidMatchID),
			errors.Is(err, pooling.ErrConfirmationRequired):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, pooling.ErrMatchNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, pooling.ErrMatchExpired):
			w.WriteHeader(http.StatusGone)
		case errors.Is(err, pooling.ErrMatchConflict):
			w.WriteHeader(http.StatusConflict)
		case errors.Is(err, pooling.ErrBusy):
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	metrics.MatchesExecutedTotal.Inc()

	memberShares := make([]dto.MemberShare, 0, len(execution.MemberShares))
	for _, share := range execution.MemberShares {
		memberShares = append(memberShares, dto.MemberShare{
			ShipmentID: share.ShipmentID,
			Share:      money.Dollars(share.ShareCents),
		})
	}

	response := dto.MatchExecution{
		MatchID:         execution.MatchID,
		ShipmentsPooled: execution.ShipmentsPooled,
		TotalSavings:    money.Dollars(execution.TotalSavingsCents),
		SavingsPercent:  execution.SavingsPercent,
		MemberShares:    memberShares,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(response)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
