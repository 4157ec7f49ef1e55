package quote_get

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/AlekSi/pointer"
	"github.com/gorilla/mux"

	"freightpool/internal/generated/dto"
	"freightpool/internal/service/quote"
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

	quoteEntity, err := h.service.GetQuote(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, quote.ErrInvalidQuoteID):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, quote.ErrQuoteNotFound):
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	savingsVsMarket := 0.0
	if quoteEntity.MarketRateCents > 0 {
		savingsVsMarket = float64(quoteEntity.MarketRateCents-quoteEntity.TotalCents) / float64(quoteEntity.MarketRateCents) * 100
	}

	quoteDTO := dto.Quote{
		ID:                 quoteEntity.ID,
		ShipmentID:         quoteEntity.ShipmentID,
		BaseRate:           money.Dollars(quoteEntity.LinehaulCents),
		FuelSurcharge:      money.Dollars(quoteEntity.FuelSurchargeCents),
		AccessorialCharges: money.Dollars(quoteEntity.AccessorialCents),
		PoolingDiscount:    money.Dollars(quoteEntity.PoolingDiscountCents),
		TotalPrice:         money.Dollars(quoteEntity.TotalCents),
		RatePerMile:        money.Dollars(quoteEntity.RatePerMileCents),
		MarketRate:         money.Dollars(quoteEntity.MarketRateCents),
		SavingsVsMarket:    savingsVsMarket,
		PoolingProbability: quoteEntity.PoolingProbability,
		TransitDays:        quoteEntity.TransitDays,
		Status:             quoteEntity.Status.String(),
		ValidUntil:         quoteEntity.ValidUntil,
	}
	// Прогноз экономии показываем только при высоком шансе пулинга
	if quoteEntity.PoolingProbability > 70 {
		quoteDTO.EstimatedPoolingSavings = pointer.To(money.Dollars(quoteEntity.PoolingDiscountCents * 3 / 2))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(quoteDTO)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
