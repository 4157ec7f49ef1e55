package quote_post

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlekSi/pointer"

	"freightpool/internal/generated/dto"
	"freightpool/internal/pkg/metrics"
	"freightpool/internal/service/quote"
	"freightpool/internal/service/shipment"
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
	var quoteCreateDTO dto.QuoteCreate
	err := json.NewDecoder(r.Body).Decode(&quoteCreateDTO)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	quoteEntity, err := h.service.GenerateQuote(r.Context(), quoteCreateDTO.ShipmentID)
	if err != nil {
		switch {
		case errors.Is(err, quote.ErrInvalidShipmentID):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, shipment.ErrShipmentNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, quote.ErrShipmentNotQuotable):
			w.WriteHeader(http.StatusUnprocessableEntity)
		case errors.Is(err, quote.ErrRoutingUnavailable):
			w.WriteHeader(http.StatusBadGateway)
		case errors.Is(err, quote.ErrBusy):
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	metrics.QuotesIssuedTotal.Inc()

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
	w.WriteHeader(http.StatusCreated)
	err = json.NewEncoder(w).Encode(quoteDTO)
	if err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
