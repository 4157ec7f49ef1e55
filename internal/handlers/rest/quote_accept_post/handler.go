package quote_accept_post

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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

	acceptance, err := h.service.AcceptQuote(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, quote.ErrInvalidQuoteID):
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, quote.ErrQuoteNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, quote.ErrQuoteExpired):
			w.WriteHeader(http.StatusGone)
		case errors.Is(err, quote.ErrQuoteAlreadyAccepted),
			errors.Is(err, quote.ErrQuoteNotActive):
			w.WriteHeader(http.StatusConflict)
		case errors.Is(err, quote.ErrShipmentNotBookable):
			w.WriteHeader(http.StatusUnprocessableEntity)
		case errors.Is(err, quote.ErrBusy):
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	response := dto.QuoteAcceptance{
		QuoteID:    acceptance.QuoteID,
		ShipmentID: acceptance.ShipmentID,
		TotalPrice: money.Dollars(acceptance.TotalCents),
		BookingRef: acceptance.BookingRef,
		Status:     acceptance.Status.String(),
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
