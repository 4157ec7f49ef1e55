package ping_get

import (
	"encoding/json"
	"net/http"

	"github.com/AlekSi/pointer"

	"freightpool/internal/generated/dto"
	"freightpool/pkg/logger"
)

// Handler отвечает pong на GET /ping, ручка для смоука после деплоя.
type Handler struct {
	log handlerLogger
}

func New(log handlerLogger) *Handler {
	return &Handler{
		log: log.With(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := dto.PingResponse{
		Message: pointer.To("pong"),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
