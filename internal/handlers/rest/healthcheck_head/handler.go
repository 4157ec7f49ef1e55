package healthcheck_head

import (
	"net/http"
	"sync/atomic"
)

// Handler отвечает на probe-запросы балансировщика. При останове сервис
// заранее начинает отдавать 503, чтобы трафик увели до обрыва соединений.
type Handler struct {
	isShuttingDown *atomic.Bool
}

func New(isShuttingDown *atomic.Bool) *Handler {
	return &Handler{
		isShuttingDown: isShuttingDown,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.isShuttingDown.Load() {
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
