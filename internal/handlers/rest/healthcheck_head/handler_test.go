package healthcheck_head_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"freightpool/internal/handlers/rest/healthcheck_head"
)

func TestHealthcheckHeadHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		isShuttingDown  bool
		expectedStatus  int
		expectedHeaders map[string]string
	}{
		{
			name:           "Сервис работает, возвращает 204",
			isShuttingDown: false,
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "Сервис останавливается, возвращает 503 с Retry-After",
			isShuttingDown: true,
			expectedStatus: http.StatusServiceUnavailable,
			expectedHeaders: map[string]string{
				"Retry-After": "5",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var isShuttingDown atomic.Bool
			isShuttingDown.Store(tt.isShuttingDown)

			handler := healthcheck_head.New(&isShuttingDown)
			req := httptest.NewRequest(http.MethodHead, "/healthcheck", http.NoBody)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, "unexpected status code")
			for header, value := range tt.expectedHeaders {
				assert.Equal(t, value, w.Header().Get(header))
			}
		})
	}
}
