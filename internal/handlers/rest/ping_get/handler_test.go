package ping_get_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"freightpool/internal/handlers/rest/ping_get"
)

func TestPingGetHandler(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockLog := NewMockhandlerLogger(ctrl)

	mockLog.EXPECT().
		With(gomock.Any()).
		Return(mockLog).
		AnyTimes()

	handler := ping_get.New(mockLog)
	req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "unexpected status code")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String(), "unexpected response body")
}
