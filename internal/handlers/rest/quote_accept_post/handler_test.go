package quote_accept_post_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"freightpool/internal/entities"
	"freightpool/internal/handlers/rest/quote_accept_post"
	"freightpool/internal/service/quote"
)

type mock struct {
	*MockService
	*MockhandlerLogger
}

func newMock(ctrl *gomock.Controller) *mock {
	return &mock{
		MockService:       NewMockService(ctrl),
		MockhandlerLogger: NewMockhandlerLogger(ctrl),
	}
}

func TestQuoteAcceptPostHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		quoteID        string
		mockSetup      func(m *mock)
		expectedStatus int
		expectedBody   map[string]interface{}
		wantRetryAfter bool
		wantErr        bool
	}{
		{
			name:    "Успешное принятие котировки бронирует груз",
			quoteID: "10",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					AcceptQuote(gomock.Any(), int64(10)).
					Return(&entities.QuoteAcceptance{
						QuoteID:    10,
						ShipmentID: 1,
						TotalCents: 256927,
						BookingRef: "BK-ABCD1234",
						Status:     entities.QuoteAccepted,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"quote_ID":    float64(10),
				"shipment_ID": float64(1),
				"total_price": "2569.27",
				"booking_ref": "BK-ABCD1234",
				"status":      "accepted",
			},
			wantErr: false,
		},
		{
			name:           "Невалидный ID котировки (не число)",
			quoteID:        "abc",
			mockSetup:      nil,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   nil,
			wantErr:        true,
		},
		{
			name:    "Котировка не найдена",
			quoteID: "999",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					AcceptQuote(gomock.Any(), int64(999)).
					Return(nil, quote.ErrQuoteNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   nil,
			wantErr:        true,
		},
		{
			name:    "Котировка просрочена",
			quoteID: "11",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					AcceptQuote(gomock.Any(), int64(11)).
					Return(nil, quote.ErrQuoteExpired)
			},
			expectedStatus: http.StatusGone,
			expectedBody:   nil,
			wantErr:        true,
		},
		{
			name:    "Котировка уже принята",
			quoteID: "12",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					AcceptQuote(gomock.Any(), int64(12)).
					Return(nil, quote.ErrQuoteAlreadyAccepted)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   nil,
			wantErr:        true,
		},
		{
			name:    "Котировка вытеснена новой",
			quoteID: "13",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					AcceptQuote(gomock.Any(), int64(13)).
					Return(nil, quote.ErrQuoteNotActive)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   nil,
			wantErr:        true,
		},
		{
			name:    "Груз нельзя забронировать",
			quoteID: "14",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					AcceptQuote(gomock.Any(), int64(14)).
					Return(nil, quote.ErrShipmentNotBookable)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   nil,
			wantErr:        true,
		},
		{
			name:    "Груз занят другой операцией",
			quoteID: "15",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					AcceptQuote(gomock.Any(), int64(15)).
					Return(nil, quote.ErrBusy)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   nil,
			wantRetryAfter: true,
			wantErr:        true,
		},
		{
			name:    "Ошибка сервиса при принятии котировки",
			quoteID: "10",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					AcceptQuote(gomock.Any(), int64(10)).
					Return(nil, errors.New("database connection error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   nil,
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)

			m := newMock(ctrl)

			m.MockhandlerLogger.EXPECT().
				With(gomock.Any()).
				Return(m.MockhandlerLogger).
				AnyTimes()

			if tt.mockSetup != nil {
				tt.mockSetup(m)
			}

			handler := quote_accept_post.New(m.MockhandlerLogger, m.MockService)

			req := httptest.NewRequest(http.MethodPost, "/quotes/"+tt.quoteID+"/accept", http.NoBody)
			req = mux.SetURLVars(req, map[string]string{"id": tt.quoteID})
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, "unexpected status code")

			if tt.wantRetryAfter {
				assert.Equal(t, "1", w.Header().Get("Retry-After"))
			}

			if tt.wantErr {
				return
			}

			if tt.expectedBody != nil {
				expectedJSON, err := json.Marshal(tt.expectedBody)
				require.NoError(t, err, "failed to marshal expected body")
				assert.JSONEq(t, string(expectedJSON), w.Body.String(), "unexpected response body")
			}
		})
	}
}
