package pooling_stats_get_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"freightpool/internal/entities"
	"freightpool/internal/handlers/rest/pooling_stats_get"
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

func TestPoolingStatsGetHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		mockSetup      func(m *mock)
		expectedStatus int
		expectedBody   map[string]interface{}
		wantErr        bool
	}{
		{
			name: "Успешное получение агрегатов по матчам",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					GetStats(gomock.Any()).
					Return(&entities.PoolingStats{
						TotalFound:        42,
						Active:            5,
						Executed:          21,
						Expired:           11,
						Cancelled:         5,
						TotalSavingsCents: 2456000,
						AvgSavingsPercent: 27.3,
						AvgMatchScore:     71.8,
						SuccessRatePct:    50.0,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"total_matches_found":     float64(42),
				"matches_active":          float64(5),
				"matches_executed":        float64(21),
				"matches_expired":         float64(11),
				"matches_cancelled":       float64(5),
				"total_savings":           "24560.00",
				"average_savings_percent": 27.3,
				"average_match_score":     71.8,
				"pooling_success_rate":    50.0,
			},
			wantErr: false,
		},
		{
			name: "Пустая статистика без матчей",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					GetStats(gomock.Any()).
					Return(&entities.PoolingStats{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"total_matches_found":     float64(0),
				"matches_active":          float64(0),
				"matches_executed":        float64(0),
				"matches_expired":         float64(0),
				"matches_cancelled":       float64(0),
				"total_savings":           "0.00",
				"average_savings_percent": float64(0),
				"average_match_score":     float64(0),
				"pooling_success_rate":    float64(0),
			},
			wantErr: false,
		},
		{
			name: "Ошибка сервиса при получении статистики",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					GetStats(gomock.Any()).
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

			handler := pooling_stats_get.New(m.MockhandlerLogger, m.MockService)

			req := httptest.NewRequest(http.MethodGet, "/pooling/stats", http.NoBody)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, "unexpected status code")

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
