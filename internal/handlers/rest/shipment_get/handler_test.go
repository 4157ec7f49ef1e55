package shipment_get_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"freightpool/internal/entities"
	"freightpool/internal/handlers/rest/shipment_get"
	"freightpool/internal/service/shipment"
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

func TestShipmentGetHandler(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		shipmentID     string
		mockSetup      func(m *mock)
		expectedStatus int
		expectedBody   map[string]interface{}
		wantErr        bool
	}{
		{
			name:       "Успешное получение груза по ID",
			shipmentID: "1",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					GetShipment(gomock.Any(), int64(1)).
					Return(&entities.Shipment{
						ID:        1,
						Reference: "SLP-20260901-A1B2C3D4",
						Origin: entities.Location{
							City: "Chicago", State: "IL", PostalCode: "60601",
							Lat: 41.8781, Lon: -87.6298,
						},
						Destination: entities.Location{
							City: "Atlanta", State: "GA", PostalCode: "30301",
							Lat: 33.7490, Lon: -84.3880,
						},
						PickupWindow: entities.TimeWindow{
							Start: fixedTime,
							End:   fixedTime.Add(10 * time.Hour),
						},
						DeliveryWindow: entities.TimeWindow{
							Start: fixedTime.Add(48 * time.Hour),
							End:   fixedTime.Add(58 * time.Hour),
						},
						Dimensions: entities.Dimensions{
							WeightLbs: 12000, LinearFeet: 16, PalletCount: 8, Stackable: true,
						},
						Equipment:        entities.DryVan,
						RequiresLiftgate: true,
						DistanceMiles:    717.5,
						Status:           entities.ShipmentBooked,
						BookingRef:       pointer.To("BK-ABCD1234"),
						CreatedAt:        fixedTime,
						UpdatedAt:        fixedTime,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"ID":        float64(1),
				"reference": "SLP-20260901-A1B2C3D4",
				"origin": map[string]interface{}{
					"city": "Chicago", "state": "IL", "zip_code": "60601",
					"lat": 41.8781, "lon": -87.6298,
				},
				"destination": map[string]interface{}{
					"city": "Atlanta", "state": "GA", "zip_code": "30301",
					"lat": 33.7490, "lon": -84.3880,
				},
				"pickup_window": map[string]interface{}{
					"earliest": "2026-09-01T12:00:00Z",
					"latest":   "2026-09-01T22:00:00Z",
				},
				"delivery_window": map[string]interface{}{
					"earliest": "2026-09-03T12:00:00Z",
					"latest":   "2026-09-03T22:00:00Z",
				},
				"dimensions": map[string]interface{}{
					"weight_lbs": float64(12000), "linear_feet": float64(16),
					"pallet_count": float64(8), "stackable": true,
				},
				"equipment":                "dry_van",
				"requires_liftgate":        true,
				"requires_appointment":     false,
				"requires_inside_delivery": false,
				"distance_miles":           717.5,
				"status":                   "booked",
				"booking_ref":              "BK-ABCD1234",
				"created_at":               "2026-09-01T12:00:00Z",
				"updated_at":               "2026-09-01T12:00:00Z",
			},
			wantErr: false,
		},
		{
			name:           "Невалидный ID груза (не число)",
			shipmentID:     "abc",
			mockSetup:      nil,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   nil,
			wantErr:        true,
		},
		{
			name:       "Груз не найден",
			shipmentID: "999",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					GetShipment(gomock.Any(), int64(999)).
					Return(nil, shipment.ErrShipmentNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   nil,
			wantErr:        true,
		},
		{
			name:       "Невалидный ID груза (отрицательное число)",
			shipmentID: "-1",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					GetShipment(gomock.Any(), int64(-1)).
					Return(nil, shipment.ErrInvalidShipmentID)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   nil,
			wantErr:        true,
		},
		{
			name:       "Ошибка сервиса при получении груза",
			shipmentID: "1",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					GetShipment(gomock.Any(), int64(1)).
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

			handler := shipment_get.New(m.MockhandlerLogger, m.MockService)

			req := httptest.NewRequest(http.MethodGet, "/shipments/"+tt.shipmentID, http.NoBody)
			req = mux.SetURLVars(req, map[string]string{"id": tt.shipmentID})
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
