package shipment_post_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"freightpool/internal/entities"
	"freightpool/internal/handlers/rest/shipment_post"
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

const validShipmentBody = `{
	"origin": {"city": "Chicago", "state": "IL", "zip_code": "60601", "lat": 41.8781, "lon": -87.6298},
	"destination": {"city": "Atlanta", "state": "GA", "zip_code": "30301", "lat": 33.7490, "lon": -84.3880},
	"pickup_window": {"earliest": "2026-09-01T08:00:00Z", "latest": "2026-09-01T18:00:00Z"},
	"delivery_window": {"earliest": "2026-09-03T08:00:00Z", "latest": "2026-09-03T18:00:00Z"},
	"dimensions": {"weight_lbs": 12000, "linear_feet": 16, "pallet_count": 8, "stackable": true},
	"equipment": "dry_van",
	"requires_liftgate": true
}`

func TestShipmentPostHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		requestBody    string
		mockSetup      func(m *mock)
		expectedStatus int
		expectedBody   map[string]interface{}
		wantErr        bool
	}{
		{
			name:        "Успешное создание груза",
			requestBody: validShipmentBody,
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					CreateShipment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, shipmentEntity entities.Shipment) (*entities.Shipment, error) {
						assert.Equal(t, "Chicago", shipmentEntity.Origin.City)
						assert.Equal(t, "60601", shipmentEntity.Origin.PostalCode)
						assert.Equal(t, entities.DryVan, shipmentEntity.Equipment)
						assert.Equal(t, 8, shipmentEntity.Dimensions.PalletCount)
						assert.True(t, shipmentEntity.Dimensions.Stackable)
						assert.True(t, shipmentEntity.RequiresLiftgate)
						assert.False(t, shipmentEntity.RequiresAppointment)

						shipmentEntity.ID = 1
						shipmentEntity.Reference = "SLP-20260901-A1B2C3D4"
						shipmentEntity.Status = entities.ShipmentCreated
						return &shipmentEntity, nil
					})
			},
			expectedStatus: http.StatusCreated,
			expectedBody: map[string]interface{}{
				"ID":        float64(1),
				"reference": "SLP-20260901-A1B2C3D4",
				"status":    "created",
			},
			wantErr: false,
		},
		{
			name: "Пропущенные опциональные поля получают значения по умолчанию",
			requestBody: `{
				"origin": {"city": "Chicago", "state": "IL", "zip_code": "60601", "lat": 41.8781, "lon": -87.6298},
				"destination": {"city": "Atlanta", "state": "GA", "zip_code": "30301", "lat": 33.7490, "lon": -84.3880},
				"pickup_window": {"earliest": "2026-09-01T08:00:00Z", "latest": "2026-09-01T18:00:00Z"},
				"delivery_window": {"earliest": "2026-09-03T08:00:00Z", "latest": "2026-09-03T18:00:00Z"},
				"dimensions": {"weight_lbs": 12000, "linear_feet": 16}
			}`,
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					CreateShipment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, shipmentEntity entities.Shipment) (*entities.Shipment, error) {
						assert.Equal(t, entities.DryVan, shipmentEntity.Equipment)
						assert.Equal(t, 1, shipmentEntity.Dimensions.PalletCount)
						assert.False(t, shipmentEntity.Dimensions.Stackable)
						assert.False(t, shipmentEntity.RequiresLiftgate)

						shipmentEntity.ID = 2
						shipmentEntity.Reference = "SLP-20260901-E5F6A7B8"
						shipmentEntity.Status = entities.ShipmentCreated
						return &shipmentEntity, nil
					})
			},
			expectedStatus: http.StatusCreated,
			expectedBody: map[string]interface{}{
				"ID":        float64(2),
				"reference": "SLP-20260901-E5F6A7B8",
				"status":    "created",
			},
			wantErr: false,
		},
		{
			name:           "Невалидный JSON в теле запроса",
			requestBody:    "invalid json",
			mockSetup:      nil,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   nil,
			wantErr:        true,
		},
		{
			name:        "Невалидные координаты",
			requestBody: validShipmentBody,
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					CreateShipment(gomock.Any(), gomock.Any()).
					Return(nil, shipment.ErrInvalidLocation)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   nil,
			wantErr:        true,
		},
		{
			name:        "Невалидное временное окно",
			requestBody: validShipmentBody,
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					CreateShipment(gomock.Any(), gomock.Any()).
					Return(nil, shipment.ErrInvalidWindow)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   nil,
			wantErr:        true,
		},
		{
			name:        "Невалидные габариты",
			requestBody: validShipmentBody,
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					CreateShipment(gomock.Any(), gomock.Any()).
					Return(nil, shipment.ErrInvalidDimensions)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   nil,
			wantErr:        true,
		},
		{
			name:        "Невалидный тип прицепа",
			requestBody: validShipmentBody,
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					CreateShipment(gomock.Any(), gomock.Any()).
					Return(nil, shipment.ErrInvalidEquipment)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   nil,
			wantErr:        true,
		},
		{
			name:        "Конфликт по reference",
			requestBody: validShipmentBody,
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					CreateShipment(gomock.Any(), gomock.Any()).
					Return(nil, shipment.ErrConflict)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   nil,
			wantErr:        true,
		},
		{
			name:        "Ошибка сервиса при создании груза",
			requestBody: validShipmentBody,
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					CreateShipment(gomock.Any(), gomock.Any()).
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

			handler := shipment_post.New(m.MockhandlerLogger, m.MockService)

			req := httptest.NewRequest(http.MethodPost, "/shipments", bytes.NewReader([]byte(tt.requestBody)))
			req.Header.Set("Content-Type", "application/json")
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
