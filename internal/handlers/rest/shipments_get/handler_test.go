package shipments_get_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"freightpool/internal/entities"
	"freightpool/internal/handlers/rest/shipments_get"
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

func testShipment(id int64, status entities.ShipmentStatusType) entities.Shipment {
	fixedTime := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	return entities.Shipment{
		ID:        id,
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
			WeightLbs: 12000, LinearFeet: 16, PalletCount: 8,
		},
		Equipment:     entities.DryVan,
		DistanceMiles: 717.5,
		Status:        status,
		CreatedAt:     fixedTime,
		UpdatedAt:     fixedTime,
	}
}

func TestShipmentsGetHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		queryString    string
		mockSetup      func(m *mock)
		expectedStatus int
		expectedIDs    []int64
		wantErr        bool
	}{
		{
			name:        "Успешное получение списка без фильтров",
			queryString: "",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					GetShipments(gomock.Any(), entities.ShipmentFilter{}).
					Return([]entities.Shipment{
						testShipment(1, entities.ShipmentCreated),
						testShipment(2, entities.ShipmentQuoted),
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedIDs:    []int64{1, 2},
			wantErr:        false,
		},
		{
			name:        "Фильтры по статусу и штату передаются сервису",
			queryString: "?status=created&origin_state=IL&limit=10&offset=20",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					GetShipments(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, filter entities.ShipmentFilter) ([]entities.Shipment, error) {
						require.NotNil(t, filter.Status)
						assert.Equal(t, entities.ShipmentCreated, *filter.Status)
						require.NotNil(t, filter.OriginState)
						assert.Equal(t, "IL", *filter.OriginState)
						assert.Nil(t, filter.Equipment)
						assert.Nil(t, filter.DestState)
						assert.Equal(t, uint64(10), filter.Limit)
						assert.Equal(t, uint64(20), filter.Offset)

						return []entities.Shipment{testShipment(1, entities.ShipmentCreated)}, nil
					})
			},
			expectedStatus: http.StatusOK,
			expectedIDs:    []int64{1},
			wantErr:        false,
		},
		{
			name:        "Пустой список отдает пустой JSON-массив",
			queryString: "",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					GetShipments(gomock.Any(), entities.ShipmentFilter{}).
					Return([]entities.Shipment{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedIDs:    []int64{},
			wantErr:        false,
		},
		{
			name:           "Невалидный limit (не число)",
			queryString:    "?limit=abc",
			mockSetup:      nil,
			expectedStatus: http.StatusBadRequest,
			wantErr:        true,
		},
		{
			name:        "Невалидный статус",
			queryString: "?status=unknown",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					GetShipments(gomock.Any(), gomock.Any()).
					Return(nil, shipment.ErrInvalidStatus)
			},
			expectedStatus: http.StatusBadRequest,
			wantErr:        true,
		},
		{
			name:        "Ошибка сервиса при получении списка",
			queryString: "",
			mockSetup: func(m *mock) {
				m.MockService.EXPECT().
					GetShipments(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("database connection error"))
			},
			expectedStatus: http.StatusInternalServerError,
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

			handler := shipments_get.New(m.MockhandlerLogger, m.MockService)

			req := httptest.NewRequest(http.MethodGet, "/shipments"+tt.queryString, http.NoBody)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, "unexpected status code")

			if tt.wantErr {
				return
			}

			var responseBody []map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseBody))
			require.Len(t, responseBody, len(tt.expectedIDs))
			for i, expectedID := range tt.expectedIDs {
				assert.Equal(t, float64(expectedID), responseBody[i]["ID"])
			}
		})
	}
}
