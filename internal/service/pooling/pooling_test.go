package pooling_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"freightpool/internal/entities"
	service_pooling "freightpool/internal/service/pooling"
	service_quote "freightpool/internal/service/quote"
)

type mock struct {
	MockRepository      *MockRepository
	MockShipmentService *MockShipmentService
	MockLocker          *MockLocker
	MockTxManager       *MockTxManager
}

func newMock(ctrl *gomock.Controller) *mock {
	return &mock{
		MockRepository:      NewMockRepository(ctrl),
		MockShipmentService: NewMockShipmentService(ctrl),
		MockLocker:          NewMockLocker(ctrl),
		MockTxManager:       NewMockTxManager(ctrl),
	}
}

func newService(m *mock) *service_pooling.Pooling {
	return service_pooling.New(
		m.MockRepository,
		m.MockShipmentService,
		testPricer(),
		gridDistance{},
		m.MockLocker,
		m.MockTxManager,
		testPoolingConfig(),
	)
}

func testPricer() *service_quote.Pricing {
	return service_quote.NewPricing(service_quote.PricingConfig{
		BaseRatePerMileCents:   250,
		MarketRatePerMileCents: 280,

		LongHaulMiles:       500,
		LongHaulBP:          11000,
		ShortHaulBP:         9500,
		LowUtilizationShare: 0.5,
		LowUtilizationBP:    11000,
		FuelSurchargeBP:     1500,

		LiftgateCents:       7500,
		AppointmentCents:    5000,
		InsideDeliveryCents: 10000,
		StopOverheadCents:   5000,

		CompetitorLowBP:  9000,
		CompetitorHighBP: 12000,

		DiscountHighProbability: 60,
		DiscountHighBP:          2000,
		DiscountMidProbability:  30,
		DiscountMidBP:           1000,

		TrailerLengthFeet: 53,
		AverageSpeedMPH:   50,
		TransitDayMiles:   500,
	})
}

func errorAssertion(expectedError error, expectedErrMsg string) require.ErrorAssertionFunc {
	return func(t require.TestingT, err error, msgAndArgs ...interface{}) {
		if expectedError != nil || expectedErrMsg != "" {
			require.Error(t, err, msgAndArgs...)
			if expectedError != nil {
				assert.ErrorIs(t, err, expectedError, msgAndArgs...)
			}
			if expectedErrMsg != "" {
				assert.Contains(t, err.Error(), expectedErrMsg, msgAndArgs...)
			}
		} else {
			require.NoError(t, err, msgAndArgs...)
		}
	}
}

func expectTx(m *mock) {
	m.MockTxManager.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		})
}

func expectLock(m *mock) {
	m.MockLocker.EXPECT().
		AcquireAll(gomock.Any(), gomock.Any()).
		Return(func() {}, nil)
}

func expectLockBusy(m *mock) {
	m.MockLocker.EXPECT().
		AcquireAll(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("acquire lock: context deadline exceeded"))
}

// proposedMatch повторяет числа пары alpha+beta из теста скоринга.
func proposedMatch(id int64) entities.PoolingMatch {
	now := time.Now().UTC()
	return entities.PoolingMatch{
		ID:                   id,
		ShipmentIDs:          []int64{1, 2},
		GeoScore:             80,
		TemporalScore:        75,
		CapacityScore:        66.59,
		OverallScore:         74.9,
		IndividualCostCents:  720101,
		PooledCostCents:      326250,
		SavingsCents:         393851,
		SavingsPercent:       54.69,
		CombinedMiles:        1100,
		CombinedHours:        22,
		EstimatedUtilization: 0.566,
		Status:               entities.MatchProposed,
		ExpiresAt:            now.Add(time.Hour),
		CreatedAt:            now.Add(-time.Hour),
	}
}

func expiredProposedMatch(id int64) entities.PoolingMatch {
	matchEntity := proposedMatch(id)
	matchEntity.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	return matchEntity
}

func TestOptimize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		request        entities.OptimizeRequest
		mockSetup      func(m *mock)
		resultChecker  func(t *testing.T, result []entities.PoolingMatch)
		errorAssertion require.ErrorAssertionFunc
	}{
		{
			name:    "подбирает пул из совместимой пары",
			request: entities.OptimizeRequest{},
			mockSetup: func(m *mock) {
				expectTx(m)
				m.MockRepository.EXPECT().
					GetEligibleShipments(gomock.Any(), entities.EligibleShipmentFilter{}).
					Return([]entities.Shipment{shipmentAlpha(), shipmentBeta()}, nil)
				m.MockRepository.EXPECT().
					GetActiveProposed(gomock.Any()).
					Return(nil, nil)
				m.MockRepository.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, matchEntity entities.PoolingMatch) (*entities.PoolingMatch, error) {
						matchEntity.ID = 77
						return &matchEntity, nil
					})
			},
			resultChecker: func(t *testing.T, result []entities.PoolingMatch) {
				require.Len(t, result, 1)
				matchEntity := result[0]
				assert.Equal(t, int64(77), matchEntity.ID)
				assert.Equal(t, []int64{1, 2}, matchEntity.ShipmentIDs)
				assert.Equal(t, entities.MatchProposed, matchEntity.Status)
				assert.InDelta(t, 80.0, matchEntity.GeoScore, 0.01)
				assert.InDelta(t, 75.0, matchEntity.TemporalScore, 0.01)
				assert.InDelta(t, 74.9, matchEntity.OverallScore, 0.01)
				assert.Equal(t, int64(720101), matchEntity.IndividualCostCents)
				assert.Equal(t, int64(326250), matchEntity.PooledCostCents)
				assert.Equal(t, int64(393851), matchEntity.SavingsCents)
				assert.InDelta(t, 54.69, matchEntity.SavingsPercent, 0.01)
				assert.Less(t, matchEntity.PooledCostCents, matchEntity.IndividualCostCents)
				assert.InDelta(t, 1100.0, matchEntity.CombinedMiles, 0.01)
				assert.InDelta(t, 22.0, matchEntity.CombinedHours, 0.01)
				assert.InDelta(t, 0.566, matchEntity.EstimatedUtilization, 0.001)
				assert.Equal(t, 4*time.Hour, matchEntity.ExpiresAt.Sub(matchEntity.CreatedAt))
			},
			errorAssertion: errorAssertion(nil, ""),
		},
		{
			name:    "лучший кандидат забирает участников первым",
			request: entities.OptimizeRequest{},
			mockSetup: func(m *mock) {
				expectTx(m)
				m.MockRepository.EXPECT().
					GetEligibleShipments(gomock.Any(), entities.EligibleShipmentFilter{}).
					Return([]entities.Shipment{shipmentAlpha(), shipmentBeta(), shipmentGamma()}, nil)
				m.MockRepository.EXPECT().
					GetActiveProposed(gomock.Any()).
					Return(nil, nil)
				m.MockRepository.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, matchEntity entities.PoolingMatch) (*entities.PoolingMatch, error) {
						matchEntity.ID = 78
						return &matchEntity, nil
					})
			},
			resultChecker: func(t *testing.T, result []entities.PoolingMatch) {
				// тройка и пары с пересечением проигрывают плотной паре beta+gamma
				require.Len(t, result, 1)
				assert.Equal(t, []int64{2, 3}, result[0].ShipmentIDs)
				assert.InDelta(t, 82.83, result[0].OverallScore, 0.01)
			},
			errorAssertion: errorAssertion(nil, ""),
		},
		{
			name:    "повторный вызов переиспользует предложение",
			request: entities.OptimizeRequest{},
			mockSetup: func(m *mock) {
				expectTx(m)
				m.MockRepository.EXPECT().
					GetEligibleShipments(gomock.Any(), entities.EligibleShipmentFilter{}).
					Return([]entities.Shipment{shipmentAlpha(), shipmentBeta()}, nil)
				m.MockRepository.EXPECT().
					GetActiveProposed(gomock.Any()).
					Return([]entities.PoolingMatch{proposedMatch(42)}, nil)
			},
			resultChecker: func(t *testing.T, result []entities.PoolingMatch) {
				require.Len(t, result, 1)
				assert.Equal(t, int64(42), result[0].ID)
			},
			errorAssertion: errorAssertion(nil, ""),
		},
		{
			name:    "занятый участник блокирует новое предложение",
			request: entities.OptimizeRequest{},
			mockSetup: func(m *mock) {
				claimed := proposedMatch(9)
				claimed.ShipmentIDs = []int64{2, 7}
				expectTx(m)
				m.MockRepository.EXPECT().
					GetEligibleShipments(gomock.Any(), entities.EligibleShipmentFilter{}).
					Return([]entities.Shipment{shipmentAlpha(), shipmentBeta()}, nil)
				m.MockRepository.EXPECT().
					GetActiveProposed(gomock.Any()).
					Return([]entities.PoolingMatch{claimed}, nil)
			},
			resultChecker: func(t *testing.T, result []entities.PoolingMatch) {
				assert.Empty(t, result)
			},
			errorAssertion: errorAssertion(nil, ""),
		},
		{
			name:    "меньше двух подходящих грузов",
			request: entities.OptimizeRequest{},
			mockSetup: func(m *mock) {
				expectTx(m)
				m.MockRepository.EXPECT().
					GetEligibleShipments(gomock.Any(), entities.EligibleShipmentFilter{}).
					Return([]entities.Shipment{shipmentAlpha()}, nil)
			},
			resultChecker: func(t *testing.T, result []entities.PoolingMatch) {
				assert.Empty(t, result)
			},
			errorAssertion: errorAssertion(nil, ""),
		},
		{
			name:    "несовместимые грузы не образуют кандидатов",
			request: entities.OptimizeRequest{},
			mockSetup: func(m *mock) {
				far := shipmentGamma()
				far.Origin.Lat = 500
				expectTx(m)
				m.MockRepository.EXPECT().
					GetEligibleShipments(gomock.Any(), entities.EligibleShipmentFilter{}).
					Return([]entities.Shipment{shipmentAlpha(), far}, nil)
				m.MockRepository.EXPECT().
					GetActiveProposed(gomock.Any()).
					Return(nil, nil)
			},
			resultChecker: func(t *testing.T, result []entities.PoolingMatch) {
				assert.Empty(t, result)
			},
			errorAssertion: errorAssertion(nil, ""),
		},
		{
			name:    "порог экономии отсекает маржинальный пул",
			request: entities.OptimizeRequest{MinSavingsPercent: pointer.ToFloat64(45)},
			mockSetup: func(m *mock) {
				// короткое плечо без длинного тарифа дает около 38% экономии
				shortAlpha := shipmentAlpha()
				shortAlpha.Destination.Lat = 300
				shortAlpha.DistanceMiles = 300
				shortBeta := shipmentBeta()
				shortBeta.Destination.Lat = 400
				shortBeta.DistanceMiles = 370
				expectTx(m)
				m.MockRepository.EXPECT().
					GetEligibleShipments(gomock.Any(), entities.EligibleShipmentFilter{}).
					Return([]entities.Shipment{shortAlpha, shortBeta}, nil)
				m.MockRepository.EXPECT().
					GetActiveProposed(gomock.Any()).
					Return(nil, nil)
			},
			resultChecker: func(t *testing.T, result []entities.PoolingMatch) {
				assert.Empty(t, result)
			},
			errorAssertion: errorAssertion(nil, ""),
		},
		{
			name:    "фильтры запроса доходят до репозитория",
			request: entities.OptimizeRequest{
				ShipmentIDs: []int64{1, 2},
				OriginState: pointer.ToString("CA"),
				DestState:   pointer.ToString("TX"),
				Equipment:   pointer.To(entities.DryVan),
			},
			mockSetup: func(m *mock) {
				expectTx(m)
				m.MockRepository.EXPECT().
					GetEligibleShipments(gomock.Any(), entities.EligibleShipmentFilter{
						IDs:         []int64{1, 2},
						OriginState: pointer.ToString("CA"),
						DestState:   pointer.ToString("TX"),
						Equipment:   pointer.To(entities.DryVan),
					}).
					Return(nil, nil)
			},
			resultChecker: func(t *testing.T, result []entities.PoolingMatch) {
				assert.Empty(t, result)
			},
			errorAssertion: errorAssertion(nil, ""),
		},
		{
			name:           "размер пула меньше двух",
			request:        entities.OptimizeRequest{MaxPoolSize: 1},
			mockSetup:      func(m *mock) {},
			errorAssertion: errorAssertion(service_pooling.ErrInvalidPoolSize, "max pool size 1"),
		},
		{
			name:           "размер пула выше потолка",
			request:        entities.OptimizeRequest{MaxPoolSize: 5},
			mockSetup:      func(m *mock) {},
			errorAssertion: errorAssertion(service_pooling.ErrInvalidPoolSize, "max pool size 5"),
		},
		{
			name:           "отрицательный порог экономии",
			request:        entities.OptimizeRequest{MinSavingsPercent: pointer.ToFloat64(-1)},
			mockSetup:      func(m *mock) {},
			errorAssertion: errorAssertion(service_pooling.ErrInvalidSavingsFilter, ""),
		},
		{
			name:           "порог экономии выше половины",
			request:        entities.OptimizeRequest{MinSavingsPercent: pointer.ToFloat64(51)},
			mockSetup:      func(m *mock) {},
			errorAssertion: errorAssertion(service_pooling.ErrInvalidSavingsFilter, ""),
		},
		{
			name:           "невалидный id груза в запросе",
			request:        entities.OptimizeRequest{ShipmentIDs: []int64{3, 0}},
			mockSetup:      func(m *mock) {},
			errorAssertion: errorAssertion(service_pooling.ErrInvalidShipmentID, ""),
		},
		{
			name:    "ошибка репозитория",
			request: entities.OptimizeRequest{},
			mockSetup: func(m *mock) {
				expectTx(m)
				m.MockRepository.EXPECT().
					GetEligibleShipments(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("connection refused"))
			},
			errorAssertion: errorAssertion(nil, "get eligible shipments"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			m := newMock(ctrl)
			tt.mockSetup(m)

			result, err := newService(m).Optimize(context.Background(), tt.request)

			tt.errorAssertion(t, err)
			if tt.resultChecker != nil {
				tt.resultChecker(t, result)
			}
		})
	}
}

func TestEstimatePoolingProbability(t *testing.T) {
	t.Parallel()

	t.Run("лучшая пара задает вероятность", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)
		far := shipmentGamma()
		far.Origin.Lat = 500
		m.MockRepository.EXPECT().
			GetEligibleShipments(gomock.Any(), entities.EligibleShipmentFilter{}).
			Return([]entities.Shipment{shipmentAlpha(), shipmentBeta(), far}, nil)

		probability, err := newService(m).EstimatePoolingProbability(context.Background(), shipmentAlpha())

		require.NoError(t, err)
		assert.Equal(t, 75, probability)
	})

	t.Run("без совместимых пар вероятность нулевая", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)
		far := shipmentGamma()
		far.Origin.Lat = 500
		m.MockRepository.EXPECT().
			GetEligibleShipments(gomock.Any(), entities.EligibleShipmentFilter{}).
			Return([]entities.Shipment{shipmentAlpha(), far}, nil)

		probability, err := newService(m).EstimatePoolingProbability(context.Background(), shipmentAlpha())

		require.NoError(t, err)
		assert.Equal(t, 0, probability)
	})

	t.Run("ошибка репозитория", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)
		m.MockRepository.EXPECT().
			GetEligibleShipments(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection refused"))

		probability, err := newService(m).EstimatePoolingProbability(context.Background(), shipmentAlpha())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "get eligible shipments")
		assert.Equal(t, 0, probability)
	})
}

func TestGetMatch(t *testing.T) {
	t.Parallel()

	t.Run("возвращает свежий матч", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)
		stored := proposedMatch(5)
		m.MockRepository.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&stored, nil)

		result, err := newService(m).GetMatch(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, entities.MatchProposed, result.Status)
	})

	t.Run("просроченное предложение истекает при чтении", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)
		stale := expiredProposedMatch(5)
		m.MockRepository.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&stale, nil).Times(2)
		expectLock(m)
		expectTx(m)
		m.MockRepository.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, modify entities.MatchModify) (*entities.PoolingMatch, error) {
				updated := stale
				updated.Status = *modify.Status
				return &updated, nil
			})

		result, err := newService(m).GetMatch(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, entities.MatchExpired, result.Status)
	})

	t.Run("занятый матч возвращается как сохранен", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)
		stale := expiredProposedMatch(5)
		m.MockRepository.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&stale, nil)
		expectLockBusy(m)

		result, err := newService(m).GetMatch(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, entities.MatchProposed, result.Status)
	})

	t.Run("матч не найден", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)
		m.MockRepository.EXPECT().
			GetByID(gomock.Any(), int64(404)).
			Return(nil, service_pooling.ErrMatchNotFound)

		result, err := newService(m).GetMatch(context.Background(), 404)

		assert.ErrorIs(t, err, service_pooling.ErrMatchNotFound)
		assert.Nil(t, result)
	})

	t.Run("невалидный id", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)

		result, err := newService(m).GetMatch(context.Background(), 0)

		assert.ErrorIs(t, err, service_pooling.ErrInvalidMatchID)
		assert.Nil(t, result)
	})
}

func TestGetMatches(t *testing.T) {
	t.Parallel()

	t.Run("лимит по умолчанию", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)
		m.MockRepository.EXPECT().
			GetAll(gomock.Any(), entities.MatchFilter{Limit: 50}).
			Return(nil, nil)

		result, err := newService(m).GetMatches(context.Background(), entities.MatchFilter{})

		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("лимит срезается сверху", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)
		m.MockRepository.EXPECT().
			GetAll(gomock.Any(), entities.MatchFilter{Limit: 200}).
			Return(nil, nil)

		_, err := newService(m).GetMatches(context.Background(), entities.MatchFilter{Limit: 500})

		require.NoError(t, err)
	})

	t.Run("просроченные истекают по пути чтения", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)
		fresh := proposedMatch(6)
		stale := expiredProposedMatch(7)
		status := entities.MatchProposed
		m.MockRepository.EXPECT().
			GetAll(gomock.Any(), entities.MatchFilter{Status: &status, Limit: 50}).
			Return([]entities.PoolingMatch{fresh, stale}, nil)
		m.MockRepository.EXPECT().GetByID(gomock.Any(), int64(7)).Return(&stale, nil)
		expectLock(m)
		expectTx(m)
		m.MockRepository.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, modify entities.MatchModify) (*entities.PoolingMatch, error) {
				updated := stale
				updated.Status = *modify.Status
				return &updated, nil
			})

		result, err := newService(m).GetMatches(context.Background(), entities.MatchFilter{Status: &status})

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, entities.MatchProposed, result[0].Status)
		assert.Equal(t, entities.MatchExpired, result[1].Status)
	})

	t.Run("невалидный статус", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)
		status := entities.MatchStatusType("shipped")

		_, err := newService(m).GetMatches(context.Background(), entities.MatchFilter{Status: &status})

		assert.ErrorIs(t, err, service_pooling.ErrInvalidStatus)
	})

	t.Run("отрицательный фильтр экономии", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)

		_, err := newService(m).GetMatches(context.Background(), entities.MatchFilter{MinSavingsPct: pointer.ToFloat64(-5)})

		assert.ErrorIs(t, err, service_pooling.ErrInvalidSavingsFilter)
	})

	t.Run("невалидный фильтр по грузу", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)

		_, err := newService(m).GetMatches(context.Background(), entities.MatchFilter{ShipmentID: pointer.ToInt64(0)})

		assert.ErrorIs(t, err, service_pooling.ErrInvalidShipmentID)
	})
}

func TestExecute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		matchID        int64
		confirm        bool
		mockSetup      func(m *mock)
		resultChecker  func(t *testing.T, result *entities.MatchExecution)
		errorAssertion require.ErrorAssertionFunc
	}{
		{
			name:    "исполняет предложение",
			matchID: 5,
			confirm: true,
			mockSetup: func(m *mock) {
				stored := proposedMatch(5)
				m.MockRepository.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&stored, nil).Times(2)
				expectLock(m)
				expectTx(m)
				alpha, beta := shipmentAlpha(), shipmentBeta()
				m.MockShipmentService.EXPECT().GetShipment(gomock.Any(), int64(1)).Return(&alpha, nil)
				m.MockShipmentService.EXPECT().GetShipment(gomock.Any(), int64(2)).Return(&beta, nil)
				m.MockRepository.EXPECT().
					Update(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, modify entities.MatchModify) (*entities.PoolingMatch, error) {
						updated := proposedMatch(5)
						updated.Status = *modify.Status
						updated.ExecutedAt = modify.ExecutedAt
						return &updated, nil
					})
				pooledAlpha, pooledBeta := shipmentAlpha(), shipmentBeta()
				pooledAlpha.Status = entities.ShipmentPooled
				pooledBeta.Status = entities.ShipmentPooled
				m.MockShipmentService.EXPECT().MarkPooled(gomock.Any(), int64(1)).Return(&pooledAlpha, nil)
				m.MockShipmentService.EXPECT().MarkPooled(gomock.Any(), int64(2)).Return(&pooledBeta, nil)
			},
			resultChecker: func(t *testing.T, result *entities.MatchExecution) {
				assert.Equal(t, int64(5), result.MatchID)
				assert.Equal(t, 2, result.ShipmentsPooled)
				assert.Equal(t, int64(393851), result.TotalSavingsCents)
				assert.InDelta(t, 54.69, result.SavingsPercent, 0.01)
				// доли пропорциональны погонным футам 18 и 12, сумма сходится
				require.Len(t, result.MemberShares, 2)
				assert.Equal(t, entities.MemberShare{ShipmentID: 1, ShareCents: 195750}, result.MemberShares[0])
				assert.Equal(t, entities.MemberShare{ShipmentID: 2, ShareCents: 130500}, result.MemberShares[1])
				assert.Equal(t, int64(326250), result.MemberShares[0].ShareCents+result.MemberShares[1].ShareCents)
			},
			errorAssertion: errorAssertion(nil, ""),
		},
		{
			name:           "без подтверждения не исполняем",
			matchID:        5,
			confirm:        false,
			mockSetup:      func(m *mock) {},
			errorAssertion: errorAssertion(service_pooling.ErrConfirmationRequired, ""),
		},
		{
			name:    "проигравший конкурент получает конфликт",
			matchID: 5,
			confirm: true,
			mockSetup: func(m *mock) {
				stored := proposedMatch(5)
				executed := proposedMatch(5)
				executed.Status = entities.MatchExecuted
				m.MockRepository.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&stored, nil)
				expectLock(m)
				expectTx(m)
				m.MockRepository.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&executed, nil)
			},
			errorAssertion: errorAssertion(service_pooling.ErrMatchConflict, "match is executed"),
		},
		{
			name:    "истекший статус",
			matchID: 5,
			confirm: true,
			mockSetup: func(m *mock) {
				stored := proposedMatch(5)
				expired := proposedMatch(5)
				expired.Status = entities.MatchExpired
				m.MockRepository.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&stored, nil)
				expectLock(m)
				expectTx(m)
				m.MockRepository.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&expired, nil)
			},
			errorAssertion: errorAssertion(service_pooling.ErrMatchExpired, ""),
		},
		{
			name:    "ttl вышел между чтениями",
			matchID: 5,
			confirm: true,
			mockSetup: func(m *mock) {
				stale := expiredProposedMatch(5)
				m.MockRepository.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&stale, nil).Times(2)
				expectLock(m)
				expectTx(m)
				m.MockRepository.EXPECT().
					Update(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, modify entities.MatchModify) (*entities.PoolingMatch, error) {
						updated := stale
						updated.Status = *modify.Status
						return &updated, nil
					})
			},
			errorAssertion: errorAssertion(service_pooling.ErrMatchExpired, ""),
		},
		{
			name:    "участник уже ушел в пул",
			matchID: 5,
			confirm: true,
			mockSetup: func(m *mock) {
				stored := proposedMatch(5)
				m.MockRepository.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&stored, nil).Times(2)
				expectLock(m)
				expectTx(m)
				pooled := shipmentAlpha()
				pooled.Status = entities.ShipmentPooled
				m.MockShipmentService.EXPECT().GetShipment(gomock.Any(), int64(1)).Return(&pooled, nil)
			},
			errorAssertion: errorAssertion(service_pooling.ErrMatchConflict, "shipment 1 is pooled"),
		},
		{
			name:    "блокировки заняты",
			matchID: 5,
			confirm: true,
			mockSetup: func(m *mock) {
				stored := proposedMatch(5)
				m.MockRepository.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&stored, nil)
				expectLockBusy(m)
			},
			errorAssertion: errorAssertion(service_pooling.ErrBusy, ""),
		},
		{
			name:    "матч не найден",
			matchID: 404,
			confirm: true,
			mockSetup: func(m *mock) {
				m.MockRepository.EXPECT().
					GetByID(gomock.Any(), int64(404)).
					Return(nil, service_pooling.ErrMatchNotFound)
			},
			errorAssertion: errorAssertion(service_pooling.ErrMatchNotFound, ""),
		},
		{
			name:           "невалидный id",
			matchID:        0,
			confirm:        true,
			mockSetup:      func(m *mock) {},
			errorAssertion: errorAssertion(service_pooling.ErrInvalidMatchID, ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			m := newMock(ctrl)
			tt.mockSetup(m)

			result, err := newService(m).Execute(context.Background(), tt.matchID, tt.confirm)

			tt.errorAssertion(t, err)
			if tt.resultChecker != nil {
				require.NotNil(t, result)
				tt.resultChecker(t, result)
			}
		})
	}
}

func TestCancel(t *testing.T) {
	t.Parallel()

	t.Run("снимает предложение", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)
		stored := proposedMatch(5)
		expectLock(m)
		expectTx(m)
		m.MockRepository.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&stored, nil)
		m.MockRepository.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, modify entities.MatchModify) (*entities.PoolingMatch, error) {
				updated := stored
				updated.Status = *modify.Status
				return &updated, nil
			})

		result, err := newService(m).Cancel(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, entities.MatchCancelled, result.Status)
	})

	t.Run("исполненный матч не трогаем", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)
		executed := proposedMatch(5)
		executed.Status = entities.MatchExecuted
		expectLock(m)
		expectTx(m)
		m.MockRepository.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&executed, nil)

		result, err := newService(m).Cancel(context.Background(), 5)

		assert.ErrorIs(t, err, service_pooling.ErrMatchConflict)
		assert.Nil(t, result)
	})
}

func TestCancelMatchesForShipment(t *testing.T) {
	t.Parallel()

	t.Run("снимает активные предложения груза", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)
		open := proposedMatch(5)
		raced := proposedMatch(6)
		racedExecuted := proposedMatch(6)
		racedExecuted.Status = entities.MatchExecuted
		m.MockRepository.EXPECT().
			GetActiveProposedByShipmentID(gomock.Any(), int64(2)).
			Return([]entities.PoolingMatch{open, raced}, nil)
		expectLock(m)
		expectTx(m)
		m.MockRepository.EXPECT().GetByID(gomock.Any(), int64(5)).Return(&open, nil)
		m.MockRepository.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, modify entities.MatchModify) (*entities.PoolingMatch, error) {
				updated := open
				updated.Status = *modify.Status
				return &updated, nil
			})
		expectLock(m)
		expectTx(m)
		m.MockRepository.EXPECT().GetByID(gomock.Any(), int64(6)).Return(&racedExecuted, nil)

		cancelled, err := newService(m).CancelMatchesForShipment(context.Background(), 2)

		require.NoError(t, err)
		assert.Equal(t, int64(1), cancelled)
	})

	t.Run("невалидный id груза", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)

		cancelled, err := newService(m).CancelMatchesForShipment(context.Background(), 0)

		assert.ErrorIs(t, err, service_pooling.ErrInvalidShipmentID)
		assert.Zero(t, cancelled)
	})
}

func TestCleanupExpiredMatches(t *testing.T) {
	t.Parallel()

	t.Run("истекшие помечаются, занятые и гонки пропускаются", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)
		stale := expiredProposedMatch(11)
		busy := expiredProposedMatch(12)
		raced := expiredProposedMatch(13)
		racedExecuted := raced
		racedExecuted.Status = entities.MatchExecuted
		m.MockRepository.EXPECT().
			GetProposedExpired(gomock.Any(), gomock.Any()).
			Return([]entities.PoolingMatch{stale, busy, raced}, nil)
		expectLock(m)
		expectTx(m)
		m.MockRepository.EXPECT().GetByID(gomock.Any(), int64(11)).Return(&stale, nil)
		m.MockRepository.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, modify entities.MatchModify) (*entities.PoolingMatch, error) {
				updated := stale
				updated.Status = *modify.Status
				return &updated, nil
			})
		expectLockBusy(m)
		expectLock(m)
		expectTx(m)
		m.MockRepository.EXPECT().GetByID(gomock.Any(), int64(13)).Return(&racedExecuted, nil)

		count, err := newService(m).CleanupExpiredMatches(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("очистка не уложилась в дедлайн", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)
		m.MockRepository.EXPECT().
			GetProposedExpired(gomock.Any(), gomock.Any()).
			Return(nil, context.DeadlineExceeded)

		count, err := newService(m).CleanupExpiredMatches(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cleanup timed out")
		assert.Zero(t, count)
	})
}

func TestGetStats(t *testing.T) {
	t.Parallel()

	t.Run("успешность считается от всех найденных", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)
		m.MockRepository.EXPECT().GetStats(gomock.Any()).Return(&entities.PoolingStats{
			TotalFound:        10,
			Active:            3,
			Executed:          4,
			Expired:           2,
			Cancelled:         1,
			TotalSavingsCents: 1575404,
			AvgSavingsPercent: 54.69,
			AvgMatchScore:     74.9,
		}, nil)

		stats, err := newService(m).GetStats(context.Background())

		require.NoError(t, err)
		assert.InDelta(t, 40.0, stats.SuccessRatePct, 0.01)
	})

	t.Run("без матчей успешность нулевая", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		m := newMock(ctrl)
		m.MockRepository.EXPECT().GetStats(gomock.Any()).Return(&entities.PoolingStats{}, nil)

		stats, err := newService(m).GetStats(context.Background())

		require.NoError(t, err)
		assert.Zero(t, stats.SuccessRatePct)
	})
}
