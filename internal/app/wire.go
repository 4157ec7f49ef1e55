//go:build wireinject
// +build wireinject

package app

import (
	"context"
	"net/http"
	"time"

	"freightpool/internal/entities"
	"freightpool/internal/gateway/haversine"
	"freightpool/internal/gateway/routing"
	pooling_match_execute_post "freightpool/internal/handlers/rest/pooling_match_execute_post"
	pooling_match_get "freightpool/internal/handlers/rest/pooling_match_get"
	pooling_matches_get "freightpool/internal/handlers/rest/pooling_matches_get"
	pooling_optimize_post "freightpool/internal/handlers/rest/pooling_optimize_post"
	pooling_stats_get "freightpool/internal/handlers/rest/pooling_stats_get"
	quote_accept_post "freightpool/internal/handlers/rest/quote_accept_post"
	quote_get "freightpool/internal/handlers/rest/quote_get"
	quote_post "freightpool/internal/handlers/rest/quote_post"
	shipment_cancel_post "freightpool/internal/handlers/rest/shipment_cancel_post"
	shipment_get "freightpool/internal/handlers/rest/shipment_get"
	shipment_post "freightpool/internal/handlers/rest/shipment_post"
	shipments_get "freightpool/internal/handlers/rest/shipments_get"
	"freightpool/internal/handlers/tasks/match_expiry"
	"freightpool/internal/handlers/tasks/quote_expiry"
	"freightpool/internal/pkg/config"
	"freightpool/internal/pkg/factory/tracking_handle"

	matchRepo "freightpool/internal/repository/match"
	quoteRepo "freightpool/internal/repository/quote"
	shipmentRepo "freightpool/internal/repository/shipment"
	poolingService "freightpool/internal/service/pooling"
	quoteService "freightpool/internal/service/quote"
	shipmentService "freightpool/internal/service/shipment"
	trackingService "freightpool/internal/service/tracking"

	"freightpool/pkg/background"
	"freightpool/pkg/keylock"
	"freightpool/pkg/logger"
	"freightpool/pkg/querier"
	"freightpool/pkg/tx"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
)

type (
	MatchExpiryInterval time.Duration
	QuoteExpiryInterval time.Duration
)

// Константы прайсинга, не вынесенные в окружение: конкурентный коридор
// рынка, ступени рекомендательной скидки и суточный пробег для оценки
// срока доставки.
const (
	competitorLowBP  = int64(9000)
	competitorHighBP = int64(12000)

	discountHighProbability = 60
	discountHighBP          = int64(2000)
	discountMidProbability  = 30
	discountMidBP           = int64(1000)

	lowUtilizationShare = 0.5
	transitDayMiles     = 500.0
)

type Application struct {
	ServiceShipment   ServiceShipment
	ServiceQuote      ServiceQuote
	ServicePooling    ServicePooling
	BackgroundWorkers *background.Worker
}

type ServiceShipment interface {
	shipment_post.Service
	shipment_get.Service
	shipments_get.Service
	shipment_cancel_post.Service
}

type ServiceQuote interface {
	quote_post.Service
	quote_get.Service
	quote_accept_post.Service
}

type ServicePooling interface {
	pooling_optimize_post.Service
	pooling_matches_get.Service
	pooling_match_get.Service
	pooling_match_execute_post.Service
	pooling_stats_get.Service
	shipment_cancel_post.PoolingService
}

// RouteEstimator выбирается на старте: шлюз OSRM при заданном базовом URL,
// иначе оценка по хаверсину.
type RouteEstimator interface {
	EstimateRoute(ctx context.Context, from, to entities.Location) (*entities.RouteEstimate, error)
}

// InitializeApplication для HTTP сервиса (cmd/service)
func InitializeApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	cfg *config.Config,
) (*Application, error) {
	wire.Build(
		provideTxManager,
		provideQuerier,
		provideKeyedLocks,
		provideHaversineEstimator,
		provideRouteEstimator,

		provideShipmentRepository,
		provideQuoteRepository,
		provideMatchRepository,

		provideShipmentConfig,
		provideQuoteConfig,
		providePoolingConfig,
		providePricingConfig,

		provideServiceShipment,
		providePricing,
		provideServicePooling,
		provideServiceQuote,

		provideMatchExpiryInterval,
		provideQuoteExpiryInterval,
		provideMatchExpiryTask,
		provideQuoteExpiryTask,
		provideTaskList,
		provideBackgroundWorkers,

		wire.Struct(new(Application), "*"),

		wire.Bind(new(ServiceShipment), new(*shipmentService.Shipment)),
		wire.Bind(new(ServiceQuote), new(*quoteService.Quote)),
		wire.Bind(new(ServicePooling), new(*poolingService.Pooling)),

		wire.Bind(new(shipmentService.Repository), new(*shipmentRepo.Repository)),
		wire.Bind(new(quoteService.Repository), new(*quoteRepo.Repository)),
		wire.Bind(new(poolingService.Repository), new(*matchRepo.Repository)),

		wire.Bind(new(quoteService.ShipmentService), new(*shipmentService.Shipment)),
		wire.Bind(new(poolingService.ShipmentService), new(*shipmentService.Shipment)),
		wire.Bind(new(quoteService.PoolingEstimator), new(*poolingService.Pooling)),
		wire.Bind(new(poolingService.Pricer), new(*quoteService.Pricing)),
		wire.Bind(new(poolingService.DistanceEstimator), new(*haversine.Estimator)),
		wire.Bind(new(shipmentService.RouteEstimator), new(RouteEstimator)),
		wire.Bind(new(quoteService.RouteEstimator), new(RouteEstimator)),

		wire.Bind(new(shipmentService.Locker), new(*keylock.KeyedLocks)),
		wire.Bind(new(quoteService.Locker), new(*keylock.KeyedLocks)),
		wire.Bind(new(poolingService.Locker), new(*keylock.KeyedLocks)),

		wire.Bind(new(shipmentService.TxManager), new(*tx.Manager)),
		wire.Bind(new(quoteService.TxManager), new(*tx.Manager)),
		wire.Bind(new(poolingService.TxManager), new(*tx.Manager)),

		wire.Bind(new(match_expiry.Service), new(*poolingService.Pooling)),
		wire.Bind(new(quote_expiry.Service), new(*quoteService.Quote)),
	)
	return &Application{}, nil
}

type KafkaWorkerApp struct {
	TrackingService *trackingService.Service
}

// InitializeKafkaWorkerApp для Kafka воркера (cmd/worker-shipment-status-changed)
func InitializeKafkaWorkerApp(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	cfg *config.Config,
) (*KafkaWorkerApp, error) {
	wire.Build(
		provideTxManager,
		provideQuerier,
		provideKeyedLocks,
		provideHaversineEstimator,
		provideRouteEstimator,

		provideShipmentRepository,
		provideMatchRepository,

		provideShipmentConfig,
		providePoolingConfig,
		providePricingConfig,

		provideServiceShipment,
		providePricing,
		provideServicePooling,

		provideStatusHandlerFactory,
		provideTrackingService,

		wire.Bind(new(shipmentService.Repository), new(*shipmentRepo.Repository)),
		wire.Bind(new(poolingService.Repository), new(*matchRepo.Repository)),

		wire.Bind(new(poolingService.ShipmentService), new(*shipmentService.Shipment)),
		wire.Bind(new(poolingService.Pricer), new(*quoteService.Pricing)),
		wire.Bind(new(poolingService.DistanceEstimator), new(*haversine.Estimator)),
		wire.Bind(new(shipmentService.RouteEstimator), new(RouteEstimator)),

		wire.Bind(new(shipmentService.Locker), new(*keylock.KeyedLocks)),
		wire.Bind(new(poolingService.Locker), new(*keylock.KeyedLocks)),

		wire.Bind(new(shipmentService.TxManager), new(*tx.Manager)),
		wire.Bind(new(poolingService.TxManager), new(*tx.Manager)),

		wire.Bind(new(trackingService.ShipmentService), new(*shipmentService.Shipment)),
		wire.Bind(new(trackingService.PoolingService), new(*poolingService.Pooling)),
		wire.Bind(new(trackingService.HandlerFactory), new(*tracking_handle.StatusHandlerFactory)),

		wire.Struct(new(KafkaWorkerApp), "*"),
	)
	return nil, nil
}

func provideTxManager(pool *pgxpool.Pool) *tx.Manager {
	return tx.New(pool)
}

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *querier.Querier {
	return querier.New(pool, getter)
}

func provideKeyedLocks() *keylock.KeyedLocks {
	return keylock.New()
}

func provideHaversineEstimator(cfg *config.Config) *haversine.Estimator {
	return haversine.New(cfg.Pooling.AverageSpeedMPH)
}

func provideRouteEstimator(cfg *config.Config, haversineEstimator *haversine.Estimator) RouteEstimator {
	if cfg.Routing.OSRMBaseURL == "" {
		return haversineEstimator
	}

	return routing.New(cfg.Routing.OSRMBaseURL, &http.Client{
		Timeout: cfg.Routing.RequestTimeout,
	})
}

func provideShipmentRepository(querier *querier.Querier) *shipmentRepo.Repository {
	return shipmentRepo.New(querier)
}

func provideQuoteRepository(querier *querier.Querier) *quoteRepo.Repository {
	return quoteRepo.New(querier)
}

func provideMatchRepository(querier *querier.Querier) *matchRepo.Repository {
	return matchRepo.New(querier)
}

func provideShipmentConfig(cfg *config.Config) shipmentService.Config {
	return shipmentService.Config{
		TrailerLengthFeet: cfg.Pooling.TrailerLengthFeet,
		MaxWeightLbs:      cfg.Pooling.MaxWeightLbs,
		LockTimeout:       cfg.Locks.Timeout,
	}
}

func provideQuoteConfig(cfg *config.Config) quoteService.Config {
	return quoteService.Config{
		ValidityHorizon: cfg.Quotes.ValidityHorizon,
		LockTimeout:     cfg.Locks.Timeout,
	}
}

func providePoolingConfig(cfg *config.Config) poolingService.Config {
	return poolingService.Config{
		PruneRadiusMiles: cfg.Pooling.PruneRadiusMiles,
		MinOverlapHours:  cfg.Pooling.MinOverlapHours,
		AverageSpeedMPH:  cfg.Pooling.AverageSpeedMPH,

		TrailerLengthFeet:     cfg.Pooling.TrailerLengthFeet,
		MaxWeightLbs:          cfg.Pooling.MaxWeightLbs,
		UtilizationTargetLow:  cfg.Pooling.UtilizationTargetLow,
		UtilizationTargetHigh: cfg.Pooling.UtilizationTargetHigh,

		GeoWeight:      cfg.Pooling.GeoWeight,
		TemporalWeight: cfg.Pooling.TemporalWeight,
		CapacityWeight: cfg.Pooling.CapacityWeight,

		MinPairwiseScore:  cfg.Pooling.MinPairwiseScore,
		MinGroupScore:     cfg.Pooling.MinGroupScore,
		MinSavingsPercent: cfg.Pooling.MinSavingsPercent,
		MaxPoolSize:       cfg.Pooling.MaxPoolSize,

		MatchTTL:    cfg.Pooling.MatchTTL,
		LockTimeout: cfg.Locks.Timeout,
	}
}

func providePricingConfig(cfg *config.Config) quoteService.PricingConfig {
	return quoteService.PricingConfig{
		BaseRatePerMileCents:   cfg.Pricing.BaseRateCentsPerMile,
		MarketRatePerMileCents: cfg.Pricing.MarketRateCentsPerMile,

		LongHaulMiles:       cfg.Pricing.LongHaulMiles,
		LongHaulBP:          int64(cfg.Pricing.LongHaulPct) * 100,
		ShortHaulBP:         int64(cfg.Pricing.ShortHaulPct) * 100,
		LowUtilizationShare: lowUtilizationShare,
		LowUtilizationBP:    int64(cfg.Pricing.LowUtilizationPct) * 100,
		FuelSurchargeBP:     int64(cfg.Pricing.FuelSurchargePct) * 100,

		LiftgateCents:       cfg.Pricing.LiftgateCents,
		AppointmentCents:    cfg.Pricing.AppointmentCents,
		InsideDeliveryCents: cfg.Pricing.InsideDeliveryCents,
		StopOverheadCents:   cfg.Pricing.StopOverheadCents,

		CompetitorLowBP:  competitorLowBP,
		CompetitorHighBP: competitorHighBP,

		DiscountHighProbability: discountHighProbability,
		DiscountHighBP:          discountHighBP,
		DiscountMidProbability:  discountMidProbability,
		DiscountMidBP:           discountMidBP,

		TrailerLengthFeet: cfg.Pooling.TrailerLengthFeet,
		AverageSpeedMPH:   cfg.Pooling.AverageSpeedMPH,
		TransitDayMiles:   transitDayMiles,
	}
}

func provideServiceShipment(
	repository shipmentService.Repository,
	routeEstimator shipmentService.RouteEstimator,
	locker shipmentService.Locker,
	txManager shipmentService.TxManager,
	config shipmentService.Config,
) *shipmentService.Shipment {
	return shipmentService.New(repository, routeEstimator, locker, txManager, config)
}

func providePricing(config quoteService.PricingConfig) *quoteService.Pricing {
	return quoteService.NewPricing(config)
}

func provideServicePooling(
	repository poolingService.Repository,
	shipmentService poolingService.ShipmentService,
	pricer poolingService.Pricer,
	distance poolingService.DistanceEstimator,
	locker poolingService.Locker,
	txManager poolingService.TxManager,
	config poolingService.Config,
) *poolingService.Pooling {
	return poolingService.New(
		repository,
		shipmentService,
		pricer,
		distance,
		locker,
		txManager,
		config,
	)
}

func provideServiceQuote(
	repository quoteService.Repository,
	shipmentService quoteService.ShipmentService,
	poolingEstimator quoteService.PoolingEstimator,
	routeEstimator quoteService.RouteEstimator,
	pricing *quoteService.Pricing,
	locker quoteService.Locker,
	txManager quoteService.TxManager,
	config quoteService.Config,
) *quoteService.Quote {
	return quoteService.New(
		repository,
		shipmentService,
		poolingEstimator,
		routeEstimator,
		pricing,
		locker,
		txManager,
		config,
	)
}

func provideMatchExpiryInterval(cfg *config.Config) MatchExpiryInterval {
	return MatchExpiryInterval(cfg.Tasks.MatchExpiryInterval)
}

func provideQuoteExpiryInterval(cfg *config.Config) QuoteExpiryInterval {
	return QuoteExpiryInterval(cfg.Tasks.QuoteExpiryInterval)
}

func provideMatchExpiryTask(
	log logger.Logger,
	poolingService match_expiry.Service,
	interval MatchExpiryInterval,
) *match_expiry.MatchExpiry {
	return match_expiry.NewMatchExpiry(log, poolingService, time.Duration(interval))
}

func provideQuoteExpiryTask(
	log logger.Logger,
	quoteService quote_expiry.Service,
	interval QuoteExpiryInterval,
) *quote_expiry.QuoteExpiry {
	return quote_expiry.NewQuoteExpiry(log, quoteService, time.Duration(interval))
}

func provideTaskList(
	matchExpiryTask *match_expiry.MatchExpiry,
	quoteExpiryTask *quote_expiry.QuoteExpiry,
) []background.Task {
	return []background.Task{
		matchExpiryTask,
		quoteExpiryTask,
	}
}

func provideBackgroundWorkers(ctx context.Context, log logger.Logger, tasks []background.Task) (*background.Worker, error) {
	return background.New(ctx, log, tasks)
}

func provideStatusHandlerFactory(poolingService trackingService.PoolingService) *tracking_handle.StatusHandlerFactory {
	return tracking_handle.NewStatusHandlerFactory(poolingService)
}

// provideTrackingService создает trackingService для обработки событий Kafka
func provideTrackingService(
	shipmentService trackingService.ShipmentService,
	handlerFactory trackingService.HandlerFactory,
) *trackingService.Service {
	return trackingService.New(shipmentService, handlerFactory)
}
