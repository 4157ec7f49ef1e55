package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type (
	Tasks struct {
		MatchExpiryInterval time.Duration
		QuoteExpiryInterval time.Duration
	}

	HTTPServer struct {
		Port             string
		RequestTimeout   time.Duration // middleware timeout
		RateLimiterQPS   int           // middleware  rate limiter capacity
		RateLimiterBurst int           // middlewarerate limiter burst/refill
		PprofEnabled     bool
		PprofPort        string
	}

	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
	}

	Routing struct {
		OSRMBaseURL    string // при пустом значении дистанции считаются по хаверсину
		RequestTimeout time.Duration
	}

	Kafka struct {
		PortHealthcheck string
		Brokers         string
		Topic           string
		ConsumerGroup   string
		Sarama          Sarama
		Handlers        KafkaHandlers
	}

	Sarama struct {
		Version                   string
		ConsumerOffsetsAutocommit bool
	}

	KafkaHandlers struct {
		ShipmentStatusChanged ShipmentStatusChanged
	}

	ShipmentStatusChanged struct {
		ProcessTimeout time.Duration
	}

	// Pricing задает тарифные ставки: деньги в центах, множители в процентах.
	Pricing struct {
		BaseRateCentsPerMile   int64
		MarketRateCentsPerMile int64
		FuelSurchargePct       int
		LongHaulMiles          float64
		LongHaulPct            int
		ShortHaulPct           int
		LowUtilizationPct      int
		LiftgateCents          int64
		AppointmentCents       int64
		InsideDeliveryCents    int64
		StopOverheadCents      int64
	}

	Pooling struct {
		PruneRadiusMiles      float64
		MinOverlapHours       float64
		AverageSpeedMPH       float64
		TrailerLengthFeet     float64
		MaxWeightLbs          float64
		UtilizationTargetLow  float64
		UtilizationTargetHigh float64
		GeoWeight             float64
		TemporalWeight        float64
		CapacityWeight        float64
		MinPairwiseScore      float64
		MinGroupScore         float64
		MinSavingsPercent     float64
		MaxPoolSize           int
		MatchTTL              time.Duration
	}

	Quotes struct {
		ValidityHorizon time.Duration
	}

	Locks struct {
		Timeout time.Duration
	}

	Config struct {
		Tasks    Tasks
		Server   HTTPServer
		Database Database
		Routing  Routing
		Kafka    Kafka
		Pricing  Pricing
		Pooling  Pooling
		Quotes   Quotes
		Locks    Locks
	}
)

func Load() (*Config, error) {
	cfg, err := loadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment loading: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return cfg, nil
}

func loadFromEnv() (*Config, error) {
	tasks, err := loadTasks()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	server, err := loadServer()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	routing, err := loadRouting()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	kafka, err := loadKafka()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pricing, err := loadPricing()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pooling, err := loadPooling()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	quoteValidity, err := osGetDuration("QUOTE_VALIDITY_HORIZON", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	lockTimeout, err := osGetDuration("LOCK_TIMEOUT", 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &Config{
		Tasks:   tasks,
		Server:  server,
		Routing: routing,
		Kafka:   kafka,
		Pricing: pricing,
		Pooling: pooling,
		Database: Database{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		},
		Quotes: Quotes{
			ValidityHorizon: quoteValidity,
		},
		Locks: Locks{
			Timeout: lockTimeout,
		},
	}, nil
}

func loadTasks() (Tasks, error) {
	matchInterval, err := osGetDuration("BACKGROUND_MATCH_EXPIRY_INTERVAL", time.Minute)
	if err != nil {
		return Tasks{}, err
	}

	quoteInterval, err := osGetDuration("BACKGROUND_QUOTE_EXPIRY_INTERVAL", time.Minute)
	if err != nil {
		return Tasks{}, err
	}

	return Tasks{
		MatchExpiryInterval: matchInterval,
		QuoteExpiryInterval: quoteInterval,
	}, nil
}

func loadServer() (HTTPServer, error) {
	requestTimeout, err := osGetDuration("MIDDLEWARE_REQUEST_TIMEOUT", 15*time.Second)
	if err != nil {
		return HTTPServer{}, err
	}

	rateLimiterQPS, err := osGetInt("MIDDLEWARE_RATE_LIMIT_QPS", 100)
	if err != nil {
		return HTTPServer{}, err
	}

	rateLimiterBurst, err := osGetInt("MIDDLEWARE_RATE_LIMIT_BURST", 100)
	if err != nil {
		return HTTPServer{}, err
	}

	pprofEnabled, err := osGetBool("PPROF_ENABLED", false)
	if err != nil {
		return HTTPServer{}, err
	}

	return HTTPServer{
		Port:             os.Getenv("PORT"),
		RequestTimeout:   requestTimeout,
		RateLimiterQPS:   rateLimiterQPS,
		RateLimiterBurst: rateLimiterBurst,
		PprofEnabled:     pprofEnabled,
		PprofPort:        os.Getenv("PPROF_PORT"),
	}, nil
}

func loadRouting() (Routing, error) {
	requestTimeout, err := osGetDuration("ROUTING_REQUEST_TIMEOUT", 5*time.Second)
	if err != nil {
		return Routing{}, err
	}

	return Routing{
		OSRMBaseURL:    os.Getenv("ROUTING_OSRM_BASE_URL"),
		RequestTimeout: requestTimeout,
	}, nil
}

func loadKafka() (Kafka, error) {
	saramaOffsetsAutocommit, err := osGetBool("KAFKA_SARAMA_OFFSETS_AUTOCOMMIT", true)
	if err != nil {
		return Kafka{}, err
	}

	processTimeout, err := osGetDuration("KAFKA_HANDLER_SHIPMENT_STATUS_CHANGED_PROCESS_TIMEOUT", 5*time.Second)
	if err != nil {
		return Kafka{}, err
	}

	return Kafka{
		Brokers:         osGetString("KAFKA_BROKERS", "localhost:9092"),
		Topic:           osGetString("KAFKA_TOPIC", "shipment.status.changed"),
		ConsumerGroup:   osGetString("KAFKA_CONSUMER_GROUP", "logistics-platform"),
		PortHealthcheck: osGetString("KAFKA_HTTP_HEALTHCHECK_PORT", "8081"),
		Sarama: Sarama{
			Version:                   osGetString("KAFKA_SARAMA_VERSION", "3.6.0"),
			ConsumerOffsetsAutocommit: saramaOffsetsAutocommit,
		},
		Handlers: KafkaHandlers{
			ShipmentStatusChanged: ShipmentStatusChanged{
				ProcessTimeout: processTimeout,
			},
		},
	}, nil
}

func loadPricing() (Pricing, error) {
	baseRate, err := osGetInt64("PRICING_BASE_RATE_CENTS_PER_MILE", 250)
	if err != nil {
		return Pricing{}, err
	}

	marketRate, err := osGetInt64("PRICING_MARKET_RATE_CENTS_PER_MILE", 280)
	if err != nil {
		return Pricing{}, err
	}

	fuelPct, err := osGetInt("PRICING_FUEL_SURCHARGE_PCT", 15)
	if err != nil {
		return Pricing{}, err
	}

	longHaulMiles, err := osGetFloat("PRICING_LONG_HAUL_MILES", 500)
	if err != nil {
		return Pricing{}, err
	}

	longHaulPct, err := osGetInt("PRICING_LONG_HAUL_PCT", 110)
	if err != nil {
		return Pricing{}, err
	}

	shortHaulPct, err := osGetInt("PRICING_SHORT_HAUL_PCT", 95)
	if err != nil {
		return Pricing{}, err
	}

	lowUtilizationPct, err := osGetInt("PRICING_LOW_UTILIZATION_PCT", 110)
	if err != nil {
		return Pricing{}, err
	}

	liftgateCents, err := osGetInt64("PRICING_LIFTGATE_CENTS", 7500)
	if err != nil {
		return Pricing{}, err
	}

	appointmentCents, err := osGetInt64("PRICING_APPOINTMENT_CENTS", 5000)
	if err != nil {
		return Pricing{}, err
	}

	insideDeliveryCents, err := osGetInt64("PRICING_INSIDE_DELIVERY_CENTS", 10000)
	if err != nil {
		return Pricing{}, err
	}

	stopOverheadCents, err := osGetInt64("PRICING_STOP_OVERHEAD_CENTS", 5000)
	if err != nil {
		return Pricing{}, err
	}

	return Pricing{
		BaseRateCentsPerMile:   baseRate,
		MarketRateCentsPerMile: marketRate,
		FuelSurchargePct:       fuelPct,
		LongHaulMiles:          longHaulMiles,
		LongHaulPct:            longHaulPct,
		ShortHaulPct:           shortHaulPct,
		LowUtilizationPct:      lowUtilizationPct,
		LiftgateCents:          liftgateCents,
		AppointmentCents:       appointmentCents,
		InsideDeliveryCents:    insideDeliveryCents,
		StopOverheadCents:      stopOverheadCents,
	}, nil
}

func loadPooling() (Pooling, error) {
	pruneRadius, err := osGetFloat("POOLING_PRUNE_RADIUS_MILES", 150)
	if err != nil {
		return Pooling{}, err
	}

	minOverlapHours, err := osGetFloat("POOLING_MIN_OVERLAP_HOURS", 2)
	if err != nil {
		return Pooling{}, err
	}

	averageSpeed, err := osGetFloat("POOLING_AVERAGE_SPEED_MPH", 50)
	if err != nil {
		return Pooling{}, err
	}

	trailerLength, err := osGetFloat("POOLING_TRAILER_LENGTH_FEET", 53)
	if err != nil {
		return Pooling{}, err
	}

	maxWeight, err := osGetFloat("POOLING_MAX_WEIGHT_LBS", 45000)
	if err != nil {
		return Pooling{}, err
	}

	utilizationLow, err := osGetFloat("POOLING_UTILIZATION_TARGET_LOW", 0.85)
	if err != nil {
		return Pooling{}, err
	}

	utilizationHigh, err := osGetFloat("POOLING_UTILIZATION_TARGET_HIGH", 0.95)
	if err != nil {
		return Pooling{}, err
	}

	geoWeight, err := osGetFloat("POOLING_GEO_WEIGHT", 40)
	if err != nil {
		return Pooling{}, err
	}

	temporalWeight, err := osGetFloat("POOLING_TEMPORAL_WEIGHT", 35)
	if err != nil {
		return Pooling{}, err
	}

	capacityWeight, err := osGetFloat("POOLING_CAPACITY_WEIGHT", 25)
	if err != nil {
		return Pooling{}, err
	}

	minPairwiseScore, err := osGetFloat("POOLING_MIN_PAIRWISE_SCORE", 60)
	if err != nil {
		return Pooling{}, err
	}

	minGroupScore, err := osGetFloat("POOLING_MIN_GROUP_SCORE", 70)
	if err != nil {
		return Pooling{}, err
	}

	minSavingsPercent, err := osGetFloat("POOLING_MIN_SAVINGS_PERCENT", 10)
	if err != nil {
		return Pooling{}, err
	}

	maxPoolSize, err := osGetInt("POOLING_MAX_POOL_SIZE", 4)
	if err != nil {
		return Pooling{}, err
	}

	matchTTL, err := osGetDuration("POOLING_MATCH_TTL", 4*time.Hour)
	if err != nil {
		return Pooling{}, err
	}

	return Pooling{
		PruneRadiusMiles:      pruneRadius,
		MinOverlapHours:       minOverlapHours,
		AverageSpeedMPH:       averageSpeed,
		TrailerLengthFeet:     trailerLength,
		MaxWeightLbs:          maxWeight,
		UtilizationTargetLow:  utilizationLow,
		UtilizationTargetHigh: utilizationHigh,
		GeoWeight:             geoWeight,
		TemporalWeight:        temporalWeight,
		CapacityWeight:        capacityWeight,
		MinPairwiseScore:      minPairwiseScore,
		MinGroupScore:         minGroupScore,
		MinSavingsPercent:     minSavingsPercent,
		MaxPoolSize:           maxPoolSize,
		MatchTTL:              matchTTL,
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required (set via PORT env variable)")
	}
	if cfg.Server.RequestTimeout == time.Duration(0) {
		return errors.New("MIDDLEWARE_REQUEST_TIMEOUT is required")
	}
	if cfg.Server.RateLimiterQPS == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_QPS is required")
	}
	if cfg.Server.RateLimiterBurst == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_BURST is required")
	}
	if cfg.Server.PprofPort == "" && cfg.Server.PprofEnabled {
		return errors.New("PprofPort is required (set via PPROF_PORT env variable)")
	}

	if cfg.Database.Host == "" {
		return errors.New("POSTGRES_HOST is required")
	}
	if cfg.Database.Port == "" {
		return errors.New("POSTGRES_PORT is required")
	}
	if cfg.Database.User == "" {
		return errors.New("POSTGRES_USER is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("POSTGRES_PASSWORD is required")
	}
	if cfg.Database.DBName == "" {
		return errors.New("POSTGRES_DB is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("POSTGRES_SSLMODE is required")
	}

	if cfg.Tasks.MatchExpiryInterval == time.Duration(0) {
		return errors.New("BACKGROUND_MATCH_EXPIRY_INTERVAL is required")
	}
	if cfg.Tasks.QuoteExpiryInterval == time.Duration(0) {
		return errors.New("BACKGROUND_QUOTE_EXPIRY_INTERVAL is required")
	}

	if cfg.Kafka.Brokers == "" {
		return errors.New("KAFKA_BROKERS is required")
	}
	if cfg.Kafka.Topic == "" {
		return errors.New("KAFKA_TOPIC is required")
	}
	if cfg.Kafka.ConsumerGroup == "" {
		return errors.New("KAFKA_CONSUMER_GROUP is required")
	}
	if cfg.Kafka.PortHealthcheck == "" {
		return errors.New("KAFKA_HTTP_HEALTHCHECK_PORT is required")
	}
	if cfg.Kafka.Sarama.Version == "" {
		return errors.New("KAFKA_SARAMA_VERSION is required")
	}
	if cfg.Kafka.Handlers.ShipmentStatusChanged.ProcessTimeout == time.Duration(0) {
		return errors.New("KAFKA_HANDLER_SHIPMENT_STATUS_CHANGED_PROCESS_TIMEOUT is required")
	}

	if err := validatePricing(&cfg.Pricing); err != nil {
		return err
	}
	if err := validatePooling(&cfg.Pooling); err != nil {
		return err
	}

	if cfg.Quotes.ValidityHorizon <= time.Duration(0) {
		return errors.New("QUOTE_VALIDITY_HORIZON must be positive")
	}
	if cfg.Locks.Timeout <= time.Duration(0) {
		return errors.New("LOCK_TIMEOUT must be positive")
	}

	return nil
}

func validatePricing(cfg *Pricing) error {
	if cfg.BaseRateCentsPerMile <= 0 {
		return errors.New("PRICING_BASE_RATE_CENTS_PER_MILE must be positive")
	}
	if cfg.MarketRateCentsPerMile <= 0 {
		return errors.New("PRICING_MARKET_RATE_CENTS_PER_MILE must be positive")
	}
	if cfg.FuelSurchargePct < 0 {
		return errors.New("PRICING_FUEL_SURCHARGE_PCT must not be negative")
	}
	if cfg.LongHaulMiles <= 0 {
		return errors.New("PRICING_LONG_HAUL_MILES must be positive")
	}
	if cfg.LongHaulPct <= 0 || cfg.ShortHaulPct <= 0 || cfg.LowUtilizationPct <= 0 {
		return errors.New("pricing multipliers must be positive")
	}
	if cfg.LiftgateCents < 0 || cfg.AppointmentCents < 0 || cfg.InsideDeliveryCents < 0 || cfg.StopOverheadCents < 0 {
		return errors.New("pricing accessorial rates must not be negative")
	}
	return nil
}

func validatePooling(cfg *Pooling) error {
	if cfg.PruneRadiusMiles <= 0 {
		return errors.New("POOLING_PRUNE_RADIUS_MILES must be positive")
	}
	if cfg.MinOverlapHours < 0 {
		return errors.New("POOLING_MIN_OVERLAP_HOURS must not be negative")
	}
	if cfg.AverageSpeedMPH <= 0 {
		return errors.New("POOLING_AVERAGE_SPEED_MPH must be positive")
	}
	if cfg.TrailerLengthFeet <= 0 {
		return errors.New("POOLING_TRAILER_LENGTH_FEET must be positive")
	}
	if cfg.MaxWeightLbs <= 0 {
		return errors.New("POOLING_MAX_WEIGHT_LBS must be positive")
	}
	if cfg.UtilizationTargetLow <= 0 || cfg.UtilizationTargetHigh > 1 ||
		cfg.UtilizationTargetLow >= cfg.UtilizationTargetHigh {
		return errors.New("utilization target band must satisfy 0 < low < high <= 1")
	}
	if cfg.GeoWeight < 0 || cfg.TemporalWeight < 0 || cfg.CapacityWeight < 0 {
		return errors.New("pooling score weights must not be negative")
	}
	if cfg.GeoWeight+cfg.TemporalWeight+cfg.CapacityWeight != 100 {
		return errors.New("pooling score weights must sum to 100")
	}
	if cfg.MinPairwiseScore < 0 || cfg.MinPairwiseScore > 100 {
		return errors.New("POOLING_MIN_PAIRWISE_SCORE must be within 0..100")
	}
	if cfg.MinGroupScore < 0 || cfg.MinGroupScore > 100 {
		return errors.New("POOLING_MIN_GROUP_SCORE must be within 0..100")
	}
	if cfg.MinSavingsPercent < 0 {
		return errors.New("POOLING_MIN_SAVINGS_PERCENT must not be negative")
	}
	if cfg.MaxPoolSize < 2 || cfg.MaxPoolSize > 4 {
		return errors.New("POOLING_MAX_POOL_SIZE must be within 2..4")
	}
	if cfg.MatchTTL <= time.Duration(0) {
		return errors.New("POOLING_MATCH_TTL must be positive")
	}
	return nil
}

func osGetString(s string, fallback string) string {
	val := os.Getenv(s)
	if val == "" {
		return fallback
	}
	return val
}

func osGetInt(s string, fallback int) (int, error) {
	val := os.Getenv(s)
	if val == "" {
		return fallback, nil
	}

	res, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid int format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetInt64(s string, fallback int64) (int64, error) {
	val := os.Getenv(s)
	if val == "" {
		return fallback, nil
	}

	res, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid int format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetFloat(s string, fallback float64) (float64, error) {
	val := os.Getenv(s)
	if val == "" {
		return fallback, nil
	}

	res, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetDuration(s string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(s)
	if val == "" {
		return fallback, nil
	}

	res, err := time.ParseDuration(val)
	if err != nil {
		return time.Duration(0), fmt.Errorf("invalid duration format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetBool(s string, fallback bool) (bool, error) {
	val := os.Getenv(s)
	if val == "" {
		return fallback, nil
	}

	res, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid bool format for %s=%q: %w", s, val, err)
	}
	return res, nil
}
