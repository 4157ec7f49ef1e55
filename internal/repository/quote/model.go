package quote

import "time"

type QuoteDB struct {
	ID                       int64
	ShipmentID               int64
	LinehaulCents            int64
	FuelSurchargeCents       int64
	AccessorialCents         int64
	TotalCents               int64
	PoolingDiscountCents     int64
	PoolingProbability       int
	MarketRateCents          int64
	CompetitorLowCents       int64
	CompetitorHighCents      int64
	RatePerMileCents         int64
	TransitDays              int
	EstimatedDurationSeconds int64
	Status                   string
	ValidUntil               time.Time
	CreatedAt                time.Time
}

type QuoteModifyDB struct {
	ID     *int64
	Status *string
}
