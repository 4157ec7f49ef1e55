package entities

import "time"

type PriceBreakdown struct {
	DistanceMiles       float64
	LinehaulCents       int64
	FuelSurchargeCents  int64
	AccessorialCents    int64
	TotalCents          int64
	RatePerMileCents    int64
	MarketRateCents     int64
	CompetitorLowCents  int64
	CompetitorHighCents int64
	TransitDays         int
	EstimatedDuration   time.Duration
}

// MemberShareCents идет в том же порядке, что и переданные грузы.
type PooledBreakdown struct {
	CombinedMiles       float64
	CombinedHours       float64
	IndividualCostCents int64
	PooledCostCents     int64
	SavingsCents        int64
	SavingsPercent      float64
	MemberShareCents    []int64
}
