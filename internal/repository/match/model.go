package match

import "time"

type MatchDB struct {
	ID                   int64
	ShipmentIDs          []int64
	GeoScore             float64
	TemporalScore        float64
	CapacityScore        float64
	OverallScore         float64
	IndividualCostCents  int64
	PooledCostCents      int64
	SavingsCents         int64
	SavingsPercent       float64
	CombinedMiles        float64
	CombinedHours        float64
	EstimatedUtilization float64
	Status               string
	ExpiresAt            time.Time
	ExecutedAt           *time.Time
	CreatedAt            time.Time
}

type MatchModifyDB struct {
	ID         *int64
	Status     *string
	ExecutedAt *time.Time
}

type EligibleShipmentDB struct {
	ID                     int64
	Reference              string
	OriginCity             string
	OriginState            string
	OriginPostalCode       string
	OriginLat              float64
	OriginLon              float64
	DestCity               string
	DestState              string
	DestPostalCode         string
	DestLat                float64
	DestLon                float64
	PickupStart            time.Time
	PickupEnd              time.Time
	DeliveryStart          time.Time
	DeliveryEnd            time.Time
	WeightLbs              float64
	LinearFeet             float64
	PalletCount            int
	Stackable              bool
	Equipment              string
	RequiresLiftgate       bool
	RequiresAppointment    bool
	RequiresInsideDelivery bool
	DistanceMiles          float64
	Status                 string
	BookingRef             *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

type StatsDB struct {
	TotalFound        int64
	Active            int64
	Executed          int64
	Expired           int64
	Cancelled         int64
	TotalSavingsCents int64
	AvgSavingsPercent float64
	AvgMatchScore     float64
}
