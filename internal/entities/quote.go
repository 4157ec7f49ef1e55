package entities

import "time"

// Quote хранит денежные суммы в центах; в доллары значения переводятся
// только на границе представления.
type Quote struct {
	ID                   int64
	ShipmentID           int64
	LinehaulCents        int64
	FuelSurchargeCents   int64
	AccessorialCents     int64
	TotalCents           int64
	PoolingDiscountCents int64
	PoolingProbability   int
	MarketRateCents      int64
	CompetitorLowCents   int64
	CompetitorHighCents  int64
	RatePerMileCents     int64
	TransitDays          int
	EstimatedDuration    time.Duration
	Status               QuoteStatusType
	ValidUntil           time.Time
	CreatedAt            time.Time
}

type QuoteStatusType string

const (
	QuoteActive     QuoteStatusType = "active"
	QuoteAccepted   QuoteStatusType = "accepted"
	QuoteExpired    QuoteStatusType = "expired"
	QuoteSuperseded QuoteStatusType = "superseded"
)

func (s QuoteStatusType) String() string {
	return string(s)
}

type QuoteModify struct {
	ID     *int64
	Status *QuoteStatusType
}

type QuoteAcceptance struct {
	QuoteID    int64
	ShipmentID int64
	TotalCents int64
	BookingRef string
	Status     QuoteStatusType
}
