package shipment

import "time"

type ShipmentDB struct {
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

type ShipmentModifyDB struct {
	ID            *int64
	Status        *string
	BookingRef    *string
	DistanceMiles *float64
}
