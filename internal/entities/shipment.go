package entities

import (
	"time"
)

type Shipment struct {
	ID                     int64
	Reference              string
	Origin                 Location
	Destination            Location
	PickupWindow           TimeWindow
	DeliveryWindow         TimeWindow
	Dimensions             Dimensions
	Equipment              EquipmentType
	RequiresLiftgate       bool
	RequiresAppointment    bool
	RequiresInsideDelivery bool
	DistanceMiles          float64
	Status                 ShipmentStatusType
	BookingRef             *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

type Location struct {
	City       string
	State      string
	PostalCode string
	Lat        float64
	Lon        float64
}

type TimeWindow struct {
	Start time.Time
	End   time.Time
}

type Dimensions struct {
	WeightLbs   float64
	LinearFeet  float64
	PalletCount int
	Stackable   bool
}

type EquipmentType string

const (
	DryVan    EquipmentType = "dry_van"
	Reefer    EquipmentType = "reefer"
	Flatbed   EquipmentType = "flatbed"
	StepDeck  EquipmentType = "step_deck"
	Conestoga EquipmentType = "conestoga"
)

const DefaultEquipmentType = DryVan

func (t EquipmentType) String() string {
	return string(t)
}

type ShipmentStatusType string

const (
	ShipmentCreated   ShipmentStatusType = "created"
	ShipmentQuoted    ShipmentStatusType = "quoted"
	ShipmentBooked    ShipmentStatusType = "booked"
	ShipmentPooled    ShipmentStatusType = "pooled"
	ShipmentInTransit ShipmentStatusType = "in_transit"
	ShipmentDelivered ShipmentStatusType = "delivered"
	ShipmentCancelled ShipmentStatusType = "cancelled"
)

const DefaultShipmentStatus = ShipmentCreated

func (s ShipmentStatusType) String() string {
	return string(s)
}

type ShipmentModify struct {
	ID            *int64
	Status        *ShipmentStatusType
	BookingRef    *string
	DistanceMiles *float64
}

type ShipmentFilter struct {
	Status      *ShipmentStatusType
	Equipment   *EquipmentType
	OriginState *string
	DestState   *string
	Limit       uint64
	Offset      uint64
}

// EligibleShipmentFilter сужает множество грузов, доступных для пулинга.
type EligibleShipmentFilter struct {
	IDs         []int64
	OriginState *string
	DestState   *string
	Equipment   *EquipmentType
}
