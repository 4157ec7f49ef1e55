package shipment

import "errors"

var (
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrInvalidShipmentID     = errors.New("invalid shipment id")
	ErrInvalidLocation       = errors.New("invalid location")
	ErrInvalidWindow         = errors.New("invalid time window")
	ErrInvalidDimensions     = errors.New("invalid dimensions")
	ErrInvalidEquipment      = errors.New("invalid equipment type")
	ErrInvalidStatus         = errors.New("invalid shipment status")

	ErrShipmentNotFound = errors.New("shipment not found")
	ErrConflict         = errors.New("resource already exists")
	ErrShipmentPooled   = errors.New("shipment belongs to an executed pooling match")
	ErrStatusTransition = errors.New("shipment status transition not allowed")
	ErrBusy             = errors.New("shipment is locked by another operation")
)
