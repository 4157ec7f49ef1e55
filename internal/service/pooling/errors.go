package pooling

import "errors"

var (
	ErrInvalidMatchID       = errors.New("invalid match id")
	ErrInvalidShipmentID    = errors.New("invalid shipment id")
	ErrInvalidPoolSize      = errors.New("invalid pool size")
	ErrInvalidSavingsFilter = errors.New("invalid min savings percent")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrConfirmationRequired = errors.New("confirmation required")

	ErrInfeasiblePair = errors.New("shipments cannot be pooled")
	ErrMatchNotFound  = errors.New("pooling match not found")
	ErrMatchExpired   = errors.New("pooling match expired")
	ErrMatchConflict  = errors.New("pooling match already resolved")
	ErrBusy           = errors.New("match is locked, retry later")
)
