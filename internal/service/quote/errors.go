package quote

import "errors"

var (
	ErrInvalidQuoteID    = errors.New("invalid quote id")
	ErrInvalidShipmentID = errors.New("invalid shipment id")
	ErrInvalidPoolSize   = errors.New("pool needs at least two shipments")
	ErrUnknownDistance   = errors.New("shipment distance unknown")

	ErrQuoteNotFound        = errors.New("quote not found")
	ErrQuoteExpired         = errors.New("quote expired")
	ErrQuoteAlreadyAccepted = errors.New("quote already accepted")
	ErrQuoteNotActive       = errors.New("quote is not active")
	ErrShipmentNotQuotable  = errors.New("shipment cannot be quoted")
	ErrShipmentNotBookable  = errors.New("shipment cannot be booked")
	ErrRoutingUnavailable   = errors.New("routing service unavailable")
	ErrBusy                 = errors.New("shipment is locked, retry later")
)
