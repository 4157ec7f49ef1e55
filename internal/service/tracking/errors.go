package tracking

import "errors"

var ErrUndefinedStatus = errors.New("undefined shipment status")
