package routing

import (
	"time"

	"freightpool/internal/entities"
)

const metersPerMile = 1609.34

func toDomain(routeModel *route) *entities.RouteEstimate {
	if routeModel == nil {
		return nil
	}

	return &entities.RouteEstimate{
		DistanceMiles: routeModel.DistanceMeters / metersPerMile,
		Duration:      time.Duration(routeModel.DurationSeconds * float64(time.Second)),
	}
}
