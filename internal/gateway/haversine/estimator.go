package haversine

import (
	"context"
	"math"
	"time"

	"freightpool/internal/entities"
)

// радиус Земли в милях
const earthRadiusMiles = 3956

type Estimator struct {
	averageSpeedMPH float64
}

func New(averageSpeedMPH float64) *Estimator {
	return &Estimator{
		averageSpeedMPH: averageSpeedMPH,
	}
}

// DistanceMiles считает дистанцию большого круга между двумя точками.
func (e *Estimator) DistanceMiles(from, to entities.Location) float64 {
	lat1 := from.Lat * math.Pi / 180
	lon1 := from.Lon * math.Pi / 180
	lat2 := to.Lat * math.Pi / 180
	lon2 := to.Lon * math.Pi / 180

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return c * earthRadiusMiles
}

// EstimateRoute оценивает маршрут без внешнего сервиса: дистанция по
// прямой, длительность по средней скорости.
func (e *Estimator) EstimateRoute(_ context.Context, from, to entities.Location) (*entities.RouteEstimate, error) {
	miles := e.DistanceMiles(from, to)
	hours := miles / e.averageSpeedMPH

	return &entities.RouteEstimate{
		DistanceMiles: miles,
		Duration:      time.Duration(hours * float64(time.Hour)),
	}, nil
}
