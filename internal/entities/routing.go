package entities

import "time"

type RouteEstimate struct {
	DistanceMiles float64
	Duration      time.Duration
}
