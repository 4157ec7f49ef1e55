package pooling

import (
	"fmt"
	"math"
	"time"

	"freightpool/internal/entities"
)

// Scorer оценивает совместимость пары грузов. Чистые вычисления: жесткие
// отсевы возвращают ErrInfeasiblePair с причиной, остальное дает три
// суб-оценки в [0,100] и взвешенный итог.
type Scorer struct {
	config   Config
	distance DistanceEstimator
}

func NewScorer(config Config, distance DistanceEstimator) *Scorer {
	return &Scorer{config: config, distance: distance}
}

type PairScore struct {
	Geo           float64
	Temporal      float64
	Capacity      float64
	Overall       float64
	CombinedMiles float64
	Utilization   float64
}

func (s *Scorer) ScorePair(a, b entities.Shipment) (*PairScore, error) {
	if a.Equipment != b.Equipment {
		return nil, fmt.Errorf("%w: equipment %s vs %s", ErrInfeasiblePair, a.Equipment, b.Equipment)
	}

	originGap := s.distance.DistanceMiles(a.Origin, b.Origin)
	if originGap > s.config.PruneRadiusMiles {
		return nil, fmt.Errorf("%w: origins %.0f mi apart", ErrInfeasiblePair, originGap)
	}
	destinationGap := s.distance.DistanceMiles(a.Destination, b.Destination)
	if destinationGap > s.config.PruneRadiusMiles {
		return nil, fmt.Errorf("%w: destinations %.0f mi apart", ErrInfeasiblePair, destinationGap)
	}

	capacity, utilization, err := s.capacityScore([]entities.Shipment{a, b})
	if err != nil {
		return nil, err
	}

	combinedMiles := s.bestPairRoute(a, b)
	temporal, err := s.temporalScore(a, b, combinedMiles)
	if err != nil {
		return nil, err
	}

	geo := s.geoScore(a, b, combinedMiles)
	overall := (s.config.GeoWeight*geo + s.config.TemporalWeight*temporal + s.config.CapacityWeight*capacity) /
		(s.config.GeoWeight + s.config.TemporalWeight + s.config.CapacityWeight)

	return &PairScore{
		Geo:           geo,
		Temporal:      temporal,
		Capacity:      capacity,
		Overall:       overall,
		CombinedMiles: combinedMiles,
		Utilization:   utilization,
	}, nil
}

// bestPairRoute перебирает шесть допустимых порядков остановок пары
// (каждая выгрузка после своей погрузки) и берет кратчайший.
func (s *Scorer) bestPairRoute(a, b entities.Shipment) float64 {
	pickupA, pickupB := a.Origin, b.Origin
	dropA, dropB := a.Destination, b.Destination

	orders := [][4]entities.Location{
		{pickupA, pickupB, dropA, dropB},
		{pickupA, pickupB, dropB, dropA},
		{pickupA, dropA, pickupB, dropB},
		{pickupB, pickupA, dropA, dropB},
		{pickupB, pickupA, dropB, dropA},
		{pickupB, dropB, pickupA, dropA},
	}

	best := math.MaxFloat64
	for _, stops := range orders {
		total := 0.0
		for i := 1; i < len(stops); i++ {
			total += s.distance.DistanceMiles(stops[i-1], stops[i])
		}
		if total < best {
			best = total
		}
	}
	return best
}

// geoScore: чем меньше крюк объединенного маршрута относительно более
// длинного одиночного рейса, тем выше оценка. Один радиус отсева крюка
// обнуляет оценку.
func (s *Scorer) geoScore(a, b entities.Shipment, combinedMiles float64) float64 {
	soloA := s.distance.DistanceMiles(a.Origin, a.Destination)
	soloB := s.distance.DistanceMiles(b.Origin, b.Destination)

	detour := combinedMiles - math.Max(soloA, soloB)
	if detour < 0 {
		detour = 0
	}
	return clamp(100*(1-detour/s.config.PruneRadiusMiles), 0, 100)
}

func (s *Scorer) temporalScore(a, b entities.Shipment, combinedMiles float64) (float64, error) {
	pickupOverlap := windowOverlap(a.PickupWindow, b.PickupWindow)
	minOverlap := time.Duration(s.config.MinOverlapHours * float64(time.Hour))
	if pickupOverlap < minOverlap {
		return 0, fmt.Errorf("%w: pickup windows overlap %.1f h", ErrInfeasiblePair, pickupOverlap.Hours())
	}

	if windowOverlap(a.DeliveryWindow, b.DeliveryWindow) < 0 {
		return 0, fmt.Errorf("%w: delivery windows disjoint", ErrInfeasiblePair)
	}

	// самый поздний старт погрузок плюс транзит должен укладываться
	// в оба окна доставки
	departure := a.PickupWindow.Start
	if b.PickupWindow.Start.After(departure) {
		departure = b.PickupWindow.Start
	}
	deliveryDeadline := a.DeliveryWindow.End
	if b.DeliveryWindow.End.Before(deliveryDeadline) {
		deliveryDeadline = b.DeliveryWindow.End
	}
	transit := time.Duration(combinedMiles / s.config.AverageSpeedMPH * float64(time.Hour))
	if departure.Add(transit).After(deliveryDeadline) {
		return 0, fmt.Errorf("%w: %.0f mi transit misses delivery windows", ErrInfeasiblePair, combinedMiles)
	}

	shorter := a.PickupWindow.End.Sub(a.PickupWindow.Start)
	if other := b.PickupWindow.End.Sub(b.PickupWindow.Start); other < shorter {
		shorter = other
	}
	return clamp(100*pickupOverlap.Hours()/shorter.Hours(), 0, 100), nil
}

// capacityScore работает и для пар, и для групп: суммарные габариты сверх
// прицепа отсекаются, утилизация оценивается по целевому коридору.
func (s *Scorer) capacityScore(members []entities.Shipment) (float64, float64, error) {
	totalFeet, totalLbs := 0.0, 0.0
	for _, member := range members {
		totalFeet += member.Dimensions.LinearFeet
		totalLbs += member.Dimensions.WeightLbs
	}

	if totalFeet > s.config.TrailerLengthFeet {
		return 0, 0, fmt.Errorf("%w: combined %.1f linear feet over trailer", ErrInfeasiblePair, totalFeet)
	}
	if totalLbs > s.config.MaxWeightLbs {
		return 0, 0, fmt.Errorf("%w: combined %.0f lbs over limit", ErrInfeasiblePair, totalLbs)
	}

	feetUtilization := totalFeet / s.config.TrailerLengthFeet
	weightUtilization := totalLbs / s.config.MaxWeightLbs
	utilization := math.Max(feetUtilization, weightUtilization)

	switch {
	case utilization < s.config.UtilizationTargetLow:
		return 100 * utilization / s.config.UtilizationTargetLow, feetUtilization, nil
	case utilization <= s.config.UtilizationTargetHigh:
		return 100, feetUtilization, nil
	default:
		over := (utilization - s.config.UtilizationTargetHigh) / (1 - s.config.UtilizationTargetHigh)
		return 100 - 30*over, feetUtilization, nil
	}
}

func windowOverlap(a, b entities.TimeWindow) time.Duration {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	// отрицательное значение означает непересекающиеся окна
	return end.Sub(start)
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
