package pooling

import (
	"fmt"
	"math"
	"sort"

	"freightpool/internal/entities"
)

// pairKey хранит идентификаторы пары в возрастающем порядке.
type pairKey struct {
	a, b int64
}

func newPairKey(a, b int64) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

type poolCandidate struct {
	members []entities.Shipment
	match   entities.PoolingMatch
}

// scoreAllPairs строит ребра графа совместимости: несовместимые пары и
// пары ниже порога просто не попадают в граф.
func (p *Pooling) scoreAllPairs(eligible []entities.Shipment) map[pairKey]*PairScore {
	edges := make(map[pairKey]*PairScore)
	for i := range eligible {
		for j := i + 1; j < len(eligible); j++ {
			score, err := p.scorer.ScorePair(eligible[i], eligible[j])
			if err != nil {
				continue
			}
			if score.Overall < p.config.MinPairwiseScore {
				continue
			}
			edges[newPairKey(eligible[i].ID, eligible[j].ID)] = score
		}
	}
	return edges
}

// enumerateCliques перебирает клики размера 2..maxSize рекурсивным
// расширением в порядке возрастания идентификаторов. Размер группы
// ограничен четырьмя, так что полный перебор по отсеянным ребрам дешев.
func enumerateCliques(ids []int64, edges map[pairKey]*PairScore, maxSize int) [][]int64 {
	var cliques [][]int64

	var extend func(clique []int64, start int)
	extend = func(clique []int64, start int) {
		if len(clique) >= 2 {
			cliques = append(cliques, append([]int64(nil), clique...))
		}
		if len(clique) == maxSize {
			return
		}
		for i := start; i < len(ids); i++ {
			connected := true
			for _, memberID := range clique {
				if _, ok := edges[newPairKey(memberID, ids[i])]; !ok {
					connected = false
					break
				}
			}
			if connected {
				extend(append(clique, ids[i]), i+1)
			}
		}
	}

	for i := range ids {
		extend([]int64{ids[i]}, i+1)
	}
	return cliques
}

// buildCandidate собирает кандидата из клики: групповая оценка это среднее
// попарных, вместимость перепроверяется целиком, экономика считается по
// объединенному маршруту. Кандидаты дороже одиночных рейсов или ниже
// порогов отбрасываются.
func (p *Pooling) buildCandidate(
	memberIDs []int64,
	byID map[int64]entities.Shipment,
	edges map[pairKey]*PairScore,
	minSavingsPercent float64,
) *poolCandidate {
	members := make([]entities.Shipment, 0, len(memberIDs))
	for _, id := range memberIDs {
		members = append(members, byID[id])
	}

	var geoSum, temporalSum, capacitySum, overallSum float64
	pairCount := 0
	for i := 0; i < len(memberIDs); i++ {
		for j := i + 1; j < len(memberIDs); j++ {
			score := edges[newPairKey(memberIDs[i], memberIDs[j])]
			geoSum += score.Geo
			temporalSum += score.Temporal
			capacitySum += score.Capacity
			overallSum += score.Overall
			pairCount++
		}
	}

	overall := overallSum / float64(pairCount)
	if overall < p.config.MinGroupScore {
		return nil
	}

	// пары могли пройти по отдельности, группа целиком может не влезть
	_, utilization, err := p.scorer.capacityScore(members)
	if err != nil {
		return nil
	}

	breakdown, err := p.pricer.PooledPrice(members, p.combinedRouteMiles(members, edges))
	if err != nil {
		return nil
	}
	if breakdown.SavingsCents < 0 || breakdown.SavingsPercent < minSavingsPercent {
		return nil
	}

	return &poolCandidate{
		members: members,
		match: entities.PoolingMatch{
			ShipmentIDs:          append([]int64(nil), memberIDs...),
			GeoScore:             geoSum / float64(pairCount),
			TemporalScore:        temporalSum / float64(pairCount),
			CapacityScore:        capacitySum / float64(pairCount),
			OverallScore:         overall,
			IndividualCostCents:  breakdown.IndividualCostCents,
			PooledCostCents:      breakdown.PooledCostCents,
			SavingsCents:         breakdown.SavingsCents,
			SavingsPercent:       breakdown.SavingsPercent,
			CombinedMiles:        breakdown.CombinedMiles,
			CombinedHours:        breakdown.CombinedHours,
			EstimatedUtilization: utilization,
		},
	}
}

func (p *Pooling) combinedRouteMiles(members []entities.Shipment, edges map[pairKey]*PairScore) float64 {
	if len(members) == 2 {
		return edges[newPairKey(members[0].ID, members[1].ID)].CombinedMiles
	}
	return p.greedyRouteMiles(members)
}

// greedyRouteMiles строит маршрут группы из трех-четырех грузов жадным
// выбором ближайшей допустимой остановки: выгрузка доступна только после
// своей погрузки. Старт с самого раннего окна погрузки, выбор строгим
// сравнением, результат детерминирован.
func (p *Pooling) greedyRouteMiles(members []entities.Shipment) float64 {
	first := 0
	for i := range members {
		if members[i].PickupWindow.Start.Before(members[first].PickupWindow.Start) {
			first = i
		}
	}

	pickedUp := make([]bool, len(members))
	delivered := make([]bool, len(members))
	pickedUp[first] = true
	current := members[first].Origin

	total := 0.0
	for {
		bestIdx, bestPickup, bestDist := -1, false, math.MaxFloat64
		for i := range members {
			switch {
			case !pickedUp[i]:
				if d := p.distance.DistanceMiles(current, members[i].Origin); d < bestDist {
					bestIdx, bestPickup, bestDist = i, true, d
				}
			case !delivered[i]:
				if d := p.distance.DistanceMiles(current, members[i].Destination); d < bestDist {
					bestIdx, bestPickup, bestDist = i, false, d
				}
			}
		}
		if bestIdx < 0 {
			return total
		}

		total += bestDist
		if bestPickup {
			pickedUp[bestIdx] = true
			current = members[bestIdx].Origin
		} else {
			delivered[bestIdx] = true
			current = members[bestIdx].Destination
		}
	}
}

// rankCandidates: оценка по убыванию, затем экономия, затем меньший пул,
// затем лексикографический порядок участников для детерминизма.
func rankCandidates(candidates []*poolCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].match, candidates[j].match
		if a.OverallScore != b.OverallScore {
			return a.OverallScore > b.OverallScore
		}
		if a.SavingsPercent != b.SavingsPercent {
			return a.SavingsPercent > b.SavingsPercent
		}
		if len(a.ShipmentIDs) != len(b.ShipmentIDs) {
			return len(a.ShipmentIDs) < len(b.ShipmentIDs)
		}
		return lessIDs(a.ShipmentIDs, b.ShipmentIDs)
	})
}

func lessIDs(a, b []int64) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func memberSetKey(ids []int64) string {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return fmt.Sprint(sorted)
}
