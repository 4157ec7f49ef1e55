package quote

import (
	"math"
	"time"

	"freightpool/internal/entities"
)

// Денежные расчеты ведутся в целых центах. Множители заданы в базисных
// пунктах (10000 bp = 100%), округление half-up на каждом переходе в центы.
type PricingConfig struct {
	BaseRatePerMileCents   int64
	MarketRatePerMileCents int64

	LongHaulMiles       float64
	LongHaulBP          int64
	ShortHaulBP         int64
	LowUtilizationShare float64
	LowUtilizationBP    int64
	FuelSurchargeBP     int64

	LiftgateCents       int64
	AppointmentCents    int64
	InsideDeliveryCents int64
	StopOverheadCents   int64

	CompetitorLowBP  int64
	CompetitorHighBP int64

	DiscountHighProbability int
	DiscountHighBP          int64
	DiscountMidProbability  int
	DiscountMidBP           int64

	TrailerLengthFeet float64
	AverageSpeedMPH   float64
	TransitDayMiles   float64
}

type Pricing struct {
	config PricingConfig
}

func NewPricing(config PricingConfig) *Pricing {
	return &Pricing{config: config}
}

// IndividualPrice считает цену одиночной перевозки по сохраненной дистанции
// груза. Длительность оценивается по средней скорости, вызывающий может
// заменить ее живой оценкой маршрута.
func (p *Pricing) IndividualPrice(shipmentEntity entities.Shipment) (*entities.PriceBreakdown, error) {
	distance := shipmentEntity.DistanceMiles
	if distance <= 0 {
		return nil, ErrUnknownDistance
	}

	demandBP := p.config.ShortHaulBP
	if distance > p.config.LongHaulMiles {
		demandBP = p.config.LongHaulBP
	}

	utilizationBP := int64(10000)
	if shipmentEntity.Dimensions.LinearFeet/p.config.TrailerLengthFeet <= p.config.LowUtilizationShare {
		utilizationBP = p.config.LowUtilizationBP
	}

	base := centsForMiles(distance, p.config.BaseRatePerMileCents)
	linehaul := applyBasisPoints(applyBasisPoints(base, demandBP), utilizationBP)
	fuel := applyBasisPoints(linehaul, p.config.FuelSurchargeBP)
	accessorial := p.accessorialCents(shipmentEntity)
	total := linehaul + fuel + accessorial

	market := centsForMiles(distance, p.config.MarketRatePerMileCents)

	return &entities.PriceBreakdown{
		DistanceMiles:       distance,
		LinehaulCents:       linehaul,
		FuelSurchargeCents:  fuel,
		AccessorialCents:    accessorial,
		TotalCents:          total,
		RatePerMileCents:    ratePerMileCents(total, distance),
		MarketRateCents:     market,
		CompetitorLowCents:  applyBasisPoints(market, p.config.CompetitorLowBP),
		CompetitorHighCents: applyBasisPoints(market, p.config.CompetitorHighBP),
		TransitDays:         p.transitDays(distance),
		EstimatedDuration:   p.transitDuration(distance),
	}, nil
}

// PooledPrice считает стоимость группы на объединенном маршруте: линейный
// тариф на общую дистанцию, одна топливная надбавка, акцессориалы всех
// участников и накладные за промежуточные остановки. Скидочные множители
// спроса и утилизации к пулу не применяются.
func (p *Pricing) PooledPrice(members []entities.Shipment, combinedMiles float64) (*entities.PooledBreakdown, error) {
	if len(members) < 2 {
		return nil, ErrInvalidPoolSize
	}
	if combinedMiles <= 0 {
		return nil, ErrUnknownDistance
	}

	individual := int64(0)
	accessorial := int64(0)
	for _, member := range members {
		breakdown, err := p.IndividualPrice(member)
		if err != nil {
			return nil, err
		}
		individual += breakdown.TotalCents
		accessorial += p.accessorialCents(member)
	}

	linehaul := centsForMiles(combinedMiles, p.config.BaseRatePerMileCents)
	fuel := applyBasisPoints(linehaul, p.config.FuelSurchargeBP)
	// первая погрузка и финальная выгрузка включены в линейный тариф,
	// остальные 2n-2 остановки оплачиваются отдельно
	overhead := p.config.StopOverheadCents * int64(2*len(members)-2)

	pooled := linehaul + fuel + accessorial + overhead
	savings := individual - pooled
	savingsPercent := 0.0
	if individual > 0 {
		savingsPercent = float64(savings) / float64(individual) * 100
	}

	return &entities.PooledBreakdown{
		CombinedMiles:       combinedMiles,
		CombinedHours:       combinedMiles / p.config.AverageSpeedMPH,
		IndividualCostCents: individual,
		PooledCostCents:     pooled,
		SavingsCents:        savings,
		SavingsPercent:      savingsPercent,
		MemberShareCents:    p.SplitPooledCost(members, pooled),
	}, nil
}

// PoolingDiscount считает рекомендательную скидку от linehaul по вероятности
// пулинга (0-100). В зафиксированную цену котировки не входит.
func (p *Pricing) PoolingDiscount(linehaulCents int64, probability int) int64 {
	switch {
	case probability > p.config.DiscountHighProbability:
		return applyBasisPoints(applyBasisPoints(linehaulCents, p.config.DiscountHighBP), int64(probability)*100)
	case probability > p.config.DiscountMidProbability:
		return applyBasisPoints(applyBasisPoints(linehaulCents, p.config.DiscountMidBP), int64(probability)*100)
	default:
		return 0
	}
}

// SplitPooledCost делит стоимость пула пропорционально погонным футам,
// остаток округления достается наибольшей доле, сумма сходится точно.
func (p *Pricing) SplitPooledCost(members []entities.Shipment, pooledCents int64) []int64 {
	shares := make([]int64, len(members))

	totalFeet := 0.0
	for _, member := range members {
		totalFeet += member.Dimensions.LinearFeet
	}
	if totalFeet <= 0 || pooledCents <= 0 {
		return shares
	}

	allocated := int64(0)
	largest := 0
	for i, member := range members {
		shareBP := int64(math.Round(member.Dimensions.LinearFeet / totalFeet * 10000))
		shares[i] = applyBasisPoints(pooledCents, shareBP)
		allocated += shares[i]
		if member.Dimensions.LinearFeet > members[largest].Dimensions.LinearFeet {
			largest = i
		}
	}
	shares[largest] += pooledCents - allocated

	return shares
}

func (p *Pricing) accessorialCents(shipmentEntity entities.Shipment) int64 {
	cents := int64(0)
	if shipmentEntity.RequiresLiftgate {
		cents += p.config.LiftgateCents
	}
	if shipmentEntity.RequiresAppointment {
		cents += p.config.AppointmentCents
	}
	if shipmentEntity.RequiresInsideDelivery {
		cents += p.config.InsideDeliveryCents
	}
	return cents
}

func (p *Pricing) transitDays(miles float64) int {
	days := int(math.Ceil(miles / p.config.TransitDayMiles))
	if days < 1 {
		days = 1
	}
	return days
}

func (p *Pricing) transitDuration(miles float64) time.Duration {
	return time.Duration(miles / p.config.AverageSpeedMPH * float64(time.Hour))
}

func applyBasisPoints(cents, bp int64) int64 {
	return (cents*bp + 5000) / 10000
}

func centsForMiles(miles float64, ratePerMileCents int64) int64 {
	return int64(math.Round(miles * float64(ratePerMileCents)))
}

func ratePerMileCents(totalCents int64, miles float64) int64 {
	if miles <= 0 {
		return 0
	}
	return int64(math.Round(float64(totalCents) / miles))
}
