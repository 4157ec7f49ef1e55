package quote

import (
	"time"

	"freightpool/internal/entities"
)

func ToDomain(q *QuoteDB) *entities.Quote {
	if q == nil {
		return nil
	}

	return &entities.Quote{
		ID:                   q.ID,
		ShipmentID:           q.ShipmentID,
		LinehaulCents:        q.LinehaulCents,
		FuelSurchargeCents:   q.FuelSurchargeCents,
		AccessorialCents:     q.AccessorialCents,
		TotalCents:           q.TotalCents,
		PoolingDiscountCents: q.PoolingDiscountCents,
		PoolingProbability:   q.PoolingProbability,
		MarketRateCents:      q.MarketRateCents,
		CompetitorLowCents:   q.CompetitorLowCents,
		CompetitorHighCents:  q.CompetitorHighCents,
		RatePerMileCents:     q.RatePerMileCents,
		TransitDays:          q.TransitDays,
		EstimatedDuration:    time.Duration(q.EstimatedDurationSeconds) * time.Second,
		Status:               entities.QuoteStatusType(q.Status),
		ValidUntil:           q.ValidUntil,
		CreatedAt:            q.CreatedAt,
	}
}

func FromDomain(quoteEntity *entities.Quote) *QuoteDB {
	if quoteEntity == nil {
		return nil
	}

	return &QuoteDB{
		ID:                       quoteEntity.ID,
		ShipmentID:               quoteEntity.ShipmentID,
		LinehaulCents:            quoteEntity.LinehaulCents,
		FuelSurchargeCents:       quoteEntity.FuelSurchargeCents,
		AccessorialCents:         quoteEntity.AccessorialCents,
		TotalCents:               quoteEntity.TotalCents,
		PoolingDiscountCents:     quoteEntity.PoolingDiscountCents,
		PoolingProbability:       quoteEntity.PoolingProbability,
		MarketRateCents:          quoteEntity.MarketRateCents,
		CompetitorLowCents:       quoteEntity.CompetitorLowCents,
		CompetitorHighCents:      quoteEntity.CompetitorHighCents,
		RatePerMileCents:         quoteEntity.RatePerMileCents,
		TransitDays:              quoteEntity.TransitDays,
		EstimatedDurationSeconds: int64(quoteEntity.EstimatedDuration / time.Second),
		Status:                   quoteEntity.Status.String(),
		ValidUntil:               quoteEntity.ValidUntil,
	}
}

func FromDomainModify(quoteModify *entities.QuoteModify) *QuoteModifyDB {
	if quoteModify == nil {
		return nil
	}
	quoteDB := &QuoteModifyDB{}

	if quoteModify.ID != nil {
		quoteDB.ID = quoteModify.ID
	}
	if quoteModify.Status != nil {
		statusType := quoteModify.Status.String()
		quoteDB.Status = &statusType
	}

	return quoteDB
}
