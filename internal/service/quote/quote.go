package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlekSi/pointer"

	"freightpool/internal/entities"
	"freightpool/internal/service/shipment"
	"freightpool/pkg/keylock"
)

type Config struct {
	ValidityHorizon time.Duration
	LockTimeout     time.Duration
}

type Quote struct {
	repository       Repository
	shipmentService  ShipmentService
	poolingEstimator PoolingEstimator
	routeEstimator   RouteEstimator
	pricing          *Pricing
	locker           Locker
	txManager        TxManager
	config           Config
}

func New(
	repository Repository,
	shipmentService ShipmentService,
	poolingEstimator PoolingEstimator,
	routeEstimator RouteEstimator,
	pricing *Pricing,
	locker Locker,
	txManager TxManager,
	config Config,
) *Quote {
	return &Quote{
		repository:       repository,
		shipmentService:  shipmentService,
		poolingEstimator: poolingEstimator,
		routeEstimator:   routeEstimator,
		pricing:          pricing,
		locker:           locker,
		txManager:        txManager,
		config:           config,
	}
}

// GenerateQuote выпускает новую активную котировку груза. Прежняя активная
// котировка того же груза помечается superseded, сам груз переходит в quoted.
func (q *Quote) GenerateQuote(ctx context.Context, shipmentID int64) (*entities.Quote, error) {
	if shipmentID <= 0 {
		return nil, ErrInvalidShipmentID
	}

	var created *entities.Quote
	err := q.withShipmentLock(ctx, shipmentID, func(ctx context.Context) error {
		return q.txManager.Do(ctx, func(ctx context.Context) error {
			shipmentEntity, err := q.shipmentService.GetShipment(ctx, shipmentID)
			if err != nil {
				return fmt.Errorf("get shipment: %w", err)
			}

			switch shipmentEntity.Status {
			case entities.ShipmentCreated, entities.ShipmentQuoted:
			default:
				return fmt.Errorf("%w: status %s", ErrShipmentNotQuotable, shipmentEntity.Status)
			}

			var estimatedDuration time.Duration
			if shipmentEntity.DistanceMiles <= 0 {
				// дистанцию не посчитали при создании, добираем здесь
				estimate, err := q.routeEstimator.EstimateRoute(ctx, shipmentEntity.Origin, shipmentEntity.Destination)
				if err != nil {
					return fmt.Errorf("%w: %v", ErrRoutingUnavailable, err)
				}

				shipmentEntity, err = q.shipmentService.UpdateDistance(ctx, shipmentID, estimate.DistanceMiles)
				if err != nil {
					return fmt.Errorf("update shipment distance: %w", err)
				}
				estimatedDuration = estimate.Duration
			}

			breakdown, err := q.pricing.IndividualPrice(*shipmentEntity)
			if err != nil {
				return err
			}
			if estimatedDuration > 0 {
				breakdown.EstimatedDuration = estimatedDuration
			}

			// оценка вероятности рекомендательная, при сбое деградируем до нуля
			probability, err := q.poolingEstimator.EstimatePoolingProbability(ctx, *shipmentEntity)
			if err != nil {
				probability = 0
			}

			if _, err := q.repository.SupersedeActiveByShipmentID(ctx, shipmentID); err != nil {
				return fmt.Errorf("supersede active quotes: %w", err)
			}

			now := time.Now().UTC()
			created, err = q.repository.Create(ctx, entities.Quote{
				ShipmentID:           shipmentID,
				LinehaulCents:        breakdown.LinehaulCents,
				FuelSurchargeCents:   breakdown.FuelSurchargeCents,
				AccessorialCents:     breakdown.AccessorialCents,
				TotalCents:           breakdown.TotalCents,
				PoolingDiscountCents: q.pricing.PoolingDiscount(breakdown.LinehaulCents, probability),
				PoolingProbability:   probability,
				MarketRateCents:      breakdown.MarketRateCents,
				CompetitorLowCents:   breakdown.CompetitorLowCents,
				CompetitorHighCents:  breakdown.CompetitorHighCents,
				RatePerMileCents:     breakdown.RatePerMileCents,
				TransitDays:          breakdown.TransitDays,
				EstimatedDuration:    breakdown.EstimatedDuration,
				Status:               entities.QuoteActive,
				ValidUntil:           now.Add(q.config.ValidityHorizon),
				CreatedAt:            now,
			})
			if err != nil {
				return fmt.Errorf("create quote: %w", err)
			}

			if _, err := q.shipmentService.MarkQuoted(ctx, shipmentID); err != nil {
				return fmt.Errorf("mark shipment quoted: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetQuote возвращает котировку, лениво помечая просроченную активную
// котировку как expired.
func (q *Quote) GetQuote(ctx context.Context, id int64) (*entities.Quote, error) {
	if id <= 0 {
		return nil, ErrInvalidQuoteID
	}

	quoteEntity, err := q.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get quote: %w", err)
	}

	if quoteEntity.Status == entities.QuoteActive && time.Now().UTC().After(quoteEntity.ValidUntil) {
		expiredStatus := entities.QuoteExpired
		quoteEntity, err = q.repository.Update(ctx, entities.QuoteModify{ID: &id, Status: &expiredStatus})
		if err != nil {
			return nil, fmt.Errorf("expire quote: %w", err)
		}
	}
	return quoteEntity, nil
}

// AcceptQuote фиксирует цену и бронирует груз. Просроченная котировка
// отклоняется и помечается expired, повторное принятие отклоняется.
func (q *Quote) AcceptQuote(ctx context.Context, id int64) (*entities.QuoteAcceptance, error) {
	if id <= 0 {
		return nil, ErrInvalidQuoteID
	}

	quoteEntity, err := q.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get quote: %w", err)
	}

	acceptance := entities.QuoteAcceptance{}
	err = q.withShipmentLock(ctx, quoteEntity.ShipmentID, func(ctx context.Context) error {
		return q.txManager.Do(ctx, func(ctx context.Context) error {
			// перечитываем под блокировкой, статус мог уйти
			current, err := q.repository.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("get quote: %w", err)
			}

			switch current.Status {
			case entities.QuoteActive:
			case entities.QuoteAccepted:
				return ErrQuoteAlreadyAccepted
			default:
				return fmt.Errorf("%w: status %s", ErrQuoteNotActive, current.Status)
			}

			if time.Now().UTC().After(current.ValidUntil) {
				expiredStatus := entities.QuoteExpired
				if _, err := q.repository.Update(ctx, entities.QuoteModify{ID: &id, Status: &expiredStatus}); err != nil {
					return fmt.Errorf("expire quote: %w", err)
				}
				return ErrQuoteExpired
			}

			booked, err := q.shipmentService.BookShipment(ctx, current.ShipmentID)
			if err != nil {
				if errors.Is(err, shipment.ErrStatusTransition) || errors.Is(err, shipment.ErrShipmentPooled) {
					return fmt.Errorf("%w: %v", ErrShipmentNotBookable, err)
				}
				return fmt.Errorf("book shipment: %w", err)
			}

			acceptedStatus := entities.QuoteAccepted
			updated, err := q.repository.Update(ctx, entities.QuoteModify{ID: &id, Status: &acceptedStatus})
			if err != nil {
				return fmt.Errorf("accept quote: %w", err)
			}

			acceptance = entities.QuoteAcceptance{
				QuoteID:    updated.ID,
				ShipmentID: booked.ID,
				TotalCents: updated.TotalCents,
				BookingRef: pointer.GetString(booked.BookingRef),
				Status:     updated.Status,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &acceptance, nil
}

func (q *Quote) CleanupExpiredQuotes(ctx context.Context) (int64, error) {
	rowsAffected, err := q.repository.UpdateQuotesExpiredWhereDeadlinePassed(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, fmt.Errorf("cleanup timed out: %w", err)
		}
		return 0, fmt.Errorf("cleanup: %w", err)
	}

	return rowsAffected, nil
}

func (q *Quote) withShipmentLock(ctx context.Context, shipmentID int64, fn func(ctx context.Context) error) error {
	lockCtx, cancel := context.WithTimeout(ctx, q.config.LockTimeout)
	defer cancel()

	release, err := q.locker.AcquireAll(lockCtx, []keylock.Key{keylock.NewKey(entities.LockKindShipment, shipmentID)})
	if err != nil {
		return ErrBusy
	}
	defer release()

	return fn(ctx)
}
