package shipment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"freightpool/internal/entities"
	"freightpool/pkg/keylock"
)

type Config struct {
	TrailerLengthFeet float64
	MaxWeightLbs      float64
	LockTimeout       time.Duration
}

type Shipment struct {
	repository     Repository
	routeEstimator RouteEstimator
	locker         Locker
	txManager      TxManager
	config         Config
}

func New(
	repository Repository,
	routeEstimator RouteEstimator,
	locker Locker,
	txManager TxManager,
	config Config,
) *Shipment {
	return &Shipment{
		repository:     repository,
		routeEstimator: routeEstimator,
		locker:         locker,
		txManager:      txManager,
		config:         config,
	}
}

// CreateShipment валидирует заявку, присваивает reference и оценивает
// дистанцию маршрута. Недоступность маршрутного сервиса не блокирует
// создание: дистанция остается нулевой и пересчитывается при котировке.
func (s *Shipment) CreateShipment(ctx context.Context, shipmentEntity entities.Shipment) (*entities.Shipment, error) {
	if err := s.validateNew(shipmentEntity); err != nil {
		return nil, err
	}

	shipmentEntity.Reference = newShipmentReference(time.Now().UTC())
	shipmentEntity.Status = entities.DefaultShipmentStatus
	shipmentEntity.BookingRef = nil

	estimate, err := s.routeEstimator.EstimateRoute(ctx, shipmentEntity.Origin, shipmentEntity.Destination)
	if err == nil {
		shipmentEntity.DistanceMiles = estimate.DistanceMiles
	} else {
		shipmentEntity.DistanceMiles = 0
	}

	created, err := s.repository.Create(ctx, shipmentEntity)
	if err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}
	return created, nil
}

func (s *Shipment) GetShipment(ctx context.Context, id int64) (*entities.Shipment, error) {
	if id <= 0 {
		return nil, ErrInvalidShipmentID
	}

	shipmentEntity, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return shipmentEntity, nil
}

func (s *Shipment) GetShipments(ctx context.Context, filter entities.ShipmentFilter) ([]entities.Shipment, error) {
	if filter.Status != nil && !isValidStatus(filter.Status.String()) {
		return nil, ErrInvalidStatus
	}
	if filter.Equipment != nil && !isValidEquipment(filter.Equipment.String()) {
		return nil, ErrInvalidEquipment
	}

	const defaultLimit, maxLimit = 50, 200
	if filter.Limit == 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}

	shipments, err := s.repository.GetAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get shipments: %w", err)
	}
	return shipments, nil
}

// CancelShipment отменяет груз по запросу клиента. Разрешено только до
// момента, когда груз попал в пул или уехал: created, quoted и booked.
func (s *Shipment) CancelShipment(ctx context.Context, id int64) (*entities.Shipment, error) {
	if id <= 0 {
		return nil, ErrInvalidShipmentID
	}

	var cancelled *entities.Shipment
	err := s.withShipmentLock(ctx, id, func(ctx context.Context) error {
		return s.txManager.Do(ctx, func(ctx context.Context) error {
			shipmentEntity, err := s.repository.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("get shipment: %w", err)
			}

			switch shipmentEntity.Status {
			case entities.ShipmentCreated, entities.ShipmentQuoted, entities.ShipmentBooked:
			case entities.ShipmentPooled:
				return ErrShipmentPooled
			default:
				return fmt.Errorf("%w: %s -> %s", ErrStatusTransition, shipmentEntity.Status, entities.ShipmentCancelled)
			}

			cancelled, err = s.applyStatus(ctx, id, entities.ShipmentCancelled)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// UpdateStatus применяет статусные события трекинга перевозчика.
// Повторная доставка того же события не считается ошибкой.
func (s *Shipment) UpdateStatus(ctx context.Context, id int64, status entities.ShipmentStatusType) (*entities.Shipment, error) {
	if id <= 0 {
		return nil, ErrInvalidShipmentID
	}
	if !isValidStatus(status.String()) {
		return nil, ErrInvalidStatus
	}

	var updated *entities.Shipment
	err := s.withShipmentLock(ctx, id, func(ctx context.Context) error {
		return s.txManager.Do(ctx, func(ctx context.Context) error {
			shipmentEntity, err := s.repository.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("get shipment: %w", err)
			}

			if shipmentEntity.Status == status {
				updated = shipmentEntity
				return nil
			}
			if !isTrackingTransitionAllowed(shipmentEntity.Status, status) {
				return fmt.Errorf("%w: %s -> %s", ErrStatusTransition, shipmentEntity.Status, status)
			}

			updated, err = s.applyStatus(ctx, id, status)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MarkQuoted переводит груз в quoted при выдаче котировки.
// Вызывающий уже держит блокировку груза.
func (s *Shipment) MarkQuoted(ctx context.Context, id int64) (*entities.Shipment, error) {
	shipmentEntity, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get shipment: %w", err)
	}

	switch shipmentEntity.Status {
	case entities.ShipmentQuoted:
		return shipmentEntity, nil
	case entities.ShipmentCreated:
	default:
		return nil, fmt.Errorf("%w: %s -> %s", ErrStatusTransition, shipmentEntity.Status, entities.ShipmentQuoted)
	}

	return s.applyStatus(ctx, id, entities.ShipmentQuoted)
}

// BookShipment бронирует груз по принятой котировке и выдает booking
// reference. Вызывающий уже держит блокировку груза.
func (s *Shipment) BookShipment(ctx context.Context, id int64) (*entities.Shipment, error) {
	shipmentEntity, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get shipment: %w", err)
	}

	if shipmentEntity.Status != entities.ShipmentQuoted {
		return nil, fmt.Errorf("%w: %s -> %s", ErrStatusTransition, shipmentEntity.Status, entities.ShipmentBooked)
	}

	bookedStatus := entities.ShipmentBooked
	bookingRef := newBookingReference()
	updated, err := s.repository.Update(ctx, entities.ShipmentModify{
		ID:         &id,
		Status:     &bookedStatus,
		BookingRef: &bookingRef,
	})
	if err != nil {
		return nil, fmt.Errorf("book shipment: %w", err)
	}
	return updated, nil
}

// MarkPooled переводит груз в pooled при исполнении матча.
// Вызывающий уже держит блокировку груза.
func (s *Shipment) MarkPooled(ctx context.Context, id int64) (*entities.Shipment, error) {
	shipmentEntity, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get shipment: %w", err)
	}

	switch shipmentEntity.Status {
	case entities.ShipmentCreated, entities.ShipmentQuoted:
	default:
		return nil, fmt.Errorf("%w: %s -> %s", ErrStatusTransition, shipmentEntity.Status, entities.ShipmentPooled)
	}

	return s.applyStatus(ctx, id, entities.ShipmentPooled)
}

// UpdateDistance сохраняет пересчитанную дистанцию маршрута.
// Вызывающий уже держит блокировку груза.
func (s *Shipment) UpdateDistance(ctx context.Context, id int64, distanceMiles float64) (*entities.Shipment, error) {
	if id <= 0 {
		return nil, ErrInvalidShipmentID
	}
	if distanceMiles <= 0 {
		return nil, ErrInvalidShipmentID
	}

	updated, err := s.repository.Update(ctx, entities.ShipmentModify{
		ID:            &id,
		DistanceMiles: &distanceMiles,
	})
	if err != nil {
		return nil, fmt.Errorf("update shipment distance: %w", err)
	}
	return updated, nil
}

func (s *Shipment) applyStatus(ctx context.Context, id int64, status entities.ShipmentStatusType) (*entities.Shipment, error) {
	updated, err := s.repository.Update(ctx, entities.ShipmentModify{
		ID:     &id,
		Status: &status,
	})
	if err != nil {
		return nil, fmt.Errorf("update shipment status: %w", err)
	}
	return updated, nil
}

func (s *Shipment) withShipmentLock(ctx context.Context, id int64, fn func(ctx context.Context) error) error {
	lockCtx, cancel := context.WithTimeout(ctx, s.config.LockTimeout)
	defer cancel()

	release, err := s.locker.AcquireAll(lockCtx, []keylock.Key{keylock.NewKey(entities.LockKindShipment, id)})
	if err != nil {
		return ErrBusy
	}
	defer release()

	return fn(ctx)
}

func (s *Shipment) validateNew(shipmentEntity entities.Shipment) error {
	if !isValidLocation(shipmentEntity.Origin) || !isValidLocation(shipmentEntity.Destination) {
		return ErrInvalidLocation
	}
	if !isValidWindow(shipmentEntity.PickupWindow) || !isValidWindow(shipmentEntity.DeliveryWindow) {
		return ErrInvalidWindow
	}
	if shipmentEntity.DeliveryWindow.End.Before(shipmentEntity.PickupWindow.Start) {
		return ErrInvalidWindow
	}
	if !isValidEquipment(shipmentEntity.Equipment.String()) {
		return ErrInvalidEquipment
	}

	dims := shipmentEntity.Dimensions
	if dims.WeightLbs <= 0 || dims.WeightLbs > s.config.MaxWeightLbs {
		return ErrInvalidDimensions
	}
	if dims.LinearFeet <= 0 || dims.LinearFeet > s.config.TrailerLengthFeet {
		return ErrInvalidDimensions
	}
	if dims.PalletCount < 0 {
		return ErrInvalidDimensions
	}

	return nil
}

func isTrackingTransitionAllowed(from, to entities.ShipmentStatusType) bool {
	switch to {
	case entities.ShipmentInTransit:
		return from == entities.ShipmentBooked || from == entities.ShipmentPooled
	case entities.ShipmentDelivered:
		return from == entities.ShipmentInTransit
	case entities.ShipmentCancelled:
		return from != entities.ShipmentDelivered && from != entities.ShipmentCancelled
	default:
		return false
	}
}

func newShipmentReference(now time.Time) string {
	return fmt.Sprintf("SLP-%s-%s", now.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}

func newBookingReference() string {
	return fmt.Sprintf("BK-%s", strings.ToUpper(uuid.NewString()[:8]))
}
