package shipment

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"freightpool/internal/entities"
	"freightpool/internal/repository"
	"freightpool/internal/service/shipment"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// shipmentColumns перечислены один раз, колонок много и
// порядок обязан совпадать со scanShipment.
const shipmentColumns = `id, reference,
	origin_city, origin_state, origin_postal_code, origin_lat, origin_lon,
	dest_city, dest_state, dest_postal_code, dest_lat, dest_lon,
	pickup_start, pickup_end, delivery_start, delivery_end,
	weight_lbs, linear_feet, pallet_count, stackable,
	equipment, requires_liftgate, requires_appointment, requires_inside_delivery,
	distance_miles, status, booking_ref, created_at, updated_at`

type Querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func scanShipment(row rowScanner) (ShipmentDB, error) {
	var s ShipmentDB
	err := row.Scan(
		&s.ID,
		&s.Reference,
		&s.OriginCity,
		&s.OriginState,
		&s.OriginPostalCode,
		&s.OriginLat,
		&s.OriginLon,
		&s.DestCity,
		&s.DestState,
		&s.DestPostalCode,
		&s.DestLat,
		&s.DestLon,
		&s.PickupStart,
		&s.PickupEnd,
		&s.DeliveryStart,
		&s.DeliveryEnd,
		&s.WeightLbs,
		&s.LinearFeet,
		&s.PalletCount,
		&s.Stackable,
		&s.Equipment,
		&s.RequiresLiftgate,
		&s.RequiresAppointment,
		&s.RequiresInsideDelivery,
		&s.DistanceMiles,
		&s.Status,
		&s.BookingRef,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func (r *Repository) Create(ctx context.Context, shipmentEntity entities.Shipment) (*entities.Shipment, error) {
	shipmentModel := FromDomain(&shipmentEntity)
	query := `INSERT INTO shipments (reference,
		origin_city, origin_state, origin_postal_code, origin_lat, origin_lon,
		dest_city, dest_state, dest_postal_code, dest_lat, dest_lon,
		pickup_start, pickup_end, delivery_start, delivery_end,
		weight_lbs, linear_feet, pallet_count, stackable,
		equipment, requires_liftgate, requires_appointment, requires_inside_delivery,
		distance_miles, status, booking_ref)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
	RETURNING ` + shipmentColumns

	row := r.querier.QueryRow(
		ctx,
		query,
		shipmentModel.Reference,
		shipmentModel.OriginCity,
		shipmentModel.OriginState,
		shipmentModel.OriginPostalCode,
		shipmentModel.OriginLat,
		shipmentModel.OriginLon,
		shipmentModel.DestCity,
		shipmentModel.DestState,
		shipmentModel.DestPostalCode,
		shipmentModel.DestLat,
		shipmentModel.DestLon,
		shipmentModel.PickupStart,
		shipmentModel.PickupEnd,
		shipmentModel.DeliveryStart,
		shipmentModel.DeliveryEnd,
		shipmentModel.WeightLbs,
		shipmentModel.LinearFeet,
		shipmentModel.PalletCount,
		shipmentModel.Stackable,
		shipmentModel.Equipment,
		shipmentModel.RequiresLiftgate,
		shipmentModel.RequiresAppointment,
		shipmentModel.RequiresInsideDelivery,
		shipmentModel.DistanceMiles,
		shipmentModel.Status,
		shipmentModel.BookingRef,
	)

	created, err := scanShipment(row)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, shipment.ErrConflict
		}
		return nil, fmt.Errorf("unexpected shipment repository create error: %w", err)
	}

	return ToDomain(&created), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*entities.Shipment, error) {
	query := `SELECT ` + shipmentColumns + `
	FROM shipments
	WHERE id = $1`

	shipmentModel, err := scanShipment(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shipment.ErrShipmentNotFound
		}

		return nil, fmt.Errorf("unexpected shipment repository getbyid error: %w", err)
	}

	return ToDomain(&shipmentModel), nil
}

func (r *Repository) GetAll(ctx context.Context, filter entities.ShipmentFilter) ([]entities.Shipment, error) {
	builder := qb.
		Select(shipmentColumns).
		From("shipments")

	// опциональные фильтры
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": filter.Status.String()})
	}
	if filter.Equipment != nil {
		builder = builder.Where(sq.Eq{"equipment": filter.Equipment.String()})
	}
	if filter.OriginState != nil {
		builder = builder.Where(sq.Eq{"origin_state": filter.OriginState})
	}
	if filter.DestState != nil {
		builder = builder.Where(sq.Eq{"dest_state": filter.DestState})
	}

	builder = builder.OrderBy("id")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected shipment repository getall error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected shipment repository getall error: %w", err)
	}
	defer rows.Close()

	shipmentModels := make([]ShipmentDB, 0, 8)
	for rows.Next() {
		shipmentModel, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected shipment repository getall error: %w", err)
		}
		shipmentModels = append(shipmentModels, shipmentModel)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("unexpected shipment repository getall error: %w", err)
	}

	return ToDomainList(shipmentModels), nil
}

func (r *Repository) Update(ctx context.Context, shipmentModifyEntity entities.ShipmentModify) (*entities.Shipment, error) {
	shipmentModifyModel := FromDomainModify(&shipmentModifyEntity)

	builder := qb.
		Update("shipments")

	// опциональные поля
	if shipmentModifyModel.Status != nil {
		builder = builder.Set("status", shipmentModifyModel.Status)
	}
	if shipmentModifyModel.BookingRef != nil {
		builder = builder.Set("booking_ref", shipmentModifyModel.BookingRef)
	}
	if shipmentModifyModel.DistanceMiles != nil {
		builder = builder.Set("distance_miles", shipmentModifyModel.DistanceMiles)
	}

	builder = builder.Set("updated_at", sq.Expr("NOW()"))

	builder = builder.
		Where(sq.Eq{"id": shipmentModifyModel.ID}).
		Suffix("RETURNING " + shipmentColumns)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected shipment repository update error: %w", err)
	}

	updated, err := scanShipment(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shipment.ErrShipmentNotFound
		}

		if repository.IsUniqueViolation(err) {
			return nil, shipment.ErrConflict
		}

		return nil, fmt.Errorf("unexpected shipment repository update error: %w", err)
	}

	return ToDomain(&updated), nil
}
