package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"freightpool/internal/entities"
	"freightpool/internal/service/pooling"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const matchColumns = `id, shipment_ids,
	geo_score, temporal_score, capacity_score, overall_score,
	individual_cost_cents, pooled_cost_cents, savings_cents, savings_percent,
	combined_miles, combined_hours, estimated_utilization,
	status, expires_at, executed_at, created_at`

// Репозиторий матчей сам читает таблицу shipments: подбор кандидатов
// это one-shot выборка, гонять ее через сервис грузов незачем.
const eligibleShipmentColumns = `id, reference,
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

func scanMatch(row rowScanner) (MatchDB, error) {
	var m MatchDB
	err := row.Scan(
		&m.ID,
		&m.ShipmentIDs,
		&m.GeoScore,
		&m.TemporalScore,
		&m.CapacityScore,
		&m.OverallScore,
		&m.IndividualCostCents,
		&m.PooledCostCents,
		&m.SavingsCents,
		&m.SavingsPercent,
		&m.CombinedMiles,
		&m.CombinedHours,
		&m.EstimatedUtilization,
		&m.Status,
		&m.ExpiresAt,
		&m.ExecutedAt,
		&m.CreatedAt,
	)
	return m, err
}

func scanEligibleShipment(row rowScanner) (EligibleShipmentDB, error) {
	var s EligibleShipmentDB
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

func (r *Repository) Create(ctx context.Context, matchEntity entities.PoolingMatch) (*entities.PoolingMatch, error) {
	matchModel := FromDomain(&matchEntity)
	query := `INSERT INTO pooling_matches (shipment_ids,
		geo_score, temporal_score, capacity_score, overall_score,
		individual_cost_cents, pooled_cost_cents, savings_cents, savings_percent,
		combined_miles, combined_hours, estimated_utilization,
		status, expires_at, executed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	RETURNING ` + matchColumns

	row := r.querier.QueryRow(
		ctx,
		query,
		matchModel.ShipmentIDs,
		matchModel.GeoScore,
		matchModel.TemporalScore,
		matchModel.CapacityScore,
		matchModel.OverallScore,
		matchModel.IndividualCostCents,
		matchModel.PooledCostCents,
		matchModel.SavingsCents,
		matchModel.SavingsPercent,
		matchModel.CombinedMiles,
		matchModel.CombinedHours,
		matchModel.EstimatedUtilization,
		matchModel.Status,
		matchModel.ExpiresAt,
		matchModel.ExecutedAt,
	)

	created, err := scanMatch(row)
	if err != nil {
		return nil, fmt.Errorf("unexpected match repository create error: %w", err)
	}

	return ToDomain(&created), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*entities.PoolingMatch, error) {
	query := `SELECT ` + matchColumns + `
	FROM pooling_matches
	WHERE id = $1`

	matchModel, err := scanMatch(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pooling.ErrMatchNotFound
		}

		return nil, fmt.Errorf("unexpected match repository getbyid error: %w", err)
	}

	return ToDomain(&matchModel), nil
}

func (r *Repository) GetAll(ctx context.Context, filter entities.MatchFilter) ([]entities.PoolingMatch, error) {
	builder := qb.
		Select(matchColumns).
		From("pooling_matches")

	// опциональные фильтры
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": filter.Status.String()})
	}
	if filter.MinSavingsPct != nil {
		builder = builder.Where(sq.GtOrEq{"savings_percent": *filter.MinSavingsPct})
	}
	if filter.ShipmentID != nil {
		builder = builder.Where(sq.Expr("shipment_ids @> ARRAY[?]::BIGINT[]", *filter.ShipmentID))
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
		return nil, fmt.Errorf("unexpected match repository getall error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected match repository getall error: %w", err)
	}
	defer rows.Close()

	matchModels := make([]MatchDB, 0, 8)
	for rows.Next() {
		matchModel, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected match repository getall error: %w", err)
		}
		matchModels = append(matchModels, matchModel)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("unexpected match repository getall error: %w", err)
	}

	return ToDomainList(matchModels), nil
}

func (r *Repository) Update(ctx context.Context, matchModifyEntity entities.MatchModify) (*entities.PoolingMatch, error) {
	matchModifyModel := FromDomainModify(&matchModifyEntity)

	builder := qb.
		Update("pooling_matches")

	// опциональные поля
	if matchModifyModel.Status != nil {
		builder = builder.Set("status", matchModifyModel.Status)
	}
	if matchModifyModel.ExecutedAt != nil {
		builder = builder.Set("executed_at", matchModifyModel.ExecutedAt)
	}

	builder = builder.
		Where(sq.Eq{"id": matchModifyModel.ID}).
		Suffix("RETURNING " + matchColumns)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected match repository update error: %w", err)
	}

	updated, err := scanMatch(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pooling.ErrMatchNotFound
		}

		return nil, fmt.Errorf("unexpected match repository update error: %w", err)
	}

	return ToDomain(&updated), nil
}

func (r *Repository) GetEligibleShipments(ctx context.Context, filter entities.EligibleShipmentFilter) ([]entities.Shipment, error) {
	builder := qb.
		Select(eligibleShipmentColumns).
		From("shipments").
		Where(sq.Eq{"status": []string{
			entities.ShipmentCreated.String(),
			entities.ShipmentQuoted.String(),
		}})

	// опциональные фильтры
	if len(filter.IDs) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.IDs})
	}
	if filter.OriginState != nil {
		builder = builder.Where(sq.Eq{"origin_state": filter.OriginState})
	}
	if filter.DestState != nil {
		builder = builder.Where(sq.Eq{"dest_state": filter.DestState})
	}
	if filter.Equipment != nil {
		builder = builder.Where(sq.Eq{"equipment": filter.Equipment.String()})
	}

	builder = builder.OrderBy("id")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected match repository eligible shipments error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected match repository eligible shipments error: %w", err)
	}
	defer rows.Close()

	shipmentModels := make([]EligibleShipmentDB, 0, 8)
	for rows.Next() {
		shipmentModel, err := scanEligibleShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected match repository eligible shipments error: %w", err)
		}
		shipmentModels = append(shipmentModels, shipmentModel)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("unexpected match repository eligible shipments error: %w", err)
	}

	return shipmentsToDomainList(shipmentModels), nil
}

func (r *Repository) GetActiveProposed(ctx context.Context) ([]entities.PoolingMatch, error) {
	query := `SELECT ` + matchColumns + `
	FROM pooling_matches
	WHERE status = 'proposed'
	  AND expires_at > NOW()
	ORDER BY id`

	return r.queryMatches(ctx, "active proposed", query)
}

func (r *Repository) GetProposedExpired(ctx context.Context, now time.Time) ([]entities.PoolingMatch, error) {
	query := `SELECT ` + matchColumns + `
	FROM pooling_matches
	WHERE status = 'proposed'
	  AND expires_at <= $1
	ORDER BY id`

	return r.queryMatches(ctx, "proposed expired", query, now)
}

func (r *Repository) GetActiveProposedByShipmentID(ctx context.Context, shipmentID int64) ([]entities.PoolingMatch, error) {
	query := `SELECT ` + matchColumns + `
	FROM pooling_matches
	WHERE status = 'proposed'
	  AND expires_at > NOW()
	  AND shipment_ids @> ARRAY[$1]::BIGINT[]
	ORDER BY id`

	return r.queryMatches(ctx, "active proposed by shipment", query, shipmentID)
}

func (r *Repository) queryMatches(ctx context.Context, op, query string, args ...interface{}) ([]entities.PoolingMatch, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected match repository %s error: %w", op, err)
	}
	defer rows.Close()

	matchModels := make([]MatchDB, 0, 8)
	for rows.Next() {
		matchModel, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected match repository %s error: %w", op, err)
		}
		matchModels = append(matchModels, matchModel)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("unexpected match repository %s error: %w", op, err)
	}

	return ToDomainList(matchModels), nil
}

func (r *Repository) GetStats(ctx context.Context) (*entities.PoolingStats, error) {
	query := `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE status = 'proposed' AND expires_at > NOW()),
            COUNT(*) FILTER (WHERE status = 'executed'),
            COUNT(*) FILTER (WHERE status = 'expired'),
            COUNT(*) FILTER (WHERE status = 'cancelled'),
            COALESCE(SUM(savings_cents) FILTER (WHERE status = 'executed'), 0),
            COALESCE(AVG(savings_percent), 0),
            COALESCE(AVG(overall_score), 0)
        FROM pooling_matches
    `

	var statsModel StatsDB
	err := r.querier.QueryRow(ctx, query).
		Scan(
			&statsModel.TotalFound,
			&statsModel.Active,
			&statsModel.Executed,
			&statsModel.Expired,
			&statsModel.Cancelled,
			&statsModel.TotalSavingsCents,
			&statsModel.AvgSavingsPercent,
			&statsModel.AvgMatchScore,
		)
	if err != nil {
		return nil, fmt.Errorf("unexpected match repository stats error: %w", err)
	}

	return statsToDomain(&statsModel), nil
}
