package quote

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"freightpool/internal/entities"
	"freightpool/internal/service/quote"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const quoteColumns = `id, shipment_id,
	linehaul_cents, fuel_surcharge_cents, accessorial_cents, total_cents,
	pooling_discount_cents, pooling_probability,
	market_rate_cents, competitor_low_cents, competitor_high_cents,
	rate_per_mile_cents, transit_days, estimated_duration_seconds,
	status, valid_until, created_at`

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

func scanQuote(row rowScanner) (QuoteDB, error) {
	var q QuoteDB
	err := row.Scan(
		&q.ID,
		&q.ShipmentID,
		&q.LinehaulCents,
		&q.FuelSurchargeCents,
		&q.AccessorialCents,
		&q.TotalCents,
		&q.PoolingDiscountCents,
		&q.PoolingProbability,
		&q.MarketRateCents,
		&q.CompetitorLowCents,
		&q.CompetitorHighCents,
		&q.RatePerMileCents,
		&q.TransitDays,
		&q.EstimatedDurationSeconds,
		&q.Status,
		&q.ValidUntil,
		&q.CreatedAt,
	)
	return q, err
}

func (r *Repository) Create(ctx context.Context, quoteEntity entities.Quote) (*entities.Quote, error) {
	quoteModel := FromDomain(&quoteEntity)
	query := `INSERT INTO quotes (shipment_id,
		linehaul_cents, fuel_surcharge_cents, accessorial_cents, total_cents,
		pooling_discount_cents, pooling_probability,
		market_rate_cents, competitor_low_cents, competitor_high_cents,
		rate_per_mile_cents, transit_days, estimated_duration_seconds,
		status, valid_until)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	RETURNING ` + quoteColumns

	row := r.querier.QueryRow(
		ctx,
		query,
		quoteModel.ShipmentID,
		quoteModel.LinehaulCents,
		quoteModel.FuelSurchargeCents,
		quoteModel.AccessorialCents,
		quoteModel.TotalCents,
		quoteModel.PoolingDiscountCents,
		quoteModel.PoolingProbability,
		quoteModel.MarketRateCents,
		quoteModel.CompetitorLowCents,
		quoteModel.CompetitorHighCents,
		quoteModel.RatePerMileCents,
		quoteModel.TransitDays,
		quoteModel.EstimatedDurationSeconds,
		quoteModel.Status,
		quoteModel.ValidUntil,
	)

	created, err := scanQuote(row)
	if err != nil {
		return nil, fmt.Errorf("unexpected quote repository create error: %w", err)
	}

	return ToDomain(&created), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*entities.Quote, error) {
	query := `SELECT ` + quoteColumns + `
	FROM quotes
	WHERE id = $1`

	quoteModel, err := scanQuote(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, quote.ErrQuoteNotFound
		}

		return nil, fmt.Errorf("unexpected quote repository getbyid error: %w", err)
	}

	return ToDomain(&quoteModel), nil
}

func (r *Repository) Update(ctx context.Context, quoteModifyEntity entities.QuoteModify) (*entities.Quote, error) {
	quoteModifyModel := FromDomainModify(&quoteModifyEntity)

	builder := qb.
		Update("quotes")

	// опциональные поля
	if quoteModifyModel.Status != nil {
		builder = builder.Set("status", quoteModifyModel.Status)
	}

	builder = builder.
		Where(sq.Eq{"id": quoteModifyModel.ID}).
		Suffix("RETURNING " + quoteColumns)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected quote repository update error: %w", err)
	}

	updated, err := scanQuote(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, quote.ErrQuoteNotFound
		}

		return nil, fmt.Errorf("unexpected quote repository update error: %w", err)
	}

	return ToDomain(&updated), nil
}

// SupersedeActiveByShipmentID закрывает все активные котировки груза,
// у груза одновременно живет не больше одной актуальной цены.
func (r *Repository) SupersedeActiveByShipmentID(ctx context.Context, shipmentID int64) (int64, error) {
	query := `
        UPDATE quotes
        SET status = 'superseded'
        WHERE shipment_id = $1
          AND status = 'active'
    `

	result, err := r.querier.Exec(ctx, query, shipmentID)
	if err != nil {
		return 0, fmt.Errorf("unexpected quote repository supersede error: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *Repository) UpdateQuotesExpiredWhereDeadlinePassed(ctx context.Context) (int64, error) {
	query := `
        UPDATE quotes
        SET status = 'expired'
        WHERE status = 'active'
          AND valid_until < NOW()
    `

	result, err := r.querier.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("unexpected quote repository expire quotes error: %w", err)
	}

	return result.RowsAffected(), nil
}
