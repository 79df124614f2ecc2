package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresEventRepository struct {
	db *pgxpool.Pool
}

func NewPostgresEventRepository(db *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{
		db: db,
	}
}

const eventColumns = `
	id, title, description, flyer_url, category, starts_at, pricing_type,
	general_price, zone_prices, is_active, created_at, updated_at, version`

type eventScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row eventScanner, extra ...any) (*domain.Event, error) {
	var (
		event        domain.Event
		generalPrice pgtype.Numeric
		zonePrices   []byte
	)

	dest := append(extra,
		&event.ID,
		&event.Title,
		&event.Description,
		&event.FlyerURL,
		&event.Category,
		&event.StartsAt,
		&event.PricingType,
		&generalPrice,
		&zonePrices,
		&event.IsActive,
		&event.CreatedAt,
		&event.UpdatedAt,
		&event.Version,
	)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	event.GeneralPrice = toDecimal(generalPrice)

	if len(zonePrices) > 0 {
		if err := json.Unmarshal(zonePrices, &event.ZonePrices); err != nil {
			return nil, fmt.Errorf("decode zone prices of event %d: %w", event.ID, err)
		}
	}

	return &event, nil
}

func (p *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	zonePrices, err := marshalZonePrices(event.ZonePrices)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO events (title, description, flyer_url, category, starts_at, pricing_type, general_price, zone_prices, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at, version
	`

	return p.db.QueryRow(
		ctx,
		query,
		event.Title,
		event.Description,
		event.FlyerURL,
		event.Category,
		event.StartsAt,
		event.PricingType,
		toNumeric(event.GeneralPrice),
		zonePrices,
		event.IsActive,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt, &event.Version)
}

func (p *PostgresEventRepository) Update(ctx context.Context, event *domain.Event) error {
	zonePrices, err := marshalZonePrices(event.ZonePrices)
	if err != nil {
		return err
	}

	query := `
		UPDATE events
		SET title = $1, description = $2, flyer_url = $3, category = $4, starts_at = $5,
			pricing_type = $6, general_price = $7, zone_prices = $8, is_active = $9,
			updated_at = NOW(), version = version + 1
		WHERE id = $10 AND version = $11
		RETURNING updated_at, version
	`

	err = p.db.QueryRow(
		ctx,
		query,
		event.Title,
		event.Description,
		event.FlyerURL,
		event.Category,
		event.StartsAt,
		event.PricingType,
		toNumeric(event.GeneralPrice),
		zonePrices,
		event.IsActive,
		event.ID,
		event.Version,
	).Scan(&event.UpdatedAt, &event.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEditConflict
		}

		return err
	}

	return nil
}

func (p *PostgresEventRepository) GetById(ctx context.Context, id int) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(p.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return event, nil
}

func (p *PostgresEventRepository) GetAll(
	ctx context.Context,
	filters domain.EventFilters) ([]*domain.Event, *domain.Metadata, error) {

	query := `
		SELECT COUNT(*) OVER(), ` + eventColumns + `
		FROM events
		WHERE (NOT $1 OR is_active)
		AND ($2::timestamptz IS NULL OR starts_at >= $2)
		ORDER BY starts_at ASC, id ASC
		LIMIT $3 OFFSET $4
	`

	rows, err := p.db.Query(ctx, query, filters.ActiveOnly, filters.From, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	totalRecords := 0

	for rows.Next() {
		event, err := scanEvent(rows, &totalRecords)
		if err != nil {
			return nil, nil, err
		}

		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	return events, domain.NewMetadata(totalRecords, filters.Pagination), nil
}

func (p *PostgresEventRepository) ListIDs(ctx context.Context) ([]int, error) {
	rows, err := p.db.Query(ctx, `SELECT id FROM events ORDER BY id`)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowTo[int])
}

func marshalZonePrices(zonePrices []domain.ZonePrice) ([]byte, error) {
	if zonePrices == nil {
		zonePrices = []domain.ZonePrice{}
	}

	data, err := json.Marshal(zonePrices)
	if err != nil {
		return nil, fmt.Errorf("encode zone prices: %w", err)
	}

	return data, nil
}
