package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/layout"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatRepository(db *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

var seatCopyColumns = []string{
	"event_id", "id", "table_id", "table_number", "label", "status", "x", "y", "price", "held_by",
}

// GetByEvent returns the persisted layout. Seats held by a reservation
// whose hold has lapsed are reported as available; the expiry job
// releases them for real.
func (p *PostgresSeatRepository) GetByEvent(ctx context.Context, eventID int) ([]domain.Seat, error) {
	query := `
		SELECT
			s.id,
			s.event_id,
			s.table_id,
			s.table_number,
			s.label,
			CASE WHEN lapsed.id IS NOT NULL THEN 'available' ELSE s.status END,
			s.x,
			s.y,
			s.price,
			CASE WHEN lapsed.id IS NOT NULL THEN NULL ELSE s.held_by END
		FROM seats s
		LEFT JOIN reservations lapsed
			ON lapsed.id = s.held_by
			AND lapsed.status = 'pending'
			AND lapsed.expires_at <= NOW()
		WHERE s.event_id = $1
		ORDER BY s.table_id, s.id
	`

	rows, err := p.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSeats(rows)
}

func scanSeats(rows pgx.Rows) ([]domain.Seat, error) {
	seats := make([]domain.Seat, 0)

	for rows.Next() {
		var (
			seat   domain.Seat
			price  pgtype.Numeric
			heldBy pgtype.UUID
		)

		err := rows.Scan(
			&seat.ID,
			&seat.EventID,
			&seat.TableID,
			&seat.TableNumber,
			&seat.Label,
			&seat.Status,
			&seat.X,
			&seat.Y,
			&price,
			&heldBy,
		)
		if err != nil {
			return nil, err
		}

		seat.Price = toDecimal(price)
		seat.HeldBy = fromPgUUID(heldBy)

		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

// Reseed swaps the event's whole layout inside one transaction. The event
// row is locked for update so holds on the same event wait for the swap.
func (p *PostgresSeatRepository) Reseed(
	ctx context.Context,
	eventID int,
	templates []domain.SeatTemplate) (*domain.ReseedStats, error) {

	var stats domain.ReseedStats

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		event, err := lockEvent(ctx, tx, eventID, "FOR UPDATE")
		if err != nil {
			return err
		}

		rows, err := tx.Query(ctx, `
			SELECT id, event_id, table_id, table_number, label, status, x, y, price, held_by
			FROM seats
			WHERE event_id = $1
			ORDER BY id
			FOR UPDATE
		`, eventID)
		if err != nil {
			return err
		}

		prev, err := scanSeats(rows)
		rows.Close()
		if err != nil {
			return err
		}

		seats, mergeStats := domain.MergeLayout(event, prev, templates)
		stats = mergeStats

		_, err = tx.Exec(ctx, `DELETE FROM seats WHERE event_id = $1`, eventID)
		if err != nil {
			return fmt.Errorf("delete previous layout: %w", err)
		}

		return copySeats(ctx, tx, seats)
	})

	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func copySeats(ctx context.Context, tx pgx.Tx, seats []domain.Seat) error {
	rows := make([][]any, 0, len(seats))
	for _, s := range seats {
		rows = append(rows, []any{
			s.EventID,
			s.ID,
			s.TableID,
			s.TableNumber,
			s.Label,
			string(s.Status),
			s.X,
			s.Y,
			toNumeric(s.Price),
			toPgUUID(s.HeldBy),
		})
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"seats"},
		seatCopyColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("insert layout: %w", err)
	}

	return nil
}

// SetBlocked moves seats between available and blocked. Seats in any
// other state are left as they are and omitted from the result.
func (p *PostgresSeatRepository) SetBlocked(
	ctx context.Context,
	eventID int,
	seatIDs []string,
	blocked bool) ([]string, error) {

	from, to := domain.SeatAvailable, domain.SeatBlocked
	if !blocked {
		from, to = domain.SeatBlocked, domain.SeatAvailable
	}

	var changed []string

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		event, err := lockEvent(ctx, tx, eventID, "FOR SHARE")
		if err != nil {
			return err
		}

		if err := materializeDefaultLayout(ctx, tx, event); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, `
			UPDATE seats
			SET status = $1, updated_at = NOW()
			WHERE event_id = $2 AND id = ANY($3) AND status = $4
			RETURNING id
		`, string(to), eventID, seatIDs, string(from))
		if err != nil {
			return err
		}

		changed, err = pgx.CollectRows(rows, pgx.RowTo[string])
		return err
	})

	if err != nil {
		return nil, err
	}

	return changed, nil
}

// materializeDefaultLayout persists the canonical layout for an event that
// has no seats yet. Concurrent callers converge on the same rows.
func materializeDefaultLayout(ctx context.Context, tx pgx.Tx, event *domain.Event) error {
	var exists bool

	err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM seats WHERE event_id = $1)`, event.ID).Scan(&exists)
	if err != nil || exists {
		return err
	}

	seats := domain.LayoutSeats(event, layout.Default())

	var (
		ids          = make([]string, len(seats))
		tableIDs     = make([]string, len(seats))
		tableNumbers = make([]int32, len(seats))
		labels       = make([]string, len(seats))
		xs           = make([]float64, len(seats))
		ys           = make([]float64, len(seats))
		prices       = make([]pgtype.Numeric, len(seats))
	)

	for i, s := range seats {
		ids[i] = s.ID
		tableIDs[i] = s.TableID
		tableNumbers[i] = int32(s.TableNumber)
		labels[i] = s.Label
		xs[i] = s.X
		ys[i] = s.Y
		prices[i] = toNumeric(s.Price)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO seats (event_id, id, table_id, table_number, label, x, y, price)
		SELECT $1, u.id, u.table_id, u.table_number, u.label, u.x, u.y, u.price
		FROM unnest($2::text[], $3::text[], $4::int[], $5::text[], $6::float8[], $7::float8[], $8::numeric[])
			AS u(id, table_id, table_number, label, x, y, price)
		ON CONFLICT (event_id, id) DO NOTHING
	`, event.ID, ids, tableIDs, tableNumbers, labels, xs, ys, prices)
	if err != nil {
		return fmt.Errorf("materialize default layout: %w", err)
	}

	return nil
}

func lockEvent(ctx context.Context, tx pgx.Tx, eventID int, mode string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 ` + mode

	event, err := scanEvent(tx.QueryRow(ctx, query, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return event, nil
}
