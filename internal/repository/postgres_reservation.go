package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresReservationRepository struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewPostgresReservationRepository(db *pgxpool.Pool) *PostgresReservationRepository {
	return &PostgresReservationRepository{
		db:  db,
		now: time.Now,
	}
}

const reservationColumns = `
	r.id, r.user_id, r.event_id, r.seat_ids, r.total_amount, r.status, r.channel,
	r.payer_name, r.payer_email, r.payer_phone, r.payment_id, r.checkout_session_id,
	r.expires_at, r.created_at, r.confirmed_at, r.cancelled_at, r.checked_in_at`

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var (
		r      domain.Reservation
		id     pgtype.UUID
		amount pgtype.Numeric
	)

	err := row.Scan(
		&id,
		&r.UserID,
		&r.EventID,
		&r.SeatIDs,
		&amount,
		&r.Status,
		&r.Channel,
		&r.Payer.Name,
		&r.Payer.Email,
		&r.Payer.Phone,
		&r.PaymentID,
		&r.CheckoutSessionID,
		&r.ExpiresAt,
		&r.CreatedAt,
		&r.ConfirmedAt,
		&r.CancelledAt,
		&r.CheckedInAt,
	)
	if err != nil {
		return nil, err
	}

	r.ID = uuid.UUID(id.Bytes)
	r.TotalAmount = toDecimal(amount)

	return &r, nil
}

func pgID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// Create places a hold: every requested seat must exist and be available,
// otherwise nothing is written and ErrSeatUnavailable is returned.
func (p *PostgresReservationRepository) Create(
	ctx context.Context,
	req domain.HoldRequest,
	policy domain.HoldPolicy) (*domain.Reservation, error) {

	if err := req.Validate(); err != nil {
		return nil, err
	}

	var reservation *domain.Reservation

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		now := p.now()

		event, err := lockEvent(ctx, tx, req.EventID, "FOR SHARE")
		if err != nil {
			return err
		}

		if !event.IsActive && req.Channel != domain.ChannelManual {
			return domain.ErrRecordNotFound
		}

		eventID := event.ID
		if _, err := expireHolds(ctx, tx, now, &eventID); err != nil {
			return err
		}

		if err := materializeDefaultLayout(ctx, tx, event); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, `
			SELECT id, event_id, table_id, table_number, label, status, x, y, price, held_by
			FROM seats
			WHERE event_id = $1 AND id = ANY($2)
			ORDER BY id
			FOR UPDATE
		`, event.ID, req.SeatIDs)
		if err != nil {
			return err
		}

		seats, err := scanSeats(rows)
		rows.Close()
		if err != nil {
			return err
		}

		if err := domain.CheckHoldable(seats, req.SeatIDs); err != nil {
			return err
		}

		amount := domain.PriceReservation(seats, policy.ServiceFee)
		if req.Channel == domain.ChannelManual && req.Amount != nil {
			amount = *req.Amount
		}

		expiresAt := now.Add(policy.TTL)
		reservation = &domain.Reservation{
			ID:          uuid.New(),
			UserID:      req.UserID,
			EventID:     event.ID,
			SeatIDs:     req.SeatIDs,
			TotalAmount: amount,
			Status:      domain.ReservationPending,
			Channel:     req.Channel,
			Payer:       req.Payer,
			ExpiresAt:   &expiresAt,
			CreatedAt:   now,
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO reservations
				(id, user_id, event_id, seat_ids, total_amount, status, channel,
				 payer_name, payer_email, payer_phone, expires_at, created_at)
			VALUES ($1, $2, $3, $4, $5, 'pending', $6, $7, $8, $9, $10, $11)
		`,
			pgID(reservation.ID),
			reservation.UserID,
			reservation.EventID,
			reservation.SeatIDs,
			toNumeric(reservation.TotalAmount),
			string(reservation.Channel),
			reservation.Payer.Name,
			reservation.Payer.Email,
			reservation.Payer.Phone,
			expiresAt,
			now,
		)
		if err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE seats
			SET status = 'reserved', held_by = $1, updated_at = NOW()
			WHERE event_id = $2 AND id = ANY($3)
		`, pgID(reservation.ID), event.ID, req.SeatIDs)
		if err != nil {
			return fmt.Errorf("hold seats: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return reservation, nil
}

// Confirm settles a pending reservation. Confirming again with the same
// payment id is a no-op, so loyalty is awarded exactly once.
func (p *PostgresReservationRepository) Confirm(
	ctx context.Context,
	id uuid.UUID,
	paymentID string) (*domain.ConfirmResult, error) {

	var result domain.ConfirmResult

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		reservation, err := getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		result.Reservation = reservation

		switch reservation.Status {
		case domain.ReservationConfirmed:
			if reservation.PaymentID != nil && *reservation.PaymentID == paymentID {
				result.AlreadyConfirmed = true
				return nil
			}
			return domain.ErrPaymentMismatch
		case domain.ReservationCancelled:
			return domain.ErrInvalidTransition
		}

		now := p.now()

		_, err = tx.Exec(ctx, `
			UPDATE seats
			SET status = 'occupied', held_by = NULL, updated_at = NOW()
			WHERE event_id = $1 AND held_by = $2
		`, reservation.EventID, pgID(id))
		if err != nil {
			return fmt.Errorf("occupy seats: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE reservations
			SET status = 'confirmed', payment_id = $2, confirmed_at = $3, expires_at = NULL, updated_at = NOW()
			WHERE id = $1
		`, pgID(id), paymentID, now)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return domain.ErrPaymentMismatch
			}

			return fmt.Errorf("confirm reservation: %w", err)
		}

		reservation.Status = domain.ReservationConfirmed
		reservation.PaymentID = &paymentID
		reservation.ConfirmedAt = &now
		reservation.ExpiresAt = nil

		if !reservation.Linked() {
			return nil
		}

		points, err := awardLoyalty(ctx, tx, reservation)
		if err != nil {
			return err
		}
		result.PointsAwarded = points

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &result, nil
}

func awardLoyalty(ctx context.Context, tx pgx.Tx, reservation *domain.Reservation) (int, error) {
	var current int

	err := tx.QueryRow(ctx, `SELECT points FROM users WHERE id = $1 FOR UPDATE`, *reservation.UserID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// the account is gone, the booking stays valid
			return 0, nil
		}

		return 0, err
	}

	awarded := domain.CalculatePoints(reservation.TotalAmount)
	points := current + awarded

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET points = $2,
			tier = $3,
			total_spent = total_spent + $4,
			visit_count = visit_count + 1,
			last_visit = GREATEST(COALESCE(last_visit, $5), $5),
			updated_at = NOW(),
			version = version + 1
		WHERE id = $1
	`, *reservation.UserID, points, string(domain.DetermineTier(points)), toNumeric(reservation.TotalAmount), reservation.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("award loyalty: %w", err)
	}

	return awarded, nil
}

// Cancel releases a pending reservation's seats.
func (p *PostgresReservationRepository) Cancel(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	var reservation *domain.Reservation

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var err error

		reservation, err = getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if !reservation.Status.CanTransition(domain.ReservationCancelled) {
			return domain.ErrInvalidTransition
		}

		now := p.now()

		err = releaseSeats(ctx, tx, id)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE reservations
			SET status = 'cancelled', cancelled_at = $2, updated_at = NOW()
			WHERE id = $1
		`, pgID(id), now)
		if err != nil {
			return err
		}

		reservation.Status = domain.ReservationCancelled
		reservation.CancelledAt = &now

		return nil
	})

	if err != nil {
		return nil, err
	}

	return reservation, nil
}

func releaseSeats(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE seats
		SET status = 'available', held_by = NULL, updated_at = NOW()
		WHERE held_by = $1 AND status = 'reserved'
	`, pgID(id))
	if err != nil {
		return fmt.Errorf("release seats: %w", err)
	}

	return nil
}

// ExpireHolds cancels pending reservations whose hold lapsed before now
// and frees their seats. A nil eventID covers every event.
func (p *PostgresReservationRepository) ExpireHolds(ctx context.Context, now time.Time, eventID *int) (int, error) {
	var expired int

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var err error
		expired, err = expireHolds(ctx, tx, now, eventID)
		return err
	})

	return expired, err
}

func expireHolds(ctx context.Context, tx pgx.Tx, now time.Time, eventID *int) (int, error) {
	query := `
		WITH expired AS (
			UPDATE reservations
			SET status = 'cancelled', cancelled_at = $1, updated_at = NOW()
			WHERE status = 'pending'
			AND expires_at <= $1
			AND ($2::bigint IS NULL OR event_id = $2)
			RETURNING id
		), released AS (
			UPDATE seats
			SET status = 'available', held_by = NULL, updated_at = NOW()
			WHERE held_by IN (SELECT id FROM expired) AND status = 'reserved'
			RETURNING 1
		)
		SELECT (SELECT COUNT(*) FROM expired), (SELECT COUNT(*) FROM released)
	`

	var expired, released int

	err := tx.QueryRow(ctx, query, now, eventID).Scan(&expired, &released)
	if err != nil {
		return 0, fmt.Errorf("expire holds: %w", err)
	}

	return expired, nil
}

func getForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations r WHERE r.id = $1 FOR UPDATE`

	reservation, err := scanReservation(tx.QueryRow(ctx, query, pgID(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return reservation, nil
}

func (p *PostgresReservationRepository) SetCheckoutSession(ctx context.Context, id uuid.UUID, checkoutSessionID string) error {
	tag, err := p.db.Exec(ctx, `
		UPDATE reservations
		SET checkout_session_id = $2, updated_at = NOW()
		WHERE id = $1
	`, pgID(id), checkoutSessionID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

// CheckIn admits a confirmed reservation at the door, once.
func (p *PostgresReservationRepository) CheckIn(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	var reservation *domain.Reservation

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var err error

		reservation, err = getForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if reservation.Status != domain.ReservationConfirmed {
			return domain.ErrInvalidTransition
		}

		if reservation.CheckedInAt != nil {
			return domain.ErrAlreadyCheckedIn
		}

		now := p.now()

		_, err = tx.Exec(ctx, `UPDATE reservations SET checked_in_at = $2, updated_at = NOW() WHERE id = $1`, pgID(id), now)
		if err != nil {
			return err
		}

		reservation.CheckedInAt = &now

		return nil
	})

	if err != nil {
		return nil, err
	}

	return reservation, nil
}

func (p *PostgresReservationRepository) GetById(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations r WHERE r.id = $1`

	reservation, err := scanReservation(p.db.QueryRow(ctx, query, pgID(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return reservation, nil
}

func (p *PostgresReservationRepository) GetSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.ReservationSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			r.id,
			e.id,
			e.title,
			e.starts_at,
			r.seat_ids,
			r.total_amount,
			r.status,
			r.created_at
		FROM reservations r
		JOIN events e ON r.event_id = e.id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	summaries := make([]domain.ReservationSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var (
			summary domain.ReservationSummary
			id      pgtype.UUID
			amount  pgtype.Numeric
		)

		err := rows.Scan(
			&totalRecords,
			&id,
			&summary.EventID,
			&summary.EventTitle,
			&summary.EventStartsAt,
			&summary.SeatIDs,
			&amount,
			&summary.Status,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		summary.ReservationID = uuid.UUID(id.Bytes)
		summary.TotalAmount = toDecimal(amount)

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	return summaries, domain.NewMetadata(totalRecords, pagination), nil
}

// GetConfirmedBetween lists confirmed reservations for events starting in
// [from, to).
func (p *PostgresReservationRepository) GetConfirmedBetween(
	ctx context.Context,
	from, to time.Time) ([]*domain.Reservation, error) {

	query := `
		SELECT ` + reservationColumns + `
		FROM reservations r
		WHERE r.status = 'confirmed'
		AND r.event_id IN (SELECT id FROM events WHERE starts_at >= $1 AND starts_at < $2)
		ORDER BY r.event_id, r.created_at
	`

	rows, err := p.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}

		reservations = append(reservations, reservation)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return reservations, nil
}

// StreamConfirmedLedger feeds every confirmed reservation to fn without
// loading the ledger into memory.
func (p *PostgresReservationRepository) StreamConfirmedLedger(ctx context.Context, fn func(domain.LedgerEntry) error) error {
	rows, err := p.db.Query(ctx, `
		SELECT id, user_id, total_amount, created_at
		FROM reservations
		WHERE status = 'confirmed'
		ORDER BY created_at
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry  domain.LedgerEntry
			id     pgtype.UUID
			amount pgtype.Numeric
		)

		if err := rows.Scan(&id, &entry.UserID, &amount, &entry.CreatedAt); err != nil {
			return err
		}

		entry.ReservationID = uuid.UUID(id.Bytes).String()
		entry.Amount = toDecimal(amount)

		if err := fn(entry); err != nil {
			return err
		}
	}

	return rows.Err()
}
