package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{
		db: db,
	}
}

const userColumns = `
	id, first_name, last_name, email, phone, password_hash, birth_date, role,
	points, total_spent, visit_count, last_visit, tier, created_at, updated_at, version`

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user       domain.User
		totalSpent pgtype.Numeric
	)

	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Phone,
		&user.Password.Hash,
		&user.BirthDate,
		&user.Role,
		&user.Points,
		&totalSpent,
		&user.VisitCount,
		&user.LastVisit,
		&user.Tier,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Version,
	)
	if err != nil {
		return nil, err
	}

	user.TotalSpent = toDecimal(totalSpent)

	return &user, nil
}

func (p *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (first_name, last_name, email, phone, password_hash, birth_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, role, tier, created_at, updated_at, version`

	err := p.db.QueryRow(ctx,
		query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		user.Password.Hash,
		user.BirthDate).Scan(&user.ID, &user.Role, &user.Tier, &user.CreatedAt, &user.UpdatedAt, &user.Version)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrUserAlreadyExists
		}

		return err
	}

	return nil
}

func (p *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return p.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (p *PostgresUserRepository) GetById(ctx context.Context, id int) (*domain.User, error) {
	return p.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (p *PostgresUserRepository) getOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	user, err := scanUser(p.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return user, nil
}

// SetRoleByEmail grants role to the account with the given email. changed is
// false when the account already had it.
func (p *PostgresUserRepository) SetRoleByEmail(
	ctx context.Context,
	email string,
	role domain.Role) (*domain.User, bool, error) {

	var (
		user    *domain.User
		changed bool
	)

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var err error

		user, err = scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 FOR UPDATE`, email))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		if user.Role == role {
			return nil
		}

		err = tx.QueryRow(ctx, `
			UPDATE users
			SET role = $2, updated_at = NOW(), version = version + 1
			WHERE id = $1
			RETURNING updated_at, version
		`, user.ID, string(role)).Scan(&user.UpdatedAt, &user.Version)
		if err != nil {
			return err
		}

		user.Role = role
		changed = true

		return nil
	})

	if err != nil {
		return nil, false, err
	}

	return user, changed, nil
}

// AdjustPoints adds delta to the balance, flooring at zero, and moves the
// tier with it.
func (p *PostgresUserRepository) AdjustPoints(ctx context.Context, id int, delta int) (*domain.User, error) {
	var user *domain.User

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var err error

		user, err = scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		points := max(user.Points+delta, 0)
		tier := domain.DetermineTier(points)

		err = tx.QueryRow(ctx, `
			UPDATE users
			SET points = $2, tier = $3, updated_at = NOW(), version = version + 1
			WHERE id = $1
			RETURNING updated_at, version
		`, id, points, string(tier)).Scan(&user.UpdatedAt, &user.Version)
		if err != nil {
			return err
		}

		user.Points = points
		user.Tier = tier

		return nil
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

func (p *PostgresUserRepository) GetByBirthday(ctx context.Context, today time.Time) ([]*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE birth_date IS NOT NULL
		AND (
			(EXTRACT(MONTH FROM birth_date) = $1 AND EXTRACT(DAY FROM birth_date) = $2)
			OR (EXTRACT(MONTH FROM birth_date) = 2 AND EXTRACT(DAY FROM birth_date) = 29)
		)
		ORDER BY id
	`

	rows, err := p.db.Query(ctx, query, int(today.Month()), today.Day())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}

		if domain.BirthdayMatches(*user.BirthDate, today) {
			users = append(users, user)
		}
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (p *PostgresUserRepository) ListIDs(ctx context.Context) ([]int, error) {
	rows, err := p.db.Query(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowTo[int])
}

// ApplyTotals writes one batch of recomputed totals in a single transaction.
func (p *PostgresUserRepository) ApplyTotals(
	ctx context.Context,
	totals []domain.UserTotals,
	mode domain.RecomputeMode) error {

	if len(totals) == 0 {
		return nil
	}

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}

		for _, t := range totals {
			if mode == domain.RecomputeFullPoints {
				batch.Queue(`
					UPDATE users
					SET total_spent = $2, visit_count = $3, last_visit = $4, points = $5, tier = $6,
						updated_at = NOW(), version = version + 1
					WHERE id = $1
				`, t.UserID, toNumeric(t.TotalSpent), t.VisitCount, t.LastVisit, t.Points, string(t.Tier()))
				continue
			}

			batch.Queue(`
				UPDATE users
				SET total_spent = $2, visit_count = $3, last_visit = $4,
					updated_at = NOW(), version = version + 1
				WHERE id = $1
			`, t.UserID, toNumeric(t.TotalSpent), t.VisitCount, t.LastVisit)
		}

		results := tx.SendBatch(ctx, batch)

		for _, t := range totals {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("apply totals for user %d: %w", t.UserID, err)
			}
		}

		return results.Close()
	})
}
