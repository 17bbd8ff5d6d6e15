package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shubhamshk/fraudBusters-App/internal/platform/httpx"
)

// uniqueViolation is the Postgres error code raised by the email index when
// two registrations race.
const uniqueViolation = "23505"

// Repository defines persistence operations for user accounts.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create persists a new user. A duplicate email surfaces as
// httpx.ErrDuplicateEmail, including when the duplicate arrives through a
// concurrent insert.
func (r *PGRepository) Create(ctx context.Context, user *User) error {
	profile, err := json.Marshal(user.Profile)
	if err != nil {
		return fmt.Errorf("users: marshal profile: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, role, profile, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Role, profile, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return httpx.ErrDuplicateEmail
		}
		return fmt.Errorf("users: insert: %w", err)
	}
	return nil
}

// FindByEmail fetches a user by canonical email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, role, profile, created_at
		 FROM users WHERE email = $1`, email))
}

// FindByID fetches a user by ID.
func (r *PGRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, role, profile, created_at
		 FROM users WHERE id = $1`, id))
}

func (r *PGRepository) scanOne(row pgx.Row) (*User, error) {
	var (
		user    User
		profile []byte
	)
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Role, &profile, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("users: scan: %w", err)
	}
	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &user.Profile); err != nil {
			return nil, fmt.Errorf("users: unmarshal profile: %w", err)
		}
	}
	return &user, nil
}

var _ Repository = (*PGRepository)(nil)
