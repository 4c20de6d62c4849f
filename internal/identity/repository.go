package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fiesta-frutilla/festival_cms/internal/common"
)

// Repository persists credential records. Lookups return common.ErrNotFound
// when no record matches; any other error is a store failure.
type Repository interface {
	// Create assigns the record identifier and returns the stored user.
	Create(ctx context.Context, user User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed identity repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user.
func (r *PostgresRepository) Create(ctx context.Context, user User) (User, error) {
	userID := uuid.New()
	_, err := r.db.Exec(ctx, `INSERT INTO users (id, email, password_hash, name, role, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`, userID, user.Email, user.PasswordHash, user.Name, user.Role, user.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return User{}, fmt.Errorf("%w: email already registered", common.ErrConflict)
	}
	if err != nil {
		return User{}, err
	}
	user.ID = userID.String()
	return user, nil
}

// FindByEmail fetches a user by exact email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	return r.scanOne(ctx, `SELECT id, email, password_hash, name, role, created_at FROM users WHERE email = $1`, email)
}

// FindByID fetches a user by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, common.ErrNotFound
	}
	return r.scanOne(ctx, `SELECT id, email, password_hash, name, role, created_at FROM users WHERE id = $1`, userID)
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, arg any) (User, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		user      User
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(&id, &user.Email, &user.PasswordHash, &user.Name, &user.Role, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, common.ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	user.ID = id.String()
	user.CreatedAt = createdAt.UTC()
	return user, nil
}
