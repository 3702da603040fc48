package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
	"github.com/Temutjin2k/bookshelf-auth/pkg/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewUserRepo(db *pgxpool.Pool, timeout time.Duration) *UserRepo {
	return &UserRepo{
		db:      db,
		timeout: timeout,
	}
}

// Create inserts a user row. An empty PasswordHash is stored as NULL (federated-only account).
// Returns types.ErrUsernameTaken when the username exists.
func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	if u == nil {
		return errors.New("nil user")
	}

	ctx, done := observe(ctx, r.timeout, "users.create")

	// ON CONFLICT keeps a surrounding transaction usable when the name is taken
	const q = `
		INSERT INTO users (username, name, password_hash)
		VALUES ($1, $2, NULLIF($3, ''))
		ON CONFLICT (username) DO NOTHING
		RETURNING created_at;
	`

	err := TxorDB(ctx, r.db).QueryRow(ctx, q, u.Username, u.Name, u.PasswordHash).Scan(&u.CreatedAt)
	done(ignoreNoRows(err))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows), postgres.IsUniqueViolation(err):
		return types.ErrUsernameTaken
	default:
		return fmt.Errorf("users.create: %w", err)
	}
}

// GetByUsername returns nil, nil when the user does not exist.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, done := observe(ctx, r.timeout, "users.get")

	const q = `
		SELECT username, name, COALESCE(password_hash, ''), created_at
		FROM users
		WHERE username = $1;
	`

	var u models.User
	err := TxorDB(ctx, r.db).QueryRow(ctx, q, username).Scan(
		&u.Username,
		&u.Name,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	done(ignoreNoRows(err))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("users.get: %w", err)
	}
	return &u, nil
}
