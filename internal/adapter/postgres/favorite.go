package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
	"github.com/Temutjin2k/bookshelf-auth/pkg/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FavoriteRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewFavoriteRepo(db *pgxpool.Pool, timeout time.Duration) *FavoriteRepo {
	return &FavoriteRepo{
		db:      db,
		timeout: timeout,
	}
}

// Add appends a title to the owner's list.
func (r *FavoriteRepo) Add(ctx context.Context, username, title string) error {
	ctx, done := observe(ctx, r.timeout, "favorites.add")

	const q = `
		INSERT INTO favorites (owner_username, title)
		VALUES ($1, $2)
		ON CONFLICT (owner_username, title) DO NOTHING;
	`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, q, username, title)
	done(err)

	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return types.ErrUserNotFound
		}
		return fmt.Errorf("favorites.add: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrAlreadyFavorite
	}
	return nil
}

// Remove deletes a title and reports whether it was there.
func (r *FavoriteRepo) Remove(ctx context.Context, username, title string) (bool, error) {
	ctx, done := observe(ctx, r.timeout, "favorites.remove")

	const q = `
		DELETE FROM favorites
		WHERE owner_username = $1 AND title = $2;
	`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, q, username, title)
	done(err)

	if err != nil {
		return false, fmt.Errorf("favorites.remove: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// List returns the owner's favorites in insertion order.
// The join against users tells an unknown owner apart from an empty list.
func (r *FavoriteRepo) List(ctx context.Context, username string) ([]models.Favorite, error) {
	ctx, done := observe(ctx, r.timeout, "favorites.list")

	favs, found, err := r.list(ctx, username)
	done(err)

	if err != nil {
		return nil, fmt.Errorf("favorites.list: %w", err)
	}
	if !found {
		return nil, types.ErrUserNotFound
	}
	return favs, nil
}

func (r *FavoriteRepo) list(ctx context.Context, username string) ([]models.Favorite, bool, error) {
	const q = `
		SELECT f.title, f.created_at
		FROM users u
		LEFT JOIN favorites f ON f.owner_username = u.username
		WHERE u.username = $1
		ORDER BY f.id;
	`

	rows, err := TxorDB(ctx, r.db).Query(ctx, q, username)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var (
		found bool
		favs  = make([]models.Favorite, 0)
	)
	for rows.Next() {
		found = true

		var (
			title     *string
			createdAt *time.Time
		)
		if err := rows.Scan(&title, &createdAt); err != nil {
			return nil, false, fmt.Errorf("scan: %w", err)
		}
		// user without favorites yields one row of NULLs
		if title == nil {
			continue
		}

		fav := models.Favorite{Username: username, Title: *title}
		if createdAt != nil {
			fav.CreatedAt = *createdAt
		}
		favs = append(favs, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return favs, found, nil
}
