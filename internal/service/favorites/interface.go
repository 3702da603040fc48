package favorites

import (
	"context"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
)

type FavoriteRepo interface {
	// Add returns types.ErrAlreadyFavorite on duplicates and types.ErrUserNotFound for unknown owners.
	Add(ctx context.Context, username, title string) error
	// Remove reports whether a row was deleted.
	Remove(ctx context.Context, username, title string) (bool, error)
	// List returns types.ErrUserNotFound for unknown owners; an empty list is not an error.
	List(ctx context.Context, username string) ([]models.Favorite, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event models.Event)
}
