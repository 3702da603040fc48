package auth

import (
	"context"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
)

type UserRepo interface {
	// Create inserts u and fails with types.ErrUsernameTaken if the username exists.
	Create(ctx context.Context, u *models.User) error
	// GetByUsername returns nil, nil when the user does not exist.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) bool
}

type TokenProvider interface {
	Issue(subject string) (*models.AccessToken, error)
	Validate(token string) (*models.Claims, error)
	IssueState() (string, error)
	ValidateState(state string) error
}

// IdentityProvider is the external OAuth2/OIDC provider used for federated login.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*models.FederatedIdentity, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event models.Event)
}
