package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
	"github.com/Temutjin2k/bookshelf-auth/pkg/logger"
	wrap "github.com/Temutjin2k/bookshelf-auth/pkg/logger/wrapper"
	"github.com/Temutjin2k/bookshelf-auth/pkg/metrics"
	"github.com/Temutjin2k/bookshelf-auth/pkg/passhash"
	"github.com/Temutjin2k/bookshelf-auth/pkg/trm"
)

type AuthService struct {
	userRepo     UserRepo
	hasher       PasswordHasher
	tokenService TokenProvider
	provider     IdentityProvider
	events       EventPublisher
	trm          trm.TxManager
	log          logger.Logger
}

// NewAuthService wires the auth service. provider may be nil when federated login is disabled.
func NewAuthService(
	userRepo UserRepo,
	hasher PasswordHasher,
	tokenService TokenProvider,
	provider IdentityProvider,
	events EventPublisher,
	trm trm.TxManager,
	log logger.Logger,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		hasher:       hasher,
		tokenService: tokenService,
		provider:     provider,
		events:       events,
		trm:          trm,
		log:          log,
	}
}

// Register creates a password account.
func (s *AuthService) Register(ctx context.Context, req *models.UserCreateRequest) error {
	ctx = wrap.WithAction(ctx, "user_register")
	ctx = wrap.WithUsername(ctx, req.Username)

	hash, err := s.hasher.HashPassword(req.Password)
	if errors.Is(err, passhash.ErrPasswordTooLong) {
		return fmt.Errorf("%w: %w", types.ErrValidation, err)
	}
	if err != nil {
		s.log.Error(ctx, "failed to generate hash from password", err)
		return ErrUnexpected
	}

	user := &models.User{
		Username:     req.Username,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
	}

	err = s.trm.Do(ctx, func(ctx context.Context) error {
		existing, err := s.userRepo.GetByUsername(ctx, req.Username)
		if err != nil {
			return wrap.Error(ctx, err)
		}
		if existing != nil {
			return ErrUsernameTaken
		}

		// a concurrent registration may still win between the lookup and the insert,
		// Create reports it as ErrUsernameTaken too
		return s.userRepo.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, types.ErrUsernameTaken) {
			return ErrUsernameTaken
		}
		s.log.Error(wrap.ErrorCtx(ctx, err), "failed to save user", err)
		return ErrUnexpected
	}

	s.log.Info(ctx, "user registered")
	s.events.Publish(ctx, models.NewEvent(types.EventUserRegistered, user.Username))

	return nil
}

// Login checks the password and issues an access token.
// Unknown users, wrong passwords and federated-only accounts all fail the same way.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.AccessToken, error) {
	ctx = wrap.WithAction(ctx, "user_login")
	ctx = wrap.WithUsername(ctx, username)

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		s.log.Error(wrap.ErrorCtx(ctx, err), "failed to look up user", err)
		metrics.RecordAuthAttempt(metrics.MethodPassword, err)
		return nil, ErrUnexpected
	}

	if user == nil || !s.hasher.VerifyPassword(password, user.PasswordHash) {
		metrics.RecordAuthAttempt(metrics.MethodPassword, ErrInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokenService.Issue(user.Username)
	if err != nil {
		s.log.Error(ctx, "failed to issue token", err)
		metrics.RecordAuthAttempt(metrics.MethodPassword, err)
		return nil, ErrTokenGenerateFail
	}

	metrics.RecordAuthAttempt(metrics.MethodPassword, nil)
	return token, nil
}

// FederatedBegin returns the provider URL the end user must be redirected to.
func (s *AuthService) FederatedBegin(ctx context.Context) (string, error) {
	ctx = wrap.WithAction(ctx, "federated_begin")

	if s.provider == nil {
		return "", ErrProviderDisabled
	}

	state, err := s.tokenService.IssueState()
	if err != nil {
		s.log.Error(ctx, "failed to issue oauth state", err)
		return "", ErrUnexpected
	}

	return s.provider.AuthCodeURL(state), nil
}

// FederatedLogin completes the authorization code flow. The provider verified email becomes
// the local username; a missing account is created without a password.
func (s *AuthService) FederatedLogin(ctx context.Context, code, state string) (*models.AccessToken, error) {
	ctx = wrap.WithAction(ctx, "federated_login")

	if s.provider == nil {
		return nil, ErrProviderDisabled
	}

	if err := s.tokenService.ValidateState(state); err != nil {
		metrics.RecordAuthAttempt(metrics.MethodFederated, err)
		return nil, ErrInvalidState
	}

	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		s.log.Error(wrap.ErrorCtx(ctx, err), "identity provider exchange failed", err)
		metrics.RecordAuthAttempt(metrics.MethodFederated, err)
		return nil, ErrProviderExchangeFailed
	}

	username := strings.ToLower(identity.Email)
	ctx = wrap.WithUsername(ctx, username)

	created, err := s.ensureFederatedUser(ctx, username, identity.Name)
	if err != nil {
		s.log.Error(wrap.ErrorCtx(ctx, err), "failed to provision federated user", err)
		metrics.RecordAuthAttempt(metrics.MethodFederated, err)
		return nil, ErrUnexpected
	}

	token, err := s.tokenService.Issue(username)
	if err != nil {
		s.log.Error(ctx, "failed to issue token", err)
		metrics.RecordAuthAttempt(metrics.MethodFederated, err)
		return nil, ErrTokenGenerateFail
	}

	if created {
		s.log.Info(ctx, "federated user created")
		s.events.Publish(ctx, models.NewEvent(types.EventUserFederated, username))
	}

	metrics.RecordAuthAttempt(metrics.MethodFederated, nil)
	return token, nil
}

func (s *AuthService) ensureFederatedUser(ctx context.Context, username, name string) (created bool, err error) {
	if name == "" {
		name = username
	}

	err = s.trm.Do(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if user != nil {
			return nil
		}

		err = s.userRepo.Create(ctx, &models.User{Username: username, Name: name})
		switch {
		case err == nil:
			created = true
			return nil
		case errors.Is(err, types.ErrUsernameTaken):
			// first logins racing each other
			return nil
		default:
			return err
		}
	})
	return created, err
}

// ValidateSession resolves a bearer token to its username. It never touches the database.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (string, error) {
	claims, err := s.tokenService.Validate(token)
	if err != nil {
		if errors.Is(err, types.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}
