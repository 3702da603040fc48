package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// DefaultAccessTTL is used when no TTL is configured
	DefaultAccessTTL = 30 * time.Minute
	// StateTTL bounds the federated login round trip
	StateTTL = 10 * time.Minute
	// MinSecretLen is the shortest HS256 secret accepted at startup
	MinSecretLen = 32

	stateSubject = "oauth-state"
)

var (
	ErrEmptySecret = errors.New("jwt secret must be provided")
	ErrWeakSecret  = fmt.Errorf("jwt secret must be at least %d bytes long", MinSecretLen)
)

// TokenService issues and validates HS256 signed bearer tokens.
// It holds no per-token state: expiry is the only invalidation mechanism.
type TokenService struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now, used by tests to move time forward.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewTokenService(secret string, accessTTL time.Duration, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if len(secret) < MinSecretLen {
		return nil, ErrWeakSecret
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}

	s := &TokenService{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AccessTTL returns the lifetime of issued access tokens
func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

// Issue signs an access token for subject with the configured TTL.
func (s *TokenService) Issue(subject string) (*models.AccessToken, error) {
	return s.IssueWithTTL(subject, s.accessTTL)
}

// IssueWithTTL signs an access token for subject that expires after ttl.
func (s *TokenService) IssueWithTTL(subject string, ttl time.Duration) (*models.AccessToken, error) {
	if subject == "" {
		return nil, errors.New("token subject is empty")
	}

	token, exp, err := s.sign(types.AccessToken, subject, ttl)
	if err != nil {
		return nil, err
	}

	return &models.AccessToken{
		Token:     token,
		TokenType: types.BearerScheme,
		ExpiresAt: exp,
	}, nil
}

// Validate checks signature, algorithm, expiry and token type and returns the claims.
// Errors are ErrTokenExpired or ErrTokenMalformed.
func (s *TokenService) Validate(token string) (*models.Claims, error) {
	return s.parse(token, types.AccessToken)
}

// IssueState signs an opaque value for the OAuth `state` parameter.
func (s *TokenService) IssueState() (string, error) {
	token, _, err := s.sign(types.StateToken, stateSubject, StateTTL)
	return token, err
}

// ValidateState checks a `state` value produced by IssueState.
func (s *TokenService) ValidateState(state string) error {
	if _, err := s.parse(state, types.StateToken); err != nil {
		return types.ErrInvalidState
	}
	return nil
}

func (s *TokenService) sign(typ types.TokenType, subject string, ttl time.Duration) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	exp := issuedAt.Add(ttl)

	claims := models.Claims{
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func (s *TokenService) parse(token string, want types.TokenType) (*models.Claims, error) {
	if token == "" {
		return nil, types.ErrTokenMalformed
	}

	claims := &models.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, types.ErrTokenExpired
		}
		return nil, types.ErrTokenMalformed
	}

	if !parsed.Valid || claims.TokenType != want || claims.Subject == "" {
		return nil, types.ErrTokenMalformed
	}

	return claims, nil
}
