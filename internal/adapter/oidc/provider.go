// Package oidc adapts an OpenID Connect identity provider (Google by default) to the auth service.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const (
	DefaultIssuerURL = "https://accounts.google.com"
	DefaultTimeout   = 10 * time.Second
)

var (
	ErrMissingClientID    = errors.New("oidc: client id is required")
	ErrMissingRedirectURL = errors.New("oidc: redirect url is required")
)

type Config struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Timeout      time.Duration
}

func (c Config) validate() error {
	if c.ClientID == "" {
		return ErrMissingClientID
	}
	if c.RedirectURL == "" {
		return ErrMissingRedirectURL
	}
	return nil
}

type Provider struct {
	provider *oidc.Provider
	oauth2   *oauth2.Config
	client   *http.Client
}

// New runs provider discovery against cfg.IssuerURL.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.IssuerURL == "" {
		cfg.IssuerURL = DefaultIssuerURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := &http.Client{Timeout: cfg.Timeout}

	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, client), cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	return &Provider{
		provider: provider,
		client:   client,
		oauth2: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}, nil
}

// AuthCodeURL builds the consent page URL carrying state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth2.AuthCodeURL(state)
}

// Exchange trades an authorization code for the end user's verified identity.
// Every failure is reported as types.ErrProviderExchangeFailed with the cause attached.
func (p *Provider) Exchange(ctx context.Context, code string) (*models.FederatedIdentity, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty authorization code", types.ErrProviderExchangeFailed)
	}

	ctx = oidc.ClientContext(ctx, p.client)

	token, err := p.oauth2.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange: %w", types.ErrProviderExchangeFailed, err)
	}

	info, err := p.provider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo: %w", types.ErrProviderExchangeFailed, err)
	}

	var claims struct {
		Name string `json:"name"`
	}
	if err := info.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: userinfo claims: %w", types.ErrProviderExchangeFailed, err)
	}

	email := strings.TrimSpace(info.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: provider returned no email", types.ErrProviderExchangeFailed)
	}
	if !info.EmailVerified {
		return nil, fmt.Errorf("%w: email %s is not verified", types.ErrProviderExchangeFailed, email)
	}

	return &models.FederatedIdentity{
		Email:         email,
		EmailVerified: true,
		Name:          strings.TrimSpace(claims.Name),
	}, nil
}
