package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Temutjin2k/bookshelf-auth/pkg/configparser"
	"github.com/Temutjin2k/bookshelf-auth/pkg/logger"
	"github.com/Temutjin2k/bookshelf-auth/pkg/postgres"
	"golang.org/x/crypto/bcrypt"
)

const minSecretLen = 32

// Errors
var (
	ErrEmptySecret      = errors.New("AUTH_JWT_SECRET is required")
	ErrWeakSecret       = fmt.Errorf("AUTH_JWT_SECRET must be at least %d bytes", minSecretLen)
	ErrInvalidTTL       = errors.New("AUTH_ACCESS_TOKEN_TTL must be positive")
	ErrInvalidCost      = fmt.Errorf("AUTH_BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	ErrOAuthIncomplete  = errors.New("OAUTH_CLIENT_SECRET and OAUTH_REDIRECT_URL are required when OAUTH_CLIENT_ID is set")
	ErrInvalidLogLevel  = errors.New("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR")
	ErrInvalidQueryTime = errors.New("DATABASE_QUERY_TIMEOUT must be positive")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		ServiceName string `env:"SERVICE_NAME" default:"bookshelf-auth"`
		Version     string `env:"SERVICE_VERSION" default:"dev"`
		LogLevel    string `env:"LOG_LEVEL" default:"INFO"`

		HTTP     HTTPConfig
		Database DatabaseConfig
		Auth     AuthConfig
		OAuth    OAuthConfig
		CORS     CORSConfig
		RabbitMQ RabbitMQConfig
	}

	HTTPConfig struct {
		Host              string        `env:"HTTP_HOST" default:"0.0.0.0"`
		Port              string        `env:"HTTP_PORT" default:"8000"`
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" default:"5s"`
		ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" default:"10s"`
		WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" default:"15s"`
		IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" default:"60s"`
		ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"bookshelf"`
		Password string `env:"DATABASE_PASSWORD" default:"bookshelf"`
		Database string `env:"DATABASE_NAME" default:"bookshelf"`
		SSLMode  string `env:"DATABASE_SSLMODE" default:"disable"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
		QueryTimeout    time.Duration `env:"DATABASE_QUERY_TIMEOUT" default:"5s"`
	}

	AuthConfig struct {
		JWTSecret      string        `env:"AUTH_JWT_SECRET"`
		AccessTokenTTL time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" default:"30m"`
		BcryptCost     int           `env:"AUTH_BCRYPT_COST" default:"10"`
	}

	OAuthConfig struct {
		ClientID     string        `env:"OAUTH_CLIENT_ID"`
		ClientSecret string        `env:"OAUTH_CLIENT_SECRET"`
		RedirectURL  string        `env:"OAUTH_REDIRECT_URL"`
		IssuerURL    string        `env:"OAUTH_ISSUER_URL" default:"https://accounts.google.com"`
		Timeout      time.Duration `env:"OAUTH_TIMEOUT" default:"10s"`
	}

	CORSConfig struct {
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	RabbitMQConfig struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED" default:"false"`
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
		Exchange string `env:"RABBITMQ_EXCHANGE" default:"auth_topic"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

func (c DatabaseConfig) PoolSettings() postgres.PoolSettings {
	return postgres.PoolSettings{
		MaxConns:        c.MaxConns,
		MinConns:        c.MinConns,
		MaxConnLifetime: c.MaxConnLifetime,
		MaxConnIdleTime: c.MaxConnIdleTime,
	}
}

func (c RabbitMQConfig) GetDSN() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   "/",
	}
	return u.String()
}

// Enabled reports whether federated login is configured.
func (c OAuthConfig) Enabled() bool {
	return c.ClientID != ""
}

func (c HTTPConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// NewConfig reads the optional yaml file and the environment, then validates the result.
func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch {
	case c.Auth.JWTSecret == "":
		errs = append(errs, ErrEmptySecret)
	case len(c.Auth.JWTSecret) < minSecretLen:
		errs = append(errs, ErrWeakSecret)
	}
	if c.Auth.AccessTokenTTL <= 0 {
		errs = append(errs, ErrInvalidTTL)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, ErrInvalidCost)
	}
	if c.OAuth.Enabled() && (c.OAuth.ClientSecret == "" || c.OAuth.RedirectURL == "") {
		errs = append(errs, ErrOAuthIncomplete)
	}
	c.LogLevel = strings.ToUpper(c.LogLevel)
	if !logger.ValidateLogLevel(c.LogLevel) {
		errs = append(errs, ErrInvalidLogLevel)
	}
	if c.Database.QueryTimeout <= 0 {
		errs = append(errs, ErrInvalidQueryTime)
	}

	return errors.Join(errs...)
}
