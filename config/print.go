package config

import (
	"fmt"
	"io"
	"strings"
)

const masked = "******"

// PrintConfig writes the effective configuration with secrets masked.
func PrintConfig(w io.Writer, c *Config) {
	var b strings.Builder

	line := func(key string, value any) {
		fmt.Fprintf(&b, "  %-28s %v\n", key, value)
	}

	b.WriteString("Configuration:\n")
	line("SERVICE_NAME", c.ServiceName)
	line("SERVICE_VERSION", c.Version)
	line("LOG_LEVEL", c.LogLevel)

	line("HTTP_ADDR", c.HTTP.Addr())
	line("HTTP_READ_TIMEOUT", c.HTTP.ReadTimeout)
	line("HTTP_WRITE_TIMEOUT", c.HTTP.WriteTimeout)

	line("DATABASE_HOST", c.Database.Host)
	line("DATABASE_PORT", c.Database.Port)
	line("DATABASE_USER", c.Database.User)
	line("DATABASE_PASSWORD", mask(c.Database.Password))
	line("DATABASE_NAME", c.Database.Database)
	line("DATABASE_MAXCONNS", c.Database.MaxConns)
	line("DATABASE_QUERY_TIMEOUT", c.Database.QueryTimeout)

	line("AUTH_JWT_SECRET", mask(c.Auth.JWTSecret))
	line("AUTH_ACCESS_TOKEN_TTL", c.Auth.AccessTokenTTL)
	line("AUTH_BCRYPT_COST", c.Auth.BcryptCost)

	line("OAUTH_ENABLED", c.OAuth.Enabled())
	if c.OAuth.Enabled() {
		line("OAUTH_CLIENT_ID", c.OAuth.ClientID)
		line("OAUTH_CLIENT_SECRET", mask(c.OAuth.ClientSecret))
		line("OAUTH_REDIRECT_URL", c.OAuth.RedirectURL)
		line("OAUTH_ISSUER_URL", c.OAuth.IssuerURL)
	}

	line("CORS_ALLOWED_ORIGINS", strings.Join(c.CORS.AllowedOrigins, ","))

	line("RABBITMQ_ENABLED", c.RabbitMQ.Enabled)
	if c.RabbitMQ.Enabled {
		line("RABBITMQ_HOST", c.RabbitMQ.Host)
		line("RABBITMQ_PORT", c.RabbitMQ.Port)
		line("RABBITMQ_USER", c.RabbitMQ.User)
		line("RABBITMQ_PASSWORD", mask(c.RabbitMQ.Password))
		line("RABBITMQ_EXCHANGE", c.RabbitMQ.Exchange)
	}

	_, _ = io.WriteString(w, b.String())
}

func mask(s string) string {
	if s == "" {
		return "<empty>"
	}
	return masked
}
