package middleware

import (
	"context"

	"github.com/Temutjin2k/bookshelf-auth/pkg/logger"
)

type (
	SessionValidator interface {
		ValidateSession(ctx context.Context, token string) (string, error)
	}

	Middleware struct {
		auth    SessionValidator
		log     logger.Logger
		service string
	}
)

func NewMiddleware(auth SessionValidator, service string, log logger.Logger) *Middleware {
	return &Middleware{
		auth:    auth,
		log:     log,
		service: service,
	}
}
