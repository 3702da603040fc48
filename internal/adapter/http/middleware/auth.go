package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	"github.com/Temutjin2k/bookshelf-auth/internal/domain/types"
	"github.com/Temutjin2k/bookshelf-auth/pkg/hasher"
	wrap "github.com/Temutjin2k/bookshelf-auth/pkg/logger/wrapper"
)

var errBadAuthHeader = errors.New("invalid Authorization header format")

type ctxKeyAuthErr struct{}

func withAuthError(r *http.Request, msg string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKeyAuthErr{}, msg))
}

func authErrorFromContext(ctx context.Context) string {
	msg, _ := ctx.Value(ctxKeyAuthErr{}).(string)
	return msg
}

// Auth resolves a bearer token to a username and stores it in the request context.
// A missing or bad token leaves the request anonymous, so public routes still work
// with a stale header. RequireAuth reports why the token was refused.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(header)
		if err != nil {
			next.ServeHTTP(w, withAuthError(r, err.Error()))
			return
		}

		username, err := m.auth.ValidateSession(ctx, token)
		if err != nil {
			m.log.Debug(wrap.WithAction(ctx, "authenticate"), "rejected bearer token", "error", err.Error(), "token_fp", hasher.Fingerprint(token))
			next.ServeHTTP(w, withAuthError(r, tokenErrorMessage(err)))
			return
		}

		ctx = models.WithUsername(ctx, username)
		ctx = wrap.WithUsername(ctx, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth lets only authenticated requests reach next.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if models.UsernameFromContext(r.Context()) == "" {
			msg := authErrorFromContext(r.Context())
			if msg == "" {
				msg = "authorization required"
			}
			unauthorizedResponse(w, msg)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func tokenErrorMessage(err error) string {
	if errors.Is(err, types.ErrTokenExpired) {
		return types.ErrTokenExpired.Error()
	}
	return types.ErrTokenMalformed.Error()
}

func extractBearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errBadAuthHeader
	}
	return token, nil
}
