package models

import "context"

type usernameCtxKey struct{}

// WithUsername stores the authenticated username in ctx
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameCtxKey{}, username)
}

// UsernameFromContext returns the authenticated username, or "" for anonymous requests
func UsernameFromContext(ctx context.Context) string {
	u, _ := ctx.Value(usernameCtxKey{}).(string)
	return u
}
