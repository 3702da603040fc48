package wrap

import (
	"context"
)

type (
	// LogCtx holds contextual information for logging
	LogCtx struct {
		Action    string
		Username  string
		RequestID string
	}

	// logCtxKeyStruct is an unexported type for context keys defined in this package.
	logCtxKeyStruct struct{}
)

// LogCtxKey is the key for log context values
var LogCtxKey = &logCtxKeyStruct{}

// WithLogCtx returns a new context with the provided LogCtx
func WithLogCtx(ctx context.Context, newLc LogCtx) context.Context {
	// Check if there's an existing LogCtx and merge values
	if lc, ok := ctx.Value(LogCtxKey).(LogCtx); ok {
		if newLc.Action == "" {
			newLc.Action = lc.Action
		}
		if newLc.Username == "" {
			newLc.Username = lc.Username
		}
		if newLc.RequestID == "" {
			newLc.RequestID = lc.RequestID
		}
	}
	return context.WithValue(ctx, LogCtxKey, newLc)
}

// FromContext returns the LogCtx stored in ctx, or an empty one.
func FromContext(ctx context.Context) LogCtx {
	lc, _ := ctx.Value(LogCtxKey).(LogCtx)
	return lc
}

// WithUsername adds or updates the Username in the LogCtx within the context
func WithUsername(ctx context.Context, username string) context.Context {
	lc := FromContext(ctx)
	lc.Username = username
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithRequestID adds or updates the RequestID in the LogCtx within the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	lc := FromContext(ctx)
	lc.RequestID = requestID
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithAction adds or updates the Action in the LogCtx within the context
func WithAction(ctx context.Context, action string) context.Context {
	lc := FromContext(ctx)
	lc.Action = action
	return context.WithValue(ctx, LogCtxKey, lc)
}
