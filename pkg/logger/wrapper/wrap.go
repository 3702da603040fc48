package wrap

import (
	"context"
	"errors"
)

// errorWithLogCtx wraps an error together with the LogCtx that was active when it happened
type errorWithLogCtx struct {
	err    error
	logCtx LogCtx
}

func (e *errorWithLogCtx) Error() string {
	return e.err.Error()
}

func (e *errorWithLogCtx) Unwrap() error {
	return e.err
}

// Error wraps an error with the current LogCtx from the context.
// An already wrapped error only gets its LogCtx refreshed.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var e *errorWithLogCtx
	if errors.As(err, &e) {
		if x, ok := ctx.Value(LogCtxKey).(LogCtx); ok {
			e.logCtx = x
		}
		return err
	}

	return &errorWithLogCtx{
		err:    err,
		logCtx: FromContext(ctx),
	}
}

// ErrorCtx extracts the LogCtx from an error if it was wrapped with Error.
// Values already present in ctx (request id) are kept when the error has none.
func ErrorCtx(ctx context.Context, err error) context.Context {
	var e *errorWithLogCtx
	if errors.As(err, &e) && e != nil {
		return WithLogCtx(ctx, e.logCtx)
	}
	return ctx
}
