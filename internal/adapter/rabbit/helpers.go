package rabbit

import (
	"context"
	"time"
)

// retry calls fn up to n times, sleeping between attempts. It stops early when ctx is done.
func retry(ctx context.Context, n int, sleep time.Duration, fn func() error) error {
	var err error
	for i := range n {
		if err = fn(); err == nil {
			return nil
		}
		if i == n-1 {
			break
		}

		select {
		case <-ctx.Done():
			return err
		case <-time.After(sleep):
		}
	}
	return err
}
