// internal/invoke/retry.go
package invoke

import (
	"context"
	"errors"
)

// retry re-invokes unreachable backends a bounded number of times. Timeouts
// and rejections are never retried: the first already consumed the caller's
// deadline budget, the second is a deliberate answer.
type retry struct {
	next     Invoker
	attempts int
}

// WithRetries wraps next so an unreachable backend is attempted up to
// attempts times in total. attempts below 2 returns next unchanged.
func WithRetries(next Invoker, attempts int) Invoker {
	if attempts < 2 {
		return next
	}
	return &retry{next: next, attempts: attempts}
}

func (r *retry) Invoke(ctx context.Context, ref string, payload map[string]any) (any, error) {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		result, err := r.next.Invoke(ctx, ref, payload)
		if err == nil {
			return result, nil
		}
		lastErr = err
		var invErr *Error
		if !errors.As(err, &invErr) || invErr.Kind != KindUnreachable {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, lastErr
}
