// internal/invoke/local.go
package invoke

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Handler is an in-process backend operation.
type Handler func(ctx context.Context, payload map[string]any) (any, error)

// Local dispatches references to registered in-process handlers. It is the
// reference backend: enough to validate the gateway end to end without any
// network in the loop.
type Local struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewLocal returns an empty local backend.
func NewLocal() *Local {
	return &Local{handlers: make(map[string]Handler)}
}

// Register makes a handler available under the given reference. Registering
// the same reference again replaces the previous handler.
func (l *Local) Register(ref string, h Handler) {
	l.mu.Lock()
	l.handlers[ref] = h
	l.mu.Unlock()
}

// Refs returns the registered references, for diagnostics.
func (l *Local) Refs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	refs := make([]string, 0, len(l.handlers))
	for ref := range l.handlers {
		refs = append(refs, ref)
	}
	return refs
}

// Invoke runs the handler for ref, bounding it by the context deadline. The
// handler keeps running in its goroutine after a timeout; its cleanup is its
// own responsibility.
func (l *Local) Invoke(ctx context.Context, ref string, payload map[string]any) (any, error) {
	l.mu.RLock()
	handler, ok := l.handlers[ref]
	l.mu.RUnlock()
	if !ok {
		return nil, newError(KindUnreachable, ref, "no handler registered", nil)
	}

	type outcome struct {
		result any
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{err: newError(KindCrashed, ref, fmt.Sprintf("handler panic: %v", rec), nil)}
			}
		}()
		result, err := handler(ctx, payload)
		done <- outcome{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, newError(KindTimeout, ref, ctx.Err().Error(), ctx.Err())
	case out := <-done:
		if out.err != nil {
			var invErr *Error
			if errors.As(out.err, &invErr) {
				return nil, invErr
			}
			return nil, newError(KindRejected, ref, out.err.Error(), out.err)
		}
		return out.result, nil
	}
}
