// internal/invoke/invoke_test.go
package invoke

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func kindOf(t *testing.T, err error) Kind {
	t.Helper()
	var invErr *Error
	if !errors.As(err, &invErr) {
		t.Fatalf("expected *invoke.Error, got %T: %v", err, err)
	}
	return invErr.Kind
}

func TestLocalInvoke(t *testing.T) {
	local := NewLocal()
	local.Register("sum", func(_ context.Context, payload map[string]any) (any, error) {
		return payload["a"].(float64) + payload["b"].(float64), nil
	})

	result, err := local.Invoke(context.Background(), "sum", map[string]any{"a": 5.0, "b": 3.0})
	if err != nil {
		t.Fatalf("Invoke error: %v", err)
	}
	if result != 8.0 {
		t.Fatalf("expected 8, got %v", result)
	}
}

func TestLocalUnknownRefIsUnreachable(t *testing.T) {
	local := NewLocal()
	_, err := local.Invoke(context.Background(), "ghost", nil)
	if kindOf(t, err) != KindUnreachable {
		t.Fatalf("expected unreachable, got %v", err)
	}
}

func TestLocalHandlerErrorIsRejected(t *testing.T) {
	local := NewLocal()
	local.Register("bad", func(_ context.Context, _ map[string]any) (any, error) {
		return nil, errors.New("no such asset")
	})
	_, err := local.Invoke(context.Background(), "bad", nil)
	if kindOf(t, err) != KindRejected {
		t.Fatalf("expected rejected, got %v", err)
	}
}

func TestLocalHandlerPanicIsCrashed(t *testing.T) {
	local := NewLocal()
	local.Register("boom", func(_ context.Context, _ map[string]any) (any, error) {
		panic("kaboom")
	})
	_, err := local.Invoke(context.Background(), "boom", nil)
	if kindOf(t, err) != KindCrashed {
		t.Fatalf("expected crashed, got %v", err)
	}
}

func TestLocalTimeout(t *testing.T) {
	local := NewLocal()
	local.Register("slow", func(ctx context.Context, _ map[string]any) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	begin := time.Now()
	_, err := local.Invoke(ctx, "slow", nil)
	elapsed := time.Since(begin)

	if kindOf(t, err) != KindTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
	if elapsed > time.Second {
		t.Fatalf("timeout not enforced promptly, took %v", elapsed)
	}
}

func TestHTTPInvoke(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	result, err := NewHTTP(nil).Invoke(context.Background(), srv.URL, map[string]any{"q": "x"})
	if err != nil {
		t.Fatalf("Invoke error: %v", err)
	}
	obj, ok := result.(map[string]any)
	if !ok || obj["ok"] != true {
		t.Fatalf("unexpected result: %v", result)
	}
}

func TestHTTPStatusClassification(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{status: http.StatusBadRequest, want: KindRejected},
		{status: http.StatusInternalServerError, want: KindCrashed},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		}))
		_, err := NewHTTP(nil).Invoke(context.Background(), srv.URL, nil)
		srv.Close()
		if kindOf(t, err) != tt.want {
			t.Fatalf("status %d: expected %v, got %v", tt.status, tt.want, err)
		}
	}
}

func TestHTTPUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTP(nil).Invoke(context.Background(), url, nil)
	if kindOf(t, err) != KindUnreachable {
		t.Fatalf("expected unreachable, got %v", err)
	}
}

func TestHTTPUndecodableBodyIsCrashed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json at all {"))
	}))
	defer srv.Close()

	_, err := NewHTTP(nil).Invoke(context.Background(), srv.URL, nil)
	if kindOf(t, err) != KindCrashed {
		t.Fatalf("expected crashed, got %v", err)
	}
}

func TestMuxRoutesBySchemeAndStripsLocalPrefix(t *testing.T) {
	local := NewLocal()
	local.Register("echo", func(_ context.Context, payload map[string]any) (any, error) {
		return payload, nil
	})
	mux := NewMux().Handle("local", local)

	result, err := mux.Invoke(context.Background(), "local:echo", map[string]any{"hi": "there"})
	if err != nil {
		t.Fatalf("Invoke error: %v", err)
	}
	if result.(map[string]any)["hi"] != "there" {
		t.Fatalf("unexpected result: %v", result)
	}

	_, err = mux.Invoke(context.Background(), "queue://jobs", nil)
	if kindOf(t, err) != KindUnreachable {
		t.Fatalf("expected unreachable for unrouted scheme, got %v", err)
	}
	_, err = mux.Invoke(context.Background(), "noscheme", nil)
	if kindOf(t, err) != KindUnreachable {
		t.Fatalf("expected unreachable for schemeless ref, got %v", err)
	}
}

type scriptedInvoker struct {
	calls    atomic.Int64
	failures int
	err      error
}

func (s *scriptedInvoker) Invoke(_ context.Context, _ string, _ map[string]any) (any, error) {
	n := s.calls.Add(1)
	if int(n) <= s.failures {
		return nil, s.err
	}
	return "ok", nil
}

func TestRetryRetriesUnreachableOnly(t *testing.T) {
	backend := &scriptedInvoker{failures: 2, err: newError(KindUnreachable, "x", "down", nil)}
	inv := WithRetries(backend, 3)

	result, err := inv.Invoke(context.Background(), "x", nil)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if result != "ok" || backend.calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", backend.calls.Load())
	}
}

func TestRetryGivesUpAfterAttempts(t *testing.T) {
	backend := &scriptedInvoker{failures: 10, err: newError(KindUnreachable, "x", "down", nil)}
	_, err := WithRetries(backend, 3).Invoke(context.Background(), "x", nil)
	if kindOf(t, err) != KindUnreachable {
		t.Fatalf("expected unreachable after exhausting retries, got %v", err)
	}
	if backend.calls.Load() != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", backend.calls.Load())
	}
}

func TestRetryNeverRetriesTimeoutOrRejection(t *testing.T) {
	for _, kind := range []Kind{KindTimeout, KindRejected, KindCrashed} {
		backend := &scriptedInvoker{failures: 10, err: newError(kind, "x", "nope", nil)}
		_, err := WithRetries(backend, 3).Invoke(context.Background(), "x", nil)
		if kindOf(t, err) != kind {
			t.Fatalf("expected %v to pass through, got %v", kind, err)
		}
		if backend.calls.Load() != 1 {
			t.Fatalf("kind %v: expected a single attempt, got %d", kind, backend.calls.Load())
		}
	}
}

func TestClassify(t *testing.T) {
	if Classify("r", context.DeadlineExceeded).Kind != KindTimeout {
		t.Fatal("deadline must classify as timeout")
	}
	if Classify("r", errors.New("wat")).Kind != KindCrashed {
		t.Fatal("unclassified errors must count as crashes")
	}
	original := newError(KindRejected, "r", "denied", nil)
	if Classify("r", original) != original {
		t.Fatal("already classified errors must pass through")
	}
}
