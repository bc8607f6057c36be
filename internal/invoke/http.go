// internal/invoke/http.go
package invoke

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseBytes bounds how much of a backend response the gateway will
// buffer before giving up on it.
const maxResponseBytes = 4 << 20

// HTTP invokes backends by POSTing the payload as JSON to the reference URL.
// The client is shared across invocations so transport resources are reused.
type HTTP struct {
	client *http.Client
}

// NewHTTP returns an HTTP backend. A nil client gets a default with a
// conservative overall timeout; per-call deadlines still come from the
// context.
func NewHTTP(client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTP{client: client}
}

// Invoke posts payload to ref and decodes the JSON response body. Transport
// failures classify as unreachable, 4xx as rejected, 5xx and undecodable
// bodies as crashed, and context expiry as timeout.
func (h *HTTP) Invoke(ctx context.Context, ref string, payload map[string]any) (any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, newError(KindRejected, ref, fmt.Sprintf("encode payload: %v", err), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ref, bytes.NewReader(body))
	if err != nil {
		return nil, newError(KindUnreachable, ref, fmt.Sprintf("build request: %v", err), err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return nil, newError(KindTimeout, ref, err.Error(), err)
		}
		return nil, newError(KindUnreachable, ref, err.Error(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, newError(KindCrashed, ref, fmt.Sprintf("read response: %v", err), err)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, newError(KindCrashed, ref, fmt.Sprintf("backend returned %s: %s", resp.Status, snippet(data)), nil)
	case resp.StatusCode >= 400:
		return nil, newError(KindRejected, ref, fmt.Sprintf("backend returned %s: %s", resp.Status, snippet(data)), nil)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, newError(KindCrashed, ref, fmt.Sprintf("undecodable response body: %v", err), err)
	}
	return result, nil
}

func snippet(data []byte) string {
	const max = 200
	s := string(bytes.TrimSpace(data))
	if len(s) > max {
		return s[:max] + "…"
	}
	return s
}
