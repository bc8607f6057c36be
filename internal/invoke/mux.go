// internal/invoke/mux.go
package invoke

import (
	"context"
	"strings"
)

// Mux routes references to backends by scheme, so one registry can mix
// in-process and HTTP tools: "local:add" goes to the local backend, while
// "http://..." and "https://..." go to the HTTP backend with the full URL.
type Mux struct {
	backends map[string]Invoker
}

// NewMux returns an empty mux; attach backends with Handle.
func NewMux() *Mux {
	return &Mux{backends: make(map[string]Invoker)}
}

// Handle routes references with the given scheme to inv. The scheme is the
// part of the reference before the first colon.
func (m *Mux) Handle(scheme string, inv Invoker) *Mux {
	m.backends[scheme] = inv
	return m
}

// Invoke resolves ref's scheme and delegates. The local scheme's prefix is
// stripped before delegation; URL schemes keep the full reference.
func (m *Mux) Invoke(ctx context.Context, ref string, payload map[string]any) (any, error) {
	scheme, rest, ok := strings.Cut(ref, ":")
	if !ok {
		return nil, newError(KindUnreachable, ref, "reference has no scheme", nil)
	}
	inv, found := m.backends[scheme]
	if !found {
		return nil, newError(KindUnreachable, ref, "no backend for scheme "+scheme, nil)
	}
	if scheme == "local" {
		return inv.Invoke(ctx, rest, payload)
	}
	return inv.Invoke(ctx, ref, payload)
}
