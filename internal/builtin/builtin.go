// internal/builtin/builtin.go
// Package builtin registers the reference in-process handlers shipped with
// the gateway binary: a small calculator, an echo, and a clock. They exist so
// a fresh checkout can exercise the full dispatch path without any external
// backend.
package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mwiater/toolgate/internal/invoke"
)

// Register attaches every builtin handler to the local backend.
func Register(local *invoke.Local) {
	local.Register("add", Add)
	local.Register("multiply", Multiply)
	local.Register("echo", Echo)
	local.Register("current_time", CurrentTime)
}

// Add sums the numeric arguments a and b.
func Add(_ context.Context, payload map[string]any) (any, error) {
	a, err := number(payload, "a")
	if err != nil {
		return nil, err
	}
	b, err := number(payload, "b")
	if err != nil {
		return nil, err
	}
	return a + b, nil
}

// Multiply multiplies the numeric arguments a and b.
func Multiply(_ context.Context, payload map[string]any) (any, error) {
	a, err := number(payload, "a")
	if err != nil {
		return nil, err
	}
	b, err := number(payload, "b")
	if err != nil {
		return nil, err
	}
	return a * b, nil
}

// Echo returns the payload unchanged.
func Echo(_ context.Context, payload map[string]any) (any, error) {
	return payload, nil
}

// CurrentTime returns the current system time.
func CurrentTime(_ context.Context, _ map[string]any) (any, error) {
	now := time.Now()
	return map[string]any{
		"local_time": now.Format(time.RFC3339),
		"timezone":   now.Location().String(),
		"unix":       now.Unix(),
	}, nil
}

func number(payload map[string]any, key string) (float64, error) {
	v, ok := payload[key]
	if !ok {
		return 0, fmt.Errorf("'%s' argument is required", key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("'%s' argument must be a number", key)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("'%s' argument must be a number", key)
	}
}
