// internal/mapping/mapping_test.go
package mapping

import (
	"testing"

	"github.com/mwiater/toolgate/internal/registry"
)

func TestMapInputIdentityWhenMappingEmpty(t *testing.T) {
	args := map[string]any{"a": 1.0, "b": "two"}

	for _, mapping := range []map[string]string{nil, {}} {
		got := MapInput(args, mapping)
		if len(got) != 2 || got["a"] != 1.0 || got["b"] != "two" {
			t.Fatalf("expected identity mapping, got %v", got)
		}
	}
}

func TestMapInputRenamesAndPassesThrough(t *testing.T) {
	args := map[string]any{"asset_id": "x-1", "verbose": true}
	mapping := map[string]string{"asset_id": "assetId"}

	got := MapInput(args, mapping)
	if got["assetId"] != "x-1" {
		t.Fatalf("expected asset_id renamed to assetId, got %v", got)
	}
	if _, stale := got["asset_id"]; stale {
		t.Fatal("renamed key must not survive under its original name")
	}
	if got["verbose"] != true {
		t.Fatal("unmapped keys must pass through unchanged")
	}
	if args["asset_id"] != "x-1" {
		t.Fatal("input map must not be mutated")
	}
}

func TestFormatOutputText(t *testing.T) {
	tests := []struct {
		name   string
		result any
		want   string
	}{
		{name: "number", result: float64(8), want: "8"},
		{name: "fraction", result: 8.5, want: "8.5"},
		{name: "string", result: "done", want: "done"},
		{name: "nil", result: nil, want: ""},
		{name: "bool", result: true, want: "true"},
		{name: "bytes", result: []byte("raw"), want: "raw"},
		{name: "object", result: map[string]any{"ok": true}, want: `{"ok":true}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatOutput(tt.result, registry.FormatText); got != tt.want {
				t.Fatalf("FormatOutput(%v)=%q want %q", tt.result, got, tt.want)
			}
		})
	}
}

func TestFormatOutputJSONPrettyPrints(t *testing.T) {
	got := FormatOutput(map[string]any{"sum": float64(8)}, registry.FormatJSON)
	want := "{\n  \"sum\": 8\n}"
	if got != want {
		t.Fatalf("FormatOutput json=%q want %q", got, want)
	}
}

func TestFormatOutputNeverFails(t *testing.T) {
	// Channels have no JSON encoding; both formats must still produce text.
	ch := make(chan int)
	if got := FormatOutput(ch, registry.FormatJSON); got == "" {
		t.Fatal("json format must fall back to a string representation")
	}
	if got := FormatOutput(ch, registry.FormatText); got == "" {
		t.Fatal("text format must fall back to a string representation")
	}
}
