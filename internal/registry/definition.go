// internal/registry/definition.go
package registry

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Output formats accepted in a tool definition.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Definition declares one callable tool: its external name, the schema its
// arguments must satisfy, and the backend reference the invoker resolves.
// The registry never interprets BackendRef beyond passing it along.
type Definition struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	InputSchema  map[string]any    `json:"inputSchema,omitempty"`
	BackendRef   string            `json:"backendRef"`
	InputMapping map[string]string `json:"inputMapping,omitempty"`
	OutputFormat string            `json:"outputFormat,omitempty"`
	TimeoutMs    int               `json:"timeoutMs,omitempty"`
	Enabled      bool              `json:"enabled"`
}

// UnmarshalJSON applies the default for enabled: a definition that does not
// mention the field is live.
func (d *Definition) UnmarshalJSON(data []byte) error {
	type alias Definition
	shadow := struct {
		*alias
		Enabled *bool `json:"enabled,omitempty"`
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}
	d.Enabled = shadow.Enabled == nil || *shadow.Enabled
	return nil
}

// Timeout returns the per-tool invocation deadline, falling back to the
// supplied default when the definition does not set one.
func (d Definition) Timeout(fallback time.Duration) time.Duration {
	if d.TimeoutMs <= 0 {
		return fallback
	}
	return time.Duration(d.TimeoutMs) * time.Millisecond
}

// Format returns the effective output format, defaulting to text.
func (d Definition) Format() string {
	if d.OutputFormat == "" {
		return FormatText
	}
	return d.OutputFormat
}

// validate checks the fields the registry depends on. It does not interpret
// the schema beyond requiring the object shape MCP mandates.
func (d Definition) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("tool definition missing name")
	}
	if strings.TrimSpace(d.BackendRef) == "" {
		return fmt.Errorf("tool %q missing backendRef", d.Name)
	}
	switch d.OutputFormat {
	case "", FormatJSON, FormatText:
	default:
		return fmt.Errorf("tool %q has unknown outputFormat %q", d.Name, d.OutputFormat)
	}
	if d.InputSchema != nil {
		if t, ok := d.InputSchema["type"].(string); ok && t != "object" {
			return fmt.Errorf("tool %q inputSchema type must be object, got %q", d.Name, t)
		}
	}
	return nil
}
