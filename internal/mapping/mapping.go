// internal/mapping/mapping.go
// Package mapping translates caller-supplied arguments into the shape a
// backend expects and renders backend results into text for the response
// content block.
package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/mwiater/toolgate/internal/registry"
)

// MapInput renames arguments according to mapping. Keys present in args but
// absent from mapping pass through unchanged; an empty mapping is the
// identity. The input map is never mutated.
func MapInput(args map[string]any, mapping map[string]string) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if renamed, ok := mapping[k]; ok {
			out[renamed] = v
			continue
		}
		out[k] = v
	}
	return out
}

// FormatOutput renders a backend result as the text of a content block.
// It never fails: when serialization breaks, it falls back to the value's
// default string representation, since a formatting bug must not fail an
// otherwise-successful call.
func FormatOutput(result any, format string) string {
	if format == registry.FormatJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Sprintf("%v", result)
		}
		return string(data)
	}
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	case float64, float32, int, int64, bool:
		return fmt.Sprintf("%v", v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
