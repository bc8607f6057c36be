// internal/registry/registry.go
// Package registry holds the set of declared tools and supports atomic
// replacement of the whole set, so concurrent readers never observe a
// partially applied reload.
package registry

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
)

// Document is the configuration blob shape the registry loads from.
type Document struct {
	Tools []Definition `json:"tools"`
}

// snapshot is one immutable generation of the registry. Readers grab the
// pointer once and work against that generation for the whole request.
type snapshot struct {
	defs    []Definition
	index   map[string]int
	version uint64
}

// Registry is the read-mostly collection of tool definitions. Reload swaps
// the entire snapshot in one atomic store; requests already holding the old
// snapshot keep using it.
type Registry struct {
	current atomic.Pointer[snapshot]
}

// New returns an empty registry at version zero.
func New() *Registry {
	r := &Registry{}
	r.current.Store(&snapshot{index: map[string]int{}})
	return r
}

// Load builds a registry from a configuration blob of the form
// {"tools":[...]}. The blob is validated in full before anything is applied.
func Load(blob []byte) (*Registry, error) {
	r := New()
	if err := r.Reload(blob); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload parses and validates blob, then atomically replaces the current
// tool set. On any error the previous set remains active and the version is
// unchanged: a malformed document must never silently drop a subset of tools.
func (r *Registry) Reload(blob []byte) error {
	var doc Document
	if err := json.Unmarshal(blob, &doc); err != nil {
		return fmt.Errorf("parse tool configuration: %w", err)
	}
	return r.Replace(doc.Tools)
}

// Replace validates defs as a complete set and swaps it in atomically.
// Duplicate names reject the whole set.
func (r *Registry) Replace(defs []Definition) error {
	index := make(map[string]int, len(defs))
	for i, def := range defs {
		if err := def.validate(); err != nil {
			return err
		}
		if _, dup := index[def.Name]; dup {
			return fmt.Errorf("duplicate tool name %q in configuration", def.Name)
		}
		index[def.Name] = i
	}

	copied := make([]Definition, len(defs))
	copy(copied, defs)

	prev := r.current.Load()
	r.current.Store(&snapshot{
		defs:    copied,
		index:   index,
		version: prev.version + 1,
	})
	return nil
}

// List returns the enabled tool definitions in insertion order.
func (r *Registry) List() []Definition {
	snap := r.current.Load()
	out := make([]Definition, 0, len(snap.defs))
	for _, def := range snap.defs {
		if def.Enabled {
			out = append(out, def)
		}
	}
	return out
}

// Lookup resolves an enabled tool by name. Disabled tools are reported as
// absent so callers cannot distinguish them from tools that never existed.
func (r *Registry) Lookup(name string) (Definition, bool) {
	snap := r.current.Load()
	i, ok := snap.index[name]
	if !ok || !snap.defs[i].Enabled {
		return Definition{}, false
	}
	return snap.defs[i], true
}

// Len reports the number of definitions in the current snapshot, disabled
// tools included.
func (r *Registry) Len() int {
	return len(r.current.Load().defs)
}

// Version reports the monotonically increasing reload generation, for
// diagnostics only.
func (r *Registry) Version() uint64 {
	return r.current.Load().version
}
