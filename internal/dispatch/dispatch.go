// internal/dispatch/dispatch.go
// Package dispatch parses incoming JSON-RPC requests, routes tools/list to
// the registry and tools/call through the mapper and invoker, and assembles
// compliant responses. It is stateless per request; the registry snapshot is
// the only shared state it touches.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mwiater/toolgate/internal/invoke"
	"github.com/mwiater/toolgate/internal/logging"
	"github.com/mwiater/toolgate/internal/mapping"
	"github.com/mwiater/toolgate/internal/registry"
	"github.com/mwiater/toolgate/internal/rpc"
	"github.com/mwiater/toolgate/internal/util"
)

const (
	// defaultTimeout bounds invocations for tools that do not set their own.
	defaultTimeout = 30 * time.Second
	// logOutputRunes bounds how much tool output lands in the trace log.
	logOutputRunes = 160
)

// Config carries the dispatcher's knobs. The zero value is usable.
type Config struct {
	// DefaultTimeout applies to tools without a timeoutMs of their own.
	DefaultTimeout time.Duration
	// SkipValidation disables schema checking of tools/call arguments.
	SkipValidation bool
	// ServerName and ServerVersion are reported by the initialize method.
	ServerName    string
	ServerVersion string
	// Transport labels trace log lines (http, stdio, inproc).
	Transport string
}

// Dispatcher routes JSON-RPC requests against a registry and an invoker.
type Dispatcher struct {
	reg *registry.Registry
	inv invoke.Invoker
	cfg Config
}

// New constructs a dispatcher over the given registry and invoker.
func New(reg *registry.Registry, inv invoke.Invoker, cfg Config) *Dispatcher {
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = defaultTimeout
	}
	if cfg.ServerName == "" {
		cfg.ServerName = "toolgate"
	}
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	return &Dispatcher{reg: reg, inv: inv, cfg: cfg}
}

// Registry exposes the dispatcher's registry, e.g. for hot reloads.
func (d *Dispatcher) Registry() *registry.Registry { return d.reg }

// Handle services one raw JSON-RPC payload and always produces a well-formed
// response. No fault propagates past this boundary: panics and unclassified
// errors come back as internal errors with the cause in error.data.
func (d *Dispatcher) Handle(ctx context.Context, raw []byte) (resp rpc.Response) {
	var req rpc.Request

	defer func() {
		if rec := recover(); rec != nil {
			resp = rpc.NewErrorData(req.ID, rpc.CodeInternal, "internal error", fmt.Sprintf("%v", rec))
		}
		logging.LogRequest("GATE->CLIENT", d.cfg.Transport, "", resp)
	}()

	logging.LogRequest("CLIENT->GATE", d.cfg.Transport, "", raw)

	if err := json.Unmarshal(raw, &req); err != nil {
		// id unknown, answered with null per the response invariant
		return rpc.NewError(nil, rpc.CodeInvalidRequest, "invalid request: "+err.Error())
	}
	if req.JSONRPC != rpc.Version {
		return rpc.NewError(req.ID, rpc.CodeInvalidRequest, `invalid request: jsonrpc must be "2.0"`)
	}

	switch req.Method {
	case "initialize":
		return rpc.NewResult(req.ID, map[string]any{
			"serverInfo":   map[string]any{"name": d.cfg.ServerName, "version": d.cfg.ServerVersion},
			"capabilities": map[string]any{"tools": map[string]any{"list": true, "call": true}},
		})
	case "ping":
		return rpc.NewResult(req.ID, map[string]any{})
	case "tools/list":
		return rpc.NewResult(req.ID, d.listTools())
	case "tools/call":
		return d.callTool(ctx, req)
	default:
		return rpc.NewError(req.ID, rpc.CodeMethodNotFound, "Method not found: "+req.Method)
	}
}

// listTools builds the discovery payload from the current registry snapshot.
// Backend references and mappings stay private.
func (d *Dispatcher) listTools() rpc.ListResult {
	defs := d.reg.List()
	result := rpc.ListResult{Tools: make([]rpc.ToolInfo, 0, len(defs))}
	for _, def := range defs {
		result.Tools = append(result.Tools, rpc.ToolInfo{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		})
	}
	return result
}

func (d *Dispatcher) callTool(ctx context.Context, req rpc.Request) rpc.Response {
	var params rpc.CallParams
	if len(req.Params) == 0 {
		return rpc.NewError(req.ID, rpc.CodeInvalidParams, "invalid params: missing params object")
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return rpc.NewError(req.ID, rpc.CodeInvalidParams, "invalid params: "+err.Error())
	}
	if strings.TrimSpace(params.Name) == "" {
		return rpc.NewError(req.ID, rpc.CodeInvalidParams, "invalid params: missing tool name")
	}
	args, err := decodeArguments(params.Arguments)
	if err != nil {
		return rpc.NewError(req.ID, rpc.CodeInvalidParams, "invalid params: "+err.Error())
	}

	def, ok := d.reg.Lookup(params.Name)
	if !ok {
		return rpc.NewError(req.ID, rpc.CodeMethodNotFound, "Unknown tool: "+params.Name)
	}

	if !d.cfg.SkipValidation {
		if resp, invalid := d.validateArgs(req.ID, def, args); invalid {
			return resp
		}
	}

	payload := mapping.MapInput(args, def.InputMapping)

	callCtx, cancel := context.WithTimeout(ctx, def.Timeout(d.cfg.DefaultTimeout))
	defer cancel()

	logging.LogRequest("GATE->BACKEND", d.cfg.Transport, def.Name, payload)
	result, err := d.inv.Invoke(callCtx, def.BackendRef, payload)
	if err != nil {
		invErr := invoke.Classify(def.BackendRef, err)
		logging.LogEvent("Tool failed: tool=%s kind=%s detail=%s", def.Name, invErr.Kind, invErr.Detail)
		return rpc.NewErrorData(req.ID, rpc.CodeInternal, "tool invocation failed", map[string]any{
			"kind":   invErr.Kind.String(),
			"detail": invErr.Detail,
		})
	}

	text := mapping.FormatOutput(result, def.Format())
	logging.LogEvent("Tool executed: tool=%s output=%s", def.Name, util.TruncateRunes(text, logOutputRunes))
	return rpc.NewResult(req.ID, rpc.TextResult(text))
}

// decodeArguments requires an explicit arguments object; MCP allows it to be
// empty, but not absent.
func decodeArguments(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, errors.New("missing arguments object")
	}
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, errors.New("arguments must be an object")
	}
	if args == nil {
		return nil, errors.New("missing arguments object")
	}
	return args, nil
}

// validateArgs checks arguments against the tool's declared schema before
// the mapper runs and before any backend is touched.
func (d *Dispatcher) validateArgs(id json.RawMessage, def registry.Definition, args map[string]any) (rpc.Response, bool) {
	if len(def.InputSchema) == 0 {
		return rpc.Response{}, false
	}

	argBytes, err := json.Marshal(args)
	if err != nil {
		return rpc.NewErrorData(id, rpc.CodeInternal, "internal error", "encode arguments: "+err.Error()), true
	}
	schemaLoader := gojsonschema.NewGoLoader(def.InputSchema)
	documentLoader := gojsonschema.NewBytesLoader(argBytes)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return rpc.NewErrorData(id, rpc.CodeInternal, "internal error", "schema validation error: "+err.Error()), true
	}
	if result.Valid() {
		return rpc.Response{}, false
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return rpc.NewError(id, rpc.CodeInvalidParams, "invalid arguments: "+strings.Join(errs, ", ")), true
}
