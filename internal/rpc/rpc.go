// internal/rpc/rpc.go
// Package rpc defines the JSON-RPC 2.0 envelope types and the MCP result
// shapes exchanged by the gateway.
package rpc

import "encoding/json"

// Version is the only protocol version the gateway speaks.
const Version = "2.0"

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParse          = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternal       = -32603
)

// Request represents a JSON-RPC 2.0 request message. ID is kept raw so it can
// be echoed back verbatim regardless of whether the caller sent a string, a
// number, or null.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents a JSON-RPC 2.0 response message. Exactly one of Result
// or Error is set. A nil ID marshals as null, which is the required shape when
// the request could not be parsed.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error represents a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// CallParams carries the parameters of a tools/call request. Arguments stays
// raw so the dispatcher can tell an omitted field from an empty object.
type CallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolInfo is the public view of a tool surfaced by tools/list. Backend
// references and argument mappings are never exposed here.
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// ListResult is the result payload of tools/list.
type ListResult struct {
	Tools []ToolInfo `json:"tools"`
}

// ContentBlock is one piece of tool output in an MCP result.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallResult is the result payload of tools/call.
type CallResult struct {
	Content []ContentBlock `json:"content"`
}

// TextResult wraps formatted tool output into a single text content block.
func TextResult(text string) CallResult {
	return CallResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}

// NewResult creates a successful response echoing the request id.
func NewResult(id json.RawMessage, result any) Response {
	return Response{JSONRPC: Version, ID: id, Result: result}
}

// NewError creates an error response echoing the request id.
func NewError(id json.RawMessage, code int, message string) Response {
	return Response{JSONRPC: Version, ID: id, Error: &Error{Code: code, Message: message}}
}

// NewErrorData creates an error response carrying diagnostic data.
func NewErrorData(id json.RawMessage, code int, message string, data any) Response {
	return Response{JSONRPC: Version, ID: id, Error: &Error{Code: code, Message: message, Data: data}}
}
