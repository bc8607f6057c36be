// internal/invoke/invoker.go
// Package invoke abstracts "call a named backend operation with a payload and
// get a payload back, or an error, within a deadline". Concrete backends plug
// in behind the Invoker interface; the dispatcher depends on nothing else.
package invoke

import "context"

// Invoker executes a backend operation identified by an opaque reference.
// Implementations must honor the context deadline and return a classified
// *Error rather than hang. The meaning of ref is entirely backend-specific.
type Invoker interface {
	Invoke(ctx context.Context, ref string, payload map[string]any) (any, error)
}
