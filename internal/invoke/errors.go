// internal/invoke/errors.go
package invoke

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies an invocation failure. The dispatcher maps every kind to a
// JSON-RPC internal error but preserves the kind and detail for diagnosis.
type Kind int

const (
	// KindTimeout means the backend did not answer within the deadline.
	KindTimeout Kind = iota + 1
	// KindUnreachable means the backend could not be reached at all.
	KindUnreachable
	// KindRejected means the backend answered and refused the request.
	KindRejected
	// KindCrashed means the backend failed while servicing the request.
	KindCrashed
)

// String returns the stable label used in error.data and logs.
func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindUnreachable:
		return "backend_unreachable"
	case KindRejected:
		return "backend_rejected"
	case KindCrashed:
		return "backend_crashed"
	default:
		return "unknown"
	}
}

// Error is the classified invocation failure returned by every backend.
type Error struct {
	Kind   Kind
	Ref    string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Ref, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Ref)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, ref, detail string, cause error) *Error {
	return &Error{Kind: kind, Ref: ref, Detail: detail, Err: cause}
}

// Classify coerces any error coming out of a backend into an *Error.
// Context expiry becomes a timeout; everything unclassified counts as a
// backend crash.
func Classify(ref string, err error) *Error {
	var invErr *Error
	if errors.As(err, &invErr) {
		return invErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return newError(KindTimeout, ref, err.Error(), err)
	}
	return newError(KindCrashed, ref, err.Error(), err)
}
