// Package opctx carries per-request operation and caller metadata on a
// context.Context, for consumption by logging, tracing, and archival
// middleware without threading extra parameters through every call.
package opctx

import (
	"context"
)

type key struct{}
type value struct {
	opDetails     OperationDetails
	callerDetails CallerDetails
}

// OperationDetails captures the shape of a bucketing request: which
// period and width were requested, and how many elements were bucketed.
type OperationDetails struct {
	Period       string
	Every        int
	OriginSet    bool
	ElementCount int
}

// CallerDetails captures caller identity for audit/archival purposes.
type CallerDetails struct {
	ClientID string
}

// Context constructs a context for storing operation data.
func Context(ctx context.Context) context.Context {
	return context.WithValue(ctx, key{}, &value{})
}

// SetOperationDetails sets the operation details in a context value that
// has been initialized using Context.
func SetOperationDetails(ctx context.Context, details OperationDetails) {
	if val, ok := ctx.Value(key{}).(*value); ok {
		val.opDetails = details
	}
}

// GetOperationDetails gets the operation details from a context value if
// present.
func GetOperationDetails(ctx context.Context) OperationDetails {
	if val, ok := ctx.Value(key{}).(*value); ok {
		return val.opDetails
	}
	return OperationDetails{}
}

// SetCallerDetails sets the caller details in a context value that has
// been initialized using Context.
func SetCallerDetails(ctx context.Context, details CallerDetails) {
	if val, ok := ctx.Value(key{}).(*value); ok {
		val.callerDetails = details
	}
}

// GetCallerDetails gets the caller details from a context value if
// present.
func GetCallerDetails(ctx context.Context) CallerDetails {
	if val, ok := ctx.Value(key{}).(*value); ok {
		return val.callerDetails
	}
	return CallerDetails{}
}
