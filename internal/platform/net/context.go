// Package net provides utilities for working with request contexts
package net

import (
	"context"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const keyRequestID ctxKey = "request_id"

// WithRequestID annotates context with the correlation id for this request
func WithRequestID(ctx context.Context, reqID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, keyRequestID, reqID)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(keyRequestID).(string); ok {
		return v
	}
	return ""
}
