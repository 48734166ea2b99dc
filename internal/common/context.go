package common

import (
	"context"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRequestID  contextKey = "request_id"
	ContextKeySourceFile contextKey = "source_file"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithSourceFile records the submitted file name for log correlation
func WithSourceFile(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ContextKeySourceFile, name)
}

// SourceFileFromContext extracts the submitted file name from context
func SourceFileFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(ContextKeySourceFile).(string); ok {
		return name
	}
	return ""
}
