package handler

import "context"

type requestIDKey struct{}

// WithRequestID returns a context carrying the request id assigned by
// middleware. Handlers echo it in the response envelope and header.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request id carried by ctx, if any.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}
