package session

import (
	"context"
	"errors"
)

// ErrNoSession is returned by store operations when the context
// carries no session id.
var ErrNoSession = errors.New("session: no session bound to context")

type ctxKey struct{}

// WithID returns a context carrying the request's session id. The
// HTTP session middleware installs it; store operations read it back.
func WithID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, sessionID)
}

// IDFromContext returns the session id carried by ctx, if any.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok
}
