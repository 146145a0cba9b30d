package request

import "context"

type requestIDContextKey struct{}

// ContextWithID attaches the request id to a context so it can travel below
// the HTTP layer.
func ContextWithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

// IDFromContext returns the request id carried by the context, if any.
func IDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDContextKey{}).(string); ok {
		return v
	}
	return ""
}
