package domain

import "context"

type debugKey struct{}

// WithDebug marks the call context so observers watching the dispatch report
// it verbosely. The flag rides the context rather than the request value, so
// dispatch logic itself never branches on it.
func WithDebug(ctx context.Context) context.Context {
	return context.WithValue(ctx, debugKey{}, true)
}

// DebugEnabled reports whether WithDebug was applied to ctx.
func DebugEnabled(ctx context.Context) bool {
	enabled, _ := ctx.Value(debugKey{}).(bool)
	return enabled
}
