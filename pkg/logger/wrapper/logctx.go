package wrap

import (
	"context"
)

type (
	// LogCtx holds contextual information for logging
	LogCtx struct {
		Action    string
		RequestID string
		BusID     string
		RouteID   string
		ConnID    string
	}

	// logCtxKeyStruct is an unexported type for context keys defined in this package.
	logCtxKeyStruct struct{}
)

// LogCtxKey is the key for log context values
var LogCtxKey = &logCtxKeyStruct{}

// WithLogCtx returns a new context with the provided LogCtx merged over the existing one
func WithLogCtx(ctx context.Context, newLc LogCtx) context.Context {
	if lc, ok := ctx.Value(LogCtxKey).(LogCtx); ok {
		if newLc.Action == "" {
			newLc.Action = lc.Action
		}
		if newLc.RequestID == "" {
			newLc.RequestID = lc.RequestID
		}
		if newLc.BusID == "" {
			newLc.BusID = lc.BusID
		}
		if newLc.RouteID == "" {
			newLc.RouteID = lc.RouteID
		}
		if newLc.ConnID == "" {
			newLc.ConnID = lc.ConnID
		}
	}
	return context.WithValue(ctx, LogCtxKey, newLc)
}

// FromContext returns the LogCtx stored in ctx, if any
func FromContext(ctx context.Context) LogCtx {
	lc, _ := ctx.Value(LogCtxKey).(LogCtx)
	return lc
}

// WithRequestID adds or updates the RequestID in the LogCtx within the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	lc := FromContext(ctx)
	lc.RequestID = requestID
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithBusID adds or updates the BusID in the LogCtx within the context
func WithBusID(ctx context.Context, busID string) context.Context {
	lc := FromContext(ctx)
	lc.BusID = busID
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithRouteID adds or updates the RouteID in the LogCtx within the context
func WithRouteID(ctx context.Context, routeID string) context.Context {
	lc := FromContext(ctx)
	lc.RouteID = routeID
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithConnID adds or updates the websocket connection id in the LogCtx within the context
func WithConnID(ctx context.Context, connID string) context.Context {
	lc := FromContext(ctx)
	lc.ConnID = connID
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithAction adds or updates the Action in the LogCtx within the context
func WithAction(ctx context.Context, action string) context.Context {
	lc := FromContext(ctx)
	lc.Action = action
	return context.WithValue(ctx, LogCtxKey, lc)
}
