package common

import (
	"context"
)

type contextKey int

const (
	ContextKeyConfig contextKey = iota
)

// Attaches the global configuration to the context
func SetConfig(ctx context.Context, value interface{}) context.Context {
	return context.WithValue(ctx, ContextKeyConfig, value)
}

func GetConfig[T any](ctx context.Context) (out T, ok bool) {
	out, ok = ctx.Value(ContextKeyConfig).(T)
	return
}
