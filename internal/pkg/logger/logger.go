package logger

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// AddFields returns a context whose logger carries the extra fields
func AddFields(ctx context.Context, fields ...zap.Field) context.Context {
	return ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(fields...))
}

// WithAction tags the context logger with the flow being handled
func WithAction(ctx context.Context, action string) context.Context {
	return AddFields(ctx, zap.String("action", action))
}

// Detached returns a background context that keeps the request logger but
// not the request's cancellation, for work that outlives the request.
func Detached(ctx context.Context, fields ...zap.Field) context.Context {
	return AddFields(ctxzap.ToContext(context.Background(), ctxzap.Extract(ctx)), fields...)
}
