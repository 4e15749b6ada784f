package logger

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
	officeIDKey  contextKey = "office_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from context, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request id in ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithPrincipal stores the caller's user and office ids in ctx.
// A blank office is not recorded.
func WithPrincipal(ctx context.Context, userID int64, officeID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	if officeID != "" {
		ctx = context.WithValue(ctx, officeIDKey, officeID)
	}
	return ctx
}

// GetRequestID retrieves the request id from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetUserID retrieves the caller's user id, 0 when unauthenticated
func GetUserID(ctx context.Context) int64 {
	if userID, ok := ctx.Value(userIDKey).(int64); ok {
		return userID
	}
	return 0
}

// GetOfficeID retrieves the caller's office id
func GetOfficeID(ctx context.Context) string {
	if officeID, ok := ctx.Value(officeIDKey).(string); ok {
		return officeID
	}
	return ""
}

// GetTraceID extracts the trace ID from the context's span, "" when there is none
func GetTraceID(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}

// ContextFields returns the correlation fields carried by ctx
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 5)
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		fields = append(fields,
			zap.String("trace_id", spanCtx.TraceID().String()),
			zap.String("span_id", spanCtx.SpanID().String()),
		)
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if userID := GetUserID(ctx); userID != 0 {
		fields = append(fields, zap.String("user_id", strconv.FormatInt(userID, 10)))
	}
	if officeID := GetOfficeID(ctx); officeID != "" {
		fields = append(fields, zap.String("office_id", officeID))
	}
	return fields
}

// L returns the context's logger enriched with trace, request and caller fields.
// Usage: logger.L(ctx).Info("message", zap.Int64("reservation_id", id))
func L(ctx context.Context) *zap.Logger {
	return FromContext(ctx).With(ContextFields(ctx)...)
}

// For enriches base with the correlation fields of ctx.
// Services that hold their own logger use it to log per request.
func For(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return base.With(ContextFields(ctx)...)
}
