package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // include bound values in db.statement (dev only)
	SlowQueryThresh time.Duration // queries above this get a slow_query event
	DBName          string
	TracerProvider  trace.TracerProvider // defaults to the global provider
}

// DefaultDBTracingConfig returns the secure defaults: tracing off, no query variables.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 200 * time.Millisecond,
		DBName:          "travel",
	}
}

type startTimeKey struct{}

// RegisterDBTracing installs the otelgorm plugin plus a callback pair that
// flags statement spans slower than the configured threshold. The after
// callbacks run before otelgorm ends the span.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, startTimeKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) {
		annotateSpan(tx, cfg.SlowQueryThresh)
	}

	cb := db.Callback()
	registrations := []struct {
		name     string
		register func(string, func(*gorm.DB)) error
		fn       func(*gorm.DB)
	}{
		{"before_create", cb.Create().Before("gorm:create").Register, before},
		{"before_query", cb.Query().Before("gorm:query").Register, before},
		{"before_update", cb.Update().Before("gorm:update").Register, before},
		{"before_delete", cb.Delete().Before("gorm:delete").Register, before},
		{"before_row", cb.Row().Before("gorm:row").Register, before},
		{"before_raw", cb.Raw().Before("gorm:raw").Register, before},
		{"after_create", cb.Create().After("gorm:create").Before("otel:after:create").Register, after},
		{"after_query", cb.Query().After("gorm:query").Before("otel:after:select").Register, after},
		{"after_update", cb.Update().After("gorm:update").Before("otel:after:update").Register, after},
		{"after_delete", cb.Delete().After("gorm:delete").Before("otel:after:delete").Register, after},
		{"after_row", cb.Row().After("gorm:row").Before("otel:after:row").Register, after},
		{"after_raw", cb.Raw().After("gorm:raw").Before("otel:after:raw").Register, after},
	}
	for _, r := range registrations {
		if err := r.register("travel_db:"+r.name, r.fn); err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func annotateSpan(tx *gorm.DB, slowThreshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil || slowThreshold <= 0 {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	start, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > slowThreshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", slowThreshold.Milliseconds()),
		))
	}
}
