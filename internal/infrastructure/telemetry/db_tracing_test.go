package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travel/backend/internal/infrastructure/telemetry"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedOffice struct {
	ID   int64
	Code string
}

func openTracedDB(t *testing.T, cfg telemetry.DBTracingConfig) (*gorm.DB, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	cfg.TracerProvider = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedOffice{}))
	require.NoError(t, telemetry.RegisterDBTracing(db, cfg, zaptest.NewLogger(t)))
	return db, recorder
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db, recorder := openTracedDB(t, telemetry.DefaultDBTracingConfig())

	require.NoError(t, db.Create(&tracedOffice{Code: "BOG"}).Error)
	assert.Empty(t, recorder.Ended())
}

func TestRegisterDBTracing_RecordsStatementSpans(t *testing.T) {
	cfg := telemetry.DefaultDBTracingConfig()
	cfg.Enabled = true
	db, recorder := openTracedDB(t, cfg)
	ctx := context.Background()

	require.NoError(t, db.WithContext(ctx).Create(&tracedOffice{Code: "BOG"}).Error)
	var got tracedOffice
	require.NoError(t, db.WithContext(ctx).First(&got, "code = ?", "BOG").Error)

	names := make([]string, 0)
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
		for _, attr := range span.Attributes() {
			if attr.Key == "db.statement" {
				assert.NotContains(t, attr.Value.AsString(), "BOG", "query variables are masked")
			}
		}
	}
	assert.Contains(t, names, "gorm.Create")
	assert.Contains(t, names, "gorm.Query")
}

func TestRegisterDBTracing_FlagsSlowQueries(t *testing.T) {
	cfg := telemetry.DefaultDBTracingConfig()
	cfg.Enabled = true
	cfg.SlowQueryThresh = time.Nanosecond
	db, recorder := openTracedDB(t, cfg)

	var offices []tracedOffice
	require.NoError(t, db.WithContext(context.Background()).Find(&offices).Error)

	var flagged bool
	for _, span := range recorder.Ended() {
		for _, attr := range span.Attributes() {
			if attr.Key == "db.slow_query" && attr.Value.AsBool() {
				flagged = true
			}
		}
	}
	assert.True(t, flagged)
}
