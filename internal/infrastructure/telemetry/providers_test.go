package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travel/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestStart_Disabled(t *testing.T) {
	ctx := context.Background()
	providers, err := telemetry.Start(ctx, telemetry.Config{ServiceName: "travel-backend"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, providers.Tracer.IsEnabled())
	assert.False(t, providers.Meter.IsEnabled())
	assert.False(t, providers.Logs.IsEnabled())

	base := zap.NewNop()
	assert.Same(t, base, providers.Logs.Bridge(base))
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestProviders_ShutdownPartial(t *testing.T) {
	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	providers := &telemetry.Providers{Tracer: tp}
	assert.NoError(t, providers.Shutdown(ctx))
}
