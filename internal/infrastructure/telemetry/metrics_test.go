package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	reservationapp "github.com/travel/backend/internal/application/reservation"
	"github.com/travel/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

var _ reservationapp.Metrics = (*telemetry.ReservationMetrics)(nil)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Sum[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := make(map[string]metricdata.Sum[int64])
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				sums[m.Name] = sum
			}
		}
	}
	return sums
}

func total(sum metricdata.Sum[int64]) int64 {
	var n int64
	for _, dp := range sum.DataPoints {
		n += dp.Value
	}
	return n
}

func TestReservationMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := telemetry.NewReservationMetrics(provider.Meter(telemetry.ReservationMetricsMeterName))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordReservationCreated(ctx, "full_payment")
	m.RecordReservationCreated(ctx, "installments")
	m.RecordReservationCreated(ctx, "installments")
	m.RecordReservationApproved(ctx)
	m.RecordReservationRejected(ctx)
	m.RecordInvoiceConflict(ctx)
	m.RecordInstallmentTransition(ctx, "pending", "paid")

	sums := collect(t, reader)
	assert.Equal(t, int64(3), total(sums["reservation.created"]))
	assert.Equal(t, int64(1), total(sums["reservation.approved"]))
	assert.Equal(t, int64(1), total(sums["reservation.rejected"]))
	assert.Equal(t, int64(1), total(sums["reservation.invoice_conflicts"]))

	created := sums["reservation.created"]
	require.Len(t, created.DataPoints, 2)
	for _, dp := range created.DataPoints {
		option, ok := dp.Attributes.Value(attribute.Key("payment_option"))
		require.True(t, ok)
		if option.AsString() == "installments" {
			assert.Equal(t, int64(2), dp.Value)
		} else {
			assert.Equal(t, int64(1), dp.Value)
		}
	}

	transitions := sums["installment.status_transitions"]
	require.Len(t, transitions.DataPoints, 1)
	to, _ := transitions.DataPoints[0].Attributes.Value(attribute.Key("to"))
	assert.Equal(t, "paid", to.AsString())
}
