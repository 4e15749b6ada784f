package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ReservationMetricsMeterName is the instrumentation scope of the reservation counters
const ReservationMetricsMeterName = "github.com/travel/backend/reservation"

// ReservationMetrics records reservation business events as OpenTelemetry counters
type ReservationMetrics struct {
	created                metric.Int64Counter
	approved               metric.Int64Counter
	rejected               metric.Int64Counter
	invoiceConflicts       metric.Int64Counter
	installmentTransitions metric.Int64Counter
}

// NewReservationMetrics creates the reservation counters on meter
func NewReservationMetrics(meter metric.Meter) (*ReservationMetrics, error) {
	m := &ReservationMetrics{}
	var err error

	if m.created, err = meter.Int64Counter("reservation.created",
		metric.WithDescription("Reservations created"),
		metric.WithUnit("{reservation}"),
	); err != nil {
		return nil, fmt.Errorf("reservation.created counter: %w", err)
	}
	if m.approved, err = meter.Int64Counter("reservation.approved",
		metric.WithDescription("Reservations approved with an invoice number"),
		metric.WithUnit("{reservation}"),
	); err != nil {
		return nil, fmt.Errorf("reservation.approved counter: %w", err)
	}
	if m.rejected, err = meter.Int64Counter("reservation.rejected",
		metric.WithDescription("Reservations rejected"),
		metric.WithUnit("{reservation}"),
	); err != nil {
		return nil, fmt.Errorf("reservation.rejected counter: %w", err)
	}
	if m.invoiceConflicts, err = meter.Int64Counter("reservation.invoice_conflicts",
		metric.WithDescription("Approvals that lost an invoice number to a uniqueness conflict"),
		metric.WithUnit("{conflict}"),
	); err != nil {
		return nil, fmt.Errorf("reservation.invoice_conflicts counter: %w", err)
	}
	if m.installmentTransitions, err = meter.Int64Counter("installment.status_transitions",
		metric.WithDescription("Installment status changes by source and target status"),
		metric.WithUnit("{transition}"),
	); err != nil {
		return nil, fmt.Errorf("installment.status_transitions counter: %w", err)
	}
	return m, nil
}

// RecordReservationCreated counts a created reservation by payment option
func (m *ReservationMetrics) RecordReservationCreated(ctx context.Context, paymentOption string) {
	m.created.Add(ctx, 1, metric.WithAttributes(attribute.String("payment_option", paymentOption)))
}

// RecordReservationApproved counts an approval
func (m *ReservationMetrics) RecordReservationApproved(ctx context.Context) {
	m.approved.Add(ctx, 1)
}

// RecordReservationRejected counts a rejection
func (m *ReservationMetrics) RecordReservationRejected(ctx context.Context) {
	m.rejected.Add(ctx, 1)
}

// RecordInvoiceConflict counts an invoice number uniqueness conflict
func (m *ReservationMetrics) RecordInvoiceConflict(ctx context.Context) {
	m.invoiceConflicts.Add(ctx, 1)
}

// RecordInstallmentTransition counts an installment status change
func (m *ReservationMetrics) RecordInstallmentTransition(ctx context.Context, from, to string) {
	m.installmentTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}
