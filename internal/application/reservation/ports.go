package reservation

import "context"

// BlobStorage stores uploaded files and returns a URL to reach them.
// Implemented by the infrastructure layer (S3, in-memory).
type BlobStorage interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// Metrics receives business events from the reservation services
type Metrics interface {
	RecordReservationCreated(ctx context.Context, paymentOption string)
	RecordReservationApproved(ctx context.Context)
	RecordReservationRejected(ctx context.Context)
	RecordInvoiceConflict(ctx context.Context)
	RecordInstallmentTransition(ctx context.Context, from, to string)
}

type noopMetrics struct{}

func (noopMetrics) RecordReservationCreated(context.Context, string)            {}
func (noopMetrics) RecordReservationApproved(context.Context)                   {}
func (noopMetrics) RecordReservationRejected(context.Context)                   {}
func (noopMetrics) RecordInvoiceConflict(context.Context)                       {}
func (noopMetrics) RecordInstallmentTransition(context.Context, string, string) {}
