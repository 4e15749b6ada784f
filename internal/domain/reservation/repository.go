package reservation

import (
	"context"

	"github.com/travel/backend/internal/domain/shared"
)

// ChildSet selects owned child collections of the aggregate
type ChildSet uint16

const (
	ChildSegments ChildSet = 1 << iota
	ChildFlights
	ChildHotels
	ChildTours
	ChildMedicalAssistances
	ChildInstallments
	ChildPassengers
	ChildAttachments
	ChildTransfers
)

// AllChildren selects every owned collection
const AllChildren = ChildSegments | ChildFlights | ChildHotels | ChildTours |
	ChildMedicalAssistances | ChildInstallments | ChildPassengers | ChildAttachments | ChildTransfers

// EditableChildren is every collection a generic reservation edit may replace.
// Installments are owned by the installment endpoints.
const EditableChildren = AllChildren &^ ChildInstallments

// Has reports whether the set includes c
func (s ChildSet) Has(c ChildSet) bool {
	return s&c != 0
}

// Store is the transactional persistence boundary of the aggregate.
// Repositories obtained from the tx argument of Transaction share one
// database transaction; any error returned by fn rolls everything back.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error
	Clients() ClientRepository
	Reservations() ReservationRepository
	Installments() InstallmentRepository
}

// ClientRepository persists clients
type ClientRepository interface {
	// FindByEmail finds a client by normalized email
	FindByEmail(ctx context.Context, email string) (*Client, error)

	// FindOrCreate returns the client with the same email, inserting it when absent.
	// Safe under concurrent calls for the same email.
	FindOrCreate(ctx context.Context, client *Client) (*Client, error)
}

// ReservationRepository persists the reservation header and its owned collections
type ReservationRepository interface {
	// FindByID loads the full aggregate with every child collection
	FindByID(ctx context.Context, id int64) (*Reservation, error)

	// FindOwnership loads the authorization projection
	FindOwnership(ctx context.Context, id int64) (*ReservationOwnership, error)

	// List returns headers visible in scope with the total count
	List(ctx context.Context, scope ListScope, filter shared.Filter) ([]Reservation, int64, error)

	// LockHeader loads the header under a row lock for the rest of the transaction
	LockHeader(ctx context.Context, id int64) (*Reservation, error)

	// CreateHeader inserts the header and sets its generated id
	CreateHeader(ctx context.Context, r *Reservation) error

	// UpdateHeader overwrites editable header columns (not status, invoice_number or payment_status)
	UpdateHeader(ctx context.Context, r *Reservation) error

	// InsertChildren bulk-inserts the selected collections, parents before children
	InsertChildren(ctx context.Context, r *Reservation, set ChildSet) error

	// DeleteChildren removes the selected collections of a reservation, children before parents
	DeleteChildren(ctx context.Context, reservationID int64, set ChildSet) error

	// DeleteHeader removes the header row
	DeleteHeader(ctx context.Context, id int64) error

	// Confirm sets status=confirmed and the invoice number.
	// A duplicate invoice number is reported as a retryable conflict.
	Confirm(ctx context.Context, id int64, invoiceNumber int64) error

	// SetStatus changes the approval status
	SetStatus(ctx context.Context, id int64, status Status) error

	// MirrorPaymentStatus copies status onto payment_status when the reservation is a
	// full-payment plan. It reports whether a row was changed.
	MirrorPaymentStatus(ctx context.Context, id int64, status InstallmentStatus) (bool, error)

	// MaxInvoiceNumber returns the highest invoice number issued so far, 0 when none
	MaxInvoiceNumber(ctx context.Context) (int64, error)
}

// InstallmentRepository persists installments
type InstallmentRepository interface {
	// FindByID loads one installment
	FindByID(ctx context.Context, id int64) (*Installment, error)

	// FindOwnership loads the authorization projection
	FindOwnership(ctx context.Context, id int64) (*InstallmentOwnership, error)

	// LockByID loads one installment under a row lock for the rest of the transaction
	LockByID(ctx context.Context, id int64) (*Installment, error)

	// Update writes only the supplied fields
	Update(ctx context.Context, id int64, changes InstallmentChanges) error
}

// InvoiceNumberAllocator issues unique, monotonically increasing invoice numbers
type InvoiceNumberAllocator interface {
	Next(ctx context.Context) (int64, error)
}
