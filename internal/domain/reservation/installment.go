package reservation

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/travel/backend/internal/domain/identity"
	"github.com/travel/backend/internal/domain/shared"
)

// InstallmentStatus is the payment state of an installment. The reservation
// header's payment_status uses the same values.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
)

// IsValid checks if the status is a valid InstallmentStatus
func (s InstallmentStatus) IsValid() bool {
	return s == InstallmentPending || s == InstallmentPaid
}

// String returns the string representation of InstallmentStatus
func (s InstallmentStatus) String() string {
	return string(s)
}

// ParseInstallmentStatus validates a raw status value
func ParseInstallmentStatus(raw string) (InstallmentStatus, error) {
	s := InstallmentStatus(raw)
	if !s.IsValid() {
		return "", shared.NewInvalidArgumentError("status must be pending or paid, got %q", raw)
	}
	return s, nil
}

// Installment is one scheduled payment of a reservation
type Installment struct {
	ID            int64
	ReservationID int64
	Amount        decimal.Decimal
	DueDate       time.Time
	Status        InstallmentStatus
	PaymentDate   *time.Time
	ReceiptURL    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InstallmentOwnership is the projection read before authorizing an installment mutation
type InstallmentOwnership struct {
	ID            int64
	ReservationID int64
	Status        InstallmentStatus
	PaymentDate   *time.Time
}

// InstallmentTransition is the state an installment moves into
type InstallmentTransition struct {
	Status      InstallmentStatus
	PaymentDate *time.Time
}

// NextInstallmentState applies the payment state machine:
//   - a paid installment may only be changed by a superadmin
//   - moving to paid stamps today's date unless the installment was already paid
//   - moving to pending clears the payment date
func NextInstallmentState(current InstallmentOwnership, target InstallmentStatus, superAdmin bool, today time.Time) (InstallmentTransition, error) {
	if !target.IsValid() {
		return InstallmentTransition{}, shared.NewInvalidArgumentError("status must be pending or paid, got %q", string(target))
	}
	if err := EnsurePaidMutable(current.Status, superAdmin); err != nil {
		return InstallmentTransition{}, err
	}

	switch target {
	case InstallmentPaid:
		date := shared.TruncateToDate(today)
		if current.Status == InstallmentPaid && current.PaymentDate != nil {
			date = *current.PaymentDate
		}
		return InstallmentTransition{Status: InstallmentPaid, PaymentDate: &date}, nil
	default:
		return InstallmentTransition{Status: InstallmentPending}, nil
	}
}

// EnsurePaidMutable denies any change to a paid installment unless the actor is a superadmin
func EnsurePaidMutable(current InstallmentStatus, superAdmin bool) error {
	if current == InstallmentPaid && !superAdmin {
		return shared.NewForbiddenError("a paid installment can only be modified by a superadmin",
			identity.RoleSuperAdmin.String())
	}
	return nil
}

// InstallmentChanges is a partial update; nil fields are left untouched
type InstallmentChanges struct {
	Amount           *decimal.Decimal
	DueDate          *time.Time
	Status           *InstallmentStatus
	PaymentDate      *time.Time
	ClearPaymentDate bool
	ReceiptURL       *string
}

// IsEmpty reports whether no field is set
func (c InstallmentChanges) IsEmpty() bool {
	return c.Amount == nil && c.DueDate == nil && c.Status == nil &&
		c.PaymentDate == nil && !c.ClearPaymentDate && c.ReceiptURL == nil
}

// Validate checks the supplied fields
func (c InstallmentChanges) Validate() error {
	if c.Amount != nil && c.Amount.IsNegative() {
		return shared.NewInvalidArgumentError("amount cannot be negative")
	}
	if c.Status != nil && !c.Status.IsValid() {
		return shared.NewInvalidArgumentError("status must be pending or paid, got %q", string(*c.Status))
	}
	if c.PaymentDate != nil && c.ClearPaymentDate {
		return shared.NewInvalidArgumentError("payment_date cannot be both set and cleared")
	}
	return nil
}
