package reservation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/travel/backend/internal/domain/shared"
)

// Status represents the approval status of a reservation
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	if s != StatusPending {
		return false // confirmed and rejected are terminal
	}
	return target == StatusConfirmed || target == StatusRejected
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// PaymentOption is how the client pays the reservation
type PaymentOption string

const (
	PaymentOptionFull         PaymentOption = "full_payment"
	PaymentOptionInstallments PaymentOption = "installments"
)

// IsValid checks if the option is a valid PaymentOption
func (o PaymentOption) IsValid() bool {
	return o == PaymentOptionFull || o == PaymentOptionInstallments
}

// TransferType is the direction of an airport transfer
type TransferType string

const (
	TransferArrival   TransferType = "arrival"
	TransferDeparture TransferType = "departure"
)

// IsValid checks if the transfer type is valid
func (t TransferType) IsValid() bool {
	return t == TransferArrival || t == TransferDeparture
}

// Client is the traveller who holds the reservation. Clients are shared
// between reservations and identified by email.
type Client struct {
	ID             int64
	Name           string
	Lastname       string
	Email          string
	Phone          string
	DocumentType   string
	DocumentNumber string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NormalizeEmail lower-cases and trims an email for lookups
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeOfficeID trims an office id. A blank office is the same as no office.
func NormalizeOfficeID(officeID *string) *string {
	if officeID == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*officeID)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Segment is one origin/destination leg of the trip
type Segment struct {
	ID            int64
	ReservationID int64
	Origin        string
	Destination   string
	DepartureDate time.Time
	ReturnDate    *time.Time
}

// Flight is a booked flight; it owns its itineraries
type Flight struct {
	ID               int64
	ReservationID    int64
	Airline          string
	FlightCategory   string
	BaggageAllowance string
	PNR              string
	Itineraries      []FlightItinerary
}

// FlightItinerary is one hop of a flight
type FlightItinerary struct {
	ID            int64
	FlightID      int64
	ReservationID int64
	FlightNumber  string
	DepartureTime time.Time
	ArrivalTime   time.Time
}

// Hotel is a booked hotel; it owns accommodations and inclusions
type Hotel struct {
	ID             int64
	ReservationID  int64
	Name           string
	RoomCategory   string
	MealPlan       string
	Accommodations []Accommodation
	Inclusions     []Inclusion
}

// Accommodation is a room distribution inside a hotel
type Accommodation struct {
	ID            int64
	HotelID       int64
	ReservationID int64
	Rooms         int
	ADT           int
	CHD           int
	INF           int
}

// Inclusion is a free-text service included in a hotel stay
type Inclusion struct {
	ID            int64
	HotelID       int64
	ReservationID int64
	Text          string
}

// Tour is an excursion sold with the reservation
type Tour struct {
	ID            int64
	ReservationID int64
	Name          string
	Date          time.Time
	Cost          decimal.Decimal
}

// MedicalAssistance is a travel assistance plan
type MedicalAssistance struct {
	ID            int64
	ReservationID int64
	PlanType      string
	StartDate     time.Time
	EndDate       time.Time
}

// Passenger is a traveller listed on the reservation
type Passenger struct {
	ID             int64
	ReservationID  int64
	Name           string
	Lastname       string
	DocumentType   string
	DocumentNumber string
	BirthDate      *time.Time
}

// Attachment is a document linked to the reservation
type Attachment struct {
	ID            int64
	ReservationID int64
	Title         string
	Observation   string
	FileURL       string
}

// Transfer is an airport transfer bound to a segment.
// SegmentIndex addresses the segment by its position in the same aggregate
// before ids exist; it is resolved into SegmentID on write.
type Transfer struct {
	ID            int64
	ReservationID int64
	SegmentID     int64
	SegmentIndex  *int
	TransferType  TransferType
}

// Reservation is the aggregate root of a travel booking
type Reservation struct {
	ID              int64
	ClientID        int64
	Client          *Client
	ReservationType string
	Status          Status
	PaymentOption   PaymentOption
	PaymentStatus   InstallmentStatus
	InvoiceNumber   *int64
	AdvisorID       int64
	OfficeID        *string
	TotalAmount     decimal.Decimal
	PricePerADT     decimal.Decimal
	PricePerCHD     decimal.Decimal
	PricePerINF     decimal.Decimal
	PassengersADT   int
	PassengersCHD   int
	PassengersINF   int
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Segments           []Segment
	Flights            []Flight
	Hotels             []Hotel
	Tours              []Tour
	MedicalAssistances []MedicalAssistance
	Installments       []Installment
	Passengers         []Passenger
	Attachments        []Attachment
	Transfers          []Transfer
}

// Validate checks header fields and child references that must hold before persistence
func (r *Reservation) Validate() error {
	if !r.PaymentOption.IsValid() {
		return shared.NewInvalidArgumentError("payment_option must be one of full_payment, installments")
	}
	if r.AdvisorID <= 0 {
		return shared.NewInvalidArgumentError("advisor_id must be a positive integer")
	}
	if r.TotalAmount.IsNegative() {
		return shared.NewInvalidArgumentError("total_amount cannot be negative")
	}
	if r.PassengersADT < 0 || r.PassengersCHD < 0 || r.PassengersINF < 0 {
		return shared.NewInvalidArgumentError("passenger counts cannot be negative")
	}
	for i, t := range r.Transfers {
		if !t.TransferType.IsValid() {
			return shared.NewInvalidArgumentError("transfers[%d].transfer_type must be arrival or departure", i)
		}
		if t.SegmentIndex == nil {
			return shared.NewInvalidArgumentError("transfers[%d].segment_index is required", i)
		}
		if *t.SegmentIndex < 0 || *t.SegmentIndex >= len(r.Segments) {
			return shared.NewInvalidArgumentError("transfers[%d].segment_index %d is out of range", i, *t.SegmentIndex)
		}
	}
	for i, inst := range r.Installments {
		if inst.Amount.IsNegative() {
			return shared.NewInvalidArgumentError("installments[%d].amount cannot be negative", i)
		}
		if inst.Status != "" && !inst.Status.IsValid() {
			return shared.NewInvalidArgumentError("installments[%d].status must be pending or paid", i)
		}
	}
	return nil
}

// InstallmentTotal sums installment amounts
func (r *Reservation) InstallmentTotal() decimal.Decimal {
	total := decimal.Zero
	for _, inst := range r.Installments {
		total = total.Add(inst.Amount)
	}
	return total
}

// InstallmentsBalanced reports whether installments add up to the total amount.
// Reservations without installments are considered balanced.
func (r *Reservation) InstallmentsBalanced() bool {
	if len(r.Installments) == 0 {
		return true
	}
	return r.InstallmentTotal().Equal(r.TotalAmount)
}

// PrepareNew sets the lifecycle fields of a freshly created reservation
func (r *Reservation) PrepareNew(now time.Time) {
	r.ID = 0
	r.Status = StatusPending
	r.PaymentStatus = InstallmentPending
	r.InvoiceNumber = nil
	r.CreatedAt = now
	r.UpdatedAt = now
	for i := range r.Installments {
		if r.Installments[i].Status == "" {
			r.Installments[i].Status = InstallmentPending
		}
	}
}

// ReservationOwnership is the minimal projection used for authorization.
// Status is read without a lock and only serves early rejections.
type ReservationOwnership struct {
	ID        int64
	AdvisorID int64
	OfficeID  *string
	Status    Status
}

// Office returns the office id, or "" when unset
func (o ReservationOwnership) Office() string {
	if o.OfficeID == nil {
		return ""
	}
	return *o.OfficeID
}

// ListScope restricts which reservations a list query may return
type ListScope struct {
	All       bool
	AdvisorID *int64
	OfficeID  *string
}

// IsEmpty reports whether the scope can match nothing
func (s ListScope) IsEmpty() bool {
	return !s.All && s.AdvisorID == nil && s.OfficeID == nil
}
