package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/travel/backend/internal/domain/reservation"
)

// ClientModel is the persistence model for the Client entity.
type ClientModel struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	Name           string    `gorm:"type:varchar(200);not null"`
	Lastname       string    `gorm:"type:varchar(200)"`
	Email          string    `gorm:"type:varchar(254);not null;uniqueIndex:idx_clients_email"`
	Phone          string    `gorm:"type:varchar(50)"`
	DocumentType   string    `gorm:"type:varchar(30)"`
	DocumentNumber string    `gorm:"type:varchar(50)"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client
func (m *ClientModel) ToDomain() *reservation.Client {
	return &reservation.Client{
		ID:             m.ID,
		Name:           m.Name,
		Lastname:       m.Lastname,
		Email:          m.Email,
		Phone:          m.Phone,
		DocumentType:   m.DocumentType,
		DocumentNumber: m.DocumentNumber,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ClientModelFromDomain creates a persistence model from a domain Client
func ClientModelFromDomain(c *reservation.Client) *ClientModel {
	return &ClientModel{
		ID:             c.ID,
		Name:           c.Name,
		Lastname:       c.Lastname,
		Email:          reservation.NormalizeEmail(c.Email),
		Phone:          c.Phone,
		DocumentType:   c.DocumentType,
		DocumentNumber: c.DocumentNumber,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ReservationModel is the persistence model for the reservation header.
type ReservationModel struct {
	ID              int64                         `gorm:"primaryKey;autoIncrement"`
	ClientID        int64                         `gorm:"not null;index"`
	Client          *ClientModel                  `gorm:"foreignKey:ClientID"`
	ReservationType string                        `gorm:"type:varchar(50)"`
	Status          reservation.Status            `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentOption   reservation.PaymentOption     `gorm:"type:varchar(20);not null"`
	PaymentStatus   reservation.InstallmentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	InvoiceNumber   *int64                        `gorm:"uniqueIndex:idx_reservations_invoice_number"`
	AdvisorID       int64                         `gorm:"not null;index"`
	OfficeID        *string                       `gorm:"type:varchar(64);index"`
	TotalAmount     decimal.Decimal               `gorm:"type:decimal(18,2);not null;default:0"`
	PricePerADT     decimal.Decimal               `gorm:"column:price_per_adt;type:decimal(18,2);not null;default:0"`
	PricePerCHD     decimal.Decimal               `gorm:"column:price_per_chd;type:decimal(18,2);not null;default:0"`
	PricePerINF     decimal.Decimal               `gorm:"column:price_per_inf;type:decimal(18,2);not null;default:0"`
	PassengersADT   int                           `gorm:"column:passengers_adt;not null;default:0"`
	PassengersCHD   int                           `gorm:"column:passengers_chd;not null;default:0"`
	PassengersINF   int                           `gorm:"column:passengers_inf;not null;default:0"`
	Notes           string                        `gorm:"type:text"`
	CreatedAt       time.Time                     `gorm:"not null"`
	UpdatedAt       time.Time                     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReservationModel) TableName() string {
	return "reservations"
}

// ToDomain converts the header to a domain Reservation without children
func (m *ReservationModel) ToDomain() *reservation.Reservation {
	r := &reservation.Reservation{
		ID:              m.ID,
		ClientID:        m.ClientID,
		ReservationType: m.ReservationType,
		Status:          m.Status,
		PaymentOption:   m.PaymentOption,
		PaymentStatus:   m.PaymentStatus,
		InvoiceNumber:   m.InvoiceNumber,
		AdvisorID:       m.AdvisorID,
		OfficeID:        m.OfficeID,
		TotalAmount:     m.TotalAmount,
		PricePerADT:     m.PricePerADT,
		PricePerCHD:     m.PricePerCHD,
		PricePerINF:     m.PricePerINF,
		PassengersADT:   m.PassengersADT,
		PassengersCHD:   m.PassengersCHD,
		PassengersINF:   m.PassengersINF,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.Client != nil {
		r.Client = m.Client.ToDomain()
	}
	return r
}

// ReservationModelFromDomain creates a header model from a domain Reservation
func ReservationModelFromDomain(r *reservation.Reservation) *ReservationModel {
	return &ReservationModel{
		ID:              r.ID,
		ClientID:        r.ClientID,
		ReservationType: r.ReservationType,
		Status:          r.Status,
		PaymentOption:   r.PaymentOption,
		PaymentStatus:   r.PaymentStatus,
		InvoiceNumber:   r.InvoiceNumber,
		AdvisorID:       r.AdvisorID,
		OfficeID:        reservation.NormalizeOfficeID(r.OfficeID),
		TotalAmount:     r.TotalAmount,
		PricePerADT:     r.PricePerADT,
		PricePerCHD:     r.PricePerCHD,
		PricePerINF:     r.PricePerINF,
		PassengersADT:   r.PassengersADT,
		PassengersCHD:   r.PassengersCHD,
		PassengersINF:   r.PassengersINF,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ReservationOwnershipRow is the projection scanned for authorization checks
type ReservationOwnershipRow struct {
	ID        int64
	AdvisorID int64
	OfficeID  *string
	Status    string
}

// SegmentModel is the persistence model for a trip segment.
type SegmentModel struct {
	ID            int64      `gorm:"primaryKey;autoIncrement"`
	ReservationID int64      `gorm:"not null;index"`
	Origin        string     `gorm:"type:varchar(100);not null"`
	Destination   string     `gorm:"type:varchar(100);not null"`
	DepartureDate time.Time  `gorm:"type:date"`
	ReturnDate    *time.Time `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (SegmentModel) TableName() string {
	return "segments"
}

// ToDomain converts the persistence model to a domain Segment
func (m *SegmentModel) ToDomain() reservation.Segment {
	return reservation.Segment{
		ID:            m.ID,
		ReservationID: m.ReservationID,
		Origin:        m.Origin,
		Destination:   m.Destination,
		DepartureDate: m.DepartureDate,
		ReturnDate:    m.ReturnDate,
	}
}

// FlightModel is the persistence model for a flight.
type FlightModel struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	ReservationID    int64  `gorm:"not null;index"`
	Airline          string `gorm:"type:varchar(100);not null"`
	FlightCategory   string `gorm:"type:varchar(50)"`
	BaggageAllowance string `gorm:"type:varchar(100)"`
	PNR              string `gorm:"column:pnr;type:varchar(20)"`
}

// TableName returns the table name for GORM
func (FlightModel) TableName() string {
	return "flights"
}

// ToDomain converts the persistence model to a domain Flight without itineraries
func (m *FlightModel) ToDomain() reservation.Flight {
	return reservation.Flight{
		ID:               m.ID,
		ReservationID:    m.ReservationID,
		Airline:          m.Airline,
		FlightCategory:   m.FlightCategory,
		BaggageAllowance: m.BaggageAllowance,
		PNR:              m.PNR,
	}
}

// FlightItineraryModel is the persistence model for a flight itinerary.
// reservation_id is denormalized so a reservation's rows can be deleted in one statement.
type FlightItineraryModel struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	FlightID      int64  `gorm:"not null;index"`
	ReservationID int64  `gorm:"not null;index"`
	FlightNumber  string `gorm:"type:varchar(20);not null"`
	DepartureTime time.Time
	ArrivalTime   time.Time
}

// TableName returns the table name for GORM
func (FlightItineraryModel) TableName() string {
	return "flight_itineraries"
}

// ToDomain converts the persistence model to a domain FlightItinerary
func (m *FlightItineraryModel) ToDomain() reservation.FlightItinerary {
	return reservation.FlightItinerary{
		ID:            m.ID,
		FlightID:      m.FlightID,
		ReservationID: m.ReservationID,
		FlightNumber:  m.FlightNumber,
		DepartureTime: m.DepartureTime,
		ArrivalTime:   m.ArrivalTime,
	}
}

// HotelModel is the persistence model for a hotel booking.
type HotelModel struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	ReservationID int64  `gorm:"not null;index"`
	Name          string `gorm:"type:varchar(200);not null"`
	RoomCategory  string `gorm:"type:varchar(100)"`
	MealPlan      string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (HotelModel) TableName() string {
	return "hotels"
}

// ToDomain converts the persistence model to a domain Hotel without children
func (m *HotelModel) ToDomain() reservation.Hotel {
	return reservation.Hotel{
		ID:            m.ID,
		ReservationID: m.ReservationID,
		Name:          m.Name,
		RoomCategory:  m.RoomCategory,
		MealPlan:      m.MealPlan,
	}
}

// AccommodationModel is the persistence model for a hotel room distribution.
type AccommodationModel struct {
	ID            int64 `gorm:"primaryKey;autoIncrement"`
	HotelID       int64 `gorm:"not null;index"`
	ReservationID int64 `gorm:"not null;index"`
	Rooms         int   `gorm:"not null;default:0"`
	ADT           int   `gorm:"column:adt;not null;default:0"`
	CHD           int   `gorm:"column:chd;not null;default:0"`
	INF           int   `gorm:"column:inf;not null;default:0"`
}

// TableName returns the table name for GORM
func (AccommodationModel) TableName() string {
	return "accommodations"
}

// ToDomain converts the persistence model to a domain Accommodation
func (m *AccommodationModel) ToDomain() reservation.Accommodation {
	return reservation.Accommodation{
		ID:            m.ID,
		HotelID:       m.HotelID,
		ReservationID: m.ReservationID,
		Rooms:         m.Rooms,
		ADT:           m.ADT,
		CHD:           m.CHD,
		INF:           m.INF,
	}
}

// InclusionModel is the persistence model for a hotel inclusion.
type InclusionModel struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	HotelID       int64  `gorm:"not null;index"`
	ReservationID int64  `gorm:"not null;index"`
	Text          string `gorm:"type:varchar(500);not null"`
}

// TableName returns the table name for GORM
func (InclusionModel) TableName() string {
	return "inclusions"
}

// ToDomain converts the persistence model to a domain Inclusion
func (m *InclusionModel) ToDomain() reservation.Inclusion {
	return reservation.Inclusion{
		ID:            m.ID,
		HotelID:       m.HotelID,
		ReservationID: m.ReservationID,
		Text:          m.Text,
	}
}

// TourModel is the persistence model for a tour.
type TourModel struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	ReservationID int64           `gorm:"not null;index"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Date          time.Time       `gorm:"type:date"`
	Cost          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (TourModel) TableName() string {
	return "tours"
}

// ToDomain converts the persistence model to a domain Tour
func (m *TourModel) ToDomain() reservation.Tour {
	return reservation.Tour{
		ID:            m.ID,
		ReservationID: m.ReservationID,
		Name:          m.Name,
		Date:          m.Date,
		Cost:          m.Cost,
	}
}

// MedicalAssistanceModel is the persistence model for a medical assistance plan.
type MedicalAssistanceModel struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	ReservationID int64     `gorm:"not null;index"`
	PlanType      string    `gorm:"type:varchar(100);not null"`
	StartDate     time.Time `gorm:"type:date"`
	EndDate       time.Time `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (MedicalAssistanceModel) TableName() string {
	return "medical_assistances"
}

// ToDomain converts the persistence model to a domain MedicalAssistance
func (m *MedicalAssistanceModel) ToDomain() reservation.MedicalAssistance {
	return reservation.MedicalAssistance{
		ID:            m.ID,
		ReservationID: m.ReservationID,
		PlanType:      m.PlanType,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
	}
}

// InstallmentModel is the persistence model for an installment.
type InstallmentModel struct {
	ID            int64                         `gorm:"primaryKey;autoIncrement"`
	ReservationID int64                         `gorm:"not null;index"`
	Amount        decimal.Decimal               `gorm:"type:decimal(18,2);not null;default:0"`
	DueDate       time.Time                     `gorm:"type:date"`
	Status        reservation.InstallmentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentDate   *time.Time                    `gorm:"type:date"`
	ReceiptURL    string                        `gorm:"type:varchar(1024)"`
	CreatedAt     time.Time                     `gorm:"not null"`
	UpdatedAt     time.Time                     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InstallmentModel) TableName() string {
	return "installments"
}

// ToDomain converts the persistence model to a domain Installment
func (m *InstallmentModel) ToDomain() *reservation.Installment {
	return &reservation.Installment{
		ID:            m.ID,
		ReservationID: m.ReservationID,
		Amount:        m.Amount,
		DueDate:       m.DueDate,
		Status:        m.Status,
		PaymentDate:   m.PaymentDate,
		ReceiptURL:    m.ReceiptURL,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// InstallmentModelFromDomain creates a persistence model from a domain Installment
func InstallmentModelFromDomain(i *reservation.Installment) *InstallmentModel {
	return &InstallmentModel{
		ID:            i.ID,
		ReservationID: i.ReservationID,
		Amount:        i.Amount,
		DueDate:       i.DueDate,
		Status:        i.Status,
		PaymentDate:   i.PaymentDate,
		ReceiptURL:    i.ReceiptURL,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

// PassengerModel is the persistence model for a passenger.
type PassengerModel struct {
	ID             int64      `gorm:"primaryKey;autoIncrement"`
	ReservationID  int64      `gorm:"not null;index"`
	Name           string     `gorm:"type:varchar(200);not null"`
	Lastname       string     `gorm:"type:varchar(200)"`
	DocumentType   string     `gorm:"type:varchar(30)"`
	DocumentNumber string     `gorm:"type:varchar(50)"`
	BirthDate      *time.Time `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (PassengerModel) TableName() string {
	return "passengers"
}

// ToDomain converts the persistence model to a domain Passenger
func (m *PassengerModel) ToDomain() reservation.Passenger {
	return reservation.Passenger{
		ID:             m.ID,
		ReservationID:  m.ReservationID,
		Name:           m.Name,
		Lastname:       m.Lastname,
		DocumentType:   m.DocumentType,
		DocumentNumber: m.DocumentNumber,
		BirthDate:      m.BirthDate,
	}
}

// AttachmentModel is the persistence model for a reservation attachment.
type AttachmentModel struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	ReservationID int64  `gorm:"not null;index"`
	Title         string `gorm:"type:varchar(200);not null"`
	Observation   string `gorm:"type:text"`
	FileURL       string `gorm:"type:varchar(1024)"`
}

// TableName returns the table name for GORM
func (AttachmentModel) TableName() string {
	return "attachments"
}

// ToDomain converts the persistence model to a domain Attachment
func (m *AttachmentModel) ToDomain() reservation.Attachment {
	return reservation.Attachment{
		ID:            m.ID,
		ReservationID: m.ReservationID,
		Title:         m.Title,
		Observation:   m.Observation,
		FileURL:       m.FileURL,
	}
}

// TransferModel is the persistence model for an airport transfer.
type TransferModel struct {
	ID            int64                    `gorm:"primaryKey;autoIncrement"`
	ReservationID int64                    `gorm:"not null;index"`
	SegmentID     int64                    `gorm:"not null;index"`
	TransferType  reservation.TransferType `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (TransferModel) TableName() string {
	return "transfers"
}

// ToDomain converts the persistence model to a domain Transfer
func (m *TransferModel) ToDomain() reservation.Transfer {
	return reservation.Transfer{
		ID:            m.ID,
		ReservationID: m.ReservationID,
		SegmentID:     m.SegmentID,
		TransferType:  m.TransferType,
	}
}

// InvoiceSequenceModel holds the last issued value of a named number sequence.
type InvoiceSequenceModel struct {
	Name      string    `gorm:"primaryKey;type:varchar(50)"`
	LastValue int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceSequenceModel) TableName() string {
	return "invoice_sequences"
}

// ReservationAggregateModels lists every table of the aggregate, parents first.
// Used by AutoMigrate in tests.
func ReservationAggregateModels() []any {
	return []any{
		&ClientModel{},
		&ReservationModel{},
		&SegmentModel{},
		&FlightModel{},
		&FlightItineraryModel{},
		&HotelModel{},
		&AccommodationModel{},
		&InclusionModel{},
		&TourModel{},
		&MedicalAssistanceModel{},
		&InstallmentModel{},
		&PassengerModel{},
		&AttachmentModel{},
		&TransferModel{},
		&InvoiceSequenceModel{},
	}
}
