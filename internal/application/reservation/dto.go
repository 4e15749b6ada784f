package reservation

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/travel/backend/internal/domain/reservation"
	"github.com/travel/backend/internal/domain/shared"
)

// DateTime accepts dates and datetimes in the layouts the agency front-ends send
type DateTime struct {
	time.Time
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// UnmarshalJSON parses a quoted date or datetime
func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return shared.NewInvalidArgumentError("date must be a string")
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	return shared.NewInvalidArgumentError("invalid date %q", raw)
}

// MarshalJSON renders the time as RFC 3339
func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(time.RFC3339))
}

// Ptr returns nil for a zero value
func (d *DateTime) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// OptionalDate distinguishes an absent field from an explicit null
type OptionalDate struct {
	Set   bool
	Value *time.Time
}

// UnmarshalJSON is only invoked when the key is present
func (o *OptionalDate) UnmarshalJSON(data []byte) error {
	o.Set = true
	var d DateTime
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	o.Value = d.Ptr()
	return nil
}

// ClientPayload identifies the client by email; other fields are used on first insert
type ClientPayload struct {
	Name           string `json:"name" validate:"required,max=200"`
	Lastname       string `json:"lastname" validate:"max=200"`
	Email          string `json:"email" validate:"required,email,max=254"`
	Phone          string `json:"phone" validate:"max=50"`
	DocumentType   string `json:"document_type" validate:"max=30"`
	DocumentNumber string `json:"document_number" validate:"max=50"`
}

// SegmentPayload is one leg of the trip
type SegmentPayload struct {
	Origin        string    `json:"origin" validate:"required,max=100"`
	Destination   string    `json:"destination" validate:"required,max=100"`
	DepartureDate DateTime  `json:"departure_date"`
	ReturnDate    *DateTime `json:"return_date"`
}

// ItineraryPayload is one hop of a flight
type ItineraryPayload struct {
	FlightNumber  string   `json:"flight_number" validate:"required,max=20"`
	DepartureTime DateTime `json:"departure_time"`
	ArrivalTime   DateTime `json:"arrival_time"`
}

// FlightPayload is a flight with its itineraries
type FlightPayload struct {
	Airline          string             `json:"airline" validate:"required,max=100"`
	FlightCategory   string             `json:"flight_category" validate:"max=50"`
	BaggageAllowance string             `json:"baggage_allowance" validate:"max=100"`
	PNR              string             `json:"pnr" validate:"max=20"`
	Itineraries      []ItineraryPayload `json:"itineraries" validate:"dive"`
}

// AccommodationPayload is a room distribution
type AccommodationPayload struct {
	Rooms int `json:"rooms" validate:"gte=0"`
	ADT   int `json:"adt" validate:"gte=0"`
	CHD   int `json:"chd" validate:"gte=0"`
	INF   int `json:"inf" validate:"gte=0"`
}

// InclusionPayload is a hotel inclusion
type InclusionPayload struct {
	Text string `json:"text" validate:"required,max=500"`
}

// HotelPayload is a hotel with accommodations and inclusions
type HotelPayload struct {
	Name           string                 `json:"name" validate:"required,max=200"`
	RoomCategory   string                 `json:"room_category" validate:"max=100"`
	MealPlan       string                 `json:"meal_plan" validate:"max=100"`
	Accommodations []AccommodationPayload `json:"accommodations" validate:"dive"`
	Inclusions     []InclusionPayload     `json:"inclusions" validate:"dive"`
}

// TourPayload is an excursion
type TourPayload struct {
	Name string          `json:"name" validate:"required,max=200"`
	Date DateTime        `json:"date"`
	Cost decimal.Decimal `json:"cost"`
}

// MedicalAssistancePayload is an assistance plan
type MedicalAssistancePayload struct {
	PlanType  string   `json:"plan_type" validate:"required,max=100"`
	StartDate DateTime `json:"start_date"`
	EndDate   DateTime `json:"end_date"`
}

// InstallmentPayload is a scheduled payment; only accepted on create
type InstallmentPayload struct {
	Amount  decimal.Decimal `json:"amount"`
	DueDate DateTime        `json:"due_date"`
	Status  string          `json:"status" validate:"omitempty,oneof=pending paid"`
}

// PassengerPayload is a listed traveller
type PassengerPayload struct {
	Name           string    `json:"name" validate:"required,max=200"`
	Lastname       string    `json:"lastname" validate:"max=200"`
	DocumentType   string    `json:"document_type" validate:"max=30"`
	DocumentNumber string    `json:"document_number" validate:"max=50"`
	BirthDate      *DateTime `json:"birth_date"`
}

// AttachmentPayload is a linked document
type AttachmentPayload struct {
	Title       string `json:"title" validate:"required,max=200"`
	Observation string `json:"observation" validate:"max=2000"`
	FileURL     string `json:"file_url" validate:"omitempty,url"`
}

// TransferPayload references a segment by its position in Segments
type TransferPayload struct {
	SegmentIndex *int   `json:"segment_index" validate:"required,gte=0"`
	TransferType string `json:"transfer_type" validate:"required,oneof=arrival departure"`
}

// ReservationPayload is the nested create/update body of a reservation
type ReservationPayload struct {
	Client             *ClientPayload             `json:"client" validate:"required"`
	ReservationType    string                     `json:"reservation_type" validate:"max=50"`
	PaymentOption      string                     `json:"payment_option" validate:"required,oneof=full_payment installments"`
	AdvisorID          *int64                     `json:"advisor_id" validate:"omitempty,gt=0"`
	OfficeID           *string                    `json:"office_id" validate:"omitempty,max=64"`
	TotalAmount        decimal.Decimal            `json:"total_amount"`
	PricePerADT        decimal.Decimal            `json:"price_per_adt"`
	PricePerCHD        decimal.Decimal            `json:"price_per_chd"`
	PricePerINF        decimal.Decimal            `json:"price_per_inf"`
	PassengersADT      int                        `json:"passengers_adt" validate:"gte=0"`
	PassengersCHD      int                        `json:"passengers_chd" validate:"gte=0"`
	PassengersINF      int                        `json:"passengers_inf" validate:"gte=0"`
	Notes              string                     `json:"notes" validate:"max=5000"`
	Segments           []SegmentPayload           `json:"segments" validate:"dive"`
	Flights            []FlightPayload            `json:"flights" validate:"dive"`
	Hotels             []HotelPayload             `json:"hotels" validate:"dive"`
	Tours              []TourPayload              `json:"tours" validate:"dive"`
	MedicalAssistances []MedicalAssistancePayload `json:"medical_assistances" validate:"dive"`
	Installments       []InstallmentPayload       `json:"installments" validate:"dive"`
	Passengers         []PassengerPayload         `json:"passengers" validate:"dive"`
	Attachments        []AttachmentPayload        `json:"attachments" validate:"dive"`
	Transfers          []TransferPayload          `json:"transfers" validate:"dive"`
}

// readOnlyKeys are header columns a payload may never write
var readOnlyKeys = []string{"id", "status", "invoice_number", "payment_status", "created_at", "updated_at"}

// DecodeCreatePayload decodes a create body. Keys may be camelCase or snake_case.
func DecodeCreatePayload(raw []byte) (*ReservationPayload, error) {
	return decodePayload(raw, false)
}

// DecodeUpdatePayload decodes an update body and drops every installment key
func DecodeUpdatePayload(raw []byte) (*ReservationPayload, error) {
	return decodePayload(raw, true)
}

func decodePayload(raw []byte, stripInstallments bool) (*ReservationPayload, error) {
	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, shared.NewInvalidArgumentError("malformed reservation payload: %v", err)
	}

	normalized, _ := normalizeKeys(doc).(map[string]any)
	for _, key := range readOnlyKeys {
		delete(normalized, key)
	}
	if stripInstallments {
		StripInstallmentKeys(normalized)
	}

	buf, err := json.Marshal(normalized)
	if err != nil {
		return nil, shared.NewInternalError("re-encode reservation payload", err)
	}
	var payload ReservationPayload
	if err := json.Unmarshal(buf, &payload); err != nil {
		if shared.KindOf(err) == shared.KindInvalidArgument {
			return nil, err
		}
		return nil, shared.NewInvalidArgumentError("invalid reservation payload: %v", err)
	}
	return &payload, nil
}

// StripInstallmentKeys removes every top-level key that addresses installments
func StripInstallmentKeys(doc map[string]any) {
	for key := range doc {
		if strings.HasPrefix(key, "installment") {
			delete(doc, key)
		}
	}
}

func normalizeKeys(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[ToSnakeCase(k)] = normalizeKeys(child)
		}
		return out
	case []any:
		for i := range val {
			val[i] = normalizeKeys(val[i])
		}
		return val
	default:
		return v
	}
}

// ToSnakeCase converts camelCase and PascalCase keys to snake_case.
// Acronym runs are kept together: pricePerADT becomes price_per_adt.
func ToSnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prev != '_' && (unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower)) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var payloadValidator = newPayloadValidator()

func newPayloadValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validatePayload runs struct validation and reports the first failure as InvalidArgument
func validatePayload(v any) error {
	if err := payloadValidator.Struct(v); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return shared.NewInvalidArgumentError("%s failed on %q validation", fe.Namespace(), fe.Tag())
		}
		return shared.NewInvalidArgumentError("invalid payload: %v", err)
	}
	return nil
}

// ToDomain builds the aggregate described by the payload
func (p *ReservationPayload) ToDomain() *reservation.Reservation {
	r := &reservation.Reservation{
		ReservationType: p.ReservationType,
		PaymentOption:   reservation.PaymentOption(p.PaymentOption),
		OfficeID:        reservation.NormalizeOfficeID(p.OfficeID),
		TotalAmount:     p.TotalAmount,
		PricePerADT:     p.PricePerADT,
		PricePerCHD:     p.PricePerCHD,
		PricePerINF:     p.PricePerINF,
		PassengersADT:   p.PassengersADT,
		PassengersCHD:   p.PassengersCHD,
		PassengersINF:   p.PassengersINF,
		Notes:           p.Notes,
	}
	if p.AdvisorID != nil {
		r.AdvisorID = *p.AdvisorID
	}
	if p.Client != nil {
		r.Client = &reservation.Client{
			Name:           strings.TrimSpace(p.Client.Name),
			Lastname:       strings.TrimSpace(p.Client.Lastname),
			Email:          reservation.NormalizeEmail(p.Client.Email),
			Phone:          p.Client.Phone,
			DocumentType:   p.Client.DocumentType,
			DocumentNumber: p.Client.DocumentNumber,
		}
	}

	for _, s := range p.Segments {
		r.Segments = append(r.Segments, reservation.Segment{
			Origin:        s.Origin,
			Destination:   s.Destination,
			DepartureDate: s.DepartureDate.Time,
			ReturnDate:    s.ReturnDate.Ptr(),
		})
	}
	for _, f := range p.Flights {
		flight := reservation.Flight{
			Airline:          f.Airline,
			FlightCategory:   f.FlightCategory,
			BaggageAllowance: f.BaggageAllowance,
			PNR:              f.PNR,
		}
		for _, it := range f.Itineraries {
			flight.Itineraries = append(flight.Itineraries, reservation.FlightItinerary{
				FlightNumber:  it.FlightNumber,
				DepartureTime: it.DepartureTime.Time,
				ArrivalTime:   it.ArrivalTime.Time,
			})
		}
		r.Flights = append(r.Flights, flight)
	}
	for _, h := range p.Hotels {
		hotel := reservation.Hotel{
			Name:         h.Name,
			RoomCategory: h.RoomCategory,
			MealPlan:     h.MealPlan,
		}
		for _, a := range h.Accommodations {
			hotel.Accommodations = append(hotel.Accommodations, reservation.Accommodation{
				Rooms: a.Rooms, ADT: a.ADT, CHD: a.CHD, INF: a.INF,
			})
		}
		for _, in := range h.Inclusions {
			hotel.Inclusions = append(hotel.Inclusions, reservation.Inclusion{Text: in.Text})
		}
		r.Hotels = append(r.Hotels, hotel)
	}
	for _, t := range p.Tours {
		r.Tours = append(r.Tours, reservation.Tour{Name: t.Name, Date: t.Date.Time, Cost: t.Cost})
	}
	for _, m := range p.MedicalAssistances {
		r.MedicalAssistances = append(r.MedicalAssistances, reservation.MedicalAssistance{
			PlanType:  m.PlanType,
			StartDate: m.StartDate.Time,
			EndDate:   m.EndDate.Time,
		})
	}
	for _, inst := range p.Installments {
		r.Installments = append(r.Installments, reservation.Installment{
			Amount:  inst.Amount,
			DueDate: inst.DueDate.Time,
			Status:  reservation.InstallmentStatus(inst.Status),
		})
	}
	for _, ps := range p.Passengers {
		r.Passengers = append(r.Passengers, reservation.Passenger{
			Name:           ps.Name,
			Lastname:       ps.Lastname,
			DocumentType:   ps.DocumentType,
			DocumentNumber: ps.DocumentNumber,
			BirthDate:      ps.BirthDate.Ptr(),
		})
	}
	for _, a := range p.Attachments {
		r.Attachments = append(r.Attachments, reservation.Attachment{
			Title:       a.Title,
			Observation: a.Observation,
			FileURL:     a.FileURL,
		})
	}
	for _, t := range p.Transfers {
		r.Transfers = append(r.Transfers, reservation.Transfer{
			SegmentIndex: t.SegmentIndex,
			TransferType: reservation.TransferType(t.TransferType),
		})
	}
	return r
}

// ListReservationsRequest filters the reservation list
type ListReservationsRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=pending confirmed rejected"`
	Search   string `form:"search" validate:"max=100"`
	Page     int    `form:"page" validate:"omitempty,gte=1"`
	PageSize int    `form:"page_size" validate:"omitempty,gte=1,lte=100"`
}

// UpdateInstallmentStatusRequest changes the payment state of an installment
type UpdateInstallmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid"`
}

// UpdateInstallmentDetailsRequest overwrites supplied installment fields.
// payment_date: null clears the date.
type UpdateInstallmentDetailsRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	DueDate     *DateTime        `json:"due_date"`
	Status      *string          `json:"status" validate:"omitempty,oneof=pending paid"`
	PaymentDate OptionalDate     `json:"payment_date"`
}

// ToChanges converts the request into a partial installment update
func (r UpdateInstallmentDetailsRequest) ToChanges() reservation.InstallmentChanges {
	changes := reservation.InstallmentChanges{
		Amount:  r.Amount,
		DueDate: r.DueDate.Ptr(),
	}
	if r.Status != nil {
		s := reservation.InstallmentStatus(*r.Status)
		changes.Status = &s
	}
	if r.PaymentDate.Set {
		if r.PaymentDate.Value == nil {
			changes.ClearPaymentDate = true
		} else {
			changes.PaymentDate = r.PaymentDate.Value
		}
	}
	return changes
}

// ReceiptFile is an uploaded payment receipt
type ReceiptFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ClientResponse is a client in API responses
type ClientResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Lastname       string `json:"lastname"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
}

// SegmentResponse is a segment in API responses
type SegmentResponse struct {
	ID            int64      `json:"id"`
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	DepartureDate time.Time  `json:"departure_date"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
}

// ItineraryResponse is a flight itinerary in API responses
type ItineraryResponse struct {
	ID            int64     `json:"id"`
	FlightID      int64     `json:"flight_id"`
	FlightNumber  string    `json:"flight_number"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
}

// FlightResponse is a flight in API responses
type FlightResponse struct {
	ID               int64               `json:"id"`
	Airline          string              `json:"airline"`
	FlightCategory   string              `json:"flight_category"`
	BaggageAllowance string              `json:"baggage_allowance"`
	PNR              string              `json:"pnr"`
	Itineraries      []ItineraryResponse `json:"itineraries"`
}

// AccommodationResponse is an accommodation in API responses
type AccommodationResponse struct {
	ID      int64 `json:"id"`
	HotelID int64 `json:"hotel_id"`
	Rooms   int   `json:"rooms"`
	ADT     int   `json:"adt"`
	CHD     int   `json:"chd"`
	INF     int   `json:"inf"`
}

// InclusionResponse is an inclusion in API responses
type InclusionResponse struct {
	ID      int64  `json:"id"`
	HotelID int64  `json:"hotel_id"`
	Text    string `json:"text"`
}

// HotelResponse is a hotel in API responses
type HotelResponse struct {
	ID             int64                   `json:"id"`
	Name           string                  `json:"name"`
	RoomCategory   string                  `json:"room_category"`
	MealPlan       string                  `json:"meal_plan"`
	Accommodations []AccommodationResponse `json:"accommodations"`
	Inclusions     []InclusionResponse     `json:"inclusions"`
}

// TourResponse is a tour in API responses
type TourResponse struct {
	ID   int64           `json:"id"`
	Name string          `json:"name"`
	Date time.Time       `json:"date"`
	Cost decimal.Decimal `json:"cost"`
}

// MedicalAssistanceResponse is a medical assistance in API responses
type MedicalAssistanceResponse struct {
	ID        int64     `json:"id"`
	PlanType  string    `json:"plan_type"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// InstallmentResponse is an installment in API responses
type InstallmentResponse struct {
	ID            int64           `json:"id"`
	ReservationID int64           `json:"reservation_id"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"due_date"`
	Status        string          `json:"status"`
	PaymentDate   *time.Time      `json:"payment_date"`
	ReceiptURL    string          `json:"receipt_url,omitempty"`
}

// PassengerResponse is a passenger in API responses
type PassengerResponse struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Lastname       string     `json:"lastname"`
	DocumentType   string     `json:"document_type"`
	DocumentNumber string     `json:"document_number"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
}

// AttachmentResponse is an attachment in API responses
type AttachmentResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Observation string `json:"observation"`
	FileURL     string `json:"file_url"`
}

// TransferResponse is a transfer in API responses
type TransferResponse struct {
	ID           int64  `json:"id"`
	SegmentID    int64  `json:"segment_id"`
	TransferType string `json:"transfer_type"`
}

// ReservationResponse is the full aggregate in API responses
type ReservationResponse struct {
	ID                 int64                       `json:"id"`
	ClientID           int64                       `json:"client_id"`
	Client             *ClientResponse             `json:"client,omitempty"`
	ReservationType    string                      `json:"reservation_type"`
	Status             string                      `json:"status"`
	PaymentOption      string                      `json:"payment_option"`
	PaymentStatus      string                      `json:"payment_status"`
	InvoiceNumber      *int64                      `json:"invoice_number"`
	AdvisorID          int64                       `json:"advisor_id"`
	OfficeID           *string                     `json:"office_id"`
	TotalAmount        decimal.Decimal             `json:"total_amount"`
	PricePerADT        decimal.Decimal             `json:"price_per_adt"`
	PricePerCHD        decimal.Decimal             `json:"price_per_chd"`
	PricePerINF        decimal.Decimal             `json:"price_per_inf"`
	PassengersADT      int                         `json:"passengers_adt"`
	PassengersCHD      int                         `json:"passengers_chd"`
	PassengersINF      int                         `json:"passengers_inf"`
	Notes              string                      `json:"notes"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
	Segments           []SegmentResponse           `json:"segments,omitempty"`
	Flights            []FlightResponse            `json:"flights,omitempty"`
	Hotels             []HotelResponse             `json:"hotels,omitempty"`
	Tours              []TourResponse              `json:"tours,omitempty"`
	MedicalAssistances []MedicalAssistanceResponse `json:"medical_assistances,omitempty"`
	Installments       []InstallmentResponse       `json:"installments,omitempty"`
	Passengers         []PassengerResponse         `json:"passengers,omitempty"`
	Attachments        []AttachmentResponse        `json:"attachments,omitempty"`
	Transfers          []TransferResponse          `json:"transfers,omitempty"`
}

// ApproveResult is returned by a successful approval
type ApproveResult struct {
	Reservation   *ReservationResponse `json:"reservation"`
	InvoiceNumber int64                `json:"invoice_number"`
}

// ToInstallmentResponse converts a domain installment
func ToInstallmentResponse(i *reservation.Installment) InstallmentResponse {
	return InstallmentResponse{
		ID:            i.ID,
		ReservationID: i.ReservationID,
		Amount:        i.Amount,
		DueDate:       i.DueDate,
		Status:        i.Status.String(),
		PaymentDate:   i.PaymentDate,
		ReceiptURL:    i.ReceiptURL,
	}
}

// ToReservationResponse converts a domain reservation
func ToReservationResponse(r *reservation.Reservation) *ReservationResponse {
	resp := &ReservationResponse{
		ID:              r.ID,
		ClientID:        r.ClientID,
		ReservationType: r.ReservationType,
		Status:          r.Status.String(),
		PaymentOption:   string(r.PaymentOption),
		PaymentStatus:   r.PaymentStatus.String(),
		InvoiceNumber:   r.InvoiceNumber,
		AdvisorID:       r.AdvisorID,
		OfficeID:        r.OfficeID,
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
	if r.Client != nil {
		resp.Client = &ClientResponse{
			ID:             r.Client.ID,
			Name:           r.Client.Name,
			Lastname:       r.Client.Lastname,
			Email:          r.Client.Email,
			Phone:          r.Client.Phone,
			DocumentType:   r.Client.DocumentType,
			DocumentNumber: r.Client.DocumentNumber,
		}
	}
	for _, s := range r.Segments {
		resp.Segments = append(resp.Segments, SegmentResponse{
			ID: s.ID, Origin: s.Origin, Destination: s.Destination,
			DepartureDate: s.DepartureDate, ReturnDate: s.ReturnDate,
		})
	}
	for _, f := range r.Flights {
		fr := FlightResponse{
			ID: f.ID, Airline: f.Airline, FlightCategory: f.FlightCategory,
			BaggageAllowance: f.BaggageAllowance, PNR: f.PNR,
		}
		for _, it := range f.Itineraries {
			fr.Itineraries = append(fr.Itineraries, ItineraryResponse{
				ID: it.ID, FlightID: it.FlightID, FlightNumber: it.FlightNumber,
				DepartureTime: it.DepartureTime, ArrivalTime: it.ArrivalTime,
			})
		}
		resp.Flights = append(resp.Flights, fr)
	}
	for _, h := range r.Hotels {
		hr := HotelResponse{ID: h.ID, Name: h.Name, RoomCategory: h.RoomCategory, MealPlan: h.MealPlan}
		for _, a := range h.Accommodations {
			hr.Accommodations = append(hr.Accommodations, AccommodationResponse{
				ID: a.ID, HotelID: a.HotelID, Rooms: a.Rooms, ADT: a.ADT, CHD: a.CHD, INF: a.INF,
			})
		}
		for _, in := range h.Inclusions {
			hr.Inclusions = append(hr.Inclusions, InclusionResponse{ID: in.ID, HotelID: in.HotelID, Text: in.Text})
		}
		resp.Hotels = append(resp.Hotels, hr)
	}
	for _, t := range r.Tours {
		resp.Tours = append(resp.Tours, TourResponse{ID: t.ID, Name: t.Name, Date: t.Date, Cost: t.Cost})
	}
	for _, m := range r.MedicalAssistances {
		resp.MedicalAssistances = append(resp.MedicalAssistances, MedicalAssistanceResponse{
			ID: m.ID, PlanType: m.PlanType, StartDate: m.StartDate, EndDate: m.EndDate,
		})
	}
	for i := range r.Installments {
		resp.Installments = append(resp.Installments, ToInstallmentResponse(&r.Installments[i]))
	}
	for _, p := range r.Passengers {
		resp.Passengers = append(resp.Passengers, PassengerResponse{
			ID: p.ID, Name: p.Name, Lastname: p.Lastname, DocumentType: p.DocumentType,
			DocumentNumber: p.DocumentNumber, BirthDate: p.BirthDate,
		})
	}
	for _, a := range r.Attachments {
		resp.Attachments = append(resp.Attachments, AttachmentResponse{
			ID: a.ID, Title: a.Title, Observation: a.Observation, FileURL: a.FileURL,
		})
	}
	for _, t := range r.Transfers {
		resp.Transfers = append(resp.Transfers, TransferResponse{
			ID: t.ID, SegmentID: t.SegmentID, TransferType: string(t.TransferType),
		})
	}
	return resp
}
