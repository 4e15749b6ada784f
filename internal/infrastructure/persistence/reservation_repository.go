package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/travel/backend/internal/domain/reservation"
	"github.com/travel/backend/internal/domain/shared"
	"github.com/travel/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReservationRepository implements ReservationRepository using GORM
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// FindByID loads the header, its client and every child collection ordered by id
func (r *GormReservationRepository) FindByID(ctx context.Context, id int64) (*reservation.Reservation, error) {
	var model models.ReservationModel
	if err := r.db.WithContext(ctx).Preload("Client").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("reservation", id)
		}
		return nil, err
	}

	res := model.ToDomain()
	if err := r.loadChildren(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *GormReservationRepository) loadChildren(ctx context.Context, res *reservation.Reservation) error {
	db := r.db.WithContext(ctx)
	byReservation := func(dest any) error {
		return db.Where("reservation_id = ?", res.ID).Order("id ASC").Find(dest).Error
	}

	var segments []models.SegmentModel
	if err := byReservation(&segments); err != nil {
		return err
	}
	segmentIndex := make(map[int64]int, len(segments))
	for i := range segments {
		segmentIndex[segments[i].ID] = i
		res.Segments = append(res.Segments, segments[i].ToDomain())
	}

	var flights []models.FlightModel
	if err := byReservation(&flights); err != nil {
		return err
	}
	var itineraries []models.FlightItineraryModel
	if err := byReservation(&itineraries); err != nil {
		return err
	}
	flightPos := make(map[int64]int, len(flights))
	for i := range flights {
		flightPos[flights[i].ID] = i
		res.Flights = append(res.Flights, flights[i].ToDomain())
	}
	for i := range itineraries {
		if pos, ok := flightPos[itineraries[i].FlightID]; ok {
			res.Flights[pos].Itineraries = append(res.Flights[pos].Itineraries, itineraries[i].ToDomain())
		}
	}

	var hotels []models.HotelModel
	if err := byReservation(&hotels); err != nil {
		return err
	}
	var accommodations []models.AccommodationModel
	if err := byReservation(&accommodations); err != nil {
		return err
	}
	var inclusions []models.InclusionModel
	if err := byReservation(&inclusions); err != nil {
		return err
	}
	hotelPos := make(map[int64]int, len(hotels))
	for i := range hotels {
		hotelPos[hotels[i].ID] = i
		res.Hotels = append(res.Hotels, hotels[i].ToDomain())
	}
	for i := range accommodations {
		if pos, ok := hotelPos[accommodations[i].HotelID]; ok {
			res.Hotels[pos].Accommodations = append(res.Hotels[pos].Accommodations, accommodations[i].ToDomain())
		}
	}
	for i := range inclusions {
		if pos, ok := hotelPos[inclusions[i].HotelID]; ok {
			res.Hotels[pos].Inclusions = append(res.Hotels[pos].Inclusions, inclusions[i].ToDomain())
		}
	}

	var tours []models.TourModel
	if err := byReservation(&tours); err != nil {
		return err
	}
	for i := range tours {
		res.Tours = append(res.Tours, tours[i].ToDomain())
	}

	var assistances []models.MedicalAssistanceModel
	if err := byReservation(&assistances); err != nil {
		return err
	}
	for i := range assistances {
		res.MedicalAssistances = append(res.MedicalAssistances, assistances[i].ToDomain())
	}

	var installments []models.InstallmentModel
	if err := byReservation(&installments); err != nil {
		return err
	}
	for i := range installments {
		res.Installments = append(res.Installments, *installments[i].ToDomain())
	}

	var passengers []models.PassengerModel
	if err := byReservation(&passengers); err != nil {
		return err
	}
	for i := range passengers {
		res.Passengers = append(res.Passengers, passengers[i].ToDomain())
	}

	var attachments []models.AttachmentModel
	if err := byReservation(&attachments); err != nil {
		return err
	}
	for i := range attachments {
		res.Attachments = append(res.Attachments, attachments[i].ToDomain())
	}

	var transfers []models.TransferModel
	if err := byReservation(&transfers); err != nil {
		return err
	}
	for i := range transfers {
		t := transfers[i].ToDomain()
		if idx, ok := segmentIndex[t.SegmentID]; ok {
			t.SegmentIndex = &idx
		}
		res.Transfers = append(res.Transfers, t)
	}

	return nil
}

// FindOwnership loads the authorization projection of a reservation
func (r *GormReservationRepository) FindOwnership(ctx context.Context, id int64) (*reservation.ReservationOwnership, error) {
	var row models.ReservationOwnershipRow
	if err := r.db.WithContext(ctx).
		Model(&models.ReservationModel{}).
		Select("id", "advisor_id", "office_id", "status").
		Where("id = ?", id).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("reservation", id)
		}
		return nil, err
	}
	return &reservation.ReservationOwnership{
		ID:        row.ID,
		AdvisorID: row.AdvisorID,
		OfficeID:  reservation.NormalizeOfficeID(row.OfficeID),
		Status:    reservation.Status(row.Status),
	}, nil
}

// List returns the headers visible in scope, with their clients, and the total count
func (r *GormReservationRepository) List(ctx context.Context, scope reservation.ListScope, filter shared.Filter) ([]reservation.Reservation, int64, error) {
	if scope.IsEmpty() {
		return []reservation.Reservation{}, 0, nil
	}

	var total int64
	if err := r.applyListFilter(ctx, scope, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.applyListFilter(ctx, scope, filter).
		Preload("Client").
		Order(listOrder(filter, reservationOrderColumns))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.ReservationModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	items := make([]reservation.Reservation, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, total, nil
}

// applyListFilter builds the scoped, filtered query without ordering or pagination.
// An administrador office scope also matches reservations without an office,
// the same rule the access check applies to single reservations.
func (r *GormReservationRepository) applyListFilter(ctx context.Context, scope reservation.ListScope, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.ReservationModel{})

	if !scope.All {
		if scope.AdvisorID != nil {
			query = query.Where("advisor_id = ?", *scope.AdvisorID)
		}
		if scope.OfficeID != nil {
			query = query.Where("(office_id = ? OR office_id IS NULL)", *scope.OfficeID)
		}
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		clients := r.db.WithContext(ctx).
			Model(&models.ClientModel{}).
			Select("id").
			Where(`email LIKE ? ESCAPE '\'`, "%"+escapeLikePattern(search)+"%")
		query = query.Where("client_id IN (?)", clients)
	}

	return query
}

// LockHeader loads the header with SELECT ... FOR UPDATE.
// Only meaningful inside Store.Transaction.
func (r *GormReservationRepository) LockHeader(ctx context.Context, id int64) (*reservation.Reservation, error) {
	var model models.ReservationModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("reservation", id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CreateHeader inserts the header row and copies the generated id back
func (r *GormReservationRepository) CreateHeader(ctx context.Context, res *reservation.Reservation) error {
	model := models.ReservationModelFromDomain(res)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return err
	}
	res.ID = model.ID
	res.CreatedAt = model.CreatedAt
	res.UpdatedAt = model.UpdatedAt
	return nil
}

// UpdateHeader overwrites the editable header columns
func (r *GormReservationRepository) UpdateHeader(ctx context.Context, res *reservation.Reservation) error {
	result := r.db.WithContext(ctx).
		Model(&models.ReservationModel{}).
		Where("id = ?", res.ID).
		Updates(map[string]any{
			"client_id":        res.ClientID,
			"reservation_type": res.ReservationType,
			"payment_option":   res.PaymentOption,
			"advisor_id":       res.AdvisorID,
			"office_id":        reservation.NormalizeOfficeID(res.OfficeID),
			"total_amount":     res.TotalAmount,
			"price_per_adt":    res.PricePerADT,
			"price_per_chd":    res.PricePerCHD,
			"price_per_inf":    res.PricePerINF,
			"passengers_adt":   res.PassengersADT,
			"passengers_chd":   res.PassengersCHD,
			"passengers_inf":   res.PassengersINF,
			"notes":            res.Notes,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("reservation", res.ID)
	}
	return nil
}

// InsertChildren inserts the selected collections of res. Every parent row is
// written before its children so that generated ids can be propagated; the ids
// are copied back onto res.
func (r *GormReservationRepository) InsertChildren(ctx context.Context, res *reservation.Reservation, set reservation.ChildSet) error {
	db := r.db.WithContext(ctx)
	resID := res.ID

	if set.Has(reservation.ChildSegments) && len(res.Segments) > 0 {
		rows := make([]models.SegmentModel, len(res.Segments))
		for i, s := range res.Segments {
			rows[i] = models.SegmentModel{
				ReservationID: resID,
				Origin:        s.Origin,
				Destination:   s.Destination,
				DepartureDate: s.DepartureDate,
				ReturnDate:    s.ReturnDate,
			}
		}
		if err := db.Create(&rows).Error; err != nil {
			return err
		}
		for i := range rows {
			res.Segments[i].ID = rows[i].ID
			res.Segments[i].ReservationID = resID
		}
	}

	if set.Has(reservation.ChildFlights) && len(res.Flights) > 0 {
		if err := r.insertFlights(db, res); err != nil {
			return err
		}
	}

	if set.Has(reservation.ChildHotels) && len(res.Hotels) > 0 {
		if err := r.insertHotels(db, res); err != nil {
			return err
		}
	}

	if set.Has(reservation.ChildTours) && len(res.Tours) > 0 {
		rows := make([]models.TourModel, len(res.Tours))
		for i, t := range res.Tours {
			rows[i] = models.TourModel{ReservationID: resID, Name: t.Name, Date: t.Date, Cost: t.Cost}
		}
		if err := db.Create(&rows).Error; err != nil {
			return err
		}
		for i := range rows {
			res.Tours[i].ID = rows[i].ID
			res.Tours[i].ReservationID = resID
		}
	}

	if set.Has(reservation.ChildMedicalAssistances) && len(res.MedicalAssistances) > 0 {
		rows := make([]models.MedicalAssistanceModel, len(res.MedicalAssistances))
		for i, m := range res.MedicalAssistances {
			rows[i] = models.MedicalAssistanceModel{
				ReservationID: resID,
				PlanType:      m.PlanType,
				StartDate:     m.StartDate,
				EndDate:       m.EndDate,
			}
		}
		if err := db.Create(&rows).Error; err != nil {
			return err
		}
		for i := range rows {
			res.MedicalAssistances[i].ID = rows[i].ID
			res.MedicalAssistances[i].ReservationID = resID
		}
	}

	if set.Has(reservation.ChildInstallments) && len(res.Installments) > 0 {
		rows := make([]models.InstallmentModel, len(res.Installments))
		for i := range res.Installments {
			rows[i] = *models.InstallmentModelFromDomain(&res.Installments[i])
			rows[i].ID = 0
			rows[i].ReservationID = resID
			if rows[i].Status == "" {
				rows[i].Status = reservation.InstallmentPending
			}
		}
		if err := db.Create(&rows).Error; err != nil {
			return err
		}
		for i := range rows {
			res.Installments[i].ID = rows[i].ID
			res.Installments[i].ReservationID = resID
		}
	}

	if set.Has(reservation.ChildPassengers) && len(res.Passengers) > 0 {
		rows := make([]models.PassengerModel, len(res.Passengers))
		for i, p := range res.Passengers {
			rows[i] = models.PassengerModel{
				ReservationID:  resID,
				Name:           p.Name,
				Lastname:       p.Lastname,
				DocumentType:   p.DocumentType,
				DocumentNumber: p.DocumentNumber,
				BirthDate:      p.BirthDate,
			}
		}
		if err := db.Create(&rows).Error; err != nil {
			return err
		}
		for i := range rows {
			res.Passengers[i].ID = rows[i].ID
			res.Passengers[i].ReservationID = resID
		}
	}

	if set.Has(reservation.ChildAttachments) && len(res.Attachments) > 0 {
		rows := make([]models.AttachmentModel, len(res.Attachments))
		for i, a := range res.Attachments {
			rows[i] = models.AttachmentModel{
				ReservationID: resID,
				Title:         a.Title,
				Observation:   a.Observation,
				FileURL:       a.FileURL,
			}
		}
		if err := db.Create(&rows).Error; err != nil {
			return err
		}
		for i := range rows {
			res.Attachments[i].ID = rows[i].ID
			res.Attachments[i].ReservationID = resID
		}
	}

	if set.Has(reservation.ChildTransfers) && len(res.Transfers) > 0 {
		rows := make([]models.TransferModel, len(res.Transfers))
		for i, t := range res.Transfers {
			segmentID, err := resolveTransferSegment(res, i, t)
			if err != nil {
				return err
			}
			rows[i] = models.TransferModel{
				ReservationID: resID,
				SegmentID:     segmentID,
				TransferType:  t.TransferType,
			}
		}
		if err := db.Create(&rows).Error; err != nil {
			return err
		}
		for i := range rows {
			res.Transfers[i].ID = rows[i].ID
			res.Transfers[i].ReservationID = resID
			res.Transfers[i].SegmentID = rows[i].SegmentID
		}
	}

	return nil
}

func (r *GormReservationRepository) insertFlights(db *gorm.DB, res *reservation.Reservation) error {
	flights := make([]models.FlightModel, len(res.Flights))
	for i, f := range res.Flights {
		flights[i] = models.FlightModel{
			ReservationID:    res.ID,
			Airline:          f.Airline,
			FlightCategory:   f.FlightCategory,
			BaggageAllowance: f.BaggageAllowance,
			PNR:              f.PNR,
		}
	}
	if err := db.Create(&flights).Error; err != nil {
		return err
	}

	var itineraries []models.FlightItineraryModel
	for i := range flights {
		res.Flights[i].ID = flights[i].ID
		res.Flights[i].ReservationID = res.ID
		for _, it := range res.Flights[i].Itineraries {
			itineraries = append(itineraries, models.FlightItineraryModel{
				FlightID:      flights[i].ID,
				ReservationID: res.ID,
				FlightNumber:  it.FlightNumber,
				DepartureTime: it.DepartureTime,
				ArrivalTime:   it.ArrivalTime,
			})
		}
	}
	if len(itineraries) == 0 {
		return nil
	}
	if err := db.Create(&itineraries).Error; err != nil {
		return err
	}

	n := 0
	for i := range res.Flights {
		for j := range res.Flights[i].Itineraries {
			res.Flights[i].Itineraries[j].ID = itineraries[n].ID
			res.Flights[i].Itineraries[j].FlightID = itineraries[n].FlightID
			res.Flights[i].Itineraries[j].ReservationID = res.ID
			n++
		}
	}
	return nil
}

func (r *GormReservationRepository) insertHotels(db *gorm.DB, res *reservation.Reservation) error {
	hotels := make([]models.HotelModel, len(res.Hotels))
	for i, h := range res.Hotels {
		hotels[i] = models.HotelModel{
			ReservationID: res.ID,
			Name:          h.Name,
			RoomCategory:  h.RoomCategory,
			MealPlan:      h.MealPlan,
		}
	}
	if err := db.Create(&hotels).Error; err != nil {
		return err
	}

	var accommodations []models.AccommodationModel
	var inclusions []models.InclusionModel
	for i := range hotels {
		res.Hotels[i].ID = hotels[i].ID
		res.Hotels[i].ReservationID = res.ID
		for _, a := range res.Hotels[i].Accommodations {
			accommodations = append(accommodations, models.AccommodationModel{
				HotelID:       hotels[i].ID,
				ReservationID: res.ID,
				Rooms:         a.Rooms,
				ADT:           a.ADT,
				CHD:           a.CHD,
				INF:           a.INF,
			})
		}
		for _, in := range res.Hotels[i].Inclusions {
			inclusions = append(inclusions, models.InclusionModel{
				HotelID:       hotels[i].ID,
				ReservationID: res.ID,
				Text:          in.Text,
			})
		}
	}

	if len(accommodations) > 0 {
		if err := db.Create(&accommodations).Error; err != nil {
			return err
		}
	}
	if len(inclusions) > 0 {
		if err := db.Create(&inclusions).Error; err != nil {
			return err
		}
	}

	a, n := 0, 0
	for i := range res.Hotels {
		for j := range res.Hotels[i].Accommodations {
			res.Hotels[i].Accommodations[j].ID = accommodations[a].ID
			res.Hotels[i].Accommodations[j].HotelID = accommodations[a].HotelID
			res.Hotels[i].Accommodations[j].ReservationID = res.ID
			a++
		}
		for j := range res.Hotels[i].Inclusions {
			res.Hotels[i].Inclusions[j].ID = inclusions[n].ID
			res.Hotels[i].Inclusions[j].HotelID = inclusions[n].HotelID
			res.Hotels[i].Inclusions[j].ReservationID = res.ID
			n++
		}
	}
	return nil
}

// resolveTransferSegment maps a transfer's segment_index onto the id of the
// segment at that position. A transfer read back from storage keeps its SegmentID.
func resolveTransferSegment(res *reservation.Reservation, i int, t reservation.Transfer) (int64, error) {
	if t.SegmentIndex == nil {
		if t.SegmentID > 0 {
			return t.SegmentID, nil
		}
		return 0, shared.NewInvalidArgumentError("transfers[%d].segment_index is required", i)
	}
	idx := *t.SegmentIndex
	if idx < 0 || idx >= len(res.Segments) || res.Segments[idx].ID == 0 {
		return 0, shared.NewInvalidArgumentError("transfers[%d].segment_index %d is out of range", i, idx)
	}
	return res.Segments[idx].ID, nil
}

// DeleteChildren removes the selected collections, deepest rows first
func (r *GormReservationRepository) DeleteChildren(ctx context.Context, reservationID int64, set reservation.ChildSet) error {
	db := r.db.WithContext(ctx)
	steps := []struct {
		child reservation.ChildSet
		model any
	}{
		{reservation.ChildTransfers, &models.TransferModel{}},
		{reservation.ChildFlights, &models.FlightItineraryModel{}},
		{reservation.ChildHotels, &models.AccommodationModel{}},
		{reservation.ChildHotels, &models.InclusionModel{}},
		{reservation.ChildFlights, &models.FlightModel{}},
		{reservation.ChildHotels, &models.HotelModel{}},
		{reservation.ChildSegments, &models.SegmentModel{}},
		{reservation.ChildTours, &models.TourModel{}},
		{reservation.ChildMedicalAssistances, &models.MedicalAssistanceModel{}},
		{reservation.ChildInstallments, &models.InstallmentModel{}},
		{reservation.ChildPassengers, &models.PassengerModel{}},
		{reservation.ChildAttachments, &models.AttachmentModel{}},
	}
	for _, step := range steps {
		if !set.Has(step.child) {
			continue
		}
		if err := db.Where("reservation_id = ?", reservationID).Delete(step.model).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteHeader removes the header row
func (r *GormReservationRepository) DeleteHeader(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.ReservationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("reservation", id)
	}
	return nil
}

// Confirm moves a pending reservation to confirmed with the given invoice number
func (r *GormReservationRepository) Confirm(ctx context.Context, id int64, invoiceNumber int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.ReservationModel{}).
		Where("id = ? AND status = ?", id, reservation.StatusPending).
		Updates(map[string]any{
			"status":         reservation.StatusConfirmed,
			"invoice_number": invoiceNumber,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return shared.NewConflictError("invoice number already issued, retry the approval").WithCause(result.Error)
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewInvalidStateError("only pending reservations can be approved")
	}
	return nil
}

// SetStatus changes the approval status of a reservation
func (r *GormReservationRepository) SetStatus(ctx context.Context, id int64, status reservation.Status) error {
	result := r.db.WithContext(ctx).
		Model(&models.ReservationModel{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("reservation", id)
	}
	return nil
}

// MirrorPaymentStatus copies an installment status onto payment_status of a
// full-payment reservation in a single conditional UPDATE
func (r *GormReservationRepository) MirrorPaymentStatus(ctx context.Context, id int64, status reservation.InstallmentStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ReservationModel{}).
		Where("id = ? AND payment_option = ?", id, reservation.PaymentOptionFull).
		Update("payment_status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MaxInvoiceNumber returns the highest invoice number issued so far
func (r *GormReservationRepository) MaxInvoiceNumber(ctx context.Context) (int64, error) {
	var highest int64
	if err := r.db.WithContext(ctx).
		Model(&models.ReservationModel{}).
		Select("COALESCE(MAX(invoice_number), 0)").
		Scan(&highest).Error; err != nil {
		return 0, err
	}
	return highest, nil
}

// Ensure GormReservationRepository implements reservation.ReservationRepository
var _ reservation.ReservationRepository = (*GormReservationRepository)(nil)
