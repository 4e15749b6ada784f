package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/travel/backend/internal/domain/reservation"
	"github.com/travel/backend/internal/infrastructure/persistence/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupReservationTestDB opens an in-memory SQLite database with the aggregate schema.
// The pool is pinned to one connection because every new :memory: connection
// would otherwise see an empty database.
func setupReservationTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.ReservationAggregateModels()...))
	return db
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sampleReservation builds an aggregate with two flights (the first with two
// itineraries), one hotel and one row in every other collection
func sampleReservation(email string, advisorID int64, office *string) *reservation.Reservation {
	ret := date(2026, 8, 20)
	birth := date(1990, 3, 14)
	r := &reservation.Reservation{
		Client: &reservation.Client{
			Name:     "Ana",
			Lastname: "Ruiz",
			Email:    email,
			Phone:    "+57 300 000 0000",
		},
		ReservationType: "international",
		PaymentOption:   reservation.PaymentOptionInstallments,
		AdvisorID:       advisorID,
		OfficeID:        office,
		TotalAmount:     decimal.RequireFromString("3000"),
		PricePerADT:     decimal.RequireFromString("1500"),
		PassengersADT:   2,
		Notes:           "window seats",
		Segments: []reservation.Segment{
			{Origin: "BOG", Destination: "MAD", DepartureDate: date(2026, 8, 1), ReturnDate: &ret},
			{Origin: "MAD", Destination: "ROM", DepartureDate: date(2026, 8, 10)},
		},
		Flights: []reservation.Flight{
			{
				Airline: "Iberia",
				PNR:     "ABC123",
				Itineraries: []reservation.FlightItinerary{
					{FlightNumber: "IB6584", DepartureTime: time.Date(2026, 8, 1, 22, 10, 0, 0, time.UTC), ArrivalTime: time.Date(2026, 8, 2, 14, 30, 0, 0, time.UTC)},
					{FlightNumber: "IB0653", DepartureTime: time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC), ArrivalTime: time.Date(2026, 8, 10, 11, 30, 0, 0, time.UTC)},
				},
			},
			{
				Airline: "Avianca",
				Itineraries: []reservation.FlightItinerary{
					{FlightNumber: "AV011", DepartureTime: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC), ArrivalTime: time.Date(2026, 8, 20, 17, 0, 0, 0, time.UTC)},
				},
			},
		},
		Hotels: []reservation.Hotel{
			{
				Name:     "Gran Via",
				MealPlan: "breakfast",
				Accommodations: []reservation.Accommodation{
					{Rooms: 1, ADT: 2},
					{Rooms: 1, CHD: 1},
				},
				Inclusions: []reservation.Inclusion{{Text: "Breakfast"}},
			},
		},
		Tours:              []reservation.Tour{{Name: "Prado", Date: date(2026, 8, 3), Cost: decimal.RequireFromString("45.50")}},
		MedicalAssistances: []reservation.MedicalAssistance{{PlanType: "gold", StartDate: date(2026, 8, 1), EndDate: date(2026, 8, 20)}},
		Installments: []reservation.Installment{
			{Amount: decimal.RequireFromString("1500"), DueDate: date(2026, 7, 1)},
			{Amount: decimal.RequireFromString("1500"), DueDate: date(2026, 7, 15)},
		},
		Passengers:  []reservation.Passenger{{Name: "Ana", Lastname: "Ruiz", DocumentType: "CC", DocumentNumber: "123", BirthDate: &birth}},
		Attachments: []reservation.Attachment{{Title: "Passport", FileURL: "https://files.example.com/p.pdf"}},
		Transfers:   []reservation.Transfer{{SegmentIndex: intPtr(1), TransferType: reservation.TransferArrival}},
	}
	r.PrepareNew(time.Date(2026, 6, 10, 9, 30, 0, 0, time.UTC))
	return r
}

// createAggregate persists r the way the reservation service does
func createAggregate(t *testing.T, store *GormStore, r *reservation.Reservation) int64 {
	t.Helper()
	ctx := context.Background()
	err := store.Transaction(ctx, func(tx reservation.Store) error {
		client, err := tx.Clients().FindOrCreate(ctx, r.Client)
		if err != nil {
			return err
		}
		r.ClientID = client.ID
		if err := tx.Reservations().CreateHeader(ctx, r); err != nil {
			return err
		}
		return tx.Reservations().InsertChildren(ctx, r, reservation.AllChildren)
	})
	require.NoError(t, err)
	return r.ID
}

func countRows(t *testing.T, db *gorm.DB, model any, reservationID int64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where("reservation_id = ?", reservationID).Count(&n).Error)
	return n
}
