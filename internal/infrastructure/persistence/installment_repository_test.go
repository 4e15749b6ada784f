package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travel/backend/internal/domain/reservation"
	"github.com/travel/backend/internal/domain/shared"
)

func TestGormInstallmentRepository(t *testing.T) {
	db := setupReservationTestDB(t)
	store := NewGormStore(db)
	repo := store.Installments()
	ctx := context.Background()

	r := sampleReservation("ana@example.com", 10, nil)
	resID := createAggregate(t, store, r)
	instID := r.Installments[0].ID
	require.NotZero(t, instID)

	t.Run("find ownership", func(t *testing.T) {
		owner, err := repo.FindOwnership(ctx, instID)
		require.NoError(t, err)
		assert.Equal(t, resID, owner.ReservationID)
		assert.Equal(t, reservation.InstallmentPending, owner.Status)
		assert.Nil(t, owner.PaymentDate)

		_, err = repo.FindOwnership(ctx, instID+100)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("mark paid", func(t *testing.T) {
		paid := reservation.InstallmentPaid
		on := date(2026, 6, 10)
		err := store.Transaction(ctx, func(tx reservation.Store) error {
			if _, err := tx.Installments().LockByID(ctx, instID); err != nil {
				return err
			}
			return tx.Installments().Update(ctx, instID, reservation.InstallmentChanges{Status: &paid, PaymentDate: &on})
		})
		require.NoError(t, err)

		got, err := repo.FindByID(ctx, instID)
		require.NoError(t, err)
		assert.Equal(t, reservation.InstallmentPaid, got.Status)
		require.NotNil(t, got.PaymentDate)
		assert.True(t, got.PaymentDate.Equal(on))
		assert.True(t, decimal.RequireFromString("1500").Equal(got.Amount))
	})

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		amount := decimal.RequireFromString("1499.99")
		require.NoError(t, repo.Update(ctx, instID, reservation.InstallmentChanges{Amount: &amount}))

		got, err := repo.FindByID(ctx, instID)
		require.NoError(t, err)
		assert.True(t, amount.Equal(got.Amount))
		assert.Equal(t, reservation.InstallmentPaid, got.Status)
		assert.NotNil(t, got.PaymentDate)
	})

	t.Run("clear payment date", func(t *testing.T) {
		pending := reservation.InstallmentPending
		require.NoError(t, repo.Update(ctx, instID, reservation.InstallmentChanges{Status: &pending, ClearPaymentDate: true}))

		got, err := repo.FindByID(ctx, instID)
		require.NoError(t, err)
		assert.Equal(t, reservation.InstallmentPending, got.Status)
		assert.Nil(t, got.PaymentDate)
	})

	t.Run("receipt url", func(t *testing.T) {
		url := "https://files.example.com/receipts/installments/1/r.pdf"
		require.NoError(t, repo.Update(ctx, instID, reservation.InstallmentChanges{ReceiptURL: &url}))

		got, err := repo.FindByID(ctx, instID)
		require.NoError(t, err)
		assert.Equal(t, url, got.ReceiptURL)
	})

	t.Run("missing installment", func(t *testing.T) {
		url := "x"
		err := repo.Update(ctx, 9999, reservation.InstallmentChanges{ReceiptURL: &url})
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.LockByID(ctx, 9999)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("empty changes are a no-op", func(t *testing.T) {
		assert.NoError(t, repo.Update(ctx, 9999, reservation.InstallmentChanges{}))
	})
}
