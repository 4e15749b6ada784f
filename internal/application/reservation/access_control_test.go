package reservation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/travel/backend/internal/domain/identity"
	"github.com/travel/backend/internal/domain/reservation"
	"github.com/travel/backend/internal/domain/shared"
)

func strPtr(s string) *string { return &s }

func principal(id int64, role string, office *string) *identity.Principal {
	return &identity.Principal{ID: id, Role: role, OfficeID: office}
}

func TestAuthorize(t *testing.T) {
	owner := reservation.ReservationOwnership{ID: 1, AdvisorID: 10, OfficeID: strPtr("BOG")}
	noOffice := reservation.ReservationOwnership{ID: 2, AdvisorID: 10}
	blankOffice := reservation.ReservationOwnership{ID: 3, AdvisorID: 10, OfficeID: strPtr("")}

	tests := []struct {
		name      string
		principal *identity.Principal
		owner     reservation.ReservationOwnership
		allowed   bool
	}{
		{"superadmin flag overrides role", &identity.Principal{ID: 99, Role: "contador", IsSuperAdmin: true}, owner, true},
		{"superadmin role", principal(99, "SuperAdmin", strPtr("MDE")), owner, true},
		{"gestor always", principal(50, "manager", strPtr("MDE")), owner, true},
		{"admin same office", principal(20, "admin", strPtr("BOG")), owner, true},
		{"admin other office", principal(20, "administrador", strPtr("MDE")), owner, false},
		{"admin without office", principal(20, "admin", nil), owner, true},
		{"admin on reservation without office", principal(20, "admin", strPtr("MDE")), noOffice, true},
		{"admin on reservation with blank office", principal(20, "admin", strPtr("MDE")), blankOffice, true},
		{"advisor owner", principal(10, "asesor", nil), owner, true},
		{"advisor alias owner", principal(10, "Advisor", nil), owner, true},
		{"advisor not owner", principal(11, "asesor", strPtr("BOG")), owner, false},
		{"unknown role", principal(10, "contador", strPtr("BOG")), owner, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.principal, tt.owner)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrForbidden)
			assert.Equal(t, shared.KindForbidden, shared.KindOf(err))
		})
	}
}

func TestAuthorize_UnknownRoleListsRequiredRoles(t *testing.T) {
	err := Authorize(principal(1, "viewer", nil), reservation.ReservationOwnership{AdvisorID: 1})
	de := shared.AsDomainError(err)
	require.NotNil(t, de)
	assert.ElementsMatch(t, []string{"asesor", "gestor", "administrador", "superadmin"}, de.RequiredRoles)
}

func TestEnsureReservationAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("nil principal", func(t *testing.T) {
		store := newMockStore()
		resolver := NewAccessControlResolver(store.reservations, store.installments)
		_, err := resolver.EnsureReservationAccess(ctx, nil, 1)
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})

	t.Run("invalid id", func(t *testing.T) {
		store := newMockStore()
		resolver := NewAccessControlResolver(store.reservations, store.installments)
		_, err := resolver.EnsureReservationAccess(ctx, principal(1, "gestor", nil), 0)
		assert.Equal(t, shared.KindInvalidArgument, shared.KindOf(err))
		store.reservations.AssertNotCalled(t, "FindOwnership", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		store := newMockStore()
		store.reservations.On("FindOwnership", ctx, int64(5)).Return(nil, shared.NewNotFoundError("reservation", 5))
		resolver := NewAccessControlResolver(store.reservations, store.installments)

		_, err := resolver.EnsureReservationAccess(ctx, principal(1, "gestor", nil), 5)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("advisor allowed only on own reservation", func(t *testing.T) {
		store := newMockStore()
		store.reservations.On("FindOwnership", ctx, int64(5)).
			Return(&reservation.ReservationOwnership{ID: 5, AdvisorID: 10}, nil)
		resolver := NewAccessControlResolver(store.reservations, store.installments)

		owner, err := resolver.EnsureReservationAccess(ctx, principal(10, "asesor", nil), 5)
		require.NoError(t, err)
		assert.Equal(t, int64(10), owner.AdvisorID)

		_, err = resolver.EnsureReservationAccess(ctx, principal(11, "asesor", nil), 5)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestEnsureInstallmentAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("delegates to the owning reservation", func(t *testing.T) {
		store := newMockStore()
		store.installments.On("FindOwnership", ctx, int64(7)).
			Return(&reservation.InstallmentOwnership{ID: 7, ReservationID: 5, Status: reservation.InstallmentPending}, nil)
		store.reservations.On("FindOwnership", ctx, int64(5)).
			Return(&reservation.ReservationOwnership{ID: 5, AdvisorID: 10, OfficeID: strPtr("BOG")}, nil)
		resolver := NewAccessControlResolver(store.reservations, store.installments)

		access, err := resolver.EnsureInstallmentAccess(ctx, principal(30, "admin", strPtr("BOG")), 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), access.Installment.ID)
		assert.Equal(t, int64(5), access.Reservation.ID)

		_, err = resolver.EnsureInstallmentAccess(ctx, principal(30, "admin", strPtr("CLO")), 7)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("missing installment", func(t *testing.T) {
		store := newMockStore()
		store.installments.On("FindOwnership", ctx, int64(8)).Return(nil, shared.NewNotFoundError("installment", 8))
		resolver := NewAccessControlResolver(store.reservations, store.installments)

		_, err := resolver.EnsureInstallmentAccess(ctx, principal(1, "gestor", nil), 8)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		store.reservations.AssertNotCalled(t, "FindOwnership", mock.Anything, mock.Anything)
	})

	t.Run("negative id", func(t *testing.T) {
		store := newMockStore()
		resolver := NewAccessControlResolver(store.reservations, store.installments)
		_, err := resolver.EnsureInstallmentAccess(ctx, principal(1, "gestor", nil), -3)
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})
}

func TestListScopeFor(t *testing.T) {
	assert.True(t, ListScopeFor(&identity.Principal{ID: 1, IsSuperAdmin: true}).All)
	assert.True(t, ListScopeFor(principal(1, "gestor", strPtr("BOG"))).All)
	assert.True(t, ListScopeFor(principal(1, "admin", nil)).All)

	adminScope := ListScopeFor(principal(1, "admin", strPtr("BOG")))
	require.NotNil(t, adminScope.OfficeID)
	assert.Equal(t, "BOG", *adminScope.OfficeID)
	assert.False(t, adminScope.All)

	advisorScope := ListScopeFor(principal(4, "asesor", strPtr("BOG")))
	require.NotNil(t, advisorScope.AdvisorID)
	assert.Equal(t, int64(4), *advisorScope.AdvisorID)
	assert.Nil(t, advisorScope.OfficeID)

	assert.True(t, ListScopeFor(principal(4, "contador", nil)).IsEmpty())
}
