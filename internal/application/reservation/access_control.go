package reservation

import (
	"context"

	"github.com/travel/backend/internal/domain/identity"
	"github.com/travel/backend/internal/domain/reservation"
	"github.com/travel/backend/internal/domain/shared"
)

// InstallmentAccess is the result of an installment authorization check.
// The installment part is a snapshot: writers must re-check mutable fields
// inside their own transaction.
type InstallmentAccess struct {
	Installment reservation.InstallmentOwnership
	Reservation reservation.ReservationOwnership
}

// AccessControlResolver authorizes a principal against one reservation or installment
type AccessControlResolver struct {
	reservations reservation.ReservationRepository
	installments reservation.InstallmentRepository
}

// NewAccessControlResolver creates a new AccessControlResolver
func NewAccessControlResolver(
	reservations reservation.ReservationRepository,
	installments reservation.InstallmentRepository,
) *AccessControlResolver {
	return &AccessControlResolver{
		reservations: reservations,
		installments: installments,
	}
}

// EnsureReservationAccess loads the ownership projection of a reservation and
// checks that the principal may act on it.
func (r *AccessControlResolver) EnsureReservationAccess(
	ctx context.Context,
	principal *identity.Principal,
	reservationID int64,
) (*reservation.ReservationOwnership, error) {
	if err := identity.RequirePrincipal(principal); err != nil {
		return nil, err
	}
	if reservationID <= 0 {
		return nil, shared.NewInvalidArgumentError("reservation id must be a positive integer")
	}

	ownership, err := r.reservations.FindOwnership(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if err := Authorize(principal, *ownership); err != nil {
		return nil, err
	}
	return ownership, nil
}

// EnsureInstallmentAccess loads an installment and authorizes the principal
// against the reservation that owns it.
func (r *AccessControlResolver) EnsureInstallmentAccess(
	ctx context.Context,
	principal *identity.Principal,
	installmentID int64,
) (*InstallmentAccess, error) {
	if err := identity.RequirePrincipal(principal); err != nil {
		return nil, err
	}
	if installmentID <= 0 {
		return nil, shared.NewInvalidArgumentError("installment id must be a positive integer")
	}

	inst, err := r.installments.FindOwnership(ctx, installmentID)
	if err != nil {
		return nil, err
	}

	owner, err := r.EnsureReservationAccess(ctx, principal, inst.ReservationID)
	if err != nil {
		return nil, err
	}

	return &InstallmentAccess{
		Installment: *inst,
		Reservation: *owner,
	}, nil
}

// Authorize applies the role rules to an ownership projection. First match wins:
// superadmin (flag or role) and gestor are allowed unconditionally, administrador
// is allowed when either office is unset or both match, asesor only on its own
// reservations. Any other role is denied.
func Authorize(principal *identity.Principal, owner reservation.ReservationOwnership) error {
	if principal.IsSuper() {
		return nil
	}

	switch principal.NormalizedRole() {
	case identity.RoleManager:
		return nil
	case identity.RoleAdmin:
		if principal.Office() == "" || owner.Office() == "" || principal.Office() == owner.Office() {
			return nil
		}
		return shared.NewForbiddenError("reservation belongs to another office")
	case identity.RoleAdvisor:
		if owner.AdvisorID == principal.ID {
			return nil
		}
		return shared.NewForbiddenError("reservation is assigned to another advisor")
	default:
		return shared.NewForbiddenError("role is not allowed to manage reservations",
			identity.RoleAdvisor.String(),
			identity.RoleManager.String(),
			identity.RoleAdmin.String(),
			identity.RoleSuperAdmin.String(),
		)
	}
}

// ListScopeFor returns the reservations a principal may list
func ListScopeFor(principal *identity.Principal) reservation.ListScope {
	if principal.IsSuper() {
		return reservation.ListScope{All: true}
	}

	switch principal.NormalizedRole() {
	case identity.RoleManager:
		return reservation.ListScope{All: true}
	case identity.RoleAdmin:
		if principal.OfficeID == nil {
			return reservation.ListScope{All: true}
		}
		office := *principal.OfficeID
		return reservation.ListScope{OfficeID: &office}
	case identity.RoleAdvisor:
		id := principal.ID
		return reservation.ListScope{AdvisorID: &id}
	default:
		return reservation.ListScope{}
	}
}
