package reservation

import (
	"context"
	"errors"

	"github.com/travel/backend/internal/domain/identity"
	"github.com/travel/backend/internal/domain/reservation"
	"github.com/travel/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReservationService orchestrates writes of the full reservation aggregate
type ReservationService struct {
	store     reservation.Store
	access    *AccessControlResolver
	allocator reservation.InvoiceNumberAllocator
	clock     shared.Clock
	metrics   Metrics
	logger    *zap.Logger
}

// NewReservationService creates a new ReservationService
func NewReservationService(
	store reservation.Store,
	access *AccessControlResolver,
	allocator reservation.InvoiceNumberAllocator,
	logger *zap.Logger,
) *ReservationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReservationService{
		store:     store,
		access:    access,
		allocator: allocator,
		clock:     shared.NewSystemClock(nil),
		metrics:   noopMetrics{},
		logger:    logger,
	}
}

// SetClock replaces the clock used for timestamps
func (s *ReservationService) SetClock(clock shared.Clock) {
	s.clock = clock
}

// SetMetrics sets the business metrics sink
func (s *ReservationService) SetMetrics(metrics Metrics) {
	if metrics != nil {
		s.metrics = metrics
	}
}

// Create persists a new reservation with every child collection in one transaction
// and returns its id. advisor_id and office_id default to the principal's.
func (s *ReservationService) Create(ctx context.Context, principal *identity.Principal, payload *ReservationPayload) (int64, error) {
	if err := identity.RequirePrincipal(principal); err != nil {
		return 0, err
	}
	if payload == nil {
		return 0, shared.NewInvalidArgumentError("reservation payload is required")
	}
	if err := validatePayload(payload); err != nil {
		return 0, err
	}

	r := payload.ToDomain()
	if r.AdvisorID == 0 {
		r.AdvisorID = principal.ID
	}
	if r.OfficeID == nil {
		r.OfficeID = principal.OfficeID
	}
	r.PrepareNew(s.clock.Now())
	if err := r.Validate(); err != nil {
		return 0, err
	}
	s.warnUnbalanced(r)

	err := s.store.Transaction(ctx, func(tx reservation.Store) error {
		client, err := tx.Clients().FindOrCreate(ctx, r.Client)
		if err != nil {
			return err
		}
		r.ClientID = client.ID
		r.Client = client

		if err := tx.Reservations().CreateHeader(ctx, r); err != nil {
			return err
		}
		return tx.Reservations().InsertChildren(ctx, r, reservation.AllChildren)
	})
	if err != nil {
		return 0, err
	}

	s.metrics.RecordReservationCreated(ctx, string(r.PaymentOption))
	s.logger.Info("reservation created",
		zap.Int64("reservation_id", r.ID),
		zap.Int64("client_id", r.ClientID),
		zap.Int64("advisor_id", r.AdvisorID),
		zap.Int64("principal_id", principal.ID),
	)
	return r.ID, nil
}

// Update replaces the header and every child collection except installments.
// Installments are owned by InstallmentService and are never touched here.
func (s *ReservationService) Update(ctx context.Context, principal *identity.Principal, reservationID int64, payload *ReservationPayload) error {
	owner, err := s.access.EnsureReservationAccess(ctx, principal, reservationID)
	if err != nil {
		return err
	}
	if payload == nil {
		return shared.NewInvalidArgumentError("reservation payload is required")
	}
	payload.Installments = nil
	if err := validatePayload(payload); err != nil {
		return err
	}

	r := payload.ToDomain()
	r.ID = reservationID
	if r.AdvisorID == 0 {
		r.AdvisorID = owner.AdvisorID
	}
	if r.OfficeID == nil {
		r.OfficeID = owner.OfficeID
	}
	r.UpdatedAt = s.clock.Now()
	if err := r.Validate(); err != nil {
		return err
	}

	err = s.store.Transaction(ctx, func(tx reservation.Store) error {
		if _, err := tx.Reservations().LockHeader(ctx, reservationID); err != nil {
			return err
		}

		client, err := tx.Clients().FindOrCreate(ctx, r.Client)
		if err != nil {
			return err
		}
		r.ClientID = client.ID

		if err := tx.Reservations().UpdateHeader(ctx, r); err != nil {
			return err
		}
		if err := tx.Reservations().DeleteChildren(ctx, reservationID, reservation.EditableChildren); err != nil {
			return err
		}
		return tx.Reservations().InsertChildren(ctx, r, reservation.EditableChildren)
	})
	if err != nil {
		return err
	}

	s.logger.Info("reservation updated",
		zap.Int64("reservation_id", reservationID),
		zap.Int64("principal_id", principal.ID),
	)
	return nil
}

// Delete removes every owned child row and then the header
func (s *ReservationService) Delete(ctx context.Context, principal *identity.Principal, reservationID int64) error {
	if _, err := s.access.EnsureReservationAccess(ctx, principal, reservationID); err != nil {
		return err
	}

	err := s.store.Transaction(ctx, func(tx reservation.Store) error {
		if _, err := tx.Reservations().LockHeader(ctx, reservationID); err != nil {
			return err
		}
		if err := tx.Reservations().DeleteChildren(ctx, reservationID, reservation.AllChildren); err != nil {
			return err
		}
		return tx.Reservations().DeleteHeader(ctx, reservationID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("reservation deleted",
		zap.Int64("reservation_id", reservationID),
		zap.Int64("principal_id", principal.ID),
	)
	return nil
}

// Approve allocates an invoice number and confirms a pending reservation.
// A number lost to a failed approval is never reissued, so gaps are possible.
func (s *ReservationService) Approve(ctx context.Context, principal *identity.Principal, reservationID int64) (*ApproveResult, error) {
	owner, err := s.access.EnsureReservationAccess(ctx, principal, reservationID)
	if err != nil {
		return nil, err
	}
	// Checked again under the row lock; this only keeps obvious misses from
	// drawing a number.
	if !owner.Status.CanTransitionTo(reservation.StatusConfirmed) {
		return nil, notApprovable(owner.Status)
	}

	invoiceNumber, err := s.allocator.Next(ctx)
	if err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx reservation.Store) error {
		header, err := tx.Reservations().LockHeader(ctx, reservationID)
		if err != nil {
			return err
		}
		if !header.Status.CanTransitionTo(reservation.StatusConfirmed) {
			return notApprovable(header.Status)
		}
		return tx.Reservations().Confirm(ctx, reservationID, invoiceNumber)
	})
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			s.metrics.RecordInvoiceConflict(ctx)
			s.logger.Warn("invoice number conflict on approval",
				zap.Int64("reservation_id", reservationID),
				zap.Int64("invoice_number", invoiceNumber),
			)
		}
		return nil, err
	}

	s.metrics.RecordReservationApproved(ctx)
	s.logger.Info("reservation approved",
		zap.Int64("reservation_id", reservationID),
		zap.Int64("invoice_number", invoiceNumber),
		zap.Int64("principal_id", principal.ID),
	)

	result := &ApproveResult{InvoiceNumber: invoiceNumber}
	approved, err := s.store.Reservations().FindByID(ctx, reservationID)
	if err != nil {
		// The approval is committed; the caller still gets its number.
		s.logger.Warn("failed to reload approved reservation",
			zap.Int64("reservation_id", reservationID),
			zap.Error(err),
		)
		return result, nil
	}
	result.Reservation = ToReservationResponse(approved)
	return result, nil
}

func notApprovable(status reservation.Status) error {
	return shared.NewInvalidStateError("only pending reservations can be approved, current status is " + status.String())
}

// Reject marks a pending reservation as rejected
func (s *ReservationService) Reject(ctx context.Context, principal *identity.Principal, reservationID int64) error {
	if _, err := s.access.EnsureReservationAccess(ctx, principal, reservationID); err != nil {
		return err
	}

	err := s.store.Transaction(ctx, func(tx reservation.Store) error {
		header, err := tx.Reservations().LockHeader(ctx, reservationID)
		if err != nil {
			return err
		}
		if !header.Status.CanTransitionTo(reservation.StatusRejected) {
			return shared.NewInvalidStateError("only pending reservations can be rejected, current status is " + header.Status.String())
		}
		return tx.Reservations().SetStatus(ctx, reservationID, reservation.StatusRejected)
	})
	if err != nil {
		return err
	}

	s.metrics.RecordReservationRejected(ctx)
	s.logger.Info("reservation rejected",
		zap.Int64("reservation_id", reservationID),
		zap.Int64("principal_id", principal.ID),
	)
	return nil
}

// Get returns the full aggregate
func (s *ReservationService) Get(ctx context.Context, principal *identity.Principal, reservationID int64) (*ReservationResponse, error) {
	if _, err := s.access.EnsureReservationAccess(ctx, principal, reservationID); err != nil {
		return nil, err
	}
	r, err := s.store.Reservations().FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	return ToReservationResponse(r), nil
}

// List returns the reservation headers the principal may see
func (s *ReservationService) List(ctx context.Context, principal *identity.Principal, req ListReservationsRequest) (*shared.Paginated[ReservationResponse], error) {
	if err := identity.RequirePrincipal(principal); err != nil {
		return nil, err
	}
	if err := validatePayload(req); err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	filter.Search = req.Search
	filter.Status = req.Status

	scope := ListScopeFor(principal)
	if scope.IsEmpty() {
		page := shared.NewPaginated([]ReservationResponse{}, 0, filter.Page, filter.PageSize)
		return &page, nil
	}

	rows, total, err := s.store.Reservations().List(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ReservationResponse, 0, len(rows))
	for i := range rows {
		items = append(items, *ToReservationResponse(&rows[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// warnUnbalanced logs when installment amounts do not add up to the total.
// The rule is advisory and never blocks a write.
func (s *ReservationService) warnUnbalanced(r *reservation.Reservation) {
	if r.InstallmentsBalanced() {
		return
	}
	s.logger.Warn("installment amounts do not match reservation total",
		zap.String("total_amount", r.TotalAmount.String()),
		zap.String("installment_total", r.InstallmentTotal().String()),
		zap.Int("installments", len(r.Installments)),
	)
}
