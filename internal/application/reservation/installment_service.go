package reservation

import (
	"context"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/travel/backend/internal/domain/identity"
	"github.com/travel/backend/internal/domain/reservation"
	"github.com/travel/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// allowedReceiptTypes maps accepted receipt content types to their file extension
var allowedReceiptTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
}

// DefaultMaxReceiptBytes caps receipt uploads when no limit is configured
const DefaultMaxReceiptBytes = 10 << 20

// InstallmentService implements the installment payment state machine
type InstallmentService struct {
	store           reservation.Store
	access          *AccessControlResolver
	storage         BlobStorage
	clock           shared.Clock
	metrics         Metrics
	logger          *zap.Logger
	maxReceiptBytes int64
}

// NewInstallmentService creates a new InstallmentService
func NewInstallmentService(
	store reservation.Store,
	access *AccessControlResolver,
	storage BlobStorage,
	logger *zap.Logger,
) *InstallmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstallmentService{
		store:           store,
		access:          access,
		storage:         storage,
		clock:           shared.NewSystemClock(nil),
		metrics:         noopMetrics{},
		logger:          logger,
		maxReceiptBytes: DefaultMaxReceiptBytes,
	}
}

// SetClock replaces the clock used to stamp payment dates
func (s *InstallmentService) SetClock(clock shared.Clock) {
	s.clock = clock
}

// SetMetrics sets the business metrics sink
func (s *InstallmentService) SetMetrics(metrics Metrics) {
	if metrics != nil {
		s.metrics = metrics
	}
}

// SetMaxReceiptBytes sets the upload size limit
func (s *InstallmentService) SetMaxReceiptBytes(n int64) {
	if n > 0 {
		s.maxReceiptBytes = n
	}
}

// UpdateStatus moves an installment between pending and paid. For full-payment
// reservations the new status is mirrored onto the header after commit; that
// secondary write is best effort and only logged on failure.
func (s *InstallmentService) UpdateStatus(
	ctx context.Context,
	principal *identity.Principal,
	installmentID int64,
	req UpdateInstallmentStatusRequest,
) (*InstallmentResponse, error) {
	access, err := s.access.EnsureInstallmentAccess(ctx, principal, installmentID)
	if err != nil {
		return nil, err
	}
	if err := validatePayload(req); err != nil {
		return nil, err
	}
	target := reservation.InstallmentStatus(req.Status)

	superAdmin := principal.IsSuper()
	if err := reservation.EnsurePaidMutable(access.Installment.Status, superAdmin); err != nil {
		return nil, err
	}

	var (
		updated  *reservation.Installment
		previous reservation.InstallmentStatus
	)
	err = s.store.Transaction(ctx, func(tx reservation.Store) error {
		current, err := tx.Installments().LockByID(ctx, installmentID)
		if err != nil {
			return err
		}
		previous = current.Status

		next, err := reservation.NextInstallmentState(reservation.InstallmentOwnership{
			ID:            current.ID,
			ReservationID: current.ReservationID,
			Status:        current.Status,
			PaymentDate:   current.PaymentDate,
		}, target, superAdmin, s.clock.Today())
		if err != nil {
			return err
		}

		changes := reservation.InstallmentChanges{Status: &next.Status}
		if next.PaymentDate != nil {
			changes.PaymentDate = next.PaymentDate
		} else {
			changes.ClearPaymentDate = true
		}
		if err := tx.Installments().Update(ctx, installmentID, changes); err != nil {
			return err
		}

		current.Status = next.Status
		current.PaymentDate = next.PaymentDate
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordInstallmentTransition(ctx, previous.String(), updated.Status.String())
	s.logger.Info("installment status updated",
		zap.Int64("installment_id", installmentID),
		zap.Int64("reservation_id", updated.ReservationID),
		zap.String("from", previous.String()),
		zap.String("to", updated.Status.String()),
		zap.Int64("principal_id", principal.ID),
	)

	s.mirrorPaymentStatus(ctx, updated.ReservationID, updated.Status)

	resp := ToInstallmentResponse(updated)
	return &resp, nil
}

// mirrorPaymentStatus copies the installment status onto the reservation header
// of a full-payment plan. Errors are logged and swallowed.
func (s *InstallmentService) mirrorPaymentStatus(ctx context.Context, reservationID int64, status reservation.InstallmentStatus) {
	changed, err := s.store.Reservations().MirrorPaymentStatus(ctx, reservationID, status)
	if err != nil {
		s.logger.Error("failed to mirror installment status onto reservation",
			zap.Int64("reservation_id", reservationID),
			zap.String("payment_status", status.String()),
			zap.Error(err),
		)
		return
	}
	if changed {
		s.logger.Debug("reservation payment status mirrored",
			zap.Int64("reservation_id", reservationID),
			zap.String("payment_status", status.String()),
		)
	}
}

// UpdateDetails overwrites the supplied installment fields. Superadmin only,
// checked before any data access. The header is not touched.
func (s *InstallmentService) UpdateDetails(
	ctx context.Context,
	principal *identity.Principal,
	installmentID int64,
	req UpdateInstallmentDetailsRequest,
) (*InstallmentResponse, error) {
	if err := identity.RequirePrincipal(principal); err != nil {
		return nil, err
	}
	if !principal.IsSuper() {
		return nil, shared.NewForbiddenError("only a superadmin can edit installment details",
			identity.RoleSuperAdmin.String())
	}
	if installmentID <= 0 {
		return nil, shared.NewInvalidArgumentError("installment id must be a positive integer")
	}
	if err := validatePayload(req); err != nil {
		return nil, err
	}

	changes := req.ToChanges()
	if err := changes.Validate(); err != nil {
		return nil, err
	}

	var updated *reservation.Installment
	err := s.store.Transaction(ctx, func(tx reservation.Store) error {
		if _, err := tx.Installments().LockByID(ctx, installmentID); err != nil {
			return err
		}
		if !changes.IsEmpty() {
			if err := tx.Installments().Update(ctx, installmentID, changes); err != nil {
				return err
			}
		}
		inst, err := tx.Installments().FindByID(ctx, installmentID)
		if err != nil {
			return err
		}
		updated = inst
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("installment details updated",
		zap.Int64("installment_id", installmentID),
		zap.Int64("principal_id", principal.ID),
	)
	resp := ToInstallmentResponse(updated)
	return &resp, nil
}

// UploadReceipt stores a payment receipt and records its URL on the installment.
// A storage failure aborts before any database write.
func (s *InstallmentService) UploadReceipt(
	ctx context.Context,
	principal *identity.Principal,
	installmentID int64,
	file ReceiptFile,
) (*InstallmentResponse, error) {
	if err := identity.RequirePrincipal(principal); err != nil {
		return nil, err
	}
	if installmentID <= 0 {
		return nil, shared.NewInvalidArgumentError("installment id must be a positive integer")
	}
	if len(file.Data) == 0 {
		return nil, shared.NewInvalidArgumentError("receipt file is empty")
	}
	if int64(len(file.Data)) > s.maxReceiptBytes {
		return nil, shared.NewInvalidArgumentError("receipt exceeds the %d byte limit", s.maxReceiptBytes)
	}
	contentType := normalizeContentType(file.ContentType)
	ext, ok := allowedReceiptTypes[contentType]
	if !ok {
		return nil, shared.NewInvalidArgumentError("content type %q is not allowed for receipts", file.ContentType)
	}

	if _, err := s.store.Installments().FindOwnership(ctx, installmentID); err != nil {
		return nil, err
	}

	key := ReceiptKey(installmentID, uuid.New(), ext)
	url, err := s.storage.Put(ctx, key, file.Data, contentType)
	if err != nil {
		s.logger.Error("failed to store installment receipt",
			zap.Int64("installment_id", installmentID),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, shared.NewInternalError("failed to store receipt", err)
	}

	if err := s.store.Installments().Update(ctx, installmentID, reservation.InstallmentChanges{ReceiptURL: &url}); err != nil {
		return nil, err
	}
	inst, err := s.store.Installments().FindByID(ctx, installmentID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("installment receipt uploaded",
		zap.Int64("installment_id", installmentID),
		zap.String("key", key),
		zap.Int("bytes", len(file.Data)),
		zap.Int64("principal_id", principal.ID),
	)
	resp := ToInstallmentResponse(inst)
	return &resp, nil
}

// ReceiptKey builds the object key of an installment receipt
func ReceiptKey(installmentID int64, id uuid.UUID, ext string) string {
	return path.Join("receipts", "installments", strconv.FormatInt(installmentID, 10), id.String()+ext)
}

func normalizeContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}
