package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	reservationapp "github.com/travel/backend/internal/application/reservation"
	"github.com/travel/backend/internal/domain/identity"
	"github.com/travel/backend/internal/domain/shared"
	"github.com/travel/backend/internal/interfaces/http/dto"
	"github.com/travel/backend/internal/interfaces/http/middleware"
)

// ReceiptFormField is the multipart field carrying the receipt
const ReceiptFormField = "file"

// InstallmentUseCases is the part of the installment service the HTTP layer drives
type InstallmentUseCases interface {
	UpdateStatus(ctx context.Context, principal *identity.Principal, installmentID int64, req reservationapp.UpdateInstallmentStatusRequest) (*reservationapp.InstallmentResponse, error)
	UpdateDetails(ctx context.Context, principal *identity.Principal, installmentID int64, req reservationapp.UpdateInstallmentDetailsRequest) (*reservationapp.InstallmentResponse, error)
	UploadReceipt(ctx context.Context, principal *identity.Principal, installmentID int64, file reservationapp.ReceiptFile) (*reservationapp.InstallmentResponse, error)
}

// InstallmentHandler serves the installment endpoints
type InstallmentHandler struct {
	BaseHandler
	service         InstallmentUseCases
	maxReceiptBytes int64
}

// NewInstallmentHandler creates a new InstallmentHandler. Receipts larger
// than maxReceiptBytes are refused while reading.
func NewInstallmentHandler(service InstallmentUseCases, maxReceiptBytes int64) *InstallmentHandler {
	return &InstallmentHandler{service: service, maxReceiptBytes: maxReceiptBytes}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *InstallmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	installments := rg.Group("/installments")
	installments.PATCH("/:id/status", h.UpdateStatus)
	installments.PATCH("/:id", h.UpdateDetails)
	installments.POST("/:id/receipt", h.UploadReceipt)
}

// UpdateStatus handles PATCH /installments/:id/status
func (h *InstallmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req reservationapp.UpdateInstallmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Fail(c, shared.KindInvalidArgument, dto.ErrCodeInvalidJSON, "invalid request body: "+err.Error())
		return
	}
	resp, err := h.service.UpdateStatus(c.Request.Context(), middleware.GetPrincipal(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateDetails handles PATCH /installments/:id
func (h *InstallmentHandler) UpdateDetails(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req reservationapp.UpdateInstallmentDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if shared.KindOf(err) == shared.KindInvalidArgument {
			h.HandleError(c, err)
			return
		}
		h.Fail(c, shared.KindInvalidArgument, dto.ErrCodeInvalidJSON, "invalid request body: "+err.Error())
		return
	}
	resp, err := h.service.UpdateDetails(c.Request.Context(), middleware.GetPrincipal(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UploadReceipt handles POST /installments/:id/receipt with a multipart "file" field
func (h *InstallmentHandler) UploadReceipt(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	header, err := c.FormFile(ReceiptFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.tooLarge(c)
			return
		}
		h.Fail(c, shared.KindInvalidArgument, shared.ErrInvalidArgument.Code, "multipart field \"file\" is required")
		return
	}
	if h.maxReceiptBytes > 0 && header.Size > h.maxReceiptBytes {
		h.tooLarge(c)
		return
	}

	f, err := header.Open()
	if err != nil {
		h.HandleError(c, shared.NewInternalError("open uploaded receipt", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.HandleError(c, shared.NewInternalError("read uploaded receipt", err))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	resp, err := h.service.UploadReceipt(c.Request.Context(), middleware.GetPrincipal(c), id, reservationapp.ReceiptFile{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *InstallmentHandler) tooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(dto.ErrorInfo{
		Kind:      string(shared.KindInvalidArgument),
		Code:      dto.ErrCodeRequestTooLarge,
		Message:   "Receipt exceeds maximum allowed size",
		RequestID: middleware.GetRequestID(c),
	}))
}
