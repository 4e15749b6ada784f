package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	reservationapp "github.com/travel/backend/internal/application/reservation"
	"github.com/travel/backend/internal/domain/identity"
	"github.com/travel/backend/internal/domain/shared"
	"github.com/travel/backend/internal/interfaces/http/dto"
	"github.com/travel/backend/internal/interfaces/http/middleware"
)

// ReservationUseCases is the part of the reservation service the HTTP layer drives
type ReservationUseCases interface {
	Create(ctx context.Context, principal *identity.Principal, payload *reservationapp.ReservationPayload) (int64, error)
	Update(ctx context.Context, principal *identity.Principal, reservationID int64, payload *reservationapp.ReservationPayload) error
	Delete(ctx context.Context, principal *identity.Principal, reservationID int64) error
	Approve(ctx context.Context, principal *identity.Principal, reservationID int64) (*reservationapp.ApproveResult, error)
	Reject(ctx context.Context, principal *identity.Principal, reservationID int64) error
	Get(ctx context.Context, principal *identity.Principal, reservationID int64) (*reservationapp.ReservationResponse, error)
	List(ctx context.Context, principal *identity.Principal, req reservationapp.ListReservationsRequest) (*shared.Paginated[reservationapp.ReservationResponse], error)
}

// ReservationHandler serves the reservation aggregate endpoints
type ReservationHandler struct {
	BaseHandler
	service ReservationUseCases
}

// NewReservationHandler creates a new ReservationHandler
func NewReservationHandler(service ReservationUseCases) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *ReservationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reservations := rg.Group("/reservations")
	reservations.POST("", h.Create)
	reservations.GET("", h.List)
	reservations.GET("/:id", h.Get)
	reservations.PUT("/:id", h.Update)
	reservations.DELETE("/:id", h.Delete)
	reservations.POST("/:id/approve", h.Approve)
	reservations.POST("/:id/reject", h.Reject)
}

// CreateReservationResponse is returned by POST /reservations
type CreateReservationResponse struct {
	ID int64 `json:"id"`
}

// Create handles POST /reservations
func (h *ReservationHandler) Create(c *gin.Context) {
	raw, ok := h.readBody(c)
	if !ok {
		return
	}
	payload, err := reservationapp.DecodeCreatePayload(raw)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	id, err := h.service.Create(c.Request.Context(), middleware.GetPrincipal(c), payload)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, CreateReservationResponse{ID: id})
}

// List handles GET /reservations
func (h *ReservationHandler) List(c *gin.Context) {
	var req reservationapp.ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Fail(c, shared.KindInvalidArgument, shared.ErrInvalidArgument.Code, "invalid query parameters: "+err.Error())
		return
	}
	page, err := h.service.List(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(*page))
}

// Get handles GET /reservations/:id
func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.Get(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /reservations/:id. Installment keys in the body are ignored.
func (h *ReservationHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	raw, ok := h.readBody(c)
	if !ok {
		return
	}
	payload, err := reservationapp.DecodeUpdatePayload(raw)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.service.Update(c.Request.Context(), middleware.GetPrincipal(c), id, payload); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete handles DELETE /reservations/:id
func (h *ReservationHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Approve handles POST /reservations/:id/approve
func (h *ReservationHandler) Approve(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.service.Approve(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Reject handles POST /reservations/:id/reject
func (h *ReservationHandler) Reject(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Reject(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *ReservationHandler) readBody(c *gin.Context) ([]byte, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(dto.ErrorInfo{
				Kind:      string(shared.KindInvalidArgument),
				Code:      dto.ErrCodeRequestTooLarge,
				Message:   "Request body exceeds maximum allowed size",
				RequestID: middleware.GetRequestID(c),
			}))
			return nil, false
		}
		h.Fail(c, shared.KindInvalidArgument, dto.ErrCodeInvalidJSON, "failed to read request body")
		return nil, false
	}
	if len(raw) == 0 {
		h.Fail(c, shared.KindInvalidArgument, dto.ErrCodeInvalidJSON, "request body is required")
		return nil, false
	}
	return raw, true
}
