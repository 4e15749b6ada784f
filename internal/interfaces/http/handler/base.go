// Package handler adapts HTTP requests onto the reservation application services.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/travel/backend/internal/domain/shared"
	"github.com/travel/backend/internal/infrastructure/logger"
	"github.com/travel/backend/internal/interfaces/http/dto"
	"github.com/travel/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Fail sends a transport level error that never reached a service
func (h *BaseHandler) Fail(c *gin.Context, kind shared.ErrorKind, code, message string) {
	c.JSON(dto.HTTPStatus(kind), dto.NewErrorResponse(dto.ErrorInfo{
		Kind:      string(kind),
		Code:      code,
		Message:   message,
		RequestID: middleware.GetRequestID(c),
	}))
}

// HandleError renders err through the kind to status table.
// Internal errors are logged with their cause and returned masked.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	status, info := dto.FromError(err, middleware.GetRequestID(c))
	if status >= http.StatusInternalServerError {
		logger.L(c.Request.Context()).Error("Request failed",
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		_ = c.Error(err)
	}
	c.JSON(status, dto.NewErrorResponse(info))
}

// pathID parses a positive integer path parameter
func (h *BaseHandler) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		h.Fail(c, shared.KindInvalidArgument, dto.ErrCodeInvalidID, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
