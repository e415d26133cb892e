package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms/backend/internal/domain/integration"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError maps integration errors to HTTP responses. Platform-side
// failures surface as 502 so callers can tell an upstream outage from a
// bug in this service.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, integration.ErrConnectionNotFound):
		h.NotFound(c, "connection not found")
	case errors.Is(err, integration.ErrConnectionInactive):
		h.Error(c, http.StatusConflict, dto.ErrCodeConflict, "connection is not active")
	case errors.Is(err, integration.ErrPlatformRateLimited):
		h.Error(c, http.StatusTooManyRequests, dto.ErrCodeRateLimited, "platform rate limit reached, try again later")
	case errors.Is(err, integration.ErrPlatformAuthFailed),
		errors.Is(err, integration.ErrPlatformUnavailable):
		h.Error(c, http.StatusBadGateway, dto.ErrCodeUpstream, err.Error())
	default:
		var apiErr *integration.APIError
		if errors.As(err, &apiErr) {
			h.Error(c, http.StatusBadGateway, dto.ErrCodeUpstream, apiErr.Error())
			return
		}
		h.InternalError(c, "An unexpected error occurred")
	}
}
