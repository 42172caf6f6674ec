package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidseek/internal/api/middleware"
	"vidseek/internal/api/v1/services"
)

// CacheHandler handles cache maintenance requests
type CacheHandler struct {
	service services.CacheService
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(service services.CacheService) *CacheHandler {
	return &CacheHandler{
		service: service,
	}
}

// Invalidate handles DELETE /api/v1/videos/:videoId/cache
func (h *CacheHandler) Invalidate(c *gin.Context) {
	if err := h.service.Invalidate(c.Request.Context(), c.Param("videoId")); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Sweep handles POST /api/v1/cache/sweep
func (h *CacheHandler) Sweep(c *gin.Context) {
	resp, err := h.service.Sweep(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
