package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidseek/internal/api/middleware"
	"vidseek/internal/api/v1/dto"
	"vidseek/internal/api/v1/services"
)

// VideoHandler handles search and index requests for one video
type VideoHandler struct {
	service services.VideoService
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(service services.VideoService) *VideoHandler {
	return &VideoHandler{
		service: service,
	}
}

// Search handles POST /api/v1/videos/:videoId/search
func (h *VideoHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	resp, err := h.service.Search(c.Request.Context(), c.Param("videoId"), req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Index handles POST /api/v1/videos/:videoId/index. The body is optional.
func (h *VideoHandler) Index(c *gin.Context) {
	var req dto.PageRequest
	if c.Request.ContentLength != 0 {
		if err := middleware.ValidateRequest(c, &req); err != nil {
			middleware.HandleError(c, err)
			return
		}
	}

	resp, err := h.service.BuildIndex(c.Request.Context(), c.Param("videoId"), req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Transcript handles GET /api/v1/videos/:videoId/transcript
func (h *VideoHandler) Transcript(c *gin.Context) {
	req := dto.PageRequest{Duration: c.Query("duration")}

	resp, err := h.service.GetTranscript(c.Request.Context(), c.Param("videoId"), req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
