package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"vidseek/internal/api/errors"
	"vidseek/internal/api/middleware"
	"vidseek/internal/api/v1/dto"
	"vidseek/internal/api/v1/services"
)

var exportContentTypes = map[string]string{
	services.FormatCSV:  "text/csv",
	services.FormatJSON: "application/json",
	services.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ExportHandler handles export-related HTTP requests
type ExportHandler struct {
	service services.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(service services.ExportService) *ExportHandler {
	return &ExportHandler{
		service: service,
	}
}

// Export handles GET /api/v1/videos/:videoId/export?format=csv|json|xlsx
func (h *ExportHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("Invalid query parameters",
			map[string]string{"format": "must be one of csv, json, xlsx"}))
		return
	}
	if req.Format == "" {
		req.Format = services.FormatCSV
	}

	videoID := c.Param("videoId")

	// Buffer so a failure can still be reported as an error response
	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), videoID, req.Format, &buf); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", videoID, req.Format))
	c.Data(http.StatusOK, exportContentTypes[req.Format], buf.Bytes())
}
