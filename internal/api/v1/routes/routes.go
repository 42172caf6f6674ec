package routes

import (
	"github.com/gin-gonic/gin"

	"vidseek/internal/api/v1/handlers"
	"vidseek/internal/api/v1/services"
)

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	videoHandler := handlers.NewVideoHandler(container.VideoService)
	cacheHandler := handlers.NewCacheHandler(container.CacheService)

	videos := router.Group("/videos/:videoId")
	{
		videos.POST("/search", videoHandler.Search)
		videos.POST("/index", videoHandler.Index)
		videos.GET("/transcript", videoHandler.Transcript)
		videos.DELETE("/cache", cacheHandler.Invalidate)
	}

	if container.ExportService != nil {
		exportHandler := handlers.NewExportHandler(container.ExportService)
		videos.GET("/export", exportHandler.Export)
	}

	router.POST("/cache/sweep", cacheHandler.Sweep)
}

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	VideoService  services.VideoService
	CacheService  services.CacheService
	ExportService services.ExportService
}

// NewServiceContainer builds every service on top of the session service
func NewServiceContainer(sessions services.Sessions) *ServiceContainer {
	return &ServiceContainer{
		VideoService:  services.NewVideoService(sessions),
		CacheService:  services.NewCacheService(sessions),
		ExportService: services.NewExportService(sessions),
	}
}
