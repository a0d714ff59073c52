package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/datium-labs/dspm-analyzer/internal/http/handlers"
)

type RouterConfig struct {
	ServiceName    string
	CollectorAuth  gin.HandlerFunc
	AssetHandler   *handlers.AssetHandler
	ProfileHandler *handlers.ProfileHandler
	GuardHandler   *handlers.GuardHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	router.GET("/health", handlers.Health)

	// Collector write surface.
	ingest := router.Group("/")
	if cfg.CollectorAuth != nil {
		ingest.Use(cfg.CollectorAuth)
	}
	ingest.POST("/api/assets/bulk", cfg.AssetHandler.IngestBulk)
	ingest.POST("/api/assets/save", cfg.AssetHandler.IngestBulk)
	ingest.POST("/collect/meta", cfg.AssetHandler.Collect)

	// Query surface.
	router.GET("/api/assets", cfg.AssetHandler.ListAssets)
	router.GET("/api/assets/:id", cfg.AssetHandler.GetAsset)
	router.GET("/profiles/*locator", cfg.ProfileHandler.GetByLocator)
	router.GET("/guards/violations", cfg.GuardHandler.Violations)
	router.GET("/guards/status", cfg.GuardHandler.Status)

	return router
}
