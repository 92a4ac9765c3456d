// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/boltline/purchasing-dash/internal/api/handlers"
	"github.com/boltline/purchasing-dash/internal/config"
	"github.com/boltline/purchasing-dash/internal/service"
)

func NewRouter(inventory *service.InventoryService, cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(cfg.Server.AllowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	uploadHandler := handlers.NewUploadHandler(inventory, cfg.Upload)
	inventoryHandler := handlers.NewInventoryHandler(inventory)

	apiGroup := router.Group("/api/v1")
	{
		apiGroup.POST("/uploads/bulk", uploadHandler.UploadBulk)
		apiGroup.POST("/uploads/:type", uploadHandler.Upload)
		apiGroup.POST("/session/reset", uploadHandler.Reset)

		inventoryGroup := apiGroup.Group("/inventory")
		{
			inventoryGroup.GET("", inventoryHandler.GetInventory)
			inventoryGroup.GET("/low-stock", inventoryHandler.GetLowStock)
			inventoryGroup.GET("/summary", inventoryHandler.GetSummary)
			inventoryGroup.GET("/:id/reorder", inventoryHandler.GetReorder)
		}

		apiGroup.GET("/items/:item/open-po", inventoryHandler.GetOpenPO)
		apiGroup.GET("/vendors", inventoryHandler.GetVendors)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
