// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/boltline/purchasing-dash/internal/api"
	"github.com/boltline/purchasing-dash/internal/cache"
	"github.com/boltline/purchasing-dash/internal/config"
	"github.com/boltline/purchasing-dash/internal/refdata"
	"github.com/boltline/purchasing-dash/internal/service"
	"github.com/boltline/purchasing-dash/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ref, err := refdata.Load(cfg.RefData.LeadTimesPath, cfg.RefData.VendorsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load reference tables")
	}

	snapshotCache, err := cache.NewSnapshotCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("snapshot cache unavailable, continuing without it")
		snapshotCache = cache.NewNoopSnapshotCache()
	}

	inventory := service.NewInventoryService(ref, snapshotCache)
	defer inventory.Close()

	router := api.NewRouter(inventory, cfg)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
