package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/taskdeck-be/internal/api"
	"github.com/isdelr/taskdeck-be/internal/audit"
	"github.com/isdelr/taskdeck-be/internal/auth"
	"github.com/isdelr/taskdeck-be/internal/config"
	"github.com/isdelr/taskdeck-be/internal/database"
	"github.com/isdelr/taskdeck-be/internal/logger"
	"github.com/isdelr/taskdeck-be/internal/monitoring"
	"github.com/isdelr/taskdeck-be/internal/services"
	"github.com/isdelr/taskdeck-be/internal/store"
	"github.com/isdelr/taskdeck-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub for the live activity feed
	hub := websocket.NewHub()
	go hub.Run()

	// Set up repositories, audit logging and services
	taskRepo := store.NewTaskRepository(db)
	userRepo := store.NewUserRepository(db)
	auditor := audit.New(logger.Audit(), hub)
	taskService := services.NewTaskService(taskRepo, auditor)
	userService := services.NewUserService(userRepo)
	tokens := auth.NewTokenManager(cfg.JWTSecret)

	// Set up and run the background task digest
	digest, err := monitoring.NewDigest(taskRepo, cfg.DigestSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid digest schedule")
	}
	go digest.Run()

	// Set up router
	router := api.NewRouter(cfg.CORSOrigin, tokens, taskService, userService, hub)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	digest.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
