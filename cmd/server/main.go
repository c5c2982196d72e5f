package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/travel-desk/agency-api/internal/auth"
	"github.com/travel-desk/agency-api/internal/config"
	"github.com/travel-desk/agency-api/internal/database"
	"github.com/travel-desk/agency-api/internal/handlers"
	"github.com/travel-desk/agency-api/internal/notifier"
	"github.com/travel-desk/agency-api/internal/service"
	"github.com/travel-desk/agency-api/internal/storage"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database handle: %v", err)
	}
	defer sqlDB.Close()

	// Session revocation
	var revoker auth.Revoker = auth.NewMemoryRevoker()
	if cfg.RedisURL != "" {
		redisRevoker, err := auth.RedisRevokerFromURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Invalid redis url: %v", err)
		}
		defer redisRevoker.Close()
		revoker = redisRevoker
	}

	// Image storage
	var files storage.FileStore
	if cfg.S3Bucket != "" {
		files, err = storage.NewS3Store(context.Background(), cfg.S3Bucket)
	} else {
		files, err = storage.NewLocalStore(cfg.UploadDir)
	}
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	var bookingNotifier notifier.Notifier
	discordNotifier, err := notifier.FromToken(cfg.DiscordBotToken, cfg.DiscordNotificationsChannelID)
	if err != nil {
		log.Printf("Discord notifier not initialized: %v", err)
	} else if discordNotifier != nil {
		bookingNotifier = discordNotifier
	}

	// Initialize Handlers
	accounts := service.NewAccountService(db)
	bookings := service.NewBookingService(db, service.WithCapacityCheck(cfg.EnforceCapacity))

	r := chi.NewRouter()
	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:     auth.NewAuthHandler(cfg, accounts, revoker),
		Catalog:  handlers.NewCatalogHandler(service.NewCatalogService(db), files),
		Bookings: handlers.NewBookingHandler(bookings, bookingNotifier),
		Admin:    handlers.NewAdminHandler(service.NewReportingService(db)),
		Limiter:  auth.NewClientLimiter(cfg.LoginRatePerMinute),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
