package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chalet-booking-service/internal/domain/entity"
	"chalet-booking-service/internal/infrastructure/config"
	"chalet-booking-service/internal/infrastructure/persistence"
	"chalet-booking-service/internal/interface/handler"
	mongoRepo "chalet-booking-service/internal/interface/repository"
	"chalet-booking-service/internal/usecase"
	"chalet-booking-service/pkg/logger"
	"chalet-booking-service/pkg/metrics"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Chalet Booking Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if cfg.CancelPolicy != entity.CancelPolicyImmediateDelete && cfg.CancelPolicy != entity.CancelPolicyMarkThenSweep {
		log.Fatal("Invalid CANCEL_POLICY", "policy", cfg.CancelPolicy)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up repositories
	bookingRepo := mongoRepo.NewMongoBookingRepository(db)
	whatsappRepo := mongoRepo.NewWhatsappRepository(log, cfg.WhatsAppEndpoint)
	adminRepo := mongoRepo.NewGormAdminRepository(gormDB)

	// Set up metrics
	m := metrics.NewMetrics("chalet_booking")

	// Set up usecases
	lifecycle := usecase.NewBookingLifecycle(bookingRepo, whatsappRepo, log, m, usecase.LifecycleConfig{
		DepositMin:   cfg.DepositMin,
		DepositMax:   cfg.DepositMax,
		CutoffHour:   cfg.CutoffHour,
		CancelPolicy: cfg.CancelPolicy,
	})
	adminAuth := usecase.NewAdminAuth(adminRepo, log, cfg.JWTSecret, cfg.TokenTTL)

	// Set up handlers and router
	bookingHandler := handler.NewBookingHandler(lifecycle, log)
	adminHandler := handler.NewAdminHandler(lifecycle, adminAuth, log)
	router := handler.NewRouter(bookingHandler, adminHandler, adminAuth, m)

	// Start the expiry sweep in a goroutine
	go func() {
		sweepTicker := time.NewTicker(cfg.SweepInterval)
		defer sweepTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Expiry sweep stopped")
				return
			case <-sweepTicker.C:
				removed, err := lifecycle.SweepExpired(ctx)
				if err != nil {
					log.Error("Expiry sweep failed", "error", err)
				} else if removed > 0 {
					log.Info("Expiry sweep removed bookings", "count", removed)
				}
			}
		}
	}()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Chalet Booking Service stopped")
}
