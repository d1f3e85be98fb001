package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"tripshare/internal/app"
	"tripshare/internal/config"
	"tripshare/internal/events"
	"tripshare/internal/handler"
	internalRedis "tripshare/internal/redis"
	"tripshare/internal/repository/postgres"
	"tripshare/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Domain events go to Kafka when configured, the process log otherwise.
	var notifier events.Notifier
	if cfg.Kafka.Enabled {
		kafkaNotifier := events.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
		log.Printf("Kafka notifier enabled: topic=%s", cfg.Kafka.Topic)
	} else {
		notifier = events.NewLogNotifier()
	}

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, notifier, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, notifier events.Notifier, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	userRepo := postgres.NewUserRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	journeyRepo := postgres.NewJourneyRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	requestRepo := postgres.NewRequestRepository(db)
	proposalRepo := postgres.NewProposalRepository(db)
	txManager := postgres.NewTxManager(db)

	// Initialize services.
	bookingService := service.NewBookingService(txManager, userRepo, journeyRepo, bookingRepo, lockStore, notifier)
	journeyService := service.NewJourneyService(journeyRepo, bookingRepo, vehicleRepo, userRepo, bookingService, cacheStore, notifier)
	requestService := service.NewRequestService(requestRepo, userRepo)
	proposalService := service.NewProposalService(txManager, requestRepo, proposalRepo, notifier)

	// Initialize handlers.
	userHandler := handler.NewUserHandler(userRepo, bookingService)
	vehicleHandler := handler.NewVehicleHandler(vehicleRepo, userRepo)
	journeyHandler := handler.NewJourneyHandler(journeyService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	requestHandler := handler.NewRequestHandler(requestService, proposalService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		UserHandler:    userHandler,
		VehicleHandler: vehicleHandler,
		JourneyHandler: journeyHandler,
		BookingHandler: bookingHandler,
		RequestHandler: requestHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
