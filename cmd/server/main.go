package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/siamroads/service-trip/internal/application"
	"github.com/siamroads/service-trip/internal/catalog"
	"github.com/siamroads/service-trip/internal/config"
	"github.com/siamroads/service-trip/internal/domain/estimator"
	tripEvents "github.com/siamroads/service-trip/internal/events"
	"github.com/siamroads/service-trip/internal/handler"
	"github.com/siamroads/service-trip/internal/platform/auth"
	"github.com/siamroads/service-trip/internal/platform/database"
	"github.com/siamroads/service-trip/internal/platform/health"
	"github.com/siamroads/service-trip/internal/platform/kafka"
	"github.com/siamroads/service-trip/internal/platform/logger"
	"github.com/siamroads/service-trip/internal/platform/middleware"
	"github.com/siamroads/service-trip/internal/repository"
)

const serviceName = "service-trip"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	// Load the embedded place, route and trip tables
	cat, err := catalog.Load()
	if err != nil {
		log.Fatal("failed to load catalog", zap.Error(err))
	}
	if err := cat.Validate(); err != nil {
		log.Fatal("invalid catalog", zap.Error(err))
	}
	log.Info("catalog loaded",
		zap.Int("places", cat.Places.Len()),
		zap.Int("routes", cat.Routes.Len()),
		zap.Int("trips", len(cat.Trips)),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.IsDevelopment() {
		if err := db.AutoMigrate(&repository.TripModel{}, &repository.ReviewModel{}, &repository.LeadModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		15*time.Minute,
		7*24*time.Hour,
	)

	// Initialize Kafka producer; without brokers leads are stored but not announced
	var publisher application.EventPublisher
	if len(cfg.KafkaConfig.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = producer.Close() }()
		publisher = producer
	} else {
		log.Warn("no kafka brokers configured, lead events disabled")
	}

	// Initialize repositories
	tripRepo := repository.NewGormTripRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)
	leadRepo := repository.NewGormLeadRepository(db)

	// Initialize application services
	est := cat.Estimator(estimator.DefaultTariff())
	estimateService := application.NewEstimateService(est, tripRepo, log)
	tripService := application.NewTripService(tripRepo, reviewRepo, cat.Places, log)
	reviewService := application.NewReviewService(reviewRepo, tripRepo, log)
	leadService := application.NewLeadService(leadRepo, tripRepo, publisher, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.SeedCatalog {
		if _, err := tripService.SeedCatalog(ctx, cat.Trips); err != nil {
			log.Fatal("failed to seed catalog", zap.Error(err))
		}
	}

	// Start the CRM event consumer in a goroutine
	if len(cfg.KafkaConfig.Brokers) > 0 {
		groupID := cfg.KafkaConfig.GroupPrefix + serviceName
		crmConsumer := tripEvents.NewCRMEventConsumer(
			cfg.KafkaConfig.Brokers,
			groupID,
			leadService,
			log,
		)
		defer func() { _ = crmConsumer.Close() }()

		go func() {
			log.Info("starting crm event consumer")
			if err := crmConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("crm event consumer error", zap.Error(err))
			}
		}()
	}

	// Initialize HTTP handlers
	estimateHandler := handler.NewEstimateHandler(estimateService)
	tripHandler := handler.NewTripHandler(tripService, reviewService, estimateService)
	leadHandler := handler.NewLeadHandler(leadService)
	adminHandler := handler.NewAdminHandler(tripService, leadService)

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, serviceName)
	healthHandler.RegisterRoutes(router)

	// Register routes
	writeLimit := middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware()
	estimateHandler.RegisterRoutes(&router.RouterGroup)
	tripHandler.RegisterRoutes(&router.RouterGroup, writeLimit)
	leadHandler.RegisterRoutes(&router.RouterGroup, writeLimit)
	adminHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
