package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/masteryhouse/mastery-house-api/config"
	"github.com/masteryhouse/mastery-house-api/internal/handlers"
	"github.com/masteryhouse/mastery-house-api/internal/middleware"
	"github.com/masteryhouse/mastery-house-api/internal/ratelimit"
	"github.com/masteryhouse/mastery-house-api/internal/repository"
	"github.com/masteryhouse/mastery-house-api/internal/services"
	"github.com/masteryhouse/mastery-house-api/pkg/logger"
	"github.com/masteryhouse/mastery-house-api/pkg/metrics"
	"github.com/masteryhouse/mastery-house-api/pkg/mongodb"
	"github.com/masteryhouse/mastery-house-api/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Mastery House API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceVersion,
		cfg.Server.AppEnv,
		cfg.Observability.ExporterEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	metrics.Init()
	metrics.RecordInfrastructureMetrics()

	db, err := mongodb.Connect(context.Background(), mongodb.Config{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		TimeoutSeconds: cfg.Mongo.TimeoutSeconds,
		MaxPoolSize:    cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if closeErr := db.Close(ctx); closeErr != nil {
			logger.Error("Failed to disconnect from MongoDB", zap.Error(closeErr))
		}
	}()

	if cfg.Auth.AdminAPIKey == "" {
		logger.Warn("ADMIN_API_KEY not configured: admin endpoints will reject all requests")
	}

	// Repositories and services
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	waitingListRepo := repository.NewWaitingListRepository(db)

	enrollmentService := services.NewEnrollmentService(enrollmentRepo)
	waitingListService := services.NewWaitingListService(waitingListRepo)
	adminService := services.NewAdminService(enrollmentRepo, waitingListRepo)

	// Handlers
	exposeDetails := cfg.IsDevelopment()
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService, exposeDetails)
	waitingListHandler := handlers.NewWaitingListHandler(waitingListService, exposeDetails)
	adminHandler := handlers.NewAdminHandler(adminService)
	healthHandler := handlers.NewHealthHandler(db.Ping)

	// Router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// The forms are served from a static marketing site, so the public
	// endpoints allow any origin. Preflight answers 200 for parity with the
	// frontend's fetch handling.
	router.Use(cors.New(cors.Config{
		AllowOrigins:              []string{"*"},
		AllowMethods:              []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:              []string{"Content-Type", "Authorization"},
		OptionsResponseStatusCode: http.StatusOK,
		MaxAge:                    12 * time.Hour,
	}))

	// Wrong-method requests get an explicit 405 instead of gin's default 404.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	// Submission admission control: fixed window per client identifier, one
	// limiter instance per form so the budgets are independent.
	window := time.Duration(cfg.RateLimit.SubmissionWindowMinutes) * time.Minute
	enrollLimiter := ratelimit.NewFixedWindow(cfg.RateLimit.SubmissionMax, window)
	waitingListLimiter := ratelimit.NewFixedWindow(cfg.RateLimit.SubmissionMax, window)
	generalRateLimiter := middleware.NewRateLimiter(100, 200)

	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	v1.POST("/enroll",
		middleware.SubmissionRateLimitMiddleware(enrollLimiter),
		middleware.BodySizeLimitMiddleware(100*1024),
		enrollmentHandler.Submit)
	v1.POST("/waiting-list",
		middleware.SubmissionRateLimitMiddleware(waitingListLimiter),
		middleware.BodySizeLimitMiddleware(100*1024),
		waitingListHandler.Submit)

	admin := v1.Group("/admin")
	admin.Use(generalRateLimiter.Middleware(), middleware.AdminAuthMiddleware(cfg.Auth.AdminAPIKey))
	admin.GET("/enrollments", adminHandler.ListEnrollments)
	admin.GET("/waiting-list", adminHandler.ListWaitingList)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
