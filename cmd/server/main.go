package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"novelhub-backend/internal/common/cache"
	"novelhub-backend/internal/common/config"
	"novelhub-backend/internal/common/logger"
	"novelhub-backend/internal/common/middleware"
	paymenthttp "novelhub-backend/internal/features/payments/delivery/http"
	paymentrepo "novelhub-backend/internal/features/payments/repository/postgres"
	paymentservice "novelhub-backend/internal/features/payments/service"
	profilehttp "novelhub-backend/internal/features/profile/delivery/http"
	profilerepo "novelhub-backend/internal/features/profile/repository/postgres"
	profileservice "novelhub-backend/internal/features/profile/service"
	"novelhub-backend/internal/platform/db"
	redisplatform "novelhub-backend/internal/platform/redis"
)

// @title           Novelhub Backend API
// @version         1.0
// @description     Coin-ledger and engagement-streak service for the novel-reading platform. Session authentication is terminated upstream; the gateway forwards the profile ID in X-Profile-ID.

// @host      localhost:8080
// @BasePath  /api/v1

// @tag.name profiles
// @tag.description Profile state - coin balance, streak, ad-free status

// @tag.name payments
// @tag.description Coin ledger - webhook ingestion, debits, history

func main() {
	cfg := config.Load()

	logger.Init("novelhub-backend", cfg.Debug)

	// Root context cancelled on SIGINT/SIGTERM for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	postgresClient, err := db.Open(ctx, cfg.Postgres.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer postgresClient.Close()

	logger.Info().Msg("Database connection established")

	redisClient, err := redisplatform.Open(ctx, fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	cacheService := cache.NewCacheService(redisClient.Client)
	logger.Info().Msg("Cache service initialized")

	profileRepository := profilerepo.NewPostgresRepository(postgresClient)
	ledgerRepository := paymentrepo.NewPostgresRepository(postgresClient)

	profileSvc := profileservice.NewProfileService(profileRepository, cacheService, cfg.Economy.AdFreeThreshold)
	paymentSvc := paymentservice.NewPaymentService(ledgerRepository, cacheService, cfg.Coinbase.WebhookSecret)

	logger.Info().Msg("Services initialized")

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", middleware.HeaderUserID}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	profilehttp.NewProfileHandler(profileSvc).RegisterRoutes(v1)
	paymenthttp.NewPaymentHandler(paymentSvc).RegisterRoutes(v1)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerProbes(router, postgresClient, redisClient)

	logger.Info().Msg("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	stop()

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func registerProbes(router *gin.Engine, postgresClient *sql.DB, redisClient *redisplatform.Client) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "novelhub-backend",
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := postgresClient.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "postgres unavailable",
				"details": err.Error(),
			})
			return
		}

		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "redis unavailable",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   "novelhub-backend",
		})
	})
}
