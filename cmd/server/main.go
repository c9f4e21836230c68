package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/esteban572/first-responder-connect-sub000/internal/config"
	"github.com/esteban572/first-responder-connect-sub000/internal/database"
	"github.com/esteban572/first-responder-connect-sub000/internal/handlers"
	"github.com/esteban572/first-responder-connect-sub000/internal/middleware"
	"github.com/esteban572/first-responder-connect-sub000/internal/models"
	"github.com/esteban572/first-responder-connect-sub000/internal/routes"
	"github.com/esteban572/first-responder-connect-sub000/internal/services"
	"github.com/esteban572/first-responder-connect-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	logger.Info().Str("environment", env).Msg("Starting First Responder Connect backend...")

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	database.Connect()
	database.InitRedis()

	logger.Info().Msg("Running database migrations...")
	err := database.DB.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.Notification{},
		&models.Credential{},
		&models.Connection{},
		&models.UserBlock{},
		&models.Post{},
		&models.PostLike{},
		&models.Comment{},
		&models.Report{},
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to run database migrations")
	}
	logger.Info().Msg("Database migrations complete")

	r := gin.New()

	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	// The websocket endpoint is long-lived and exempt from rate limiting.
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/ws" {
			c.Next()
			return
		}
		middleware.GeneralRateLimit()(c)
	})

	api := r.Group("/api")
	{
		routes.RegisterChatRoutes(api)
		routes.RegisterNotificationRoutes(api)
		routes.RegisterCredentialRoutes(api)
		routes.RegisterSocialRoutes(api)
		routes.RegisterAdminRoutes(api)
	}

	r.GET("/ws", handlers.ServeWS)

	r.GET("/health", func(c *gin.Context) {
		dbStatus := "ok"
		redisStatus := "ok"

		sqlDB, err := database.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			dbStatus = "error"
		}

		if database.Redis != nil {
			if _, err := database.Redis.Ping(context.Background()).Result(); err != nil {
				redisStatus = "error"
			}
		} else {
			redisStatus = "not configured"
		}

		status := "ok"
		if dbStatus != "ok" || (redisStatus != "ok" && redisStatus != "not configured") {
			status = "degraded"
		}

		c.JSON(200, gin.H{
			"status": status,
			"checks": gin.H{
				"database": dbStatus,
				"redis":    redisStatus,
			},
		})
	})

	// Periodic credential sweep. Transitions for signed-out users are
	// picked up here; transitions for active users additionally surface
	// through the badge endpoints.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				fired, err := services.SweepAllCredentials(time.Now())
				if err != nil {
					logger.Warn().Err(err).Msg("credential sweep failed")
					continue
				}
				if fired > 0 {
					logger.Info().Int("notifications", fired).Msg("credential sweep complete")
				}
			}
		}
	}()

	port := config.AppConfig.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", port).Str("env", env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server gracefully...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}
