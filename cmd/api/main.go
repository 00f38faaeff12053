package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sportsbook-backend/internal/config"
	"sportsbook-backend/internal/handlers"
	"sportsbook-backend/internal/metrics"
	"sportsbook-backend/internal/middleware"
	"sportsbook-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := services.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	redisService, err := services.NewRedisService(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisService.Close()

	m := metrics.New(prometheus.DefaultRegisterer)

	jwtService := services.NewJWTService(cfg)
	userService := services.NewUserService(pool, logger)
	authService := services.NewAuthService(userService, jwtService, logger)
	eventService := services.NewEventService(pool, redisService, logger)
	bettingService := services.NewBettingService(pool, redisService, m, logger)
	statsService := services.NewStatsService(pool)

	hub := handlers.NewHub(logger, m)
	go hub.Run(ctx)
	handlers.StartSubscriber(ctx, redisService.SubscribeUpdates(ctx), hub, logger)

	authHandler := handlers.NewAuthHandler(authService, logger)
	eventHandler := handlers.NewEventHandler(eventService, logger)
	betHandler := handlers.NewBetHandler(bettingService, logger)
	userHandler := handlers.NewUserHandler(userService, logger)
	adminHandler := handlers.NewAdminHandler(eventService, statsService, redisService, logger)
	wsHandler := handlers.NewWebSocketHandler(hub, logger)
	healthHandler := handlers.NewHealthHandler(cfg.Env)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigin))

	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", wsHandler.HandleWebSocket)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authHandler.Me)
		}

		events := api.Group("/events")
		{
			events.GET("", eventHandler.List)
			events.GET("/:id", eventHandler.GetByID)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(authService))
		{
			bets := protected.Group("/bets")
			{
				bets.POST("", betHandler.Create)
				bets.GET("", betHandler.ListMine)
				bets.GET("/:id", betHandler.GetByID)
			}

			users := protected.Group("/users")
			{
				users.GET("/profile", userHandler.GetProfile)
				users.PUT("/profile", userHandler.UpdateProfile)
				users.GET("/balance", userHandler.GetBalance)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.POST("/events", adminHandler.CreateEvent)
				admin.PUT("/events/:id", adminHandler.UpdateEvent)
				admin.GET("/stats", adminHandler.GetStats)
			}
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if env == "local" {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build(zap.Fields(
		zap.String("service", "sportsbook-api"),
		zap.String("env", env),
	))
}
