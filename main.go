package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/LovationAdmin/fintrack-api/config"
	"github.com/LovationAdmin/fintrack-api/middleware"
	"github.com/LovationAdmin/fintrack-api/routes"
	"github.com/LovationAdmin/fintrack-api/services"
	"github.com/LovationAdmin/fintrack-api/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const accessTokenTTL = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	utils.IsProduction = cfg.IsProduction()
	logger := utils.NewLogger(cfg.IsProduction(), cfg.LogLevel)
	defer logger.Sync()

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected")

	if err := config.RunMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	httpClient := &http.Client{Timeout: 15 * time.Second}

	store := services.NewCollaboratorStore(db)
	dispatcher := services.NewInviteEmailClient(cfg.InviteFunctionURL, httpClient)
	invitations := services.NewInvitationService(store, dispatcher, cfg.InvitationTTL, logger)

	jwtManager := utils.NewJWTManager(cfg.JWTSecret, accessTokenTTL)
	mailer := utils.NewResendSender(cfg.ResendAPIKey, cfg.ResendAPIURL, cfg.FromEmail, cfg.FrontendURL, httpClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.InvitationTTL > 0 && cfg.PurgeInterval > 0 {
		go invitations.RunExpiryPurge(ctx, cfg.PurgeInterval)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	go limiter.RunCleanup(ctx, time.Minute)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	allowedOrigins := cfg.AllowedOrigins()
	logger.Info("CORS configured", zap.Strings("origins", allowedOrigins))

	corsConfig := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400 * time.Second,
	}
	router.Use(cors.New(corsConfig))
	router.Use(middleware.RequestLogger(logger))
	router.Use(limiter.Middleware())

	v1 := router.Group("/api/v1")
	{
		routes.SetupInvitationRoutes(v1, invitations, jwtManager, logger)

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtManager))
		{
			routes.SetupCollaboratorRoutes(protected, invitations, logger)
		}
	}

	routes.SetupFunctionRoutes(router.Group("/functions/v1"), mailer, jwtManager, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	logger.Info("Server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
