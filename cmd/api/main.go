package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"leadpanel/internal/config"
	"leadpanel/internal/dashboard"
	"leadpanel/internal/database"
	"leadpanel/internal/domain/auth"
	"leadpanel/internal/domain/lead"
	"leadpanel/internal/middleware"
	jwtsvc "leadpanel/internal/pkg/jwt"
	"leadpanel/internal/pkg/logger"
	"leadpanel/internal/pkg/metrics"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	appLog := logger.New(cfg.Logging.Level)
	m := metrics.New()

	db, err := database.Connect(cfg.Server.DatabaseURL)
	if err != nil {
		appLog.WithError(err).Fatal("database connection failed")
	}
	if err := db.AutoMigrate(&auth.User{}, &lead.Lead{}); err != nil {
		appLog.WithError(err).Fatal("migration failed")
	}

	j := jwtsvc.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	broker := lead.NewBroker()
	hub := lead.NewHub(m, cfg.Server.AllowedOrigins)
	go hub.Run(broker.Subscribe())

	userRepo := auth.NewRepository(db)
	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	leadRepo := lead.NewRepository(db)
	leadService := lead.NewService(leadRepo, broker, appLog, m)
	leadHandler := lead.NewHandler(leadService, hub)

	// The session is seeded once at startup and kept current by the change
	// feed; dashboard reads and optimistic edits go through it.
	initial, err := leadService.List(context.Background())
	if err != nil {
		appLog.WithError(err).Fatal("initial lead load failed")
	}
	session := dashboard.NewSession(initial, leadService)
	go session.Run(context.Background(), broker.Subscribe())

	dashboardHandler := dashboard.NewHandler(session, m)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(appLog))
	r.Use(middleware.Recovery(appLog))
	r.Use(middleware.Metrics(m))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		loginLimiter := middleware.RateLimit(cfg.Auth.LoginRatePerIP, cfg.Auth.LoginBurst)
		auth.RegisterPublicRoutes(v1, authHandler, loginLimiter)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			auth.RegisterProtectedRoutes(protected, authHandler)
			lead.RegisterRoutes(protected, leadHandler)
			dashboard.RegisterRoutes(protected, dashboardHandler)
		}
	}

	appLog.WithField("port", cfg.Server.Port).Info("starting server")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		appLog.WithError(err).Fatal("server stopped")
	}
}
