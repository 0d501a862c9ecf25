package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"fitquest/config"
	"fitquest/controllers"
	"fitquest/db"
	"fitquest/middlewares"
	"fitquest/routes"
	"fitquest/services"
	"fitquest/utils"
	"fitquest/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// .env is optional; the yaml config carries the non-secret defaults.
	godotenv.Load()

	cfg, err := config.LoadConfig("./config/config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	utils.SetJWTConfig(cfg.JWT.Secret, cfg.JWT.Expiry)

	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to create indexes: %v", err)
	}
	cancel()

	if err := middlewares.InitCasbin(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to initialize RBAC: %v", err)
	}

	services.Init(
		db.NewParticipationStore(db.MongoDatabase),
		db.NewBadgeStore(db.MongoDatabase),
		db.NewRewardStore(db.MongoDatabase),
		db.NewUserStore(db.MongoDatabase),
	)

	middlewares.InitPrometheus()
	middlewares.SetRateLimit(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
	go middlewares.CleanupVisitors()

	router := setupRouter(cfg)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	router.Use(middlewares.MonitorMiddleware())
	router.Use(middlewares.RateLimitMiddleware())

	router.GET("/health", controllers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.SetupAuthRoutes(router)

	// Everything else requires a valid token.
	auth := router.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		routes.SetupUserRoutes(auth)
		routes.SetupGymRoutes(auth)
		routes.SetupExerciseRoutes(auth)
		routes.SetupChallengeRoutes(auth)
		routes.SetupBadgeRoutes(auth)
		routes.SetupRewardRoutes(auth)
		routes.SetupLeaderboardRoutes(auth)
	}

	// WebSocket endpoint authenticates its own token (browser clients
	// cannot set the Authorization header on the upgrade request).
	router.GET("/ws/gamification", websocket.GamificationWebSocketHandler)

	return router
}
