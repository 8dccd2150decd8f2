package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gamification-service/handlers"
	"gamification-service/middleware"
	"gamification-service/models"
	"gamification-service/pkg/logger"
	"gamification-service/services"
	"gamification-service/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	envErr := godotenv.Load()
	logger.Init()
	defer logger.Sync()
	if envErr != nil {
		logger.Warn("no .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024, // 1MB
	})

	// Only Gateway requests allowed, no exceptions.
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		logger.Warn("ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-Service-Token, X-User-ID, X-Username, X-User-Token",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL environment variable not set", nil)
	}

	// TranslateError so duplicate-key races surface as gorm.ErrDuplicatedKey.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("failed to connect to database", err)
	}

	if err := db.AutoMigrate(
		&models.UserWallet{},
		&models.Transaction{},
		&models.UserGamification{},
		&models.Quest{},
		&models.QuestProgress{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.MysteryBox{},
		&models.MysteryBoxOpening{},
		&models.ActivityFeed{},
	); err != nil {
		logger.Fatal("failed to migrate database", err)
	}

	var rdb *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
	} else {
		logger.Warn("REDIS_ADDR not set, leaderboard cache and activity publishing disabled")
	}

	walletService := services.NewWalletService(db)
	gamificationService := services.NewGamificationService(db, rdb)
	activityService := services.NewActivityFeedService(db)
	questService := services.NewQuestService(db, walletService, gamificationService, activityService)
	achievementService := services.NewAchievementService(db, walletService, gamificationService, activityService, models.AchievementCatalog)
	mysteryBoxService := services.NewMysteryBoxService(db, walletService, gamificationService, activityService, models.MysteryBoxCatalog, nil)
	marketplaceService := services.NewMarketplaceService(db, walletService, gamificationService, questService, achievementService, activityService)

	if err := achievementService.Seed(); err != nil {
		logger.Fatal("failed to seed achievements", err)
	}
	if err := mysteryBoxService.Seed(); err != nil {
		logger.Fatal("failed to seed mystery boxes", err)
	}
	if _, err := questService.EnsureDailyQuests(); err != nil {
		logger.Fatal("failed to seed daily quests", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if rdb != nil {
		publisher := workers.NewActivityPublisher(db, rdb)
		go workers.PollActivities(ctx, publisher, 5*time.Second)
	}

	questService.StartDailyScheduler(activityService)

	handlers.SetupWalletRoutes(app, walletService)
	handlers.SetupQuestRoutes(app, questService)
	handlers.SetupAchievementRoutes(app, achievementService)
	handlers.SetupMysteryBoxRoutes(app, mysteryBoxService)
	handlers.SetupGamificationRoutes(app, gamificationService, activityService)
	handlers.SetupMarketplaceRoutes(app, marketplaceService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			logger.Error("server error", "error", err)
		}
	}()

	logger.Info("server running", "port", port)
	logger.Info("gateway auth enforced globally")
	logger.Info("CORS configured", "origins", allowedOriginsString)

	<-ctx.Done()
	logger.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
