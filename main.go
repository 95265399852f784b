package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"stock-learning-system/handlers"
	"stock-learning-system/middleware"
	"stock-learning-system/models"
	"stock-learning-system/services"
	"stock-learning-system/utils"
	"stock-learning-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		AppName: "AI每日一股",
	})

	// Identity is permissive: X-User-ID header or the shared "default" user.
	app.Use(middleware.UserContextMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(allowedOriginsList, ","),
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, X-Requested-With, X-User-ID",
	}))

	if err := utils.EnsureDataDir(); err != nil {
		log.Fatal("failed to ensure data dir:", err)
	}

	db, err := openDatabase()
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Stock{},
		&models.LearningSession{},
		&models.PredictGame{},
		&models.UserProgress{},
		&models.StockProgress{},
		&models.StockCard{},
		&models.UserAchievement{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.InitAssets(); err != nil {
		log.Fatal("failed to initialize asset store:", err)
	}

	stockService := services.NewStockService(db)
	if err := stockService.SeedCatalog(); err != nil {
		log.Fatal("failed to seed stock catalog:", err)
	}

	learningService := services.NewLearningService(db)
	gameService := services.NewGameService(db, stockService)
	progressionService := services.NewProgressionService(db)
	aiService := services.NewAIService(stockService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	priceFeed := workers.NewPriceFeedClient(db)
	go workers.PollPrices(ctx, priceFeed, 30*time.Second)

	stockService.StartRotationScheduler()

	handlers.SetupStockRoutes(app, stockService)
	handlers.SetupLearningRoutes(app, learningService)
	handlers.SetupGameRoutes(app, gameService)
	handlers.SetupProgressRoutes(app, progressionService)
	handlers.SetupAIRoutes(app, aiService)

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "message": "AI每日一股 API服务运行中"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("🚀 服务器运行在 http://localhost:%s", port)
	log.Println("✅ Price feed running (every 30s)")
	log.Println("✅ Daily stock rotation scheduled")

	<-ctx.Done()
	log.Println("Shutting down server...")
}

// openDatabase connects to Postgres when DATABASE_URL is set, otherwise to an
// embedded SQLite file under the data directory.
func openDatabase() (*gorm.DB, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	log.Println("⚠️  DATABASE_URL not set, using embedded SQLite store")
	return gorm.Open(sqlite.Open(utils.DataPath("app.db")), &gorm.Config{})
}
