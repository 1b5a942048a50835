package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"mindmap/internal/handlers"
	"mindmap/internal/middleware"
	"mindmap/internal/models"
	"mindmap/internal/repositories"
	"mindmap/internal/services"
	"mindmap/pkg/events"
	"mindmap/pkg/openai"
)

func main() {
	// --- Configuration ---
	// A .env file is optional; environment variables win either way.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "mindmap.db")
	viper.SetDefault("JWT_SECRET", "dev-secret-change-me")
	viper.SetDefault("TOKEN_TTL_HOURS", 24)
	viper.SetDefault("SIGNUP_CREDITS", 10)
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_BASE_URL", "")
	viper.SetDefault("OPENAI_MODEL", "gpt-4-turbo-preview")
	viper.SetDefault("OPENAI_TIMEOUT_SECONDS", 60)
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Initialize Database (GORM) ---
	var dialector gorm.Dialector
	switch driver := viper.GetString("DATABASE_DRIVER"); driver {
	case "postgres":
		dialector = postgres.Open(viper.GetString("DATABASE_DSN"))
	case "sqlite":
		dialector = sqlite.Open(viper.GetString("DATABASE_DSN"))
	default:
		log.Fatalf("Unsupported DATABASE_DRIVER: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.MindMap{}, &models.Credit{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Initialize Event Publisher (optional) ---
	// The app runs without a broker; events are dropped when the publisher
	// is nil.
	var publisher *events.Publisher
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		publisher, err = events.NewPublisher(events.Config{URL: mqURL})
		if err != nil {
			log.Printf("Warning: event publisher disabled: %v", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	mindmapRepo := repositories.NewGORMMindMapRepository(db)
	creditRepo := repositories.NewGORMCreditRepository(db)

	// --- Initialize OpenAI Client ---
	// A missing API key is tolerated here; the first completion call reports
	// it as a failed result.
	if viper.GetString("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY is not set; AI requests will fail until configured")
	}
	openaiClient := openai.NewClient(openai.Config{
		APIKey:  viper.GetString("OPENAI_API_KEY"),
		BaseURL: viper.GetString("OPENAI_BASE_URL"),
		Model:   viper.GetString("OPENAI_MODEL"),
		Timeout: time.Duration(viper.GetInt("OPENAI_TIMEOUT_SECONDS")) * time.Second,
	})

	// --- Initialize Services ---
	authService := services.NewAuthService(
		userRepo,
		publisher,
		viper.GetString("JWT_SECRET"),
		time.Duration(viper.GetInt("TOKEN_TTL_HOURS"))*time.Hour,
		viper.GetInt("SIGNUP_CREDITS"),
	)
	mindmapService := services.NewMindMapService(mindmapRepo)
	creditService := services.NewCreditService(creditRepo)
	aiService := services.NewAIService(openaiClient)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	mindmapHandler := handlers.NewMindMapHandler(mindmapService)
	creditHandler := handlers.NewCreditHandler(creditService)
	aiHandler := handlers.NewAIHandler(aiService, creditService, publisher)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New())
	app.Use(cors.New())

	authRequired := middleware.AuthRequired(authService)

	// --- API Routes ---
	authHandler.RegisterRoutes(app, authRequired)
	mindmapHandler.RegisterRoutes(app, authRequired)
	creditHandler.RegisterRoutes(app, authRequired)
	aiHandler.RegisterRoutes(app, authRequired)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to the LLM MindMap API",
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
