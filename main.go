package main

import (
	"flag"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"shopsight/config"
	"shopsight/database"
	"shopsight/handlers"
	"shopsight/llm"
	"shopsight/routes"
	"shopsight/warehouse"
)

var addr = flag.String("addr", ":3000", "address to serve")

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	flag.Parse()

	// Load configuration
	config.Load()
	if config.AppConfig.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	if config.AppConfig.GeminiAPIKey == "" {
		log.Println("GEMINI_API_KEY not set; narrative endpoints will serve fallback copy")
	}

	// Initialize database
	database.Connect(config.AppConfig.DatabaseURL)
	defer database.Close()

	// Wire handlers
	reader := warehouse.NewPostgresReader(database.GetDB())
	narrator := llm.NewOrchestrator(config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
	handlers.Init(reader, narrator)

	app := fiber.New()

	// Add middleware
	app.Use(cors.New())
	app.Use(logger.New())

	// Setup routes
	routes.SetupRoutes(app)

	// Start server
	log.Fatal(app.Listen(*addr))
}
