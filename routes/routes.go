package routes

import (
	"shopsight/handlers"
	"shopsight/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	products := api.Group("/products")
	products.Get("/search", handlers.HandleSearchProducts) // Must be before /:articleId

	product := products.Group("/:articleId", middleware.RequireArticleID)
	product.Get("/", handlers.HandleGetProduct)
	product.Get("/kpis", handlers.HandleGetKPIs)
	product.Get("/trend", handlers.HandleGetTrend)
	product.Get("/mix", handlers.HandleGetMix)
	product.Get("/insights", handlers.HandleGetInsights)
	product.Post("/ask", handlers.HandleAskProduct)
}
