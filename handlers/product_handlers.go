package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"shopsight/utils"
	"shopsight/warehouse"
)

// HandleSearchProducts searches the catalog by product name or article id.
// GET /api/v1/products/search?q=&limit=
func HandleSearchProducts(c *fiber.Ctx) error {
	query := c.Query("q")
	limit := c.QueryInt("limit", 5)

	results, err := store.FindArticles(c.Context(), query, limit)
	if err != nil {
		log.Printf("Error searching products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to search products"})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       results,
		"pagination": utils.CreatePagination(len(results), 1, limit),
	})
}

// HandleGetProduct returns the summary row for a single product.
// GET /api/v1/products/:articleId
func HandleGetProduct(c *fiber.Ctx) error {
	articleID := c.Params("articleId")

	article, err := store.GetArticle(c.Context(), articleID)
	if err != nil {
		return warehouseError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": article})
}

// warehouseError maps warehouse failures onto responses. Only a genuinely
// unknown product identifier surfaces as a visible not-found condition.
func warehouseError(c *fiber.Ctx, err error) error {
	if errors.Is(err, warehouse.ErrArticleNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Product not found"})
	}
	log.Printf("Warehouse error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to read warehouse data"})
}
