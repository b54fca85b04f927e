package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireArticleID validates the :articleId route parameter. Warehouse
// article ids are numeric, so anything else can never exist and is reported
// the same way as an unknown product.
func RequireArticleID(c *fiber.Ctx) error {
	articleID := c.Params("articleId")
	if articleID == "" || !isDigits(articleID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Product not found"})
	}
	return c.Next()
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
