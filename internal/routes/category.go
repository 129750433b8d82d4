package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spendwise/spendwise/internal/category"
)

// RegisterCategoryRoutes exposes the expense category catalog.
func RegisterCategoryRoutes(r fiber.Router) {
	r.Get("/categories", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(category.All())
	})
}
