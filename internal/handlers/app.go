package handlers

import (
	"time"

	"bookrental/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
)

// APIPrefix is the base path of every service route.
const APIPrefix = "/api/v1/book_rental"

// NewApp builds the Fiber application with all routes registered.
func NewApp(authService *services.AuthService, catalog *services.CatalogService, rentals *services.RentalService, requestLog bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:     "book-rental",
		JSONEncoder: jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
	})

	app.Use(recover.New())
	if requestLog {
		app.Use(logger.New())
	}

	api := app.Group(APIPrefix)
	NewAuthHandler(authService).RegisterRoutes(api)
	NewRentalHandler(catalog, rentals, authService).RegisterRoutes(api)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}
