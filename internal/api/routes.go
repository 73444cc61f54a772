package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

func SetupRoutes(app *fiber.App, handler *Handler, allowOrigins string, log *zap.Logger) {
	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,HEAD,OPTIONS",
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} ${pid} ${locals:requestid} ${status} - ${method} ${path}\n",
		TimeFormat: time.RFC3339,
	}))

	// Health check
	app.Get("/health", handler.GetHealth)

	// API v1 routes
	api := app.Group("/api/v1")

	// Resorts
	resorts := api.Group("/resorts")
	resorts.Get("/", handler.GetResorts)
	resorts.Get("/:id", handler.GetResort)
	resorts.Get("/:id/recommendation", handler.GetResortRecommendation)
	resorts.Get("/:id/weather", handler.GetResortWeather)
	resorts.Get("/:id/transport", handler.GetResortTransport)

	// Recommendations
	api.Post("/recommendations", handler.GetRecommendations)
	api.Post("/recommendations/stream", handler.StreamRecommendations)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
			"path":  c.Path(),
		})
	})
}
