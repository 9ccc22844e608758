package routes

import (
	"franchise-intake-api/src/controllers"
	"franchise-intake-api/src/middleware"

	"github.com/gofiber/fiber/v2"
)

func formRoutes(router fiber.Router) {
	forms := router.Group("/forms")

	forms.Get("/active", controllers.GetActiveForm)
	forms.Put("/", middleware.AuthJWT, controllers.UpsertForm)
	forms.Post("/", middleware.AuthJWT, controllers.UpsertForm)
}
