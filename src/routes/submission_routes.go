package routes

import (
	"franchise-intake-api/src/controllers"
	"franchise-intake-api/src/middleware"

	"github.com/gofiber/fiber/v2"
)

func submissionRoutes(router fiber.Router) {
	subs := router.Group("/submissions", middleware.AuthJWT)

	subs.Get("/", controllers.GetSubmissions)
	subs.Get("/:id", controllers.GetSubmissionByID)
}
