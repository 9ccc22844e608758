package routes

import (
	"franchise-intake-api/src/controllers"

	"github.com/gofiber/fiber/v2"
)

func sessionRoutes(router fiber.Router) {
	sessions := router.Group("/sessions")

	sessions.Post("/", controllers.StartSession)
	sessions.Get("/:id", controllers.GetSession)
	sessions.Delete("/:id", controllers.AbandonSession)

	sessions.Put("/:id/answers/:fieldId", controllers.PutAnswer)
	sessions.Post("/:id/next", controllers.NextStep)
	sessions.Post("/:id/back", controllers.PrevStep)
	sessions.Post("/:id/jump/:step", controllers.JumpToStep)
	sessions.Post("/:id/submit", controllers.SubmitSession)
	sessions.Post("/:id/suspend", controllers.SuspendSession)
}
