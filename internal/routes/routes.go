package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GalihRensuke/GalyarderOS-sub001/internal/handlers"
	"github.com/GalihRensuke/GalyarderOS-sub001/internal/middleware"
)

func Setup(app *fiber.App, h *handlers.Handler, jwtSecret string) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)

	protected := api.Group("/", middleware.Protected(jwtSecret))

	protected.Get("/me", h.GetMe)

	rituals := protected.Group("/rituals")
	rituals.Post("/", h.CreateRitual)
	rituals.Get("/", h.ListRituals)
	rituals.Get("/:id", h.GetRitual)
	rituals.Put("/:id", h.UpdateRitual)
	rituals.Delete("/:id", h.DeleteRitual)

	rituals.Post("/:id/steps", h.AddStep)
	rituals.Put("/:id/steps/:stepId", h.UpdateStep)
	rituals.Delete("/:id/steps/:stepId", h.RemoveStep)

	rituals.Post("/:id/complete", h.CompleteRitual)
	rituals.Get("/:id/completions", h.ListCompletions)
	rituals.Get("/:id/analytics", h.GetRitualAnalytics)
}
