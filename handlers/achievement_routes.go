// handlers/achievement_routes.go
package handlers

import (
	"gamification-service/middleware"
	"gamification-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAchievementRoutes(app *fiber.App, achievementService *services.AchievementService) {
	app.Get("/achievements", func(c *fiber.Ctx) error {
		achievements, err := achievementService.AllAchievements()
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"achievements": achievements})
	})

	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/achievements", func(c *fiber.Ctx) error {
		unlocked, err := achievementService.UserAchievements(currentUser(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"achievements": unlocked})
	})

	// Re-evaluates stat-driven achievements for the caller. Collaborator
	// services hit this after bulk imports rather than replaying events.
	secured.Post("/achievements/check", func(c *fiber.Ctx) error {
		unlocked, err := achievementService.CheckAndUnlock(currentUser(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"unlocked": unlocked})
	})
}
