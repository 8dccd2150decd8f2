// handlers/gamification_routes.go
package handlers

import (
	"strconv"

	"gamification-service/middleware"
	"gamification-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGamificationRoutes(app *fiber.App, gamification *services.GamificationService, activity *services.ActivityFeedService) {
	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "10"))
		entries, err := gamification.GetLeaderboard(c.Context(), limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"leaderboard": entries})
	})

	app.Get("/activity", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		feed, err := activity.Recent(limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"activity": feed})
	})

	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/stats", func(c *fiber.Ctx) error {
		stats, err := gamification.GetUserStats(currentUser(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(stats)
	})

	secured.Get("/activity", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		feed, err := activity.ForUser(currentUser(c), limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"activity": feed})
	})
}
