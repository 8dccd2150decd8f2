// handlers/quest_routes.go
package handlers

import (
	"gamification-service/middleware"
	"gamification-service/models"
	"gamification-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupQuestRoutes(app *fiber.App, questService *services.QuestService) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/quests", func(c *fiber.Ctx) error {
		progress, err := questService.GetUserQuestProgress(currentUser(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"quests": progress})
	})

	secured.Post("/quests/progress", func(c *fiber.Ctx) error {
		var req struct {
			Kind   string `json:"kind"`
			Amount int    `json:"amount"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.Amount <= 0 {
			req.Amount = 1
		}

		if err := questService.IncrementProgress(currentUser(c), models.QuestKind(req.Kind), req.Amount); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	})

	secured.Post("/quests/:progressId/claim", func(c *fiber.Ctx) error {
		result, err := questService.ClaimReward(currentUser(c), c.Params("progressId"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(result)
	})
}
