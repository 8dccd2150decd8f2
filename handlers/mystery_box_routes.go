// handlers/mystery_box_routes.go
package handlers

import (
	"strconv"

	"gamification-service/middleware"
	"gamification-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMysteryBoxRoutes(app *fiber.App, boxService *services.MysteryBoxService) {
	app.Get("/mystery-boxes", func(c *fiber.Ctx) error {
		boxes, err := boxService.AvailableBoxes()
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"boxes": boxes})
	})

	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Post("/mystery-boxes/:boxId/open", func(c *fiber.Ctx) error {
		result, err := boxService.OpenBox(currentUser(c), c.Params("boxId"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(result)
	})

	secured.Get("/mystery-boxes/openings", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		openings, err := boxService.UserOpenings(currentUser(c), limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"openings": openings})
	})
}
