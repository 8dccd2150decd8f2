// handlers/marketplace_routes.go
package handlers

import (
	"gamification-service/middleware"
	"gamification-service/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Marketplace event ingestion. The marketplace service calls these when
// trades settle; the quest/achievement/wallet side effects happen here.
func SetupMarketplaceRoutes(app *fiber.App, marketplace *services.MarketplaceService) {
	app.Post("/events/purchase", func(c *fiber.Ctx) error {
		var req struct {
			BuyerID  string          `json:"buyer_id"`
			SellerID string          `json:"seller_id"`
			ItemID   *string         `json:"item_id"`
			ItemName string          `json:"item_name"`
			Amount   decimal.Decimal `json:"amount"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		result, err := marketplace.RecordPurchase(req.BuyerID, req.SellerID, req.ItemID, req.Amount, req.ItemName)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(result)
	})

	app.Post("/events/listing", func(c *fiber.Ctx) error {
		var req struct {
			UserID   string `json:"user_id"`
			ItemName string `json:"item_name"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		if err := marketplace.RecordListing(req.UserID, req.ItemName); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	})

	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Post("/daily-login", func(c *fiber.Ctx) error {
		result, err := marketplace.RecordDailyLogin(currentUser(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(result)
	})

	secured.Post("/social-action", func(c *fiber.Ctx) error {
		var req struct {
			Amount int `json:"amount"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.Amount <= 0 {
			req.Amount = 1
		}

		if err := marketplace.RecordSocialAction(currentUser(c), req.Amount); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	})
}
