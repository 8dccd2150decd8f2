// handlers/wallet_routes.go
package handlers

import (
	"strconv"

	"gamification-service/middleware"
	"gamification-service/models"
	"gamification-service/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func SetupWalletRoutes(app *fiber.App, walletService *services.WalletService) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/wallet", func(c *fiber.Ctx) error {
		wallet, err := walletService.GetOrCreateWallet(currentUser(c))
		if err != nil {
			return respondError(c, err)
		}

		// Display-only fiat equivalents; FLOG is play money.
		return c.JSON(fiber.Map{
			"wallet": wallet,
			"display": fiber.Map{
				"gbp": wallet.FlogBalance.Mul(models.FlogToGBP),
				"usd": wallet.FlogBalance.Mul(models.FlogToUSD),
				"eur": wallet.FlogBalance.Mul(models.FlogToEUR),
			},
		})
	})

	secured.Get("/wallet/transactions", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		transactions, err := walletService.TransactionHistory(currentUser(c), limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"transactions": transactions})
	})

	secured.Post("/wallet/stake", func(c *fiber.Ctx) error {
		var req struct {
			Amount decimal.Decimal `json:"amount"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		if err := walletService.Stake(currentUser(c), req.Amount); err != nil {
			return respondError(c, err)
		}

		wallet, err := walletService.GetOrCreateWallet(currentUser(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(wallet)
	})

	secured.Post("/wallet/unstake", func(c *fiber.Ctx) error {
		var req struct {
			Amount decimal.Decimal `json:"amount"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		if err := walletService.Unstake(currentUser(c), req.Amount); err != nil {
			return respondError(c, err)
		}

		wallet, err := walletService.GetOrCreateWallet(currentUser(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(wallet)
	})
}
