package handlers

import (
	"gamification-service/pkg/errors"
	"gamification-service/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// respondError maps the engine's error taxonomy to HTTP. Recoverable,
// caller-visible outcomes become 4xx with their code; anything else is a
// generic storage error.
func respondError(c *fiber.Ctx, err error) error {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		logger.Error("unexpected error", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}

	status := fiber.StatusInternalServerError
	switch appErr.Code {
	case errors.ErrCodeInvalidAmount, errors.ErrCodeValidation:
		status = fiber.StatusBadRequest
	case errors.ErrCodeInsufficientFunds, errors.ErrCodeInsufficientStake:
		status = fiber.StatusPaymentRequired
	case errors.ErrCodeNotFound, errors.ErrCodeQuestNotFound,
		errors.ErrCodeAchievementNotFound, errors.ErrCodeBoxNotFound:
		status = fiber.StatusNotFound
	case errors.ErrCodeQuestNotCompleted, errors.ErrCodeRewardAlreadyClaimed,
		errors.ErrCodeAlreadyUnlocked:
		status = fiber.StatusConflict
	case errors.ErrCodeUnauthorized:
		status = fiber.StatusUnauthorized
	}

	if status == fiber.StatusInternalServerError {
		logger.Error("request failed", "path", c.Path(), "code", appErr.Code, "error", err)
		return c.Status(status).JSON(fiber.Map{"error": "internal error"})
	}

	return c.Status(status).JSON(fiber.Map{
		"error": appErr.Message,
		"code":  appErr.Code,
	})
}

func currentUser(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}
