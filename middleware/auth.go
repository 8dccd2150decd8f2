// middleware/auth.go
package middleware

import (
	"fmt"
	"os"
	"strings"

	"gamification-service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// UserClaims are the identity claims minted by the auth service.
type UserClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// ValidateUserJWT validates and parses an HS256 user token.
func ValidateUserJWT(tokenString, secret string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// UserContextMiddleware resolves the acting user for secured routes.
// The Gateway forwards identity in X-User-ID/X-Username headers; direct
// callers may instead present a user JWT in X-User-Token. Secured paths
// (under /s/) without a resolvable user are rejected.
func UserContextMiddleware() fiber.Handler {
	jwtSecret := os.Getenv("JWT_SECRET")

	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		username := c.Get("X-Username")

		if userID == "" && jwtSecret != "" {
			if tokenString := c.Get("X-User-Token"); tokenString != "" {
				claims, err := ValidateUserJWT(tokenString, jwtSecret)
				if err != nil {
					logger.Warn("invalid user token", "path", c.Path(), "error", err)
					return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
						"error": "invalid user token",
					})
				}
				userID = claims.UserID
				username = claims.Username
			}
		}

		isSecured := strings.HasPrefix(c.Path(), "/s/")
		if isSecured && userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing user identity, request must come through gateway with auth context",
			})
		}

		if username == "" {
			username = userID
		}

		c.Locals("user_id", userID)
		c.Locals("username", username)

		return c.Next()
	}
}
