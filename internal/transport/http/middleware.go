package http

import (
	"strings"

	"simplechess/internal/core"

	"github.com/gofiber/fiber/v2"
)

// TokenValidator checks a bearer token and returns the game ID it was
// issued for.
type TokenValidator func(token string) (gameID string, err error)

// GameTokenRequired enforces the per-game bearer token on mutating
// endpoints. The token subject must match the game ID in the path.
func GameTokenRequired(validateToken TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c.Get("Authorization"))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
				Error: "missing authorization token",
				Code:  core.ErrUnauthorized,
			})
		}

		gameID, err := validateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
				Error: "invalid or expired token",
				Code:  core.ErrUnauthorized,
			})
		}

		if gameID != c.Params("gameId") {
			return c.Status(fiber.StatusForbidden).JSON(core.ErrorResponse{
				Error: "token was issued for a different game",
				Code:  core.ErrUnauthorized,
			})
		}

		c.Locals("gameID", gameID)
		return c.Next()
	}
}

// extractBearerToken extracts the token from an Authorization header
func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}
