package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const PlayerIDHeader = "X-Player-ID"

// EnsurePlayerID resolves the caller's player ID from the X-Player-ID header
// or the playerId query parameter and stores it in c.Locals("playerID").
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Check if playerID is already set
		if id, ok := c.Locals("playerID").(string); ok && id != "" {
			return c.Next()
		}

		// Check header first
		playerID := strings.TrimSpace(c.Get(PlayerIDHeader))
		if playerID == "" {
			playerID = strings.TrimSpace(c.Query("playerId"))
		}
		if playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		// Store in context for this request
		c.Locals("playerID", playerID)
		return c.Next()
	}
}
