package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"mindmap/internal/services"
)

// UserKey is the Locals key under which the resolved *models.User is stored.
const UserKey = "current_user"

// AuthRequired is a Fiber middleware that validates the bearer token and
// resolves the calling user for subsequent handlers.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authorization header format must be 'Bearer <token>'",
			})
		}

		user, err := authService.CurrentUser(parts[1])
		if err != nil {
			log.Printf("Token resolution failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Invalid or expired token",
			})
		}

		c.Locals(UserKey, user)

		return c.Next()
	}
}
