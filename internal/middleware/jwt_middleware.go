package middleware

import (
	"errors"
	"log"
	"strings"

	"bookrental/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Keys under which AuthRequired stores the session in fiber.Ctx Locals.
const (
	LocalUserID = "user_id"
	LocalToken  = "token"
)

// AuthRequired is a Fiber middleware that requires a bearer token belonging
// to an active session.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		session, err := authService.Authenticate(parts[1])
		if err != nil {
			log.Printf("Authentication failed: %v", err)
			if errors.Is(err, services.ErrPersistence) {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"message": "DB ERROR",
					"error":   err.Error(),
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid or expired token",
			})
		}

		c.Locals(LocalUserID, session.UserID)
		c.Locals(LocalToken, session.Token)
		return c.Next()
	}
}

// SessionFrom returns the session stored by AuthRequired. The zero Session
// is returned when the request was not authenticated.
func SessionFrom(c *fiber.Ctx) services.Session {
	userID, _ := c.Locals(LocalUserID).(uint)
	token, _ := c.Locals(LocalToken).(string)
	return services.Session{UserID: userID, Token: token}
}
