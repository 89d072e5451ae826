package middleware

import (
	"log"
	"strings"

	"eltetu/internal/models"
	"eltetu/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		tokenString := parts[1]

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		// Store the principal in the Fiber context for subsequent handlers
		c.Locals("user_id", claims["user_id"])
		c.Locals("email", claims["email"])
		c.Locals("rol", claims["rol"])

		// Continue to the next handler
		return c.Next()
	}
}

// Principal rebuilds the authenticated principal from the request context.
// Only valid after AuthRequired ran.
func Principal(c *fiber.Ctx) services.Principal {
	p := services.Principal{}
	if id, ok := c.Locals("user_id").(string); ok {
		p.UserID = id
	}
	if email, ok := c.Locals("email").(string); ok {
		p.Email = email
	}
	if rol, ok := c.Locals("rol").(string); ok {
		p.Rol = models.Role(rol)
	}
	return p
}

// RequireRoles restricts a route to the given roles; evaluated once at the
// boundary so handlers and services only see authorized principals.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := Principal(c)
		for _, role := range roles {
			if p.Rol == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Insufficient permissions",
		})
	}
}
