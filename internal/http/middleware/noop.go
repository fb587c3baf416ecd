package middleware

import "github.com/gofiber/fiber/v2"

// Noop simply calls the next handler. It anchors the middleware wiring tests.
func Noop() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Next()
	}
}
