package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ringstats-backend/logger"
)

// ErrorHandler is the app-wide fallback for errors returned by handlers.
// Fiber errors keep their status; everything else becomes a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code == fiber.StatusNotFound {
			return c.Status(fe.Code).JSON(fiber.Map{"error": "Route not found"})
		}
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	requestID, _ := c.Locals("requestid").(string)
	logger.Log.WithField("request_id", requestID).WithError(err).Error("Unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong!"})
}

// NotFound answers any request no route matched.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Route not found"})
}
