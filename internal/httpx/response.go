// Package httpx holds the shared JSON response shapes for the Fiber handlers.
package httpx

import (
	"github.com/gofiber/fiber/v2"

	"invitacion-boda/internal/service"
)

// JsonOK writes a standard success envelope.
func JsonOK(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// JsonCreated writes a standard create-success envelope.
func JsonCreated(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// JsonError writes a standard failure envelope.
func JsonError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// FromResult translates a service result into the matching HTTP response.
// Service failures carry user-facing Spanish messages already.
func FromResult(c *fiber.Ctx, r service.Result, data any) error {
	if r.Success {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": true,
			"message": r.Message,
			"data":    data,
		})
	}
	return JsonError(c, statusFor(r.Kind), r.Message)
}

func statusFor(kind service.FailureKind) int {
	switch kind {
	case service.FailureValidation:
		return fiber.StatusBadRequest
	case service.FailureNotFound:
		return fiber.StatusNotFound
	case service.FailureBackend:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
