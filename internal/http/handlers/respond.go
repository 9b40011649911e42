package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"swapflow/internal/domain"
)

// fail maps an error kind to its HTTP status and renders the JSON error body.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		status = fiber.StatusForbidden
	case errors.Is(err, domain.ErrInvalidState):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{"detail": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": msg})
}
