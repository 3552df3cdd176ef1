package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/hoangnqjl/MaroMart/internal/errs"
)

// fail maps a domain error onto the HTTP taxonomy. Anything unmapped is
// a 500; persistence failures are surfaced, not retried.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, errs.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, errs.ErrInvalidPair),
		errors.Is(err, errs.ErrInvalidMedia),
		errors.Is(err, errs.ErrUnknownType):
		status = fiber.StatusBadRequest
	case errors.Is(err, errs.ErrInvalidCredential):
		status = fiber.StatusUnauthorized
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
