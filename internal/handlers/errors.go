package handlers

import (
	"errors"

	"buynest/internal/ident"
	"buynest/internal/services"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps service-level errors onto HTTP statuses. Validation
// and duplicate identifiers report as 400 to match the public API; anything
// outside the taxonomy is a collaborator fault and reports as 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrMissingField),
		errors.Is(err, ident.ErrInvalidFragment),
		errors.Is(err, services.ErrInvalidPhone),
		errors.Is(err, services.ErrDuplicateIdentifier):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrSupplierNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// errorJSON renders the standard error body.
func errorJSON(c *fiber.Ctx, message string, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
