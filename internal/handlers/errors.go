package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"pasartani/internal/models"
)

// statusForError maps typed domain errors to HTTP status codes. Anything
// unrecognized is a 500.
func statusForError(err error) int {
	var (
		validationErr   *models.ValidationError
		harvestErr      *models.HarvestDateError
		seasonErr       *models.OutOfSeasonError
		deliveryErr     *models.DeliveryUnavailableError
		stockErr        *models.InsufficientStockError
		notFoundErr     *models.NotFoundError
		subscriptionErr *models.DuplicateSubscriptionError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &harvestErr):
		return fiber.StatusBadRequest
	case errors.As(err, &seasonErr), errors.As(err, &deliveryErr), errors.As(err, &stockErr):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &notFoundErr):
		return fiber.StatusNotFound
	case errors.As(err, &subscriptionErr):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// errorResponse writes the standard error body.
func errorResponse(c *fiber.Ctx, message string, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
