package handlers

import (
	"errors"

	"sudshine/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errorResponse maps the booking domain errors onto HTTP statuses. Callers
// hand it any controller error; unrecognized errors become a 500 without
// leaking internals.
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrInvalidRating),
		errors.Is(err, models.ErrCommentTooLong),
		errors.Is(err, models.ErrNothingToUpdate):
		status = fiber.StatusBadRequest
		message = err.Error()
	case errors.Is(err, models.ErrUnauthorized):
		status = fiber.StatusForbidden
		message = "Not allowed"
	case errors.Is(err, models.ErrNotFound):
		status = fiber.StatusNotFound
		message = "Not found"
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrDuplicateReview),
		errors.Is(err, models.ErrConcurrencyConflict):
		status = fiber.StatusConflict
		message = err.Error()
	case errors.Is(err, models.ErrDownstreamUnavailable):
		status = fiber.StatusBadGateway
		message = "Notification channel unavailable"
	}

	return c.Status(status).JSON(fiber.Map{"error": message})
}
