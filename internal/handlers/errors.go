package handlers

import (
	"errors"
	"fmt"
	"log"

	"bookrental/internal/services"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error to a status code and a JSON body.
func respondError(c *fiber.Ctx, err error) error {
	var (
		validationErr *services.ValidationError
		paymentErr    *services.PaymentMismatchError
		serviceErr    *services.Error
	)

	message := err.Error()
	if errors.As(err, &serviceErr) {
		message = serviceErr.Message
	}

	switch {
	case errors.As(err, &validationErr):
		return fail(c, fiber.StatusBadRequest, validationErr.Message)
	case errors.As(err, &paymentErr):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"success": false,
			"message": fmt.Sprintf("overdue fee not paid. required charge: %d", paymentErr.Required),
			"charge":  paymentErr.Required,
		})
	case errors.Is(err, services.ErrNotEligible):
		return fail(c, fiber.StatusForbidden, "rental age restricted")
	case errors.Is(err, services.ErrNotFound):
		return fail(c, fiber.StatusNotFound, message)
	case errors.Is(err, services.ErrDuplicateEmail):
		return fail(c, fiber.StatusConflict, message)
	case errors.Is(err, services.ErrAuthentication), errors.Is(err, services.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, message)
	case errors.Is(err, services.ErrPersistence):
		log.Printf("DB ERROR on %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": message,
			"error":   err.Error(),
		})
	default:
		log.Printf("Unexpected error on %s %s: %v", c.Method(), c.Path(), err)
		return fail(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func invalidBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing request body on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
