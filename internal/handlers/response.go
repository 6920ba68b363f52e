package handlers

import (
	"errors"
	"log/slog"
	"strings"

	"pizza-builder-backend/internal/orders"
	"pizza-builder-backend/internal/pricing"
	"pizza-builder-backend/internal/store"
	"pizza-builder-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respond writes the success envelope.
func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// ErrorHandler maps errors returned by handlers onto the response envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		verrs    *validation.Errors
		mismatch *pricing.PriceMismatchError
		fiberErr *fiber.Error
	)
	switch {
	case errors.As(err, &verrs):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  verrs.Fields,
		})
	case errors.As(err, &mismatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Prices have changed, please refresh your cart",
			"errors": []validation.FieldError{{
				Field:   mismatch.Field,
				Message: mismatch.Error(),
			}},
		})
	case errors.Is(err, store.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "Resource not found")
	case errors.Is(err, store.ErrDuplicate):
		return fail(c, fiber.StatusConflict, "Resource already exists")
	case errors.Is(err, orders.ErrInvalidTransition):
		return fail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, store.ErrConflict):
		return fail(c, fiber.StatusConflict, "Resource was modified by another request, please retry")
	case errors.Is(err, orders.ErrOrderNumberExhausted), errors.Is(err, store.ErrUnavailable):
		slog.Error("service unavailable", "path", c.Path(), "error", err)
		return fail(c, fiber.StatusServiceUnavailable, "Service temporarily unavailable, please retry")
	case errors.As(err, &fiberErr):
		return fail(c, fiberErr.Code, fiberErr.Message)
	}

	slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return fail(c, fiber.StatusInternalServerError, "Internal server error")
}

// parseBody decodes a JSON object body for the validation gate.
func parseBody(c *fiber.Ctx) (map[string]any, error) {
	var payload map[string]any
	if err := c.BodyParser(&payload); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return payload, nil
}

// parseID validates the :id route parameter before any lookup.
func parseID(c *fiber.Ctx, gate *validation.Gate) (uuid.UUID, error) {
	raw := c.Params("id")
	if err := gate.CheckID(raw); err != nil {
		return uuid.Nil, err
	}
	return uuid.MustParse(strings.TrimSpace(raw)), nil
}
