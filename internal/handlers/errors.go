package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/mrzion/internal/repository"
	"github.com/example/mrzion/internal/services"
	"github.com/example/mrzion/internal/utils"
)

// ErrorHandler renders every error returned by a handler as
// {"success": false, "error": ...}. Errors without a known mapping become a
// generic 500.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		body := fiber.Map{"success": false}

		var validationErr *utils.ValidationError
		var fieldErr *services.FieldError
		var fiberErr *fiber.Error

		status := fiber.StatusInternalServerError
		message := "internal server error"

		switch {
		case errors.As(err, &validationErr):
			status = fiber.StatusBadRequest
			message = "validation failed"
			body["fields"] = validationErr.Fields
		case errors.As(err, &fieldErr):
			status = statusFor(fieldErr.Err)
			message = fieldErr.Message
			body["fields"] = fiber.Map{fieldErr.Field: fieldErr.Message}
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			message = fiberErr.Message
		default:
			if mapped := statusFor(err); mapped != fiber.StatusInternalServerError {
				status = mapped
				message = publicMessage(err)
			}
		}

		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		body["error"] = message
		return c.Status(status).JSON(body)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidPaymentType),
		errors.Is(err, services.ErrMissingField),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidSignature),
		errors.Is(err, services.ErrInvalidPayload):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, repository.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrGatewayUnavailable):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func publicMessage(err error) string {
	for _, sentinel := range []error{
		services.ErrInvalidPaymentType,
		services.ErrMissingField,
		services.ErrInvalidAmount,
		services.ErrInvalidSignature,
		services.ErrInvalidPayload,
		services.ErrItemNotFound,
		services.ErrGatewayUnavailable,
		repository.ErrNotFound,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal server error"
}
