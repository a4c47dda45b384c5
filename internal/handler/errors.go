package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Chawketodeh/eventy-events-platform/internal/apperror"
	"github.com/Chawketodeh/eventy-events-platform/internal/models"
)

const internalErrorMessage = "Internal server error"

// statusFor maps an error to its HTTP status and the message shown to the
// client. Unclassified errors never leak their text.
func statusFor(err error) (int, string) {
	var appErr *apperror.AppError
	message := internalErrorMessage
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return fiber.StatusNotFound, message
	case errors.Is(err, apperror.ErrUnauthorized):
		return fiber.StatusUnauthorized, message
	case errors.Is(err, apperror.ErrForbidden):
		return fiber.StatusForbidden, message
	case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrSignature):
		return fiber.StatusBadRequest, message
	case errors.Is(err, apperror.ErrConflict):
		return fiber.StatusConflict, message
	}
	return fiber.StatusInternalServerError, internalErrorMessage
}

func writeError(c *fiber.Ctx, log *zap.Logger, err error) error {
	status, message := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.Status(status).JSON(models.ErrorResponse(message))
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(message))
}
