package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// NotFoundError marks a missing resource so the handler chain maps it to 404
// instead of 500.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ErrorHandlerMiddleware converts errors bubbling out of controllers into
// the JSON envelope every endpoint uses.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError

		var notFound *NotFoundError
		var fiberErr *fiber.Error
		var validationErr *ValidationError
		switch {
		case errors.As(err, &notFound):
			status = fiber.StatusNotFound
		case errors.As(err, &validationErr):
			status = fiber.StatusBadRequest
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
		}

		return ctx.Status(status).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
}
