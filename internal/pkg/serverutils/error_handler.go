package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"lecturenotes-be/internal/pkg/logger"
	"lecturenotes-be/pkg/apperror"
)

// ErrorHandlerMiddleware turns errors bubbling out of handlers into the
// standard envelope. Application errors keep their status and field errors;
// anything unrecognized becomes a 500 and gets logged with its cause.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Status >= fiber.StatusInternalServerError {
				log.Error("http", appErr.Message, map[string]interface{}{
					"code":  appErr.Code,
					"path":  ctx.Path(),
					"error": err.Error(),
				})
			}
			return ctx.Status(appErr.Status).JSON(ErrorResponse(appErr.Message, appErr.Errs))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message, nil))
		}

		log.Error("http", "Unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse("Internal server error", nil))
	}
}
