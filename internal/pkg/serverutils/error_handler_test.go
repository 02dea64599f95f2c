package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"lecturenotes-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nopLogger satisfies logger.ILogger for tests.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(nopLogger{}))
	app.Get("/test", handler)
	return app
}

func doRequest(t *testing.T, app *fiber.App) (int, ApiResponse) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope ApiResponse
	require.NoError(t, json.Unmarshal(body, &envelope))
	return resp.StatusCode, envelope
}

func TestErrorHandlerMiddleware(t *testing.T) {
	t.Run("app error keeps status and fields", func(t *testing.T) {
		app := newTestApp(func(c *fiber.Ctx) error {
			return apperror.NewValidation("Validation failed",
				apperror.FieldError{Field: "email", Message: "Must be a valid email address"})
		})

		status, envelope := doRequest(t, app)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.False(t, envelope.Success)
		assert.Equal(t, "Validation failed", envelope.Message)
		require.Len(t, envelope.Errors, 1)
		assert.Equal(t, "email", envelope.Errors[0].Field)
	})

	t.Run("not found error", func(t *testing.T) {
		app := newTestApp(func(c *fiber.Ctx) error {
			return apperror.NewNotFound("note")
		})

		status, envelope := doRequest(t, app)
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Equal(t, "note not found", envelope.Message)
	})

	t.Run("fiber error passes through", func(t *testing.T) {
		app := newTestApp(func(c *fiber.Ctx) error {
			return fiber.ErrUnauthorized
		})

		status, envelope := doRequest(t, app)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.False(t, envelope.Success)
	})

	t.Run("unknown error becomes 500", func(t *testing.T) {
		app := newTestApp(func(c *fiber.Ctx) error {
			return errors.New("something internal leaked")
		})

		status, envelope := doRequest(t, app)
		assert.Equal(t, fiber.StatusInternalServerError, status)
		assert.Equal(t, "Internal server error", envelope.Message)
	})

	t.Run("success untouched", func(t *testing.T) {
		app := newTestApp(func(c *fiber.Ctx) error {
			return c.JSON(SuccessResponse("ok", fiber.Map{"value": 1}))
		})

		status, envelope := doRequest(t, app)
		assert.Equal(t, fiber.StatusOK, status)
		assert.True(t, envelope.Success)
	})
}

func TestValidateRequest(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required,min=3"`
	}

	t.Run("valid payload", func(t *testing.T) {
		err := ValidateRequest(payload{Email: "a@b.com", Name: "abc"})
		assert.NoError(t, err)
	})

	t.Run("invalid payload yields field errors", func(t *testing.T) {
		err := ValidateRequest(payload{Email: "nope", Name: "x"})
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, fiber.StatusBadRequest, appErr.Status)
		require.Len(t, appErr.Errs, 2)
		assert.Equal(t, "email", appErr.Errs[0].Field)
		assert.Equal(t, "name", appErr.Errs[1].Field)
	})
}
