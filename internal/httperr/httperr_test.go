package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	require.Equal(t, 404, StatusOf(NotFound("nope")))
	require.Equal(t, 409, StatusOf(fmt.Errorf("wrap: %w", Conflict("busy"))))
	require.Equal(t, 403, StatusOf(fiber.ErrForbidden))
	require.Equal(t, 500, StatusOf(errors.New("db down")))
	require.Equal(t, "Internal server error", Public(errors.New("db down")))
}

func TestRespondValidation(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: Handler})
	app.Get("/", func(c *fiber.Ctx) error {
		errs := FieldErrors{}
		errs.Add("title", "Title is required")
		return Validation(errs)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	require.Equal(t, 400, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var body struct {
		Success bool                `json:"success"`
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.False(t, body.Success)
	require.Equal(t, []string{"Title is required"}, body.Errors["title"])
}

func TestRespondHidesInternalErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: Handler})
	app.Get("/", func(c *fiber.Ctx) error {
		return errors.New("pq: connection refused")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	require.Equal(t, 500, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	require.NotContains(t, string(raw), "connection refused")
}
