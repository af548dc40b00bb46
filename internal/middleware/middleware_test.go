package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/utils"
)

const secret = "test-secret"

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: httperr.Handler})
	protected := app.Group("/", JWTFromCookie(secret), AttachJWTLocals())
	protected.Get("/me", func(c *fiber.Ctx) error {
		uid, err := UserID(c)
		if err != nil {
			return err
		}
		return c.SendString(uid.String() + ":" + Role(c))
	})
	protected.Get("/admin", RequireRoles("admin"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func request(t *testing.T, app *fiber.App, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Cookie", utils.CookieName+"="+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestMissingCookie(t *testing.T) {
	status, _ := request(t, newApp(), "/me", "")
	require.Equal(t, 401, status)
}

func TestBadToken(t *testing.T) {
	status, _ := request(t, newApp(), "/me", "garbage")
	require.Equal(t, 401, status)
}

func TestLocalsAndRoles(t *testing.T) {
	uid := uuid.New()
	tok, err := utils.SignJWT(secret, uid.String(), "Repairman", 5)
	require.NoError(t, err)

	app := newApp()
	status, body := request(t, app, "/me", tok)
	require.Equal(t, 200, status)
	require.Equal(t, uid.String()+":repairman", body)

	status, _ = request(t, app, "/admin", tok)
	require.Equal(t, 403, status)

	adminTok, err := utils.SignJWT(secret, uuid.NewString(), "admin", 5)
	require.NoError(t, err)
	status, body = request(t, app, "/admin", adminTok)
	require.Equal(t, 200, status)
	require.Equal(t, "ok", body)
}

func TestNonUUIDSubject(t *testing.T) {
	tok, err := utils.SignJWT(secret, "42", "owner", 5)
	require.NoError(t, err)
	status, _ := request(t, newApp(), "/me", tok)
	require.Equal(t, 401, status)
}
