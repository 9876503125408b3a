package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-secret"

func call(t *testing.T, app *fiber.App, path, auth string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func authApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", RequireAuth(secret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": UserID(c), "admin": IsAdmin(c)})
	})
	app.Get("/admin", RequireAuth(secret), RequireAdmin, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	app := authApp()

	token, err := IssueToken(secret, 12, true)
	require.NoError(t, err)
	status, body := call(t, app, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id":12,"admin":true}`, body)

	cases := map[string]string{
		"missing":      "",
		"not bearer":   "Token " + token,
		"wrong secret": "Bearer " + mustSign(t, "other", jwt.MapClaims{"user_id": 1, "exp": time.Now().Add(time.Hour).Unix()}),
		"expired":      "Bearer " + mustSign(t, secret, jwt.MapClaims{"user_id": 1, "exp": time.Now().Add(-time.Hour).Unix()}),
		"no user id":   "Bearer " + mustSign(t, secret, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}),
	}
	for name, header := range cases {
		status, _ := call(t, app, "/me", header)
		assert.Equal(t, http.StatusUnauthorized, status, name)
	}
}

func TestRequireAuthRejectsOtherAlgorithms(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"user_id": 1, "exp": time.Now().Add(time.Hour).Unix()})
	signed, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)

	status, _ := call(t, authApp(), "/me", "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRequireAdmin(t *testing.T) {
	app := authApp()
	user, _ := IssueToken(secret, 1, false)
	admin, _ := IssueToken(secret, 2, true)

	status, _ := call(t, app, "/admin", "Bearer "+user)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = call(t, app, "/admin", "Bearer "+admin)
	assert.Equal(t, http.StatusOK, status)
}

func mustSign(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func TestErrorHandling(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(RequestLogger)
	app.Use(recover.New())
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("database exploded") })
	app.Get("/panic", func(c *fiber.Ctx) error { panic("unexpected") })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Use(NotFound)

	status, body := call(t, app, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"Something went wrong!"}`, body)

	status, body = call(t, app, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"Something went wrong!"}`, body)

	status, body = call(t, app, "/teapot", "")
	assert.Equal(t, http.StatusTeapot, status)
	assert.JSONEq(t, `{"error":"short and stout"}`, body)

	status, body = call(t, app, "/missing", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"Route not found"}`, body)
}
