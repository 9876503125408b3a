package controllers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ringstats-backend/middleware"
	"ringstats-backend/models"
	"ringstats-backend/users"
)

func authApp(t *testing.T, production bool) (*fiber.App, *recordingMailer) {
	t.Helper()
	mailer := &recordingMailer{}
	ac := NewAuthController(users.NewMemoryRepository(), mailer, AuthConfig{
		JWTSecret:   testSecret,
		FrontendURL: "http://front.example",
		Production:  production,
		BcryptCost:  bcrypt.MinCost,
	})
	app := newApp()
	requireAuth := middleware.RequireAuth(testSecret)
	auth := app.Group("/api/auth")
	auth.Post("/register", ac.Register)
	auth.Get("/verify", ac.VerifyEmail)
	auth.Post("/resend", ac.ResendVerification)
	auth.Post("/login", ac.Login)
	auth.Get("/me", requireAuth, ac.GetMe)
	auth.Post("/promote", requireAuth, ac.Promote)
	return app, mailer
}

var fan = models.Credentials{Email: "fan@example.com", Password: "hunter22hunter"}

func TestRegisterVerifyLogin(t *testing.T) {
	app, mailer := authApp(t, false)

	status, _ := do(t, app, http.MethodPost, "/api/auth/register", fan, "")
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, mailer.verifications, 1)

	status, body := do(t, app, http.MethodPost, "/api/auth/login", fan, "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, string(body), "requiresVerification")

	link, err := url.Parse(mailer.verifications[0])
	require.NoError(t, err)
	assert.Equal(t, "/verify-email", link.Path)
	status, _ = do(t, app, http.MethodGet, "/api/auth/verify?"+link.RawQuery, nil, "")
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, app, http.MethodGet, "/api/auth/verify?"+link.RawQuery, nil, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPost, "/api/auth/login", models.Credentials{Email: fan.Email, Password: "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = do(t, app, http.MethodPost, "/api/auth/login", fan, "")
	require.Equal(t, http.StatusOK, status)
	token := decodeJSON[map[string]string](t, body)["token"]
	require.NotEmpty(t, token)

	status, body = do(t, app, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, status)
	me := decodeJSON[models.User](t, body)
	assert.Equal(t, fan.Email, me.Email)
	assert.True(t, me.Verified)
	assert.False(t, me.IsAdmin)
}

func TestRegisterRejectsDuplicatesAndBadInput(t *testing.T) {
	app, _ := authApp(t, false)

	status, _ := do(t, app, http.MethodPost, "/api/auth/register", fan, "")
	require.Equal(t, http.StatusCreated, status)
	status, _ = do(t, app, http.MethodPost, "/api/auth/register", fan, "")
	assert.Equal(t, http.StatusConflict, status)

	status, body := do(t, app, http.MethodPost, "/api/auth/register", models.Credentials{Email: "nope", Password: "short"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	resp := decodeJSON[struct {
		Fields map[string]string `json:"fields"`
	}](t, body)
	assert.Contains(t, resp.Fields, "email")
	assert.Contains(t, resp.Fields, "password")
}

func TestResendVerification(t *testing.T) {
	app, mailer := authApp(t, false)

	status, body := do(t, app, http.MethodPost, "/api/auth/resend", map[string]string{"email": "ghost@example.com"}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "If your email exists")
	assert.Empty(t, mailer.verifications)

	do(t, app, http.MethodPost, "/api/auth/register", fan, "")
	status, _ = do(t, app, http.MethodPost, "/api/auth/resend", map[string]string{"email": fan.Email}, "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, mailer.verifications, 2)
	assert.Equal(t, mailer.verifications[0], mailer.verifications[1])
}

func TestPromote(t *testing.T) {
	app, _ := authApp(t, false)
	do(t, app, http.MethodPost, "/api/auth/register", fan, "")

	status, body := do(t, app, http.MethodPost, "/api/auth/promote", nil, tokenFor(t, 1, false))
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"isAdmin":true`)

	status, _ = do(t, app, http.MethodPost, "/api/auth/promote", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	prod, _ := authApp(t, true)
	status, _ = do(t, prod, http.MethodPost, "/api/auth/promote", nil, tokenFor(t, 1, false))
	assert.Equal(t, http.StatusForbidden, status)
}
